package invoicekit

import "strings"

// FallbackSymbol is printed when a currency code is not in the table.
const FallbackSymbol = "$"

// Currency is one entry of a currency table.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// CurrencyTable is an ordered set of currencies, looked up by code.
type CurrencyTable []Currency

// DefaultCurrencies is the table offered by the generator form.
var DefaultCurrencies = CurrencyTable{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "CHF", Symbol: "CHF ", Name: "Swiss Franc"},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	{Code: "NGN", Symbol: "₦", Name: "Nigerian Naira"},
	{Code: "ZAR", Symbol: "R", Name: "South African Rand"},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real"},
	{Code: "MXN", Symbol: "MX$", Name: "Mexican Peso"},
	{Code: "KES", Symbol: "KSh", Name: "Kenyan Shilling"},
	{Code: "GHS", Symbol: "GH₵", Name: "Ghanaian Cedi"},
}

// Lookup returns the currency with the given code.
func (t CurrencyTable) Lookup(code string) (Currency, bool) {
	code = strings.TrimSpace(code)
	for _, c := range t {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Currency{}, false
}

// Symbol resolves code to its symbol, falling back to "$".
func (t CurrencyTable) Symbol(code string) string {
	if c, ok := t.Lookup(code); ok && c.Symbol != "" {
		return c.Symbol
	}
	return FallbackSymbol
}
