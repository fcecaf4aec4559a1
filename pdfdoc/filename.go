package pdfdoc

import (
	"strconv"
	"strings"
	"time"

	"github.com/lvillar/invoicekit"
)

// Filename returns the download name for a rendered document:
// "{invoice|receipt}_{documentNumber}.pdf", or the Unix time in
// milliseconds when the number is empty. Path separators are removed.
func Filename(t invoicekit.DocumentType, documentNumber string, now time.Time) string {
	if t != invoicekit.Receipt {
		t = invoicekit.Invoice
	}
	id := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return -1
		}
		return r
	}, strings.TrimSpace(documentNumber))
	if id == "" || strings.Trim(id, ".") == "" {
		id = strconv.FormatInt(now.UnixMilli(), 10)
	}
	return string(t) + "_" + id + ".pdf"
}
