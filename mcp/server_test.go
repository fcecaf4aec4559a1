package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lvillar/invoicekit/kv"
	"github.com/lvillar/invoicekit/quota"
	"github.com/lvillar/invoicekit/service"
	"github.com/lvillar/invoicekit/store"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newServer(t *testing.T) *Server {
	t.Helper()
	mem := kv.NewMemory()
	svc := service.New(service.Deps{
		Store:  store.New(mem),
		Quota:  quota.New(mem, quota.Free),
		Logger: quiet,
	})
	s := NewServer(WithIO(nil, nil), WithLogger(quiet))
	RegisterTools(s, svc)
	RegisterResources(s, nil)
	return s
}

func sendRequest(t *testing.T, s *Server, method string, id int, params any) jsonrpcResponse {
	t.Helper()

	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	reqBytes = append(reqBytes, '\n')

	var output bytes.Buffer
	s.input = bytes.NewReader(reqBytes)
	s.output = &output

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var resp jsonrpcResponse
	if err := json.Unmarshal(output.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response %q: %v", output.String(), err)
	}
	return resp
}

// callTool returns the decoded ToolResult of a tools/call request.
func callTool(t *testing.T, s *Server, name string, args map[string]any) ToolResult {
	t.Helper()
	resp := sendRequest(t, s, "tools/call", 1, map[string]any{"name": name, "arguments": args})
	if resp.Error != nil {
		t.Fatalf("%s: unexpected error: %v", name, resp.Error.Message)
	}
	b, _ := json.Marshal(resp.Result)
	var res ToolResult
	if err := json.Unmarshal(b, &res); err != nil {
		t.Fatalf("%s: decoding result: %v", name, err)
	}
	return res
}

func acme() map[string]any {
	return map[string]any{
		"documentNumber": "INV-240101-42",
		"date":           "2024-01-01",
		"businessName":   "Acme",
		"clientName":     "Bob",
		"items":          []any{map[string]any{"description": "Widget", "quantity": 2, "price": 10}},
		"tax":            10,
		"currency":       "USD",
	}
}

func TestServerInitialize(t *testing.T) {
	s := newServer(t)

	resp := sendRequest(t, s, "initialize", 1, map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "1.0"},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatal("result is not a map")
	}
	if result["protocolVersion"] != ProtocolVersion {
		t.Fatalf("unexpected protocol version: %v", result["protocolVersion"])
	}
	serverInfo, ok := result["serverInfo"].(map[string]any)
	if !ok {
		t.Fatal("missing serverInfo")
	}
	if serverInfo["name"] != "invoicekit-mcp" {
		t.Fatalf("unexpected server name: %v", serverInfo["name"])
	}
}

func TestServerToolsList(t *testing.T) {
	s := newServer(t)

	resp := sendRequest(t, s, "tools/list", 2, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result := resp.Result.(map[string]any)
	tools, ok := result["tools"].([]any)
	if !ok {
		t.Fatal("tools is not an array")
	}

	var names []string
	for _, tool := range tools {
		if tm, ok := tool.(map[string]any); ok {
			names = append(names, tm["name"].(string))
		}
	}
	want := []string{
		"delete_client_template", "delete_draft", "generate_document", "list_client_templates",
		"list_drafts", "list_history", "new_document_number", "preview_document",
		"save_client_template", "save_draft", "usage", "validate_document",
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("tools = %v\nwant %v", names, want)
	}
}

func TestServerResources(t *testing.T) {
	s := newServer(t)

	resp := sendRequest(t, s, "resources/list", 3, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	resources := resp.Result.(map[string]any)["resources"].([]any)
	if len(resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resources))
	}

	resp = sendRequest(t, s, "resources/read", 4, map[string]any{"uri": "invoicekit://currencies"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	b, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(b), `\"code\": \"EUR\"`) {
		t.Errorf("currencies resource = %s", b)
	}

	resp = sendRequest(t, s, "resources/read", 5, map[string]any{"uri": "invoicekit://nope"})
	if resp.Error == nil {
		t.Error("expected error for unknown resource")
	}
}

func TestServerPing(t *testing.T) {
	s := newServer(t)
	if resp := sendRequest(t, s, "ping", 4, nil); resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
}

func TestServerUnknownMethod(t *testing.T) {
	s := newServer(t)

	resp := sendRequest(t, s, "nonexistent/method", 5, nil)
	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected error code %d, got %d", codeMethodNotFound, resp.Error.Code)
	}
}

func TestServerUnknownTool(t *testing.T) {
	s := newServer(t)

	resp := sendRequest(t, s, "tools/call", 6, map[string]any{
		"name":      "nonexistent_tool",
		"arguments": map[string]any{},
	})
	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestGenerateDocumentTool(t *testing.T) {
	s := newServer(t)

	res := callTool(t, s, "generate_document", map[string]any{
		"type":   "invoice",
		"theme":  "modern",
		"record": acme(),
	})
	if res.IsError {
		t.Fatalf("tool error: %+v", res.Content)
	}
	if len(res.Content) != 2 {
		t.Fatalf("content blocks = %d, want 2", len(res.Content))
	}
	if !strings.Contains(res.Content[0].Text, "invoice_INV-240101-42.pdf") || !strings.Contains(res.Content[0].Text, "22.00") {
		t.Errorf("summary = %q", res.Content[0].Text)
	}
	pdf, err := base64.StdEncoding.DecodeString(res.Content[1].Data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("payload is not a PDF")
	}

	hist := callTool(t, s, "list_history", nil)
	if !strings.Contains(hist.Content[0].Text, "INV-240101-42") {
		t.Errorf("history = %s", hist.Content[0].Text)
	}
	usage := callTool(t, s, "usage", nil)
	if !strings.Contains(usage.Content[0].Text, `"invoice": 1`) {
		t.Errorf("usage = %s", usage.Content[0].Text)
	}
}

func TestGenerateDocumentValidationErrors(t *testing.T) {
	s := newServer(t)

	rec := acme()
	rec["clientName"] = ""
	res := callTool(t, s, "generate_document", map[string]any{"record": rec})
	if !res.IsError {
		t.Fatal("expected tool error")
	}
	if !strings.Contains(res.Content[0].Text, "clientName") {
		t.Errorf("result = %s", res.Content[0].Text)
	}
}

func TestPreviewDocumentToFile(t *testing.T) {
	s := newServer(t)
	out := filepath.Join(t.TempDir(), "preview.pdf")

	res := callTool(t, s, "preview_document", map[string]any{
		"type":       "receipt",
		"draft":      true,
		"code":       "qr",
		"outputPath": out,
		"record":     map[string]any{"businessName": "Acme", "clientName": "Bob", "amount": 50, "currency": "EUR"},
	})
	if res.IsError {
		t.Fatalf("tool error: %+v", res.Content)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Error("file is not a PDF")
	}
}

func TestValidateDocumentTool(t *testing.T) {
	s := newServer(t)

	res := callTool(t, s, "validate_document", map[string]any{"record": acme()})
	if !strings.Contains(res.Content[0].Text, `"valid": true`) {
		t.Errorf("result = %s", res.Content[0].Text)
	}

	rec := acme()
	rec["tax"] = 150
	res = callTool(t, s, "validate_document", map[string]any{"record": rec})
	if !strings.Contains(res.Content[0].Text, `"tax"`) {
		t.Errorf("result = %s", res.Content[0].Text)
	}

	res = callTool(t, s, "validate_document", map[string]any{"type": "quote", "record": acme()})
	if !res.IsError {
		t.Error("expected error for unknown type")
	}
}

func TestDraftTools(t *testing.T) {
	s := newServer(t)

	res := callTool(t, s, "save_draft", map[string]any{"record": acme()})
	var saved struct{ ID string }
	if err := json.Unmarshal([]byte(res.Content[0].Text), &saved); err != nil || saved.ID == "" {
		t.Fatalf("save_draft = %s, %v", res.Content[0].Text, err)
	}

	list := callTool(t, s, "list_drafts", nil)
	if !strings.Contains(list.Content[0].Text, saved.ID) {
		t.Errorf("list_drafts = %s", list.Content[0].Text)
	}

	if res := callTool(t, s, "delete_draft", map[string]any{"id": saved.ID}); res.IsError {
		t.Errorf("delete_draft: %+v", res.Content)
	}
	if res := callTool(t, s, "delete_draft", map[string]any{"id": saved.ID}); !res.IsError {
		t.Error("second delete should fail")
	}
}

func TestClientTemplateTools(t *testing.T) {
	s := newServer(t)

	res := callTool(t, s, "save_client_template", map[string]any{"clientName": "Bob", "clientDetails": "1 Main St"})
	var tpl store.ClientTemplate
	if err := json.Unmarshal([]byte(res.Content[0].Text), &tpl); err != nil {
		t.Fatal(err)
	}
	if tpl.Name != "Bob" {
		t.Errorf("template name = %q, want client name", tpl.Name)
	}

	list := callTool(t, s, "list_client_templates", nil)
	if !strings.Contains(list.Content[0].Text, "1 Main St") {
		t.Errorf("list = %s", list.Content[0].Text)
	}
	if res := callTool(t, s, "delete_client_template", map[string]any{"id": tpl.ID}); res.IsError {
		t.Errorf("delete: %+v", res.Content)
	}

	if res := callTool(t, s, "save_client_template", map[string]any{"name": "empty"}); !res.IsError {
		t.Error("template without client name should fail")
	}
}

func TestNewDocumentNumberTool(t *testing.T) {
	s := newServer(t)
	res := callTool(t, s, "new_document_number", map[string]any{"type": "receipt"})
	if !strings.HasPrefix(res.Content[0].Text, "REC-") {
		t.Errorf("number = %q", res.Content[0].Text)
	}
}

func TestServerMultipleRequests(t *testing.T) {
	requests := []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":4,"method":"ping"}`,
	}

	input := strings.Join(requests, "\n") + "\n"
	var output bytes.Buffer

	s := newServer(t)
	s.input = strings.NewReader(input)
	s.output = &output
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// the notification gets no response
	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 responses, got %d: %s", len(lines), output.String())
	}
	for i, line := range lines {
		var resp jsonrpcResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("response %d: unmarshal error: %v\nline: %s", i, err, line)
		}
		if resp.Error != nil {
			t.Errorf("response %d: unexpected error: %s", i, resp.Error.Message)
		}
	}
}

func TestToolAddTool(t *testing.T) {
	s := NewServer(WithIO(nil, nil), WithLogger(quiet))
	s.AddTool(Tool{
		Name:        "custom_tool",
		Description: "A custom test tool",
		InputSchema: object(nil),
		Handler: func(context.Context, map[string]any) (ToolResult, error) {
			return textResult("custom result"), nil
		},
	})

	resp := sendRequest(t, s, "tools/call", 1, map[string]any{
		"name":      "custom_tool",
		"arguments": map[string]any{},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	resultBytes, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(resultBytes), "custom result") {
		t.Fatalf("unexpected result: %s", string(resultBytes))
	}
}
