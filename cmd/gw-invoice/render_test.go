package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

const invoiceJSON = `{
	"invoiceNumber": "INV-77",
	"billTo": {"name": "Globex"},
	"from": {"name": "Acme"},
	"items": [{"description": "Design", "quantity": 1, "rate": 100, "amount": 100}],
	"currency": "USD"
}`

func TestRenderInvoicePDF(t *testing.T) {
	rec := writeFile(t, "inv.json", invoiceJSON)
	var out bytes.Buffer
	require.NoError(t, runRender(renderOpts{kind: "invoice", record: rec}, &out))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
}

func TestRenderOpsWithTemplate(t *testing.T) {
	rec := writeFile(t, "inv.json", invoiceJSON)
	tpl := writeFile(t, "tpl.json", `{"name": "Red", "type": "invoice", "layoutJSON": {"color": "#ff0000"}}`)
	var out bytes.Buffer
	require.NoError(t, runRender(renderOpts{kind: "invoice", record: rec, template: tpl, ops: true}, &out))
	assert.Contains(t, out.String(), `"INV-77"`)
	assert.Contains(t, out.String(), "#ff0000")
}

func TestRenderReceiptOps(t *testing.T) {
	rec := writeFile(t, "rec.json", `{"receiptNumber": "REC-5", "paidAmount": 12}`)
	var out bytes.Buffer
	require.NoError(t, runRender(renderOpts{kind: "receipt", record: rec, ops: true}, &out))
	assert.Contains(t, out.String(), `"REC-5"`)
}

func TestRenderErrors(t *testing.T) {
	rec := writeFile(t, "inv.json", invoiceJSON)
	var out bytes.Buffer
	assert.ErrorContains(t, runRender(renderOpts{kind: "letter", record: rec}, &out), "unknown kind")
	assert.Error(t, runRender(renderOpts{kind: "invoice", record: filepath.Join(t.TempDir(), "missing.json")}, &out))
	bad := writeFile(t, "bad.json", "{")
	assert.Error(t, runRender(renderOpts{kind: "invoice", record: bad}, &out))
	assert.Zero(t, out.Len())
}

func TestRenderCommandWritesFile(t *testing.T) {
	rec := writeFile(t, "inv.json", invoiceJSON)
	dst := filepath.Join(t.TempDir(), "out.pdf")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"render", "--kind", "invoice", "--record", rec, "--out", dst})
	require.NoError(t, cmd.Execute())
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))

	cmd = newRootCmd()
	cmd.SetArgs([]string{"render", "--kind", "invoice"})
	assert.Error(t, cmd.Execute(), "record is required")
}
