package responses

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteSimpleErrorJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSimpleErrorJSON(rec, http.StatusNotFound, "Route not found")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"type":"error","message":"Route not found"}`, rec.Body.String())
}

func TestEncodeWriteJSONBadPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	EncodeWriteJSON(rec, http.StatusOK, map[string]any{"f": func() {}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWritePDFBytesWithFilename(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePDFBytesWithFilename(rec, "invoice_42.pdf", []byte("%PDF-1.3"))
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=invoice_42.pdf", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "8", rec.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}
