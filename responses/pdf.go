package responses

import (
	"fmt"
	"net/http"
	"strconv"
)

func WritePDFBytesWithFilename(w http.ResponseWriter, filename string, PDFBytes []byte) {
	w.Header().Set("Content-Length", strconv.Itoa(len(PDFBytes)))
	WritePDFResponseHeaders(w, filename)
	// a failed write means the client is gone
	_, _ = w.Write(PDFBytes)
}

// WritePDFResponseHeaders write HTTP response headers for a PDF download. i.e. headers are frozen
func WritePDFResponseHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK) // Response Header Sent & Frozen
}
