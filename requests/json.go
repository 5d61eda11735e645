package requests

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// MaxJSONBodyBytes bounds request bodies; invoices may carry a base64 logo
const MaxJSONBodyBytes = 8 << 20

var ErrEmptyBody = errors.New("empty request body")

// DecodeJSON reads the body into dst. Fields not in the body keep their
// current values in dst, so decoding over a loaded record patches it.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// QueryInt reads a positive integer query parameter, def when absent or invalid
func QueryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}
