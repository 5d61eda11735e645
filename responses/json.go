package responses

import (
	"encoding/json"
	"net/http"
)

// WriteJSONBytes Write Already Encoded JSON Bytes into the Response
// JSONBytes, err := json.Marshal(payload any)
func WriteJSONBytes(w http.ResponseWriter, HTTPStatusCode int, JSONBytes []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusCode) // Response Header Sent & Frozen
	// a failed write means the client is gone
	_, _ = w.Write(JSONBytes)
}

// EncodeWriteJSON Encode & Write Payload as JSON to the Response.
// Encoding happens before the header is sent, so a bad payload becomes a 500.
func EncodeWriteJSON(w http.ResponseWriter, HTTPStatusCode int, payload any) {
	JSONBytes, err := json.Marshal(payload)
	if err != nil {
		WriteJSONBytes(w, http.StatusInternalServerError, []byte(`{"type":"error","message":"failed to encode response"}`))
		return
	}
	WriteJSONBytes(w, HTTPStatusCode, append(JSONBytes, '\n'))
}

// WriteSimpleErrorJSON is a helper func same as EncodeWriteJSON
// but wrapping a string message into a simple Message without app logic code
func WriteSimpleErrorJSON(w http.ResponseWriter, HTTPStatusCode int, msg string) {
	EncodeWriteJSON(w, HTTPStatusCode, Message{Type: "error", Message: msg})
}

// WriteMessageJSON answers with a non-error Message
func WriteMessageJSON(w http.ResponseWriter, HTTPStatusCode int, msg string) {
	EncodeWriteJSON(w, HTTPStatusCode, Message{Type: "info", Message: msg})
}
