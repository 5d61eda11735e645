package requests

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", GetClientIP(r))

	r.Header.Set("X-Real-IP", " 10.0.0.2 ")
	assert.Equal(t, "10.0.0.2", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.3")
	assert.Equal(t, "203.0.113.9", GetClientIP(r))
}

func TestDecodeJSONPatches(t *testing.T) {
	type rec struct {
		A string `json:"a"`
		B string `json:"b"`
	}
	dst := rec{A: "keep", B: "old"}
	r := httptest.NewRequest("PUT", "/", strings.NewReader(`{"b":"new"}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), r, &dst))
	assert.Equal(t, rec{A: "keep", B: "new"}, dst)

	r = httptest.NewRequest("PUT", "/", strings.NewReader(""))
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &dst), ErrEmptyBody)

	r = httptest.NewRequest("PUT", "/", strings.NewReader("{"))
	assert.Error(t, DecodeJSON(httptest.NewRecorder(), r, &dst))
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3&limit=x&neg=-1", nil)
	assert.Equal(t, 3, QueryInt(r, "page", 1))
	assert.Equal(t, 20, QueryInt(r, "limit", 20))
	assert.Equal(t, 1, QueryInt(r, "neg", 1))
	assert.Equal(t, 7, QueryInt(r, "missing", 7))
}
