package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/gw-invoice/models"
)

func TestSeedTemplates(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, "GET", "/api/templates/seed", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	seeded := decode[seededTemplates](t, rec)
	assert.Equal(t, "Templates seeded successfully", seeded.Message)
	require.Len(t, seeded.Templates, 4)
	for _, tpl := range seeded.Templates {
		assert.NotEmpty(t, tpl.ID)
		assert.True(t, tpl.CreatedBy.IsNil())
	}

	// seeding again replaces, it does not append
	f.do(t, "GET", "/api/templates/seed", nil, "")
	rec = f.do(t, "GET", "/api/templates", nil, "")
	assert.Len(t, decode[[]*models.Template](t, rec), 4)

	rec = f.do(t, "GET", "/api/templates/type/receipt", nil, "")
	receipts := decode[[]*models.Template](t, rec)
	require.Len(t, receipts, 2)
	assert.Equal(t, "Modern Green", receipts[0].Name)

	rec = f.do(t, "GET", "/api/templates/type/unknown", nil, "")
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestSeedRefusedInProduction(t *testing.T) {
	f := newFixture(t, func(s *Server) { s.Conf.Env = EnvProduction })
	rec := f.do(t, "GET", "/api/templates/seed", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Seed endpoint not available in production", message(t, rec))
}

func TestCreateTemplateValidationAndDefaults(t *testing.T) {
	f := newFixture(t)
	ann, annID := f.signUp(t, "ann@example.com")

	rec := f.do(t, "POST", "/api/templates", map[string]any{"name": "No type"}, ann)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name and type are required", message(t, rec))

	rec = f.do(t, "POST", "/api/templates", map[string]any{"name": "Odd", "type": "letter"}, ann)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid template data", message(t, rec))

	rec = f.do(t, "POST", "/api/templates", map[string]any{"name": "Mine", "type": "invoice"}, ann)
	require.Equal(t, http.StatusCreated, rec.Code)
	tpl := decode[*models.Template](t, rec)
	assert.Equal(t, models.DefaultTemplateColor, tpl.Layout.Color)
	assert.Equal(t, models.DefaultTemplateFont, tpl.Layout.Font)
	require.NotNil(t, tpl.Layout.ShowLogo)
	assert.True(t, *tpl.Layout.ShowLogo)
	assert.Equal(t, annID, tpl.CreatedBy.ForceValue())

	rec = f.do(t, "GET", "/api/templates/"+tpl.ID, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, "GET", "/api/templates/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Template not found", message(t, rec))
}

func TestTemplateOwnership(t *testing.T) {
	f := newFixture(t)
	ann, _ := f.signUp(t, "ann@example.com")
	bob, _ := f.signUp(t, "bob@example.com")
	rec := f.do(t, "POST", "/api/templates", map[string]any{"name": "Mine", "type": "invoice"}, ann)
	tpl := decode[*models.Template](t, rec)

	rec = f.do(t, "PUT", "/api/templates/"+tpl.ID, map[string]any{"name": "Hijacked"}, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Template not found or not authorized", message(t, rec))
	rec = f.do(t, "DELETE", "/api/templates/"+tpl.ID+"/logo", nil, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, "DELETE", "/api/templates/"+tpl.ID, nil, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, "PUT", "/api/templates/"+tpl.ID, map[string]any{"name": "Renamed", "layoutJSON": map[string]any{"color": "#000000", "font": "Times"}, "createdBy": "forged"}, ann)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[*models.Template](t, rec)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "#000000", updated.Layout.Color)
	assert.Equal(t, tpl.CreatedBy, updated.CreatedBy)

	rec = f.do(t, "PUT", "/api/templates/"+tpl.ID, map[string]any{"type": "letter"}, ann)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, "DELETE", "/api/templates/"+tpl.ID, nil, ann)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, deletedRecord{Message: "Template deleted successfully", ID: tpl.ID}, decode[deletedRecord](t, rec))
}

func (f *fixture) uploadLogo(t *testing.T, token string, id string, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if data != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="logo"; filename="Logo.PNG"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/templates/"+id+"/logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func TestTemplateLogoUploadAndRemove(t *testing.T) {
	f := newFixture(t)
	ann, _ := f.signUp(t, "ann@example.com")
	bob, _ := f.signUp(t, "bob@example.com")
	rec := f.do(t, "POST", "/api/templates", map[string]any{"name": "Mine", "type": "invoice", "layoutJSON": map[string]any{"showLogo": false}}, ann)
	tpl := decode[*models.Template](t, rec)
	png := []byte("\x89PNG\r\n\x1a\nfake")

	rec = f.uploadLogo(t, ann, tpl.ID, "image/png", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", message(t, rec))

	rec = f.uploadLogo(t, ann, tpl.ID, "text/plain", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only image files are allowed", message(t, rec))

	rec = f.uploadLogo(t, ann, tpl.ID, "image/png", bytes.Repeat([]byte{1}, MaxLogoBytes+1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.uploadLogo(t, bob, tpl.ID, "image/png", png)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	entries, err := os.ReadDir(f.srv.Conf.UploadsDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a refused upload leaves no file behind")

	rec = f.uploadLogo(t, ann, tpl.ID, "image/png", png)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	withLogo := decode[*models.Template](t, rec)
	logoPath := withLogo.Layout.LogoPath.ForceValue()
	assert.True(t, strings.HasPrefix(logoPath, "/uploads/"))
	assert.True(t, strings.HasSuffix(logoPath, ".png"))
	assert.True(t, *withLogo.Layout.ShowLogo)

	stored, err := os.ReadFile(filepath.Join(f.srv.Conf.UploadsDir, filepath.Base(logoPath)))
	require.NoError(t, err)
	assert.Equal(t, png, stored)

	rec = f.do(t, "GET", logoPath, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, png, rec.Body.Bytes())

	rec = f.do(t, "DELETE", "/api/templates/"+tpl.ID+"/logo", nil, ann)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := decode[*models.Template](t, rec)
	assert.True(t, cleared.Layout.LogoPath.IsNil())
	assert.False(t, *cleared.Layout.ShowLogo)
}
