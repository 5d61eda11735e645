package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/nullable"
	"github.com/zeptools/gw-invoice/requests"
	"github.com/zeptools/gw-invoice/responses"
	"github.com/zeptools/gw-invoice/routing"
	"github.com/zeptools/gw-invoice/store"
)

const MaxLogoBytes = 2 << 20

func boolPtr(b bool) *bool { return &b }

// SampleTemplates is what the seed route installs
func SampleTemplates() []*models.Template {
	sample := func(name string, typ models.DocType, layoutName string, color string, showLogo bool, preview string) *models.Template {
		return &models.Template{
			Name: name,
			Type: typ,
			Layout: models.Layout{
				Name:     layoutName,
				Color:    color,
				Font:     models.DefaultTemplateFont,
				ShowLogo: boolPtr(showLogo),
			},
			PreviewImage: nullable.StringOf(preview),
		}
	}
	return []*models.Template{
		sample("Professional Blue", models.TypeInvoice, "Professional Invoice", "#2563eb", true, "/previews/professional-blue.jpg"),
		sample("Modern Green", models.TypeReceipt, "Modern Receipt", "#16a34a", true, "/previews/modern-green.jpg"),
		sample("Elegant Purple", models.TypeInvoice, "Elegant Invoice", "#7c3aed", false, "/previews/elegant-purple.jpg"),
		sample("Minimalist Gray", models.TypeReceipt, "Minimalist Receipt", "#4b5563", false, "/previews/minimalist-gray.jpg"),
	}
}

type seededTemplates struct {
	Message   string             `json:"message"`
	Templates []*models.Template `json:"templates"`
}

func (s *Server) seedTemplates(w http.ResponseWriter, r *http.Request) {
	if s.env() == EnvProduction {
		responses.WriteSimpleErrorJSON(w, http.StatusForbidden, "Seed endpoint not available in production")
		return
	}
	samples := SampleTemplates()
	if err := s.Store.Templates.ReplaceAll(r.Context(), samples); err != nil {
		s.serverError(w, r, "Failed to seed templates", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, seededTemplates{Message: "Templates seeded successfully", Templates: samples})
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.Store.Templates.List(r.Context())
	if err != nil {
		s.serverError(w, r, "Failed to fetch templates", err)
		return
	}
	writeTemplates(w, list)
}

func (s *Server) listTemplatesByType(w http.ResponseWriter, r *http.Request) {
	list, err := s.Store.Templates.ListByType(r.Context(), models.DocType(r.PathValue("type")))
	if err != nil {
		s.serverError(w, r, "Failed to fetch templates", err)
		return
	}
	writeTemplates(w, list)
}

func writeTemplates(w http.ResponseWriter, list []*models.Template) {
	if list == nil {
		list = []*models.Template{}
	}
	responses.EncodeWriteJSON(w, http.StatusOK, list)
}

type templateInput struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Layout models.Layout `json:"layoutJSON"`
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var in templateInput
	if err := requests.DecodeJSON(w, r, &in); err != nil && !errors.Is(err, requests.ErrEmptyBody) {
		badRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(in.Name) == "" || in.Type == "" {
		badRequest(w, "Name and type are required")
		return
	}
	typ := models.DocType(in.Type)
	if !typ.Valid() {
		badRequest(w, "Invalid template data")
		return
	}
	t := &models.Template{
		Name:      in.Name,
		Type:      typ,
		Layout:    in.Layout.WithDefaults(),
		CreatedBy: nullable.StringOf(routing.UserID(r.Context())),
	}
	if err := s.Store.Templates.Create(r.Context(), t); err != nil {
		s.serverError(w, r, "Failed to create template", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusCreated, t)
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.Store.Templates.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			responses.WriteSimpleErrorJSON(w, http.StatusNotFound, "Template not found")
			return
		}
		s.serverError(w, r, "Failed to fetch template", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, t)
}

func notOwnedTemplate(w http.ResponseWriter) {
	responses.WriteSimpleErrorJSON(w, http.StatusNotFound, "Template not found or not authorized")
}

// ownedTemplate loads a template created by the caller; anything else is
// reported as not found
func (s *Server) ownedTemplate(r *http.Request, id string) (*models.Template, error) {
	t, err := s.Store.Templates.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if t.CreatedBy.ForceValue() != routing.UserID(r.Context()) {
		return nil, store.ErrNotFound
	}
	return t, nil
}

func (s *Server) updateTemplate(w http.ResponseWriter, r *http.Request) {
	owner := routing.UserID(r.Context())
	t, err := s.ownedTemplate(r, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notOwnedTemplate(w)
			return
		}
		s.serverError(w, r, "Failed to update template", err)
		return
	}
	id, createdBy, createdAt := t.ID, t.CreatedBy, t.CreatedAt
	if err := requests.DecodeJSON(w, r, t); err != nil && !errors.Is(err, requests.ErrEmptyBody) {
		badRequest(w, err.Error())
		return
	}
	t.ID, t.CreatedBy, t.CreatedAt = id, createdBy, createdAt
	if strings.TrimSpace(t.Name) == "" || !t.Type.Valid() {
		badRequest(w, "Invalid template data")
		return
	}

	if err := s.Store.Templates.Update(r.Context(), owner, t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notOwnedTemplate(w)
			return
		}
		s.serverError(w, r, "Failed to update template", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.Store.Templates.Delete(r.Context(), routing.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notOwnedTemplate(w)
			return
		}
		s.serverError(w, r, "Failed to delete template", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, deletedRecord{Message: "Template deleted successfully", ID: t.ID})
}

var (
	errNoFile      = errors.New("No file uploaded")
	errNotAnImage  = errors.New("Only image files are allowed")
	errFileTooBig  = errors.New("File too large")
	errNoUploadDir = errors.New("uploads directory not configured")
)

// saveLogo stores the `logo` form file under the uploads dir and returns
// its public path
func (s *Server) saveLogo(w http.ResponseWriter, r *http.Request) (string, error) {
	if s.Conf.UploadsDir == "" {
		return "", errNoUploadDir
	}
	// room for the multipart framing around the file
	r.Body = http.MaxBytesReader(w, r.Body, MaxLogoBytes+64<<10)
	file, header, err := r.FormFile("logo")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", errFileTooBig
		}
		return "", errNoFile
	}
	defer file.Close()
	if header.Size > MaxLogoBytes {
		return "", errFileTooBig
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return "", errNotAnImage
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	if err := os.MkdirAll(s.Conf.UploadsDir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	dst, err := os.Create(filepath.Join(s.Conf.UploadsDir, name))
	if err != nil {
		return "", fmt.Errorf("create logo file: %w", err)
	}
	if _, err := io.Copy(dst, io.LimitReader(file, MaxLogoBytes+1)); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("write logo file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("write logo file: %w", err)
	}
	return path.Join("/uploads", name), nil
}

func (s *Server) removeUpload(publicPath string) {
	name := strings.TrimPrefix(publicPath, "/uploads/")
	if err := os.Remove(filepath.Join(s.Conf.UploadsDir, filepath.Base(name))); err != nil {
		s.logger().Warn("orphan logo not removed", zap.String("path", publicPath), zap.Error(err))
	}
}

func (s *Server) uploadTemplateLogo(w http.ResponseWriter, r *http.Request) {
	logoPath, err := s.saveLogo(w, r)
	switch {
	case errors.Is(err, errNoFile), errors.Is(err, errNotAnImage), errors.Is(err, errFileTooBig):
		badRequest(w, err.Error())
		return
	case err != nil:
		s.serverError(w, r, "Failed to upload logo", err)
		return
	}

	t, err := s.Store.Templates.SetLogo(r.Context(), routing.UserID(r.Context()), r.PathValue("id"), logoPath)
	if err != nil {
		s.removeUpload(logoPath)
		if errors.Is(err, store.ErrNotFound) {
			notOwnedTemplate(w)
			return
		}
		s.serverError(w, r, "Failed to upload logo", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, t)
}

func (s *Server) removeTemplateLogo(w http.ResponseWriter, r *http.Request) {
	t, err := s.Store.Templates.SetLogo(r.Context(), routing.UserID(r.Context()), r.PathValue("id"), "")
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notOwnedTemplate(w)
			return
		}
		s.serverError(w, r, "Failed to remove logo", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, t)
}
