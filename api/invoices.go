package api

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/documents"
	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/requests"
	"github.com/zeptools/gw-invoice/responses"
	"github.com/zeptools/gw-invoice/routing"
	"github.com/zeptools/gw-invoice/store"
)

func (s *Server) createInvoice(w http.ResponseWriter, r *http.Request) {
	inv := &models.Invoice{}
	if err := requests.DecodeJSON(w, r, inv); err != nil {
		badRequest(w, err.Error())
		return
	}
	inv.ID = ""
	inv.UserID = routing.UserID(r.Context())
	if err := s.Store.Invoices.Create(r.Context(), inv); err != nil {
		s.serverError(w, r, "Error creating invoice", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, inv)
}

func (s *Server) listInvoices(w http.ResponseWriter, r *http.Request) {
	list, err := s.Store.Invoices.ListByUser(r.Context(), routing.UserID(r.Context()))
	if err != nil {
		s.serverError(w, r, "Error fetching invoices", err)
		return
	}
	if list == nil {
		list = []*models.Invoice{}
	}
	responses.EncodeWriteJSON(w, http.StatusOK, list)
}

func (s *Server) searchInvoices(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")
	if strings.TrimSpace(text) == "" {
		badRequest(w, "Search query is required")
		return
	}
	q := store.SearchQuery{
		Text:  text,
		Page:  requests.QueryInt(r, "page", 1),
		Limit: requests.QueryInt(r, "limit", store.DefaultSearchLimit),
	}
	page, err := s.Store.Invoices.Search(r.Context(), routing.UserID(r.Context()), q)
	if err != nil {
		s.serverError(w, r, "Error searching invoices", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, page)
}

// getInvoice answers a miss with 403, as it does for another user's invoice
func (s *Server) getInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.Store.Invoices.Get(r.Context(), routing.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			responses.WriteSimpleErrorJSON(w, http.StatusForbidden, "Not authorized")
			return
		}
		s.serverError(w, r, "Error fetching invoice", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, inv)
}

// updateInvoice patches the stored invoice with the fields present in the body
func (s *Server) updateInvoice(w http.ResponseWriter, r *http.Request) {
	userID := routing.UserID(r.Context())
	inv, err := s.Store.Invoices.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			responses.WriteSimpleErrorJSON(w, http.StatusNotFound, "Invoice not found or not authorized")
			return
		}
		s.serverError(w, r, "Error updating invoice", err)
		return
	}
	id, createdAt := inv.ID, inv.CreatedAt
	if err := requests.DecodeJSON(w, r, inv); err != nil && !errors.Is(err, requests.ErrEmptyBody) {
		badRequest(w, err.Error())
		return
	}
	inv.ID, inv.UserID, inv.CreatedAt = id, userID, createdAt

	if err := s.Store.Invoices.Update(r.Context(), inv); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			responses.WriteSimpleErrorJSON(w, http.StatusNotFound, "Invoice not found or not authorized")
			return
		}
		s.serverError(w, r, "Error updating invoice", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, inv)
}

type deletedInvoice struct {
	Message        string          `json:"message"`
	DeletedInvoice *models.Invoice `json:"deletedInvoice"`
}

func (s *Server) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.Store.Invoices.Delete(r.Context(), routing.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			responses.WriteSimpleErrorJSON(w, http.StatusNotFound, "Invoice not found or not authorized")
			return
		}
		s.serverError(w, r, "Error deleting invoice", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, deletedInvoice{Message: "Invoice deleted successfully", DeletedInvoice: inv})
}

func (s *Server) invoicePDF(w http.ResponseWriter, r *http.Request) {
	inv, err := s.Store.Invoices.Get(r.Context(), routing.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			responses.WriteSimpleErrorJSON(w, http.StatusForbidden, "Not authorized")
			return
		}
		s.serverError(w, r, "Error generating PDF", err)
		return
	}
	tpl := s.linkedTemplate(r, inv.TemplateID.ForceValue())
	style := tpl.Style()
	out, err := s.Cache.Render(r.Context(), documents.KindInvoice, inv, style, func() ([]byte, error) {
		return s.Renderer.Invoice(inv, style)
	})
	if err != nil {
		s.serverError(w, r, "Error generating PDF", err)
		return
	}
	responses.WritePDFBytesWithFilename(w, documents.KindInvoice.Filename(inv.ID), out)
}

// linkedTemplate loads the template a document points at. A dangling or
// unreadable link renders with the defaults.
func (s *Server) linkedTemplate(r *http.Request, id string) *models.Template {
	if id == "" {
		return nil
	}
	t, err := s.Store.Templates.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger().Warn("linked template not loaded", zap.String("template_id", id), zap.Error(err))
		}
		return nil
	}
	return t
}
