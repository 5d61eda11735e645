package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/zeptools/gw-invoice/documents"
	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/nullable"
	"github.com/zeptools/gw-invoice/requests"
	"github.com/zeptools/gw-invoice/responses"
	"github.com/zeptools/gw-invoice/routing"
	"github.com/zeptools/gw-invoice/store"
)

const DefaultPaymentMethod = "Bank Transfer"

func (s *Server) createReceipt(w http.ResponseWriter, r *http.Request) {
	rec := &models.Receipt{}
	if err := requests.DecodeJSON(w, r, rec); err != nil {
		badRequest(w, err.Error())
		return
	}
	rec.ID = ""
	rec.UserID = routing.UserID(r.Context())
	if err := s.Store.Receipts.Create(r.Context(), rec); err != nil {
		s.serverError(w, r, "Error creating receipt", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusCreated, rec)
}

type PaymentDetails struct {
	PaidAmount    float64 `json:"paidAmount"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         string  `json:"notes"`
}

// ReceiptNumber is REC- plus the last six digits of the unix millis
func ReceiptNumber(millis int64) string {
	digits := strconv.FormatInt(millis, 10)
	if len(digits) > 6 {
		digits = digits[len(digits)-6:]
	}
	return "REC-" + digits
}

// ReceiptFromInvoice copies the invoice into a paid receipt. A zero paid
// amount means the invoice total.
func ReceiptFromInvoice(inv *models.Invoice, p PaymentDetails, now nullable.Time, number string) *models.Receipt {
	paid := p.PaidAmount
	if paid == 0 {
		paid = inv.Totals().Total
	}
	method := p.PaymentMethod
	if method == "" {
		method = DefaultPaymentMethod
	}
	notes := p.Notes
	if notes == "" {
		notes = "Payment received for invoice " + inv.InvoiceNumber
	}
	items := make(models.LineItems, len(inv.Items))
	copy(items, inv.Items)
	return &models.Receipt{
		UserID:                inv.UserID,
		ReceiptNumber:         number,
		Date:                  now,
		PaymentDate:           now,
		OriginalInvoiceNumber: inv.InvoiceNumber,
		OriginalInvoiceID:     nullable.StringOf(inv.ID),
		BillTo:                inv.BillTo,
		From:                  inv.From,
		ShipTo:                inv.ShipTo,
		Items:                 items,
		PaidAmount:            paid,
		Currency:              inv.Currency,
		TaxPercent:            inv.TaxPercent,
		Discount:              inv.Discount,
		PaymentMethod:         method,
		Notes:                 notes,
		TemplateID:            inv.TemplateID,
	}
}

// receiptFromInvoice holds a per-invoice action lock, so a double submit
// is refused instead of producing two receipts at once
func (s *Server) receiptFromInvoice(w http.ResponseWriter, r *http.Request) {
	userID := routing.UserID(r.Context())
	invoiceID := r.PathValue("invoiceId")

	release, ok := s.Locks.TryAcquire("receipt-from-invoice:" + invoiceID)
	if !ok {
		responses.WriteSimpleErrorJSON(w, http.StatusConflict, "Receipt generation already in progress")
		return
	}
	defer release()

	var p PaymentDetails
	if err := requests.DecodeJSON(w, r, &p); err != nil && !errors.Is(err, requests.ErrEmptyBody) {
		badRequest(w, err.Error())
		return
	}
	inv, err := s.Store.Invoices.Get(r.Context(), userID, invoiceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			responses.WriteSimpleErrorJSON(w, http.StatusNotFound, "Invoice not found")
			return
		}
		s.serverError(w, r, "Error creating receipt", err)
		return
	}

	now := s.now()
	rec := ReceiptFromInvoice(inv, p, nullable.TimeOf(now), ReceiptNumber(now.UnixMilli()))
	if err := s.Store.Receipts.Create(r.Context(), rec); err != nil {
		s.serverError(w, r, "Error creating receipt", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusCreated, rec)
}

func (s *Server) listReceipts(w http.ResponseWriter, r *http.Request) {
	list, err := s.Store.Receipts.ListByUser(r.Context(), routing.UserID(r.Context()))
	if err != nil {
		s.serverError(w, r, "Error fetching receipts", err)
		return
	}
	if list == nil {
		list = []*models.Receipt{}
	}
	responses.EncodeWriteJSON(w, http.StatusOK, list)
}

func (s *Server) getReceipt(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Store.Receipts.Get(r.Context(), routing.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			responses.WriteSimpleErrorJSON(w, http.StatusForbidden, "Not authorized")
			return
		}
		s.serverError(w, r, "Error fetching receipt", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, rec)
}

func (s *Server) updateReceipt(w http.ResponseWriter, r *http.Request) {
	userID := routing.UserID(r.Context())
	rec, err := s.Store.Receipts.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			responses.WriteSimpleErrorJSON(w, http.StatusNotFound, "Receipt not found")
			return
		}
		s.serverError(w, r, "Error updating receipt", err)
		return
	}
	id, createdAt := rec.ID, rec.CreatedAt
	if err := requests.DecodeJSON(w, r, rec); err != nil && !errors.Is(err, requests.ErrEmptyBody) {
		badRequest(w, err.Error())
		return
	}
	rec.ID, rec.UserID, rec.CreatedAt = id, userID, createdAt

	if err := s.Store.Receipts.Update(r.Context(), rec); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			responses.WriteSimpleErrorJSON(w, http.StatusNotFound, "Receipt not found")
			return
		}
		s.serverError(w, r, "Error updating receipt", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, rec)
}

type deletedRecord struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func (s *Server) deleteReceipt(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Store.Receipts.Delete(r.Context(), routing.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			responses.WriteSimpleErrorJSON(w, http.StatusNotFound, "Receipt not found")
			return
		}
		s.serverError(w, r, "Error deleting receipt", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, deletedRecord{Message: "Receipt deleted successfully", ID: rec.ID})
}

// receiptPDF uses the linked template, else the first receipt template
func (s *Server) receiptPDF(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Store.Receipts.Get(r.Context(), routing.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			responses.WriteSimpleErrorJSON(w, http.StatusForbidden, "Not authorized")
			return
		}
		s.serverError(w, r, "Error generating PDF", err)
		return
	}
	tpl := s.linkedTemplate(r, rec.TemplateID.ForceValue())
	if tpl == nil {
		tpl, err = s.Store.Templates.FirstOfType(r.Context(), models.TypeReceipt)
		switch {
		case errors.Is(err, store.ErrNotFound):
			tpl = nil
		case err != nil:
			s.serverError(w, r, "Error generating PDF", err)
			return
		}
	}
	style := tpl.Style()
	out, err := s.Cache.Render(r.Context(), documents.KindReceipt, rec, style, func() ([]byte, error) {
		return s.Renderer.Receipt(rec, style)
	})
	if err != nil {
		s.serverError(w, r, "Error generating PDF", err)
		return
	}
	responses.WritePDFBytesWithFilename(w, documents.KindReceipt.Filename(rec.ID), out)
}
