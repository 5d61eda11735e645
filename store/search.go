package store

import (
	"strings"

	"github.com/zeptools/gw-invoice/models"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

type SearchQuery struct {
	Text  string
	Page  int // 1-based
	Limit int
}

// Normalized clamps page and limit to usable values
func (q SearchQuery) Normalized() SearchQuery {
	q.Text = strings.TrimSpace(q.Text)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit > MaxSearchLimit {
		q.Limit = MaxSearchLimit
	}
	return q
}

func (q SearchQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// SearchPage is one page of invoice matches, newest first
type SearchPage struct {
	Invoices    []*models.Invoice `json:"invoices"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	Total       int64             `json:"total"`
}

func NewSearchPage(items []*models.Invoice, total int64, q SearchQuery) *SearchPage {
	if items == nil {
		items = []*models.Invoice{}
	}
	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return &SearchPage{Invoices: items, TotalPages: pages, CurrentPage: q.Page, Total: total}
}

// MatchesInvoice is the case-insensitive substring match over the searchable
// invoice fields: bill-to name and email, number, from name, PO number and
// item descriptions
func MatchesInvoice(inv *models.Invoice, text string) bool {
	needle := strings.ToLower(text)
	fields := []string{inv.BillTo.Name, inv.BillTo.Email, inv.InvoiceNumber, inv.From.Name, inv.PONumber}
	for _, it := range inv.Items {
		fields = append(fields, it.Description)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
