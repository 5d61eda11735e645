// Package models holds the records the API persists and the renderer reads.
package models

import (
	"time"

	"github.com/zeptools/gw-invoice/nullable"
)

type Company struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	BankDetails string `json:"bankDetails"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Company      Company   `json:"company"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserView is what auth responses expose
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) View() UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email}
}

type Party struct {
	Name        string `json:"name,omitempty"`
	Address     string `json:"address,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	BankDetails string `json:"bankDetails,omitempty"`
}

type ShipTo struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// LineItem amount is stored, never recomputed from quantity and rate
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

type LineItems []LineItem

// Subtotal is the sum of the stored amounts
func (items LineItems) Subtotal() float64 {
	var sum float64
	for _, it := range items {
		sum += it.Amount
	}
	return sum
}

type Invoice struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Logo          string          `json:"logo,omitempty"` // base64
	InvoiceNumber string          `json:"invoiceNumber"`
	Date          nullable.Time   `json:"date"`
	DueDate       nullable.Time   `json:"dueDate"`
	PaymentTerms  string          `json:"paymentTerms"`
	PONumber      string          `json:"poNumber"`
	BillTo        Party           `json:"billTo"`
	ShipTo        ShipTo          `json:"shipTo"`
	From          Party           `json:"from"`
	Items         LineItems       `json:"items"`
	Currency      string          `json:"currency"`
	TaxPercent    float64         `json:"taxPercent"`
	TaxAmount     float64         `json:"taxAmount"`
	Discount      float64         `json:"discount"`
	Notes         string          `json:"notes"`
	PaymentInfo   string          `json:"paymentInfo"`
	TemplateID    nullable.String `json:"templateId"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Totals are derived, never stored
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Totals applies the percent when given, else the stored tax amount
func (inv *Invoice) Totals() Totals {
	t := Totals{Subtotal: inv.Items.Subtotal(), Discount: inv.Discount}
	switch {
	case inv.TaxPercent > 0:
		t.Tax = t.Subtotal * inv.TaxPercent / 100
	case inv.TaxAmount > 0:
		t.Tax = inv.TaxAmount
	}
	t.Total = t.Subtotal + t.Tax - t.Discount
	return t
}

type Receipt struct {
	ID                    string          `json:"id"`
	UserID                string          `json:"userId"`
	Logo                  string          `json:"logo,omitempty"`
	ReceiptNumber         string          `json:"receiptNumber"`
	Date                  nullable.Time   `json:"date"`
	PaymentDate           nullable.Time   `json:"paymentDate"`
	OriginalInvoiceNumber string          `json:"originalInvoiceNumber"`
	OriginalInvoiceID     nullable.String `json:"originalInvoiceId"`
	BillTo                Party           `json:"billTo"`
	From                  Party           `json:"from"`
	ShipTo                ShipTo          `json:"shipTo"`
	Items                 LineItems       `json:"items"`
	PaidAmount            float64         `json:"paidAmount"`
	Currency              string          `json:"currency"`
	TaxPercent            float64         `json:"taxPercent"`
	Discount              float64         `json:"discount"`
	PaymentMethod         string          `json:"paymentMethod"`
	Notes                 string          `json:"notes"`
	PaymentInfo           string          `json:"paymentInfo"`
	TemplateID            nullable.String `json:"templateId"`
	CreatedAt             time.Time       `json:"createdAt"`
}

// ResolvedPaid is the explicit paid amount, else the item sum
func (r *Receipt) ResolvedPaid() float64 {
	if r.PaidAmount > 0 {
		return r.PaidAmount
	}
	return r.Items.Subtotal()
}

func (u *User) GetID() string      { return u.ID }
func (inv *Invoice) GetID() string { return inv.ID }
func (r *Receipt) GetID() string   { return r.ID }
