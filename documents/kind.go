// Package documents turns invoice and receipt records into one-page PDFs.
package documents

import (
	"github.com/zeptools/gw-invoice/layout"
	"github.com/zeptools/gw-invoice/pdfs"
)

// Kind selects the per-document hooks of the shared pipeline
type Kind string

const (
	KindInvoice Kind = "invoice"
	KindReceipt Kind = "receipt"
)

func (k Kind) Title() string {
	if k == KindReceipt {
		return "RECEIPT"
	}
	return "INVOICE"
}

func (k Kind) DefaultAccent() pdfs.Color {
	if k == KindReceipt {
		return pdfs.MustHex("#22c55e")
	}
	return pdfs.MustHex("#2c3e50")
}

func (k Kind) PartyLabel() string {
	if k == KindReceipt {
		return "PAID BY:"
	}
	return "BILL TO:"
}

func (k Kind) Headers() layout.Row {
	if k == KindReceipt {
		return layout.Row{"Description", "Quantity", "Rate", "Amount"}
	}
	return layout.Row{"Item", "Quantity", "Rate", "Amount"}
}

// DetailValueOffset is the gap between label and value in the detail column
func (k Kind) DetailValueOffset() float64 {
	if k == KindReceipt {
		return 70
	}
	return 60
}

// Confirmation is drawn between summary and footer; empty means none
func (k Kind) Confirmation() string {
	if k == KindReceipt {
		return "✓ PAYMENT CONFIRMED"
	}
	return ""
}

// Filename is the download name for a stored record
func (k Kind) Filename(id string) string {
	return string(k) + "_" + id + ".pdf"
}
