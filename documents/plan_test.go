package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zeptools/gw-invoice/layout"
	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/nullable"
)

func TestPlanInvoiceDetails(t *testing.T) {
	inv := designInvoice()
	inv.Date = nullable.TimeOf(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	inv.DueDate = nullable.TimeOf(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	inv.PaymentTerms = "Net 15"

	p := PlanInvoice(inv, nil, fixedNow)
	assert.Equal(t, []layout.Pair{
		{Label: "Date:", Value: "31/01/2024"},
		{Label: "Payment Terms:", Value: "Net 15"},
		{Label: "Due Date:", Value: "01/03/2024"},
		{Label: "Balance Due:", Value: "$100.00"},
	}, p.Details)
	assert.Equal(t, "INV-0042", p.Header.Number)
	assert.Equal(t, []layout.Row{{"Design", "2", "$50.00", "$100.00"}}, p.Table.Rows)
	assert.Equal(t, layout.Row{"Item", "Quantity", "Rate", "Amount"}, p.Table.Headers)
}

func TestPlanInvoiceSummaryEndsWithTotal(t *testing.T) {
	cases := []struct {
		name     string
		tax      float64
		taxAmt   float64
		discount float64
		labels   []string
		total    float64
	}{
		{"plain", 0, 0, 0, []string{"Subtotal:", "TOTAL:"}, 100},
		{"percent", 7.5, 0, 0, []string{"Subtotal:", "Tax (7.5%):", "TOTAL:"}, 107.5},
		{"stored tax", 0, 3, 0, []string{"Subtotal:", "Tax:", "TOTAL:"}, 103},
		{"discount", 0, 0, 10, []string{"Subtotal:", "Discount:", "TOTAL:"}, 90},
		{"all", 10, 0, 10, []string{"Subtotal:", "Tax (10%):", "Discount:", "TOTAL:"}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := designInvoice()
			inv.TaxPercent = tc.tax
			inv.TaxAmount = tc.taxAmt
			inv.Discount = tc.discount
			p := PlanInvoice(inv, nil, fixedNow)

			var labels []string
			for _, e := range p.Summary {
				labels = append(labels, e.Label)
				if e.Label == "Discount:" {
					assert.Equal(t, -tc.discount, e.Amount)
				}
			}
			assert.Equal(t, tc.labels, labels)
			last := p.Summary[len(p.Summary)-1]
			assert.Equal(t, tc.total, last.Amount)
			assert.Equal(t, inv.Totals().Total, last.Amount)
		})
	}
}

func TestPlanInvoiceEmptyItemsPlaceholder(t *testing.T) {
	p := PlanInvoice(&models.Invoice{Currency: "eur"}, nil, fixedNow)
	assert.Empty(t, p.Table.Rows)
	assert.Equal(t, []layout.Row{{"No items listed", "0", "€0.00", "€0.00"}}, p.Table.DrawnRows())
	assert.Equal(t, "EUR", p.Currency)
	assert.Empty(t, p.PaymentInfo)
	assert.Empty(t, p.Details[2].Value) // drawn as "-"
}

func TestPlanInvoicePaymentInfoPrecedence(t *testing.T) {
	inv := designInvoice()
	inv.PaymentInfo = "Pay via link"
	assert.Equal(t, "Pay via link", PlanInvoice(inv, nil, fixedNow).PaymentInfo)
}

func TestPlanReceipt(t *testing.T) {
	rec := &models.Receipt{
		Currency:      "GBP",
		PaidAmount:    40,
		PaymentMethod: "Bank Transfer",
		From:          models.Party{BankDetails: "Lloyds 1234"},
		Items:         models.LineItems{{Amount: 75}},
		PaymentDate:   nullable.TimeOf(time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)),
	}
	p := PlanReceipt(rec, &models.TemplateStyle{Color: "#16a34a"}, fixedNow)

	assert.Equal(t, []layout.SummaryEntry{{Label: "Amount Paid:", Amount: 40}, {Label: "TOTAL PAID:", Amount: 40}}, p.Summary)
	assert.Equal(t, []layout.Pair{
		{Label: "Receipt Date:", Value: "06/05/2024"},
		{Label: "Payment Date:", Value: "02/02/2024"},
		{Label: "Payment Method:", Value: "Bank Transfer"},
		{Label: "Amount Paid:", Value: "£40.00"},
	}, p.Details)
	assert.Equal(t, "Bank: Lloyds 1234", p.PaymentInfo)
	assert.Equal(t, layout.Row{"Payment", "1", "£0.00", "£75.00"}, p.Table.Rows[0])
	assert.Equal(t, "#16a34a", p.Theme.Accent.String())
}

func TestPlanReceiptPlaceholderCarriesPaidAmount(t *testing.T) {
	p := PlanReceipt(&models.Receipt{Currency: "USD", PaidAmount: 12.5}, nil, fixedNow)
	assert.Equal(t, []layout.Row{{"Payment Received", "1", "$12.50", "$12.50"}}, p.Table.DrawnRows())
}

func TestStampDigits(t *testing.T) {
	assert.Equal(t, "289000", stampDigits(fixedNow))
	assert.Equal(t, "5", stampDigits(time.UnixMilli(5)))
}
