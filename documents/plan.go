package documents

import (
	"strconv"
	"strings"
	"time"

	"github.com/zeptools/gw-invoice/currency"
	"github.com/zeptools/gw-invoice/layout"
	"github.com/zeptools/gw-invoice/models"
)

const DateLayout = "02/01/2006"

// Plan is everything the pipeline draws, derived up front with no I/O
type Plan struct {
	Kind        Kind
	Theme       layout.Theme
	Currency    string
	Header      layout.HeaderBlock
	Party       layout.Party
	Details     []layout.Pair
	Table       layout.Table
	Summary     []layout.SummaryEntry
	Notes       string
	PaymentInfo string
}

// PlanInvoice derives the invoice layout; now fills every missing date
// and the number fallback.
func PlanInvoice(inv *models.Invoice, style *models.TemplateStyle, now time.Time) Plan {
	if inv == nil {
		inv = &models.Invoice{}
	}
	code := currencyCode(inv.Currency)
	totals := inv.Totals()

	dueDate := ""
	if !inv.DueDate.IsNil() {
		dueDate = inv.DueDate.Time.Format(DateLayout)
	}

	p := Plan{
		Kind:     KindInvoice,
		Theme:    theme(KindInvoice, style),
		Currency: code,
		Header: layout.HeaderBlock{
			CompanyName:    or(inv.From.Name, "Your Company Name"),
			CompanyAddress: or(inv.From.Address, "Your Company Address"),
			Title:          KindInvoice.Title(),
			Number:         or(inv.InvoiceNumber, "INV-"+stampDigits(now)),
			Logo:           inv.Logo,
		},
		Party: billTo(inv.BillTo),
		Details: []layout.Pair{
			{Label: "Date:", Value: inv.Date.Or(now).Format(DateLayout)},
			{Label: "Payment Terms:", Value: or(inv.PaymentTerms, "Net 30")},
			{Label: "Due Date:", Value: dueDate},
			{Label: "Balance Due:", Value: currency.Format(totals.Total, code)},
		},
		Table: layout.Table{
			Headers:     KindInvoice.Headers(),
			Rows:        itemRows(inv.Items, code, "Product/Service", false),
			Placeholder: layout.Row{"No items listed", "0", currency.Format(0, code), currency.Format(0, code)},
		},
		Notes: inv.Notes,
	}

	p.Summary = []layout.SummaryEntry{{Label: "Subtotal:", Amount: totals.Subtotal}}
	if totals.Tax > 0 {
		label := "Tax:"
		if inv.TaxPercent > 0 {
			label = "Tax (" + currency.Percent(inv.TaxPercent) + "%):"
		}
		p.Summary = append(p.Summary, layout.SummaryEntry{Label: label, Amount: totals.Tax})
	}
	if totals.Discount > 0 {
		p.Summary = append(p.Summary, layout.SummaryEntry{Label: "Discount:", Amount: -totals.Discount})
	}
	p.Summary = append(p.Summary, layout.SummaryEntry{Label: "TOTAL:", Amount: totals.Total})

	p.PaymentInfo = inv.PaymentInfo
	if p.PaymentInfo == "" && inv.From.BankDetails != "" {
		p.PaymentInfo = "Bank Transfer: " + inv.From.BankDetails
	}
	return p
}

// PlanReceipt derives the receipt layout. Both summary rows carry the
// resolved paid amount.
func PlanReceipt(rec *models.Receipt, style *models.TemplateStyle, now time.Time) Plan {
	if rec == nil {
		rec = &models.Receipt{}
	}
	code := currencyCode(rec.Currency)
	paid := rec.ResolvedPaid()
	paidText := currency.Format(paid, code)

	p := Plan{
		Kind:     KindReceipt,
		Theme:    theme(KindReceipt, style),
		Currency: code,
		Header: layout.HeaderBlock{
			CompanyName:    or(rec.From.Name, "Your Company Name"),
			CompanyAddress: or(rec.From.Address, "Your Company Address"),
			Title:          KindReceipt.Title(),
			Number:         or(rec.ReceiptNumber, "REC-"+stampDigits(now)),
			Logo:           rec.Logo,
		},
		Party: billTo(rec.BillTo),
		Details: []layout.Pair{
			{Label: "Receipt Date:", Value: rec.Date.Or(now).Format(DateLayout)},
			{Label: "Payment Date:", Value: rec.PaymentDate.Or(now).Format(DateLayout)},
			{Label: "Payment Method:", Value: or(rec.PaymentMethod, "Cash/Card")},
			{Label: "Amount Paid:", Value: paidText},
		},
		Table: layout.Table{
			Headers:     KindReceipt.Headers(),
			Rows:        itemRows(rec.Items, code, "Payment", true),
			Placeholder: layout.Row{"Payment Received", "1", paidText, paidText},
		},
		Summary: []layout.SummaryEntry{
			{Label: "Amount Paid:", Amount: paid},
			{Label: "TOTAL PAID:", Amount: paid},
		},
		Notes: or(rec.Notes, "Payment received successfully. Thank you!"),
	}

	p.PaymentInfo = rec.PaymentInfo
	if p.PaymentInfo == "" && rec.From.BankDetails != "" {
		p.PaymentInfo = "Bank: " + rec.From.BankDetails
	}
	return p
}

func theme(k Kind, style *models.TemplateStyle) layout.Theme {
	if style == nil {
		style = &models.TemplateStyle{}
	}
	return layout.ResolveTheme(style.Color, style.Font, k.DefaultAccent())
}

func billTo(p models.Party) layout.Party {
	return layout.Party{
		Name:    or(p.Name, "Client Name"),
		Address: or(p.Address, "Client Address"),
		Phone:   p.Phone,
		Email:   p.Email,
	}
}

func itemRows(items models.LineItems, code string, defaultDesc string, quantityAtLeastOne bool) []layout.Row {
	rows := make([]layout.Row, 0, len(items))
	for _, it := range items {
		qty := it.Quantity
		if qty == 0 && quantityAtLeastOne {
			qty = 1
		}
		rows = append(rows, layout.Row{
			or(it.Description, defaultDesc),
			currency.Quantity(qty),
			currency.Format(it.Rate, code),
			currency.Format(it.Amount, code),
		})
	}
	return rows
}

func currencyCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return currency.DefaultCode
	}
	return code
}

// stampDigits is the last six digits of the unix-ms timestamp
func stampDigits(now time.Time) string {
	s := strconv.FormatInt(now.UnixMilli(), 10)
	if len(s) > 6 {
		s = s[len(s)-6:]
	}
	return s
}

func or(s string, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
