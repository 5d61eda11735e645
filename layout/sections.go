package layout

import (
	"github.com/zeptools/gw-invoice/currency"
	"github.com/zeptools/gw-invoice/pdfs"
)

// Party is one side of a document; empty fields are not drawn
type Party struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// Lines returns the present fields in draw order
func (p Party) Lines() []string {
	var lines []string
	if p.Name != "" {
		lines = append(lines, p.Name)
	}
	if p.Address != "" {
		lines = append(lines, p.Address)
	}
	if p.Phone != "" {
		lines = append(lines, "Phone: "+p.Phone)
	}
	if p.Email != "" {
		lines = append(lines, "Email: "+p.Email)
	}
	return lines
}

// PartyBlock draws a label plus the party lines at the cursor
func (c *Context) PartyBlock(label string, p Party) float64 {
	left := c.Page.Margins.Left
	width := c.Page.ContentWidth() / 2
	return c.AtCursor(func(y float64) float64 {
		c.text(left, y, width, label, TextStyle{Style: StyleBold, Size: 11, Color: TextColor}, pdfs.AlignLeft)
		y += 15
		for _, line := range p.Lines() {
			c.text(left, y, width, line, TextStyle{Style: StyleRegular, Size: 10, Color: TextColor}, pdfs.AlignLeft)
			y += 12
		}
		return y + 25
	})
}

type Pair struct {
	Label string
	Value string
}

const (
	detailColOffset = 150
	detailRowHeight = 18
)

// DetailPairs draws label/value rows in the right column below the title.
// It is anchored to the top margin and leaves the cursor alone.
func (c *Context) DetailPairs(pairs []Pair, valueOffset float64) {
	x0 := c.Page.Width() - c.Page.Margins.Right - detailColOffset
	y0 := c.Page.Margins.Top + 50
	c.AtAnchor(x0, y0, func(x float64, y float64) {
		for i, p := range pairs {
			rowY := y + float64(i)*detailRowHeight
			value := p.Value
			if value == "" {
				value = "-"
			}
			c.text(x, rowY, valueOffset, p.Label, TextStyle{Style: StyleBold, Size: 9, Color: MutedColor}, pdfs.AlignLeft)
			c.text(x+valueOffset, rowY, detailColOffset-valueOffset, value, TextStyle{Style: StyleRegular, Size: 9, Color: MutedColor}, pdfs.AlignLeft)
		}
	})
}

// ColumnWidths of the item table; they add up to the A4 content width
var ColumnWidths = [4]float64{280, 80, 80, 80}

const (
	tableHeaderHeight = 30
	tableRowHeight    = 25
	cellInset         = 10
)

type Row [4]string

type Table struct {
	Headers     Row
	Rows        []Row
	Placeholder Row // drawn alone when Rows is empty
}

// DrawnRows is what ItemTable actually lays out
func (t Table) DrawnRows() []Row {
	if len(t.Rows) == 0 {
		return []Row{t.Placeholder}
	}
	return t.Rows
}

// ItemTable draws the accent header band and one row per item at the cursor
func (c *Context) ItemTable(t Table) float64 {
	left := c.Page.Margins.Left
	right := c.Page.Width() - c.Page.Margins.Right
	return c.AtCursor(func(y float64) float64 {
		c.W.SetFillColor(c.Theme.Accent)
		c.W.FillRect(left, y, c.Page.ContentWidth(), tableHeaderHeight)
		c.row(t.Headers, y+9, TextStyle{Style: StyleBold, Size: 11, Color: pdfs.White})
		y += tableHeaderHeight

		for _, r := range t.DrawnRows() {
			c.W.SetFillColor(pdfs.White)
			c.W.FillRect(left, y, c.Page.ContentWidth(), tableRowHeight)
			c.row(r, y+8, TextStyle{Style: StyleRegular, Size: 10, Color: TextColor})
			c.rule(left, y+tableRowHeight, right, y+tableRowHeight, RowDivider)
			y += tableRowHeight
		}
		c.rule(left, y, right, y, TableClose)
		return y + 25
	})
}

func (c *Context) row(cells Row, y float64, ts TextStyle) {
	x := c.Page.Margins.Left
	for i, cell := range cells {
		align := pdfs.AlignRight
		if i == 0 {
			align = pdfs.AlignLeft
		}
		c.text(x+cellInset, y, ColumnWidths[i]-2*cellInset, cell, ts, align)
		x += ColumnWidths[i]
	}
}

type SummaryEntry struct {
	Label  string
	Amount float64
}

const (
	summaryWidth      = 200
	summaryLabelWidth = 120
	summaryRowHeight  = 18
)

// Summary draws the right-aligned totals block at the cursor.
// The last entry is the grand total.
func (c *Context) Summary(entries []SummaryEntry, currencyCode string) float64 {
	x := c.Page.Width() - c.Page.Margins.Right - summaryWidth
	return c.AtCursor(func(y float64) float64 {
		for i, e := range entries {
			ts := TextStyle{Style: StyleRegular, Size: 10, Color: TextColor}
			if i == len(entries)-1 {
				c.rule(x, y-5, x+summaryWidth, y-5, c.Theme.Accent)
				y += 8
				ts = TextStyle{Style: StyleBold, Size: 12, Color: TextColor}
			}
			c.text(x, y, summaryLabelWidth, e.Label, ts, pdfs.AlignLeft)
			c.text(x+summaryLabelWidth, y, summaryWidth-summaryLabelWidth, currency.Format(e.Amount, currencyCode), ts, pdfs.AlignRight)
			y += summaryRowHeight
		}
		return y + 30
	})
}

// ConfirmationLine draws a centered accent line across the page
func (c *Context) ConfirmationLine(text string) float64 {
	return c.AtCursor(func(y float64) float64 {
		c.text(0, y+10, c.Page.Width(), text, TextStyle{Style: StyleBold, Size: 14, Color: c.Theme.Accent}, pdfs.AlignCenter)
		return y + 40
	})
}

const ClosingLine = "Thank you for your business!"

// Footer is anchored to the page bottom. It does not look at the cursor,
// so a tall table can run into it.
func (c *Context) Footer(notes string, paymentInfo string) {
	c.AtAnchor(c.Page.Margins.Left, c.Page.Height()-40, func(x float64, y float64) {
		width := c.Page.ContentWidth() / 2
		muted := TextStyle{Style: StyleRegular, Size: 8, Color: MutedColor}
		if notes != "" {
			c.paragraph(x, y, width, "Notes: "+notes, muted, pdfs.AlignLeft)
		}
		if paymentInfo != "" {
			c.paragraph(x, y+12, width, paymentInfo, muted, pdfs.AlignLeft)
		}
	})
	c.AtAnchor(0, c.Page.Height()-20, func(x float64, y float64) {
		c.text(x, y, c.Page.Width(), ClosingLine, TextStyle{Style: StyleBold, Size: 9, Color: TextColor}, pdfs.AlignCenter)
	})
}
