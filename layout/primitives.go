// Package layout draws document zones top to bottom onto a pdfs.Writer.
//
// A Context owns the page canvas and the running vertical cursor. Zone
// renderers come in two kinds and the difference is load-bearing:
//
//   - AtCursor renderers start at the cursor and return where the next zone
//     starts (Header, PartyBlock, ItemTable, Summary, ConfirmationLine).
//   - AtAnchor renderers draw at fixed page positions and never read or move
//     the cursor (the header title column, DetailPairs, Footer).
//
// The cursor only moves down; nothing is ever re-flowed upward.
package layout

import (
	"strings"

	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/pdfs"
)

type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

var DefaultMargins = Margins{Top: 50, Right: 40, Bottom: 60, Left: 40}

// Page is the fixed page geometry of one document
type Page struct {
	Size    pdfs.PaperSize
	Margins Margins
}

func A4() Page {
	return Page{Size: pdfs.A4Size, Margins: DefaultMargins}
}

func (p Page) Width() float64  { return p.Size.Width }
func (p Page) Height() float64 { return p.Size.Height }

func (p Page) ContentWidth() float64 {
	return p.Size.Width - p.Margins.Left - p.Margins.Right
}

var (
	TextColor  = pdfs.Black
	MutedColor = pdfs.MustHex("#666666")
	RowDivider = pdfs.MustHex("#f0f0f0")
	TableClose = pdfs.MustHex("#cccccc")
)

const (
	StyleRegular = ""
	StyleBold    = "B"
)

// Theme is the template-controlled part of the look
type Theme struct {
	Accent pdfs.Color
	Family string
}

// ResolveTheme builds a Theme from template values, falling back per field
func ResolveTheme(color string, font string, defaultAccent pdfs.Color) Theme {
	accent, ok := pdfs.ParseHexColor(color)
	if !ok {
		accent = defaultAccent
	}
	return Theme{Accent: accent, Family: FontFamily(font)}
}

// FontFamily maps a template font name onto a PDF core family
func FontFamily(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "times", "times new roman", "times-roman", "serif":
		return "Times"
	case "courier", "courier new", "monospace":
		return "Courier"
	default:
		return "Helvetica"
	}
}

// TextStyle is a font style + size + color triple
type TextStyle struct {
	Style string
	Size  float64
	Color pdfs.Color
}

// Context is the per-render layout state. Create one per document.
type Context struct {
	Page  Page
	W     pdfs.Writer
	Theme Theme
	Log   *zap.Logger

	y float64
}

func NewContext(w pdfs.Writer, page Page, theme Theme, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	if theme.Family == "" {
		theme.Family = FontFamily("")
	}
	return &Context{Page: page, W: w, Theme: theme, Log: log, y: page.Margins.Top}
}

// Y is the current cursor
func (c *Context) Y() float64 {
	return c.y
}

// Advance moves the cursor down to y. Upward moves are dropped.
func (c *Context) Advance(y float64) {
	if y < c.y {
		c.Log.Debug("layout: ignored upward cursor move", zap.Float64("from", c.y), zap.Float64("to", y))
		return
	}
	c.y = y
}

// AtCursor runs draw starting at the cursor and advances to what it returns
func (c *Context) AtCursor(draw func(y float64) float64) float64 {
	c.Advance(draw(c.y))
	return c.y
}

// AtAnchor runs draw at a fixed position; the cursor is untouched
func (c *Context) AtAnchor(x float64, y float64, draw func(x float64, y float64)) {
	draw(x, y)
}

func (c *Context) text(x float64, y float64, w float64, s string, ts TextStyle, align pdfs.Align) {
	c.W.SetFont(c.Theme.Family, ts.Style, ts.Size)
	c.W.SetTextColor(ts.Color)
	c.W.Text(x, y, w, s, align)
}

func (c *Context) paragraph(x float64, y float64, w float64, s string, ts TextStyle, align pdfs.Align) float64 {
	c.W.SetFont(c.Theme.Family, ts.Style, ts.Size)
	c.W.SetTextColor(ts.Color)
	return c.W.Paragraph(x, y, w, s, align)
}

func (c *Context) rule(x1 float64, y1 float64, x2 float64, y2 float64, color pdfs.Color) {
	c.W.SetDrawColor(color)
	c.W.SetLineWidth(1)
	c.W.Line(x1, y1, x2, y2)
}
