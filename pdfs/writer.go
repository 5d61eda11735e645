package pdfs

import "io"

type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Writer is a minimal, stream-style, append-only PDF canvas. No page navigation.
// Coordinates are in `pt` from the top-left corner of the current page.
// A text call places the top of its line box at y.
type Writer interface {
	PaperSize() PaperSize

	AddBlankPage()

	SetFont(family string, style string, size float64)
	SetTextColor(c Color)
	SetFillColor(c Color)
	SetDrawColor(c Color)
	SetLineWidth(w float64)

	// Text draws a single line inside a box of width w (0 = to the page edge)
	Text(x float64, y float64, w float64, text string, align Align)
	// Paragraph draws wrapped text and returns the height consumed
	Paragraph(x float64, y float64, w float64, text string, align Align) float64
	FillRect(x float64, y float64, w float64, h float64)
	Line(x1 float64, y1 float64, x2 float64, y2 float64)
	// Image fits the decoded image into w x h keeping its aspect ratio.
	// A failed image leaves the writer usable.
	Image(name string, data []byte, x float64, y float64, w float64, h float64) error

	// Err reports a sticky internal error, if any
	Err() error

	WriteTo(w io.Writer) (int64, error)
	ProduceBytes() ([]byte, error)
}
