package pdfs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/zeptools/gw-invoice/rw"
)

// FPDFOptions for NewFPDFWriter
type FPDFOptions struct {
	Size         PaperSize
	CreationDate time.Time  // fixed dates keep the output reproducible
	Fonts        *FontStore // optional UTF-8 fonts; core fonts otherwise
	Title        string
}

// FPDFWriter implements Writer on top of go-pdf/fpdf.
// One writer per document; not safe for concurrent use.
type FPDFWriter struct {
	pdf      *fpdf.Fpdf
	size     PaperSize
	utf8     map[FontKey]bool // registered UTF-8 faces
	family   string
	fontSize float64
	toCP1252 func(string) string
	out      []byte // produced once, fpdf drains its buffer on Output
	produced bool
}

// Ensure FPDFWriter implements Writer
var _ Writer = (*FPDFWriter)(nil)

// glyphs the core (cp1252) fonts cannot show
var coreGlyphFallback = strings.NewReplacer(
	"₦", "NGN ",
	"₹", "Rs ",
	"✓", "",
)

func NewFPDFWriter(opts FPDFOptions) *FPDFWriter {
	size := opts.Size
	if size.Width == 0 || size.Height == 0 {
		size = A4Size
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	// the layout engine manages its own margins
	pdf.SetMargins(0, 0, 0)
	pdf.SetCellMargin(0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(true)
	created := opts.CreationDate
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}

	w := &FPDFWriter{
		pdf:      pdf,
		size:     size,
		utf8:     make(map[FontKey]bool),
		toCP1252: pdf.UnicodeTranslatorFromDescriptor(""),
	}
	if opts.Fonts.Len() > 0 {
		for _, key := range opts.Fonts.Keys() {
			ttf, _ := opts.Fonts.Get(key.Family, key.Style)
			pdf.AddUTF8FontFromBytes(key.Family, key.Style, ttf)
			w.utf8[key] = true
		}
	}
	return w
}

func (w *FPDFWriter) PaperSize() PaperSize {
	return w.size
}

func (w *FPDFWriter) AddBlankPage() {
	w.pdf.AddPage()
}

func (w *FPDFWriter) SetFont(family string, style string, size float64) {
	w.family = family
	w.fontSize = size
	if w.utf8[FontKey{Family: family}] && !w.utf8[FontKey{Family: family, Style: style}] {
		style = "" // no bold face registered for this family
	}
	w.pdf.SetFont(family, style, size)
}

func (w *FPDFWriter) SetTextColor(c Color) {
	w.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}

func (w *FPDFWriter) SetFillColor(c Color) {
	w.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func (w *FPDFWriter) SetDrawColor(c Color) {
	w.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func (w *FPDFWriter) SetLineWidth(lw float64) {
	w.pdf.SetLineWidth(lw)
}

func (w *FPDFWriter) Text(x float64, y float64, width float64, text string, align Align) {
	w.pdf.SetXY(x, y)
	w.pdf.CellFormat(width, w.lineHeight(), w.encode(text), "", 0, string(align), false, 0, "")
}

func (w *FPDFWriter) Paragraph(x float64, y float64, width float64, text string, align Align) float64 {
	w.pdf.SetXY(x, y)
	w.pdf.MultiCell(width, w.lineHeight(), w.encode(text), "", string(align), false)
	return w.pdf.GetY() - y
}

func (w *FPDFWriter) FillRect(x float64, y float64, width float64, height float64) {
	w.pdf.Rect(x, y, width, height, "F")
}

func (w *FPDFWriter) Line(x1 float64, y1 float64, x2 float64, y2 float64) {
	w.pdf.Line(x1, y1, x2, y2)
}

func (w *FPDFWriter) Image(name string, data []byte, x float64, y float64, width float64, height float64) error {
	imgType, err := ImageType(data)
	if err != nil {
		return fmt.Errorf("image %q: %w", name, err)
	}
	opts := fpdf.ImageOptions{ImageType: imgType}
	info := w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if info == nil || w.pdf.Err() {
		regErr := w.pdf.Error()
		w.pdf.ClearError()
		if regErr == nil {
			regErr = errors.New("registration failed")
		}
		return fmt.Errorf("image %q: %w", name, regErr)
	}
	iw, ih := info.Extent()
	fw, fh := fitBox(iw, ih, width, height)
	w.pdf.ImageOptions(name, x, y, fw, fh, false, opts, 0, "")
	return nil
}

func (w *FPDFWriter) Err() error {
	if w.pdf.Err() {
		return w.pdf.Error()
	}
	return nil
}

func (w *FPDFWriter) WriteTo(dst io.Writer) (int64, error) {
	data, err := w.ProduceBytes()
	if err != nil {
		return 0, err
	}
	cw := rw.NewCountWriter(dst)
	_, err = cw.Write(data)
	return cw.BytesWritten(), err
}

func (w *FPDFWriter) ProduceBytes() ([]byte, error) {
	if w.produced {
		return w.out, nil
	}
	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, err
	}
	w.out = buf.Bytes()
	w.produced = true
	return w.out, nil
}

func (w *FPDFWriter) lineHeight() float64 {
	if w.fontSize <= 0 {
		return 12
	}
	return w.fontSize * 1.15
}

func (w *FPDFWriter) encode(text string) string {
	if w.utf8[FontKey{Family: w.family}] {
		return text
	}
	return w.toCP1252(strings.TrimSpace(coreGlyphFallback.Replace(text)))
}
