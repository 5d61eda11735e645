package pdfs

import (
	"bytes"
	"fmt"
	"io"
)

type OpKind string

const (
	OpPage      OpKind = "page"
	OpText      OpKind = "text"
	OpParagraph OpKind = "paragraph"
	OpRect      OpKind = "rect"
	OpLine      OpKind = "line"
	OpImage     OpKind = "image"
)

type Font struct {
	Family string
	Style  string
	Size   float64
}

// Op is one recorded draw call with the graphics state it was drawn with
type Op struct {
	Kind      OpKind
	X, Y      float64
	X2, Y2    float64 // line end
	W, H      float64
	Text      string
	Align     Align
	Font      Font
	TextColor Color
	FillColor Color
	DrawColor Color
	LineWidth float64
}

// Recorder is an in-memory Writer that keeps every draw call.
// ProduceBytes returns a line-per-op dump, not a PDF.
type Recorder struct {
	Ops []Op

	size      PaperSize
	font      Font
	textColor Color
	fillColor Color
	drawColor Color
	lineWidth float64
	failure   error
}

var _ Writer = (*Recorder)(nil)

func NewRecorder(size PaperSize) *Recorder {
	if size.Width == 0 || size.Height == 0 {
		size = A4Size
	}
	return &Recorder{size: size, lineWidth: 1}
}

// FailWith makes Err report err, as a writer with a broken internal state would
func (r *Recorder) FailWith(err error) {
	r.failure = err
}

func (r *Recorder) PaperSize() PaperSize {
	return r.size
}

func (r *Recorder) AddBlankPage() {
	r.Ops = append(r.Ops, Op{Kind: OpPage})
}

func (r *Recorder) SetFont(family string, style string, size float64) {
	r.font = Font{Family: family, Style: style, Size: size}
}

func (r *Recorder) SetTextColor(c Color) { r.textColor = c }
func (r *Recorder) SetFillColor(c Color) { r.fillColor = c }
func (r *Recorder) SetDrawColor(c Color) { r.drawColor = c }
func (r *Recorder) SetLineWidth(w float64) {
	r.lineWidth = w
}

func (r *Recorder) Text(x float64, y float64, w float64, text string, align Align) {
	r.Ops = append(r.Ops, r.op(Op{Kind: OpText, X: x, Y: y, W: w, Text: text, Align: align}))
}

func (r *Recorder) Paragraph(x float64, y float64, w float64, text string, align Align) float64 {
	h := r.font.Size * 1.15
	r.Ops = append(r.Ops, r.op(Op{Kind: OpParagraph, X: x, Y: y, W: w, H: h, Text: text, Align: align}))
	return h
}

func (r *Recorder) FillRect(x float64, y float64, w float64, h float64) {
	r.Ops = append(r.Ops, r.op(Op{Kind: OpRect, X: x, Y: y, W: w, H: h}))
}

func (r *Recorder) Line(x1 float64, y1 float64, x2 float64, y2 float64) {
	r.Ops = append(r.Ops, r.op(Op{Kind: OpLine, X: x1, Y: y1, X2: x2, Y2: y2}))
}

func (r *Recorder) Image(name string, data []byte, x float64, y float64, w float64, h float64) error {
	if _, err := ImageType(data); err != nil {
		return fmt.Errorf("image %q: %w", name, err)
	}
	r.Ops = append(r.Ops, r.op(Op{Kind: OpImage, X: x, Y: y, W: w, H: h, Text: name}))
	return nil
}

func (r *Recorder) Err() error {
	return r.failure
}

func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	data, err := r.ProduceBytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func (r *Recorder) ProduceBytes() ([]byte, error) {
	if r.failure != nil {
		return nil, r.failure
	}
	var buf bytes.Buffer
	for _, op := range r.Ops {
		switch op.Kind {
		case OpText, OpParagraph:
			fmt.Fprintf(&buf, "%s %.2f,%.2f w=%.2f %s %s%s %.1f %s %q\n",
				op.Kind, op.X, op.Y, op.W, op.Align, op.Font.Family, op.Font.Style, op.Font.Size, op.TextColor, op.Text)
		case OpRect:
			fmt.Fprintf(&buf, "rect %.2f,%.2f %.2fx%.2f %s\n", op.X, op.Y, op.W, op.H, op.FillColor)
		case OpLine:
			fmt.Fprintf(&buf, "line %.2f,%.2f-%.2f,%.2f %s %.1f\n", op.X, op.Y, op.X2, op.Y2, op.DrawColor, op.LineWidth)
		case OpImage:
			fmt.Fprintf(&buf, "image %q %.2f,%.2f %.2fx%.2f\n", op.Text, op.X, op.Y, op.W, op.H)
		default:
			fmt.Fprintf(&buf, "%s\n", op.Kind)
		}
	}
	return buf.Bytes(), nil
}

// Texts returns the text of every text and paragraph op in draw order
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText || op.Kind == OpParagraph {
			out = append(out, op.Text)
		}
	}
	return out
}

// Find returns the first text op whose text equals s
func (r *Recorder) Find(s string) (Op, bool) {
	for _, op := range r.Ops {
		if (op.Kind == OpText || op.Kind == OpParagraph) && op.Text == s {
			return op, true
		}
	}
	return Op{}, false
}

// OfKind returns the ops of one kind in draw order
func (r *Recorder) OfKind(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) op(o Op) Op {
	o.Font = r.font
	o.TextColor = r.textColor
	o.FillColor = r.fillColor
	o.DrawColor = r.drawColor
	o.LineWidth = r.lineWidth
	return o
}
