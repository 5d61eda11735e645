package documents

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/layout"
	"github.com/zeptools/gw-invoice/metrics"
	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/pdfs"
)

// WriterFactory returns a fresh canvas for one document
type WriterFactory func(opts pdfs.FPDFOptions) pdfs.Writer

func FPDFFactory(opts pdfs.FPDFOptions) pdfs.Writer {
	return pdfs.NewFPDFWriter(opts)
}

// Renderer is safe for concurrent use; every call builds its own canvas
// and layout context.
type Renderer struct {
	Clock     func() time.Time
	Logger    *zap.Logger
	Metrics   *metrics.Render
	NewWriter WriterFactory
	Fonts     *pdfs.FontStore
	Page      layout.Page
}

func NewRenderer(logger *zap.Logger, m *metrics.Render, fonts *pdfs.FontStore) *Renderer {
	return &Renderer{
		Clock:     time.Now,
		Logger:    logger,
		Metrics:   m,
		NewWriter: FPDFFactory,
		Fonts:     fonts,
		Page:      layout.A4(),
	}
}

// Invoice always returns a complete PDF. The error is set only when not
// even the error page could be produced.
func (r *Renderer) Invoice(inv *models.Invoice, style *models.TemplateStyle) ([]byte, error) {
	now := r.now()
	return r.render(KindInvoice, now, func() Plan {
		return PlanInvoice(inv, style, now)
	})
}

func (r *Renderer) Receipt(rec *models.Receipt, style *models.TemplateStyle) ([]byte, error) {
	now := r.now()
	return r.render(KindReceipt, now, func() Plan {
		return PlanReceipt(rec, style, now)
	})
}

func (r *Renderer) render(kind Kind, now time.Time, plan func() Plan) ([]byte, error) {
	start := time.Now()
	log := r.logger().With(zap.String("kind", string(kind)))

	w := r.writer(kind, now)
	err := r.draw(w, plan, log)
	var out []byte
	if err == nil {
		out, err = w.ProduceBytes()
	}
	if err == nil {
		r.Metrics.ObserveRender(string(kind), metrics.OutcomeOK, time.Since(start))
		return out, nil
	}

	log.Error("documents: render failed, producing error page", zap.Error(err))
	out, pageErr := r.errorPage(kind, now, err)
	if pageErr != nil {
		r.Metrics.ObserveRender(string(kind), metrics.OutcomeFailed, time.Since(start))
		return nil, fmt.Errorf("error page: %w", errors.Join(pageErr, err))
	}
	r.Metrics.ObserveRender(string(kind), metrics.OutcomeErrorPage, time.Since(start))
	return out, nil
}

// draw runs the fixed zone order. Panics anywhere in here become errors.
func (r *Renderer) draw(w pdfs.Writer, plan func() Plan, log *zap.Logger) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	p := plan()
	if fam, ok := r.utf8Family(); ok {
		p.Theme.Family = fam
	}

	w.AddBlankPage()
	ctx := layout.NewContext(w, r.page(), p.Theme, log)
	ctx.Header(p.Header)
	ctx.PartyBlock(p.Kind.PartyLabel(), p.Party)
	ctx.DetailPairs(p.Details, p.Kind.DetailValueOffset())
	ctx.ItemTable(p.Table)
	ctx.Summary(p.Summary, p.Currency)
	if line := p.Kind.Confirmation(); line != "" {
		ctx.ConfirmationLine(line)
	}
	ctx.Footer(p.Notes, p.PaymentInfo)
	return w.Err()
}

const errorPagePrefix = "Error generating PDF: "

func (r *Renderer) errorPage(kind Kind, now time.Time, cause error) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	w := r.writer(kind, now)
	w.AddBlankPage()
	w.SetFont("Helvetica", "", 12)
	w.SetTextColor(pdfs.Black)
	w.Text(50, 50, w.PaperSize().Width-100, errorPagePrefix+cause.Error(), pdfs.AlignLeft)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.ProduceBytes()
}

func (r *Renderer) writer(kind Kind, now time.Time) pdfs.Writer {
	factory := r.NewWriter
	if factory == nil {
		factory = FPDFFactory
	}
	return factory(pdfs.FPDFOptions{
		Size:         r.page().Size,
		CreationDate: now,
		Fonts:        r.Fonts,
		Title:        kind.Title(),
	})
}

func (r *Renderer) utf8Family() (string, bool) {
	return r.Fonts.RegularFamily()
}

func (r *Renderer) page() layout.Page {
	if r.Page.Size.Width == 0 {
		return layout.A4()
	}
	return r.Page
}

func (r *Renderer) now() time.Time {
	if r.Clock == nil {
		return time.Now()
	}
	return r.Clock()
}

func (r *Renderer) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
