// Package api is the HTTP surface of the invoicing backend.
package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/auth"
	"github.com/zeptools/gw-invoice/documents"
	"github.com/zeptools/gw-invoice/locks/keyonlylocks"
	"github.com/zeptools/gw-invoice/metrics"
	"github.com/zeptools/gw-invoice/responses"
	"github.com/zeptools/gw-invoice/routing"
	"github.com/zeptools/gw-invoice/store"
	"github.com/zeptools/gw-invoice/throttle"
)

const (
	ThrottleGroupAuth = "auth"
	ThrottleGroupPDF  = "pdf"

	EnvProduction = "production"
	Version       = "1.0.0"
)

// DefaultThrottleBuckets are used for groups the config leaves out
var DefaultThrottleBuckets = map[string]throttle.BucketConf{
	ThrottleGroupAuth: {Burst: 10, Increment: 1, Period: 6 * time.Second},
	ThrottleGroupPDF:  {Burst: 20, Increment: 1, Period: time.Second},
}

type Config struct {
	AppName    string
	Env        string
	UploadsDir string // served under /uploads/; logo uploads land here
}

// Server holds everything the handlers need. Metrics, Throttle, Cache and
// Gatherer are optional.
type Server struct {
	Conf        Config
	Store       *store.Store
	Auth        *auth.Service
	Tokens      routing.TokenVerifier
	Renderer    *documents.Renderer
	Cache       *PDFCache
	Throttle    *throttle.BucketStore[string]
	Locks       *keyonlylocks.Store
	HTTPMetrics *metrics.HTTP
	Gatherer    prometheus.Gatherer
	Log         *zap.Logger
	Clock       func() time.Time
}

func (s *Server) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) env() string {
	if s.Conf.Env == "" {
		return "development"
	}
	return s.Conf.Env
}

// Handler builds the routed handler. Call it once.
func (s *Server) Handler() http.Handler {
	if s.Locks == nil {
		s.Locks = &keyonlylocks.Store{}
	}
	router := &routing.BaseRouter{ServeMux: http.NewServeMux()}

	authed := routing.AuthWrapper{Verifier: s.Tokens}
	pdfAuthed := routing.AuthWrapper{Verifier: s.Tokens, QueryToken: true}
	authThrottle := routing.ThrottleWrapper{Store: s.Throttle, Group: ThrottleGroupAuth, Key: routing.ByClientIP, Now: s.now}
	pdfThrottle := routing.ThrottleWrapper{Store: s.Throttle, Group: ThrottleGroupPDF, Key: routing.ByUserOrIP, Now: s.now}

	router.Group("/api", func(api *routing.RouteGroup) {
		api.Group("/auth", func(g *routing.RouteGroup) {
			g.HandleFunc("POST /register", s.register)
			g.HandleFunc("POST /login", s.login)
			g.HandleFunc("POST /forgot-password", s.forgotPassword)
			g.HandleFunc("POST /reset-password", s.resetPassword)
			g.HandleFunc("POST /verify-reset-token", s.verifyResetToken)
		}, authThrottle)

		api.HandleFunc("POST /invoices", s.createInvoice, authed)
		api.HandleFunc("GET /invoices", s.listInvoices, authed)
		api.HandleFunc("GET /invoices/search/invoices", s.searchInvoices, authed)
		api.HandleFunc("GET /invoices/{id}", s.getInvoice, authed)
		api.HandleFunc("PUT /invoices/{id}", s.updateInvoice, authed)
		api.HandleFunc("DELETE /invoices/{id}", s.deleteInvoice, authed)
		api.HandleFunc("GET /invoices/{id}/pdf", s.invoicePDF, pdfAuthed, pdfThrottle)

		api.HandleFunc("POST /receipts", s.createReceipt, authed)
		api.HandleFunc("GET /receipts", s.listReceipts, authed)
		api.HandleFunc("POST /receipts/from-invoice/{invoiceId}", s.receiptFromInvoice, authed)
		api.HandleFunc("GET /receipts/{id}", s.getReceipt, authed)
		api.HandleFunc("PUT /receipts/{id}", s.updateReceipt, authed)
		api.HandleFunc("DELETE /receipts/{id}", s.deleteReceipt, authed)
		api.HandleFunc("GET /receipts/{id}/pdf", s.receiptPDF, pdfAuthed, pdfThrottle)

		api.HandleFunc("GET /templates/seed", s.seedTemplates)
		api.HandleFunc("GET /templates", s.listTemplates)
		api.HandleFunc("GET /templates/type/{type}", s.listTemplatesByType)
		api.HandleFunc("POST /templates", s.createTemplate, authed)
		api.HandleFunc("POST /templates/{id}/logo", s.uploadTemplateLogo, authed)
		api.HandleFunc("DELETE /templates/{id}/logo", s.removeTemplateLogo, authed)
		api.HandleFunc("PUT /templates/{id}", s.updateTemplate, authed)
		api.HandleFunc("GET /templates/{id}", s.getTemplate)
		api.HandleFunc("DELETE /templates/{id}", s.deleteTemplate, authed)

		api.HandleFunc("GET /health", s.health)
	})

	router.HandleFunc("GET /ping", s.ping)
	router.HandleFunc("GET /{$}", s.index)
	router.Handle("GET /metrics", metrics.Handler(s.Gatherer))
	if s.Conf.UploadsDir != "" {
		router.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.Conf.UploadsDir))))
	}
	router.HandleFunc("/", s.notFound)

	var h http.Handler = router
	h = routing.MetricsWrapper(s.HTTPMetrics).Wrap(h)
	h = routing.RecoverWrapper(s.logger()).Wrap(h)
	return h
}

// serverError logs err and answers 500 with msg
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger().Error(msg, zap.Error(err), zap.String("method", r.Method), zap.String("path", r.URL.Path))
	responses.WriteSimpleErrorJSON(w, http.StatusInternalServerError, msg)
}

func badRequest(w http.ResponseWriter, msg string) {
	responses.WriteSimpleErrorJSON(w, http.StatusBadRequest, msg)
}
