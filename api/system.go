package api

import (
	"net/http"

	"github.com/zeptools/gw-invoice/responses"
)

type healthStatus struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	responses.EncodeWriteJSON(w, http.StatusOK, healthStatus{
		Status:      "OK",
		Message:     "Server is running",
		Timestamp:   s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Environment: s.env(),
	})
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}

type apiIndex struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	responses.EncodeWriteJSON(w, http.StatusOK, apiIndex{
		Message: "Invoice App Backend API",
		Version: Version,
		Endpoints: map[string]string{
			"auth":      "/api/auth",
			"invoices":  "/api/invoices",
			"templates": "/api/templates",
			"receipts":  "/api/receipts",
		},
	})
}

type routeNotFound struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	responses.EncodeWriteJSON(w, http.StatusNotFound, routeNotFound{Message: "Route not found", Path: r.URL.RequestURI()})
}
