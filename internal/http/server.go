// Package http exposes the budget service over a small JSON API meant
// for a local presentation layer (app UI and home screen widget).
package http

import (
	"net/http"

	applog "weeklybudget/internal/log"
	"weeklybudget/internal/services"
	"weeklybudget/internal/widget"
)

// Server wraps http.Server with the application handlers attached.
type Server struct {
	http.Server

	svc    *services.BudgetService
	widget *widget.Publisher
	logger *applog.Logger
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.BudgetService, pub *widget.Publisher, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	mux := http.NewServeMux()

	s := &Server{
		svc:    svc,
		widget: pub,
		logger: logger.WithComponent(applog.ComponentHTTP),
	}
	s.Server = http.Server{
		Addr:    addr,
		Handler: applog.Middleware(s.logger)(mux),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/week", s.handleWeek)
	mux.HandleFunc("/api/expenses", s.handleExpenses)
	mux.HandleFunc("/api/expenses/", s.handleExpenseByID)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/tags", s.handleTags)
	mux.HandleFunc("/api/tags/", s.handleTagByID)
	mux.HandleFunc("/api/widget", s.handleWidget)

	return s
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
