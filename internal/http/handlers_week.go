package http

import (
	"net/http"

	"weeklybudget/internal/core"
	applog "weeklybudget/internal/log"
)

type setupWeekRequest struct {
	Budget string `json:"budget"`
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleWeekStatus(w, r)
	case http.MethodPost:
		s.handleWeekSetup(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleWeekStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Reads archive an expired week before reporting, so a client that
	// opens the app on Sunday evening lands on the setup screen.
	if _, err := s.svc.CheckRollover(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Rollover check failed", applog.FieldError, err)
		writeServiceError(w, err)
		return
	}

	status, err := s.svc.Status(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleWeekSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req setupWeekRequest
	if !readJSON(w, r, &req) {
		return
	}

	budget, err := core.ParseAmount(req.Budget)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid budget amount")
		return
	}

	window, err := s.svc.SetupWeek(ctx, budget)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, window)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	history, err := s.svc.History(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if history == nil {
		history = []core.WeekHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	if _, err := s.svc.CheckRollover(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Rollover check failed", applog.FieldError, err)
	}
	writeJSON(w, http.StatusOK, s.widget.Read(ctx))
}
