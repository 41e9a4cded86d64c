package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"weeklybudget/internal/core"
	applog "weeklybudget/internal/log"
)

type expenseRequest struct {
	Amount      string   `json:"amount"`
	Description string   `json:"description"`
	TagIDs      []string `json:"tagIds,omitempty"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListExpenses(w, r)
	case http.MethodPost:
		s.handleAddExpense(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.ListExpenses(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req expenseRequest
	if !readJSON(w, r, &req) {
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	tagIDs, ok := parseTagIDs(req.TagIDs)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "invalid tag id")
		return
	}
	tags, err := s.svc.ResolveTags(ctx, tagIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	expense, err := s.svc.AddExpense(ctx, amount, strings.TrimSpace(req.Description), tags)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.InfoContext(ctx, "Expense recorded",
		applog.FieldExpenseID, expense.ID,
		applog.FieldAmountCents, expense.Amount.Cents)
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/expenses/")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleEditExpense(w, r, id)
	case http.MethodDelete:
		s.handleRemoveExpense(w, r, id)
	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req expenseRequest
	if !readJSON(w, r, &req) {
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	expense, err := s.svc.EditExpense(r.Context(), id, amount, strings.TrimSpace(req.Description))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// Deleting an id that is already gone is a no-op, not an error: the
// client ends up in the state it asked for either way.
func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := s.svc.RemoveExpense(r.Context(), id); err != nil && !errors.Is(err, core.ErrNotFound) {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseTagIDs(raw []string) ([]uuid.UUID, bool) {
	if len(raw) == 0 {
		return nil, true
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
