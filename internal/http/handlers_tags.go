package http

import (
	"net/http"

	"weeklybudget/internal/core"
)

type tagRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tags, err := s.svc.ListTags(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if tags == nil {
			tags = []core.Tag{}
		}
		writeJSON(w, http.StatusOK, tags)

	case http.MethodPost:
		var req tagRequest
		if !readJSON(w, r, &req) {
			return
		}
		tag, err := s.svc.AddTag(r.Context(), req.Name)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, tag)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleTagByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/tags/")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req tagRequest
		if !readJSON(w, r, &req) {
			return
		}
		tag, err := s.svc.RenameTag(r.Context(), id, req.Name)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tag)

	case http.MethodDelete:
		if err := s.svc.DeleteTag(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}
