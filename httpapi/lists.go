package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vimalpatra/todo-backend/middleware"
	"github.com/vimalpatra/todo-backend/tasks"
)

type listBody struct {
	Title string `json:"title"`
}

func (s *Server) handleGetLists(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	lists, err := s.repo.ListsForOwner(r.Context(), ownerID)
	if err != nil {
		writeStoreError(w)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body listBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	list, err := s.repo.CreateList(r.Context(), ownerID, body.Title)
	if err != nil {
		writeStoreError(w)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body listBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	res, err := s.repo.UpdateList(r.Context(), ownerID, chi.URLParam(r, "listId"), body.Title)
	if err != nil {
		writeStoreError(w)
		return
	}
	if res != tasks.Found {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	res, err := s.repo.DeleteList(r.Context(), ownerID, chi.URLParam(r, "listId"))
	if err != nil {
		writeStoreError(w)
		return
	}
	if res != tasks.Found {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
