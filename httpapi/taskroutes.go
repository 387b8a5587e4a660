package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vimalpatra/todo-backend/middleware"
	"github.com/vimalpatra/todo-backend/tasks"
)

type taskBody struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// resolveList runs the two-step ownership check shared by every task route:
// the list must exist and belong to the authenticated subject, otherwise the
// whole request is a 404 regardless of whether the task id is real.
func (s *Server) resolveList(w http.ResponseWriter, r *http.Request) (*tasks.List, bool) {
	ownerID, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	list, res, err := s.repo.ResolveOwnedList(r.Context(), ownerID, chi.URLParam(r, "listId"))
	if err != nil {
		writeStoreError(w)
		return nil, false
	}
	if res != tasks.Found {
		writeError(w, http.StatusNotFound, "list not found")
		return nil, false
	}
	return list, true
}

func (s *Server) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	list, ok := s.resolveList(w, r)
	if !ok {
		return
	}

	items, err := s.repo.TasksForList(r.Context(), list.ID)
	if err != nil {
		writeStoreError(w)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	list, ok := s.resolveList(w, r)
	if !ok {
		return
	}

	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == nil || *body.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	task, err := s.repo.CreateTask(r.Context(), list.ID, *body.Title)
	if err != nil {
		writeStoreError(w)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	list, ok := s.resolveList(w, r)
	if !ok {
		return
	}

	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.repo.UpdateTask(r.Context(), list.ID, chi.URLParam(r, "taskId"), body.Title, body.Completed)
	if err != nil {
		writeStoreError(w)
		return
	}
	if res != tasks.Found {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	list, ok := s.resolveList(w, r)
	if !ok {
		return
	}

	res, err := s.repo.DeleteTask(r.Context(), list.ID, chi.URLParam(r, "taskId"))
	if err != nil {
		writeStoreError(w)
		return
	}
	if res != tasks.Found {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
