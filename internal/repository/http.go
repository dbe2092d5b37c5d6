package repository

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hiroki-koketsu/go-task-frontend/internal/model"
)

// Handler serves the repository over the task backend contract:
//
//	GET  /tasks       list of tasks
//	POST /tasks       create, responds with the new id as a JSON string
//	GET  /tasks/{id}  single task
func (r *TaskRepository) Handler(logger *slog.Logger) http.Handler {
	mux := chi.NewRouter()

	mux.Get("/tasks", func(w http.ResponseWriter, req *http.Request) {
		respondJSON(w, http.StatusOK, r.List(req.Context()))
	})

	mux.Post("/tasks", func(w http.ResponseWriter, req *http.Request) {
		var in model.TaskInput
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			logger.WarnContext(req.Context(), "invalid request body", slog.Any("error", err))
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		task := r.Create(req.Context(), in)
		logger.InfoContext(req.Context(), "task created", slog.String("id", task.ID.String()))
		respondJSON(w, http.StatusCreated, task.ID)
	})

	mux.Get("/tasks/{id}", func(w http.ResponseWriter, req *http.Request) {
		task, err := r.GetByID(req.Context(), chi.URLParam(req, "id"))
		if errors.Is(err, ErrTaskNotFound) {
			respondJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
			return
		}
		respondJSON(w, http.StatusOK, task)
	})

	return mux
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}
