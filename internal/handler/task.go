package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hiroki-koketsu/go-task-frontend/internal/backend"
	"github.com/hiroki-koketsu/go-task-frontend/internal/model"
	"github.com/hiroki-koketsu/go-task-frontend/internal/telemetry"
	"github.com/hiroki-koketsu/go-task-frontend/internal/view"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/hiroki-koketsu/go-task-frontend/internal/handler")

const (
	// NewTaskPath is the creation form, also the fallback after a failed create.
	NewTaskPath = "/tasks/new"

	maxFormSize = 1 << 20
)

// TaskAPI is the task backend as seen by the handlers.
type TaskAPI interface {
	ListTasks(ctx context.Context) backend.Result[[]model.Task]
	GetTask(ctx context.Context, id string) backend.Result[*model.Task]
	CreateTask(ctx context.Context, in model.TaskInput) backend.Result[model.TaskID]
}

// Renderer writes a named HTML page.
type Renderer interface {
	Render(w io.Writer, page string, data any) error
}

// TaskHandler handles HTTP requests for the task pages.
type TaskHandler struct {
	api     TaskAPI
	views   Renderer
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(api TaskAPI, views Renderer, logger *slog.Logger, metrics *telemetry.Metrics) *TaskHandler {
	return &TaskHandler{
		api:     api,
		views:   views,
		logger:  logger,
		metrics: metrics,
	}
}

// Routes returns the chi router with task routes.
func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/new", h.New)
	r.Get("/{taskID}", h.Show)

	return r
}

// List renders every task known to the backend. A failed backend call
// renders the page without tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskHandler.List")
	defer span.End()

	h.logger.InfoContext(ctx, "listing all tasks")

	res := h.api.ListTasks(ctx)
	h.metrics.RecordBackendCall(ctx, "list", res.OK())

	var data view.TaskListView
	if tasks, ok := res.Get(); ok {
		data.Tasks = tasks
		h.metrics.ObserveTaskCount(len(tasks))
		span.SetAttributes(attribute.Int("task.count", len(tasks)))
		h.logger.InfoContext(ctx, "tasks listed", slog.Int("count", len(tasks)))
	} else {
		h.logBackendError(ctx, "failed to list tasks", res.Err())
	}

	status := h.render(ctx, w, view.PageTaskList, data)
	h.recordMetrics(ctx, "GET", "/tasks", status, start)
}

// New renders the empty task creation form.
func (h *TaskHandler) New(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskHandler.New")
	defer span.End()

	status := h.render(ctx, w, view.PageTaskForm, view.TaskFormView{})
	h.recordMetrics(ctx, "GET", NewTaskPath, status, start)
}

// Create validates the submitted task and forwards it to the backend.
// Invalid input re-renders the form; a backend failure redirects back to it.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskHandler.Create")
	defer span.End()

	in, err := parseTaskInput(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
		in = model.TaskInput{}
	}

	if errs := model.ValidateTask(in); len(errs) > 0 {
		span.SetAttributes(attribute.Int("task.validation_errors", len(errs)))
		h.metrics.ValidationFailures.Add(ctx, 1)
		h.logger.InfoContext(ctx, "task rejected by validation", slog.Int("errors", len(errs)))

		status := h.render(ctx, w, view.PageTaskForm, view.TaskFormView{Errors: errs, Task: &in})
		h.recordMetrics(ctx, "POST", "/tasks", status, start)
		return
	}

	h.logger.InfoContext(ctx, "creating task", slog.String("title", in.Title))

	res := h.api.CreateTask(ctx, in)
	h.metrics.RecordBackendCall(ctx, "create", res.OK())

	id, ok := res.Get()
	if !ok {
		h.logBackendError(ctx, "failed to create task", res.Err())
		http.Redirect(w, r, NewTaskPath, http.StatusFound)
		h.recordMetrics(ctx, "POST", "/tasks", http.StatusFound, start)
		return
	}

	span.SetAttributes(attribute.String("task.id", id.String()))
	h.logger.InfoContext(ctx, "task created", slog.String("id", id.String()))

	http.Redirect(w, r, view.TaskPath(id.String())+"?success=true", http.StatusFound)
	h.recordMetrics(ctx, "POST", "/tasks", http.StatusFound, start)
}

// Show renders a single task. A failed backend call renders the page
// without a task.
func (h *TaskHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	id := taskIDParam(r)
	success := r.URL.Query().Get("success") == "true"

	ctx, span := tracer.Start(ctx, "TaskHandler.Show",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	h.logger.InfoContext(ctx, "getting task", slog.String("id", id))

	res := h.api.GetTask(ctx, id)
	h.metrics.RecordBackendCall(ctx, "get", res.OK())

	var data view.TaskDetailView
	if task, ok := res.Get(); ok {
		data = view.TaskDetailView{Task: task, Success: success}
		h.logger.InfoContext(ctx, "task retrieved", slog.String("id", id))
	} else {
		h.logBackendError(ctx, "failed to get task", res.Err(), slog.String("id", id))
	}

	status := h.render(ctx, w, view.PageTaskDetail, data)
	h.recordMetrics(ctx, "GET", "/tasks/{taskID}", status, start)
}

// Health returns a health check response.
func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// taskIDParam returns the decoded task id from the path. chi matches on
// RawPath when it is set, so only then is the parameter still escaped.
func taskIDParam(r *http.Request) string {
	id := chi.URLParam(r, "taskID")
	if r.URL.RawPath == "" {
		return id
	}
	if unescaped, err := url.PathUnescape(id); err == nil {
		return unescaped
	}
	return id
}

// parseTaskInput reads the task fields from a form or JSON body.
func parseTaskInput(r *http.Request) (model.TaskInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var in model.TaskInput
		if err := json.NewDecoder(io.LimitReader(r.Body, maxFormSize)).Decode(&in); err != nil {
			return model.TaskInput{}, err
		}
		return in, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormSize); err != nil {
			return model.TaskInput{}, err
		}
	default:
		if err := r.ParseForm(); err != nil {
			return model.TaskInput{}, err
		}
	}

	return model.TaskInput{
		Title:       r.PostForm.Get("title"),
		Description: r.PostForm.Get("description"),
		Status:      r.PostForm.Get("status"),
		DueDate:     r.PostForm.Get("dueDate"),
	}, nil
}

// render executes the page into a buffer so a template error never leaves
// a half-written response. It returns the status written.
func (h *TaskHandler) render(ctx context.Context, w http.ResponseWriter, page string, data any) int {
	var buf bytes.Buffer
	if err := h.views.Render(&buf, page, data); err != nil {
		h.logger.ErrorContext(ctx, "failed to render page", slog.String("page", page), slog.Any("error", err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
	return http.StatusOK
}

func (h *TaskHandler) logBackendError(ctx context.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs,
		slog.Any("error", err),
		slog.Int("backend_status", backend.StatusCode(err)),
	)
	h.logger.ErrorContext(ctx, msg, attrs...)
}

func (h *TaskHandler) recordMetrics(ctx context.Context, method, route string, status int, start time.Time) {
	duration := time.Since(start).Seconds()

	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)

	h.metrics.RequestCounter.Add(ctx, 1, attrs)
	h.metrics.RequestDuration.Record(ctx, duration, attrs)
}
