// Package repository is an in-memory task store serving the task backend's
// HTTP contract, used to run the frontend locally and in tests.
package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/hiroki-koketsu/go-task-frontend/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/hiroki-koketsu/go-task-frontend/internal/repository")

// ErrTaskNotFound is returned when no task has the requested id.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository provides an in-memory storage for tasks.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
	order []string
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks: make(map[string]model.Task),
	}
}

// Create stores a new task and returns it with a generated id.
func (r *TaskRepository) Create(ctx context.Context, in model.TaskInput) model.Task {
	_, span := tracer.Start(ctx, "TaskRepository.Create",
		trace.WithAttributes(attribute.String("task.title", in.Title)),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	task := model.Task{
		ID:          model.TaskID(uuid.New().String()),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		DueDate:     in.DueDate,
	}

	r.tasks[task.ID.String()] = task
	r.order = append(r.order, task.ID.String())

	span.SetAttributes(attribute.String("task.id", task.ID.String()))
	return task
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (model.Task, error) {
	_, span := tracer.Start(ctx, "TaskRepository.GetByID",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	span.SetAttributes(attribute.Bool("task.found", ok))
	if !ok {
		return model.Task{}, ErrTaskNotFound
	}
	return task, nil
}

// List returns all tasks in creation order.
func (r *TaskRepository) List(ctx context.Context) []model.Task {
	_, span := tracer.Start(ctx, "TaskRepository.List")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, 0, len(r.order))
	for _, id := range r.order {
		tasks = append(tasks, r.tasks[id])
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks
}

// Count returns the current number of tasks.
func (r *TaskRepository) Count() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.tasks))
}
