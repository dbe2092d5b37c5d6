package repository

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hiroki-koketsu/go-task-frontend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepository_CreateGetList(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	first := repo.Create(ctx, model.TaskInput{Title: "first", Status: "pending"})
	second := repo.Create(ctx, model.TaskInput{Title: "second", DueDate: "2024-12-31"})

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, int64(2), repo.Count())

	got, err := repo.GetByID(ctx, second.ID.String())
	require.NoError(t, err)
	assert.Equal(t, second, got)

	assert.Equal(t, []model.Task{first, second}, repo.List(ctx))
}

func TestTaskRepository_GetByID_NotFound(t *testing.T) {
	_, err := NewTaskRepository().GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskRepository_Handler(t *testing.T) {
	repo := NewTaskRepository()
	srv := httptest.NewServer(repo.Handler(slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/tasks", "application/json",
		strings.NewReader(`{"title":"Valid Task","description":"d","status":"pending","dueDate":"2024-12-31"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var id string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&id))
	assert.NotEmpty(t, id)

	resp, err = http.Get(srv.URL + "/tasks/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var task model.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	assert.Equal(t, "Valid Task", task.Title)
	assert.Equal(t, "2024-12-31", task.DueDate)

	resp, err = http.Get(srv.URL + "/tasks")
	require.NoError(t, err)
	defer resp.Body.Close()

	var tasks []model.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	assert.Len(t, tasks, 1)

	resp, err = http.Get(srv.URL + "/tasks/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/tasks", "application/json", strings.NewReader(`not json`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
