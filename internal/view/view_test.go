package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hiroki-koketsu/go-task-frontend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, page string, data any) string {
	t.Helper()

	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, page, data))
	return buf.String()
}

func TestRender_TaskList(t *testing.T) {
	out := render(t, PageTaskList, TaskListView{Tasks: []model.Task{
		{ID: "1", Title: "Task 1", Status: "pending"},
		{ID: "a b", Title: "<Task 2>", Status: "completed"},
	}})

	assert.Contains(t, out, `<a href="/tasks/1">Task 1</a>`)
	assert.Contains(t, out, `href="/tasks/a%20b"`)
	assert.Contains(t, out, "&lt;Task 2&gt;")
	assert.NotContains(t, out, "No tasks to show.")
}

func TestRender_TaskListWithoutTasks(t *testing.T) {
	for _, data := range []TaskListView{{}, {Tasks: []model.Task{}}} {
		out := render(t, PageTaskList, data)

		assert.Contains(t, out, "No tasks to show.")
		assert.NotContains(t, out, "<table>")
	}
}

func TestRender_TaskFormEmpty(t *testing.T) {
	out := render(t, PageTaskForm, TaskFormView{})

	assert.Contains(t, out, `<form method="post" action="/tasks"`)
	assert.Contains(t, out, `name="title" type="text" value=""`)
	assert.NotContains(t, out, "There is a problem")
}

func TestRender_TaskFormWithErrors(t *testing.T) {
	out := render(t, PageTaskForm, TaskFormView{
		Errors: []model.ValidationError{model.ErrTitleRequired, model.ErrDescriptionTooLong},
		Task:   &model.TaskInput{Title: "   ", Description: "keep me", Status: "pending", DueDate: "2024-12-31"},
	})

	assert.Contains(t, out, "<title>Error: Create a task - Tasks</title>")
	assert.Contains(t, out, "There is a problem")
	assert.Contains(t, out, "Title is required")
	assert.Contains(t, out, "Description must be 500 characters or less")
	assert.Contains(t, out, `value="   "`)
	assert.Contains(t, out, ">keep me</textarea>")
	assert.Contains(t, out, `value="pending"`)
	assert.Contains(t, out, `value="2024-12-31"`)
	assert.Less(t, strings.Index(out, "Title is required"), strings.Index(out, "Description must be"))
}

func TestRender_TaskDetail(t *testing.T) {
	out := render(t, PageTaskDetail, TaskDetailView{
		Task:    &model.Task{ID: "1", Title: "Task 1", Description: "Some **bold** text", Status: "pending", DueDate: "2024-12-31"},
		Success: true,
	})

	assert.Contains(t, out, "<h1>Task 1</h1>")
	assert.Contains(t, out, "Task created")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "Task not found")
}

func TestRender_TaskDetailWithoutSuccess(t *testing.T) {
	out := render(t, PageTaskDetail, TaskDetailView{Task: &model.Task{ID: "1", Title: "Task 1"}})

	assert.NotContains(t, out, "Task created")
	assert.NotContains(t, out, "Description")
}

func TestRender_TaskDetailWithoutTask(t *testing.T) {
	out := render(t, PageTaskDetail, TaskDetailView{})

	assert.Contains(t, out, "<h1>Task not found</h1>")
	assert.NotContains(t, out, "Task created")
}

func TestRender_DescriptionDropsRawHTML(t *testing.T) {
	out := render(t, PageTaskDetail, TaskDetailView{
		Task: &model.Task{ID: "1", Title: "x", Description: "<script>alert(1)</script>"},
	})

	assert.NotContains(t, out, "<script>alert(1)</script>")
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	assert.Error(t, r.Render(&bytes.Buffer{}, "missing", nil))
}

func TestTaskPath(t *testing.T) {
	assert.Equal(t, "/tasks/123", TaskPath("123"))
	assert.Equal(t, "/tasks/a%2Fb", TaskPath("a/b"))
}
