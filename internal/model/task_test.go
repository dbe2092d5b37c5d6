package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want TaskID
	}{
		{name: "string", data: `"abc-123"`, want: "abc-123"},
		{name: "integer", data: `42`, want: "42"},
		{name: "null", data: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id TaskID
			require.NoError(t, json.Unmarshal([]byte(tt.data), &id))
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestTaskID_UnmarshalJSON_Invalid(t *testing.T) {
	var id TaskID
	assert.Error(t, json.Unmarshal([]byte(`{"id":1}`), &id))
}

func TestTask_DecodeBackendRepresentation(t *testing.T) {
	data := `{"id":1,"title":"Task 1","description":"Test description","status":"pending","dueDate":"2024-12-31","createdAt":"ignored"}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(data), &task))

	assert.Equal(t, Task{
		ID:          "1",
		Title:       "Task 1",
		Description: "Test description",
		Status:      "pending",
		DueDate:     "2024-12-31",
	}, task)
}

func TestTaskInput_EncodesBackendPayload(t *testing.T) {
	in := TaskInput{Title: "Valid Task", Description: "Valid description", Status: "pending", DueDate: "2024-12-31"}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	assert.JSONEq(t, `{"title":"Valid Task","description":"Valid description","status":"pending","dueDate":"2024-12-31"}`, string(data))
}
