package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Task represents a task as returned by the task backend.
// Fields the backend does not send are left empty.
type Task struct {
	ID          TaskID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate"`
}

// TaskID is an opaque task identifier. The backend may encode it as a JSON
// string or a JSON number; both decode to the same textual form.
type TaskID string

func (id TaskID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

// TaskInput represents the fields submitted on the task creation form.
// Values are kept exactly as submitted.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate"`
}
