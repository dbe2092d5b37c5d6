package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hiroki-koketsu/go-task-frontend/internal/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/hiroki-koketsu/go-task-frontend/internal/backend")

const (
	// RequestIDHeader carries the frontend request id to the backend.
	RequestIDHeader = "X-Request-Id"

	maxBodySize = 4 << 20
)

// Client calls the remote task API over HTTP/JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every backend call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a Client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListTasks fetches every task.
func (c *Client) ListTasks(ctx context.Context) Result[[]model.Task] {
	ctx, span := tracer.Start(ctx, "Client.ListTasks")
	defer span.End()

	data, err := c.do(ctx, "list tasks", http.MethodGet, "/tasks", nil)
	if err != nil {
		return failure[[]model.Task](span, err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return failure[[]model.Task](span, &Error{Op: "list tasks", Err: fmt.Errorf("decode tasks: %w", err)})
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return Success(tasks)
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, id string) Result[*model.Task] {
	ctx, span := tracer.Start(ctx, "Client.GetTask",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	data, err := c.do(ctx, "get task", http.MethodGet, "/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return failure[*model.Task](span, err)
	}

	var task *model.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return failure[*model.Task](span, &Error{Op: "get task", Err: fmt.Errorf("decode task: %w", err)})
	}
	if task == nil {
		return failure[*model.Task](span, &Error{Op: "get task", Err: ErrNoTask})
	}

	return Success(task)
}

// CreateTask sends the task to the backend and returns the new task's id.
func (c *Client) CreateTask(ctx context.Context, in model.TaskInput) Result[model.TaskID] {
	ctx, span := tracer.Start(ctx, "Client.CreateTask",
		trace.WithAttributes(attribute.String("task.title", in.Title)),
	)
	defer span.End()

	data, err := c.do(ctx, "create task", http.MethodPost, "/tasks", in)
	if err != nil {
		return failure[model.TaskID](span, err)
	}

	id, err := parseCreatedID(data)
	if err != nil {
		return failure[model.TaskID](span, &Error{Op: "create task", Err: err})
	}

	span.SetAttributes(attribute.String("task.id", id.String()))
	return Success(id)
}

func (c *Client) do(ctx context.Context, op, method, path string, body any) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, requestID(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %q", resp.Status)}
	}

	return data, nil
}

// parseCreatedID extracts the id from a create response. The backend may
// answer with a JSON string, a JSON number, an object with an "id" field or
// bare text.
func parseCreatedID(data []byte) (model.TaskID, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", ErrEmptyID
	}

	var id model.TaskID
	if data[0] == '{' {
		var created struct {
			ID model.TaskID `json:"id"`
		}
		if err := json.Unmarshal(data, &created); err != nil {
			return "", fmt.Errorf("decode created task: %w", err)
		}
		id = created.ID
	} else if err := json.Unmarshal(data, &id); err != nil {
		id = model.TaskID(data)
	}

	if strings.TrimSpace(id.String()) == "" {
		return "", ErrEmptyID
	}
	return id, nil
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func failure[T any](span trace.Span, err error) Result[T] {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if code := StatusCode(err); code != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", code))
	}
	return Failure[T](err)
}
