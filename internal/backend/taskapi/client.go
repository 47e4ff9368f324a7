// Package taskapi implements the service.Service interface over the task REST API.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"taskboard/internal/config"
	"taskboard/internal/service"
)

const (
	// APITimeout is the default timeout for API calls.
	APITimeout = config.DefaultTimeout

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger

	// token and userID are the only mutable state; see SetSession.
	token  *oauth2.Token
	userID service.ID
}

// New creates a client for cfg.APIURL with no session installed.
func New(cfg *config.Config) *Client {
	c := NewWithHTTPClient(cfg.APIURL, http.DefaultClient)
	if cfg.Timeout > 0 {
		c.timeout = cfg.Timeout
	}
	c.logger = cfg.Log()
	return c
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: APITimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetSession installs the bearer credential and user identity.
func (c *Client) SetSession(s service.Session) {
	c.token = &oauth2.Token{AccessToken: s.Token, TokenType: s.TokenType}
	c.userID = s.UserID
}

// ClearSession drops the bearer credential and user identity.
func (c *Client) ClearSession() {
	c.token = nil
	c.userID = ""
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, creds service.Credentials) (service.Account, error) {
	var account service.Account
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", creds, &account); err != nil {
		return service.Account{}, err
	}
	return account, nil
}

// loginResponse covers the token payload shapes seen from task backends.
type loginResponse struct {
	AccessToken string     `json:"access_token"`
	Token       string     `json:"token"`
	TokenType   string     `json:"token_type"`
	UserID      service.ID `json:"user_id"`
	User        *struct {
		ID       service.ID `json:"id"`
		Username string     `json:"username"`
	} `json:"user"`
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (service.Session, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{creds.Username, creds.Password}

	var resp loginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", body, &resp); err != nil {
		return service.Session{}, err
	}

	sess := service.Session{
		Token:     resp.AccessToken,
		TokenType: resp.TokenType,
		UserID:    resp.UserID,
		Username:  creds.Username,
	}
	if sess.Token == "" {
		sess.Token = resp.Token
	}
	if sess.Token == "" {
		return service.Session{}, &service.MalformedResponseError{Op: "login", Err: errors.New("response has no access token")}
	}
	if sess.UserID == "" && resp.User != nil {
		sess.UserID = resp.User.ID
		if resp.User.Username != "" {
			sess.Username = resp.User.Username
		}
	}
	if sess.UserID == "" {
		sess.UserID = userIDFromToken(sess.Token)
	}
	if sess.UserID == "" {
		return service.Session{}, &service.MalformedResponseError{Op: "login", Err: errors.New("cannot determine user id")}
	}
	return sess, nil
}

// Logout ends the server-side session. The local credential is left for the
// caller to clear.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil)
}

// ListTasks returns the user's tasks, constrained only by completion state.
func (c *Client) ListTasks(ctx context.Context, filter service.ListFilter) ([]service.Task, error) {
	path, err := c.tasksPath()
	if err != nil {
		return nil, err
	}
	if filter.Completed != nil {
		q := url.Values{}
		q.Set("completed", strconv.FormatBool(*filter.Completed))
		path += "?" + q.Encode()
	}

	var raw json.RawMessage
	if err := c.do(ctx, "fetch tasks", http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	tasks, err := decodeTaskList(raw)
	if err != nil {
		return nil, &service.MalformedResponseError{Op: "fetch tasks", Err: err}
	}
	return tasks, nil
}

// decodeTaskList accepts either {"tasks": [...]} or a bare array.
func decodeTaskList(raw json.RawMessage) ([]service.Task, error) {
	trimmed := bytes.TrimSpace(raw)
	var tasks []service.Task
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, err
		}
		return tasks, nil
	}

	var wrapped struct {
		Tasks *[]service.Task `json:"tasks"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Tasks == nil {
		return nil, errors.New(`expected a task array or an object with "tasks"`)
	}
	return *wrapped.Tasks, nil
}

// CreateTask creates a task from title and description.
func (c *Client) CreateTask(ctx context.Context, fields service.NewTask) (service.Task, error) {
	path, err := c.tasksPath()
	if err != nil {
		return service.Task{}, err
	}
	var task service.Task
	if err := c.do(ctx, "create task", http.MethodPost, path, fields, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask edits a task.
func (c *Client) UpdateTask(ctx context.Context, id service.ID, fields service.TaskUpdate) (service.Task, error) {
	path, err := c.taskPath(id)
	if err != nil {
		return service.Task{}, err
	}
	var task service.Task
	if err := c.do(ctx, "update task", http.MethodPut, path, fields, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask deletes a task. The server may answer with the deleted task,
// with another JSON payload, or with no content at all.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) (service.DeleteAck, error) {
	path, err := c.taskPath(id)
	if err != nil {
		return service.DeleteAck{}, err
	}

	resp, body, err := c.send(ctx, "delete task", http.MethodDelete, path, nil)
	if err != nil {
		return service.DeleteAck{}, err
	}

	ack := service.DeleteAck{Success: true, Message: "task deleted"}
	if len(bytes.TrimSpace(body)) == 0 || !isJSON(resp.Header.Get("Content-Type")) {
		return ack, nil
	}

	var task service.Task
	if err := json.Unmarshal(body, &task); err == nil && task.ID != "" {
		ack.Task = &task
		return ack, nil
	}
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		ack.Message = msg.Message
	}
	return ack, nil
}

// SetCompletion sets the completion flag of a task.
func (c *Client) SetCompletion(ctx context.Context, id service.ID, completed bool) (service.Task, error) {
	path, err := c.taskPath(id)
	if err != nil {
		return service.Task{}, err
	}
	body := struct {
		Completed bool `json:"completed"`
	}{completed}

	var task service.Task
	if err := c.do(ctx, "update task completion", http.MethodPatch, path+"/complete", body, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

func (c *Client) tasksPath() (string, error) {
	if c.userID == "" {
		return "", service.ErrUnauthenticated
	}
	return "/api/" + url.PathEscape(string(c.userID)) + "/tasks", nil
}

func (c *Client) taskPath(id service.ID) (string, error) {
	base, err := c.tasksPath()
	if err != nil {
		return "", err
	}
	return base + "/" + url.PathEscape(string(id)), nil
}

// do sends a request and decodes a 2xx body into out. A nil out ignores the
// body; a non-nil out requires one.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	_, body, err := c.send(ctx, op, method, path, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return &service.MalformedResponseError{Op: op, Err: errors.New("empty body")}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &service.MalformedResponseError{Op: op, Err: err}
	}
	return nil
}

// send performs one round trip and returns the response and its body on 2xx.
func (c *Client) send(ctx context.Context, op, method, path string, in any) (*http.Response, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("build %s request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.token != nil && c.token.AccessToken != "" {
		c.token.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "op", op, "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, nil, &service.NetworkError{
			Endpoint: c.baseURL,
			Timeout:  errors.Is(err, context.DeadlineExceeded),
			Err:      err,
		}
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", "op", op, "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, nil, &service.RequestError{Op: op, StatusCode: resp.StatusCode, Detail: parseDetail(data)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &service.NetworkError{
			Endpoint: c.baseURL,
			Timeout:  errors.Is(err, context.DeadlineExceeded),
			Err:      err,
		}
	}
	return resp, data, nil
}

// parseDetail extracts the server's "detail" message. FastAPI validation
// failures report a list of objects with "msg"; those are joined.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}
