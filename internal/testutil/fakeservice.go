// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"taskboard/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu      sync.RWMutex
	tasks   []service.Task
	nextID  int
	session service.Session
	users   map[string]string // username -> password

	// Calls records the name of every method invoked, in order.
	Calls []string

	// LastListFilter is the filter passed to the most recent ListTasks.
	LastListFilter service.ListFilter
	// LastUpdate is the payload of the most recent UpdateTask.
	LastUpdate service.TaskUpdate

	// Error injection for testing
	RegisterErr      error
	LoginErr         error
	LogoutErr        error
	ListTasksErr     error
	CreateTaskErr    error
	UpdateTaskErr    error
	DeleteTaskErr    error
	SetCompletionErr error
}

// NewFakeService creates a FakeService with no tasks and no session.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		users:  make(map[string]string),
	}
}

// AddTask adds a task and returns it.
func (f *FakeService) AddTask(id, title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := service.Task{
		ID:        service.ID(id),
		Title:     title,
		Completed: completed,
		CreatedAt: service.Timestamp{Time: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	f.tasks = append(f.tasks, task)
	if n, err := strconv.Atoi(id); err == nil && n >= f.nextID {
		f.nextID = n + 1
	}
	return task
}

// AddUser registers credentials accepted by Login.
func (f *FakeService) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// Session returns the installed session.
func (f *FakeService) Session() service.Session {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.session
}

// Stored returns a copy of the server-side tasks.
func (f *FakeService) Stored() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Task(nil), f.tasks...)
}

func (f *FakeService) record(name string) {
	f.Calls = append(f.Calls, name)
}

func (f *FakeService) requireUser() error {
	if f.session.UserID == "" {
		return service.ErrUnauthenticated
	}
	return nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, creds service.Credentials) (service.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Register")
	if f.RegisterErr != nil {
		return service.Account{}, f.RegisterErr
	}
	if _, exists := f.users[creds.Username]; exists {
		return service.Account{}, &service.RequestError{Op: "register", StatusCode: 400, Detail: "Username already registered"}
	}
	f.users[creds.Username] = creds.Password
	return service.Account{ID: service.ID(strconv.Itoa(len(f.users))), Username: creds.Username, Email: creds.Email}, nil
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (service.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Login")
	if f.LoginErr != nil {
		return service.Session{}, f.LoginErr
	}
	if pw, ok := f.users[creds.Username]; !ok || pw != creds.Password {
		return service.Session{}, &service.RequestError{Op: "login", StatusCode: 401, Detail: "Incorrect username or password"}
	}
	return service.Session{
		Token:     "token-" + creds.Username,
		TokenType: "bearer",
		UserID:    "1",
		Username:  creds.Username,
	}, nil
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Logout")
	return f.LogoutErr
}

// SetSession implements service.Service.
func (f *FakeService) SetSession(s service.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = s
}

// ClearSession implements service.Service.
func (f *FakeService) ClearSession() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = service.Session{}
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, filter service.ListFilter) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTasks")
	f.LastListFilter = filter
	if err := f.requireUser(); err != nil {
		return nil, err
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}

	result := make([]service.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		if filter.Completed == nil || t.Completed == *filter.Completed {
			result = append(result, t)
		}
	}
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, fields service.NewTask) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTask")
	if err := f.requireUser(); err != nil {
		return service.Task{}, err
	}
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}

	task := service.Task{
		ID:          service.ID(strconv.Itoa(f.nextID)),
		Title:       fields.Title,
		Description: fields.Description,
		CreatedAt:   service.Timestamp{Time: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id service.ID, fields service.TaskUpdate) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTask")
	f.LastUpdate = fields
	if err := f.requireUser(); err != nil {
		return service.Task{}, err
	}
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}

	i := f.indexOf(id)
	if i < 0 {
		return service.Task{}, notFound("update task")
	}
	if fields.Title != nil {
		f.tasks[i].Title = *fields.Title
	}
	if fields.Description != nil {
		f.tasks[i].Description = *fields.Description
	}
	if fields.Completed != nil {
		f.tasks[i].Completed = *fields.Completed
	}
	return f.tasks[i], nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id service.ID) (service.DeleteAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTask")
	if err := f.requireUser(); err != nil {
		return service.DeleteAck{}, err
	}
	if f.DeleteTaskErr != nil {
		return service.DeleteAck{}, f.DeleteTaskErr
	}

	i := f.indexOf(id)
	if i < 0 {
		return service.DeleteAck{}, notFound("delete task")
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return service.DeleteAck{Success: true, Message: "task deleted"}, nil
}

// SetCompletion implements service.Service.
func (f *FakeService) SetCompletion(ctx context.Context, id service.ID, completed bool) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetCompletion")
	if err := f.requireUser(); err != nil {
		return service.Task{}, err
	}
	if f.SetCompletionErr != nil {
		return service.Task{}, f.SetCompletionErr
	}

	i := f.indexOf(id)
	if i < 0 {
		return service.Task{}, notFound("update task completion")
	}
	f.tasks[i].Completed = completed
	return f.tasks[i], nil
}

func (f *FakeService) indexOf(id service.ID) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func notFound(op string) error {
	return &service.RequestError{Op: op, StatusCode: 404, Detail: "Task not found"}
}
