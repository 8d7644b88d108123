// Package session holds the client-side state of a logged in user: identity,
// token, task list, form fields and the last visible message.
package session

import (
	"context"
	"log/slog"
	"sync"

	"todo_backend/internal/client/api"
	authdto "todo_backend/internal/feature/auth/transport/http/dto"
	taskdto "todo_backend/internal/feature/tasks/transport/http/dto"
)

// Busy flag keys.
const (
	BusySignin     = "signin"
	BusySignup     = "signup"
	BusyTaskSubmit = "taskSubmit"
)

// BusyToggle returns the busy key of a status toggle.
func BusyToggle(id string) string { return "toggle-" + id }

// BusyDelete returns the busy key of a delete.
func BusyDelete(id string) string { return "delete-" + id }

// Messages shown when the server gave none.
const (
	MsgAuthFailed   = "Authentication failed"
	MsgTaskFailed   = "Task operation failed"
	MsgToggleFailed = "Failed to update task status"
	MsgDeleteFailed = "Failed to delete task"
)

// API is the subset of the REST client the session drives.
type API interface {
	SetToken(token string)
	ClearToken()
	Signup(ctx context.Context, email, password string) (*authdto.AuthRes, error)
	Login(ctx context.Context, email, password string) (*authdto.AuthRes, error)
	ListTasks(ctx context.Context) ([]taskdto.TaskRes, error)
	CreateTask(ctx context.Context, title, description string) (*taskdto.TaskRes, error)
	UpdateTask(ctx context.Context, id string, req taskdto.UpdateTaskReq) (*taskdto.TaskRes, error)
	DeleteTask(ctx context.Context, id string) error
}

var _ API = (*api.Client)(nil)

// Storage persists the token and identity between runs.
type Storage interface {
	SaveSession(token string, user authdto.UserRes) error
	LoadSession() (string, *authdto.UserRes, error)
	ClearSession() error
}

// Credentials are the login form fields.
type Credentials struct {
	Email    string
	Password string
}

// TaskForm is the create/edit form.
type TaskForm struct {
	Title       string
	Description string
}

// Session is the client state machine. It is not meant for concurrent commands;
// the mutex only guards the busy flags.
type Session struct {
	api   API
	store Storage

	token   string
	user    *authdto.UserRes
	tasks   []taskdto.TaskRes
	creds   Credentials
	form    TaskForm
	editing *taskdto.TaskRes
	message string

	mu   sync.Mutex
	busy map[string]bool
}

// New returns an unauthenticated session.
func New(client API, store Storage) *Session {
	return &Session{api: client, store: store, busy: map[string]bool{}}
}

// User returns the current identity, nil when logged out.
func (s *Session) User() *authdto.UserRes { return s.user }

// Token returns the current bearer token.
func (s *Session) Token() string { return s.token }

// Tasks returns the last fetched task list.
func (s *Session) Tasks() []taskdto.TaskRes { return s.tasks }

// Message returns the visible error message.
func (s *Session) Message() string { return s.message }

// DismissMessage clears the visible message.
func (s *Session) DismissMessage() { s.message = "" }

// Form returns the task form.
func (s *Session) Form() TaskForm { return s.form }

// SetForm fills the task form.
func (s *Session) SetForm(title, description string) {
	s.form = TaskForm{Title: title, Description: description}
}

// Credentials returns the login form.
func (s *Session) Credentials() Credentials { return s.creds }

// SetCredentials fills the login form.
func (s *Session) SetCredentials(email, password string) {
	s.creds = Credentials{Email: email, Password: password}
}

// Editing returns the edit target, nil when creating.
func (s *Session) Editing() *taskdto.TaskRes { return s.editing }

// Busy reports whether the action under key is in flight.
func (s *Session) Busy(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[key]
}

func (s *Session) setBusy(key string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.busy[key] = true
	} else {
		delete(s.busy, key)
	}
}

// Load restores a stored login and fetches its tasks.
func (s *Session) Load(ctx context.Context) error {
	token, user, err := s.store.LoadSession()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	s.token = token
	s.api.SetToken(token)
	s.user = user
	s.refresh(ctx)
	return nil
}

// Login authenticates with the credential fields.
func (s *Session) Login(ctx context.Context) error {
	return s.authenticate(ctx, BusySignin, s.api.Login)
}

// Signup registers with the credential fields.
func (s *Session) Signup(ctx context.Context) error {
	return s.authenticate(ctx, BusySignup, s.api.Signup)
}

type authCall func(ctx context.Context, email, password string) (*authdto.AuthRes, error)

func (s *Session) authenticate(ctx context.Context, key string, call authCall) error {
	s.setBusy(key, true)
	defer s.setBusy(key, false)
	s.message = ""

	res, err := call(ctx, s.creds.Email, s.creds.Password)
	if err != nil {
		s.message = api.ServerMessage(err, MsgAuthFailed)
		return err
	}

	if err := s.store.SaveSession(res.Token, res.User); err != nil {
		slog.Warn("failed to persist session", "error", err)
	}
	s.token = res.Token
	s.api.SetToken(res.Token)
	user := res.User
	s.user = &user
	s.creds = Credentials{}
	s.refresh(ctx)
	return nil
}

// Logout forgets the identity locally and durably.
func (s *Session) Logout() error {
	err := s.store.ClearSession()
	s.api.ClearToken()
	s.token = ""
	s.user = nil
	s.tasks = nil
	s.editing = nil
	return err
}

// SubmitTask updates the edit target when one is set, otherwise creates a task.
func (s *Session) SubmitTask(ctx context.Context) error {
	s.setBusy(BusyTaskSubmit, true)
	defer s.setBusy(BusyTaskSubmit, false)

	var err error
	if s.editing != nil {
		title, description := s.form.Title, s.form.Description
		_, err = s.api.UpdateTask(ctx, s.editing.ID, taskdto.UpdateTaskReq{Title: &title, Description: &description})
		if err == nil {
			s.editing = nil
		}
	} else {
		_, err = s.api.CreateTask(ctx, s.form.Title, s.form.Description)
	}
	if err != nil {
		s.message = api.ServerMessage(err, MsgTaskFailed)
		return err
	}

	s.form = TaskForm{}
	s.refresh(ctx)
	return nil
}

// StartEdit makes task the edit target and copies it into the form.
func (s *Session) StartEdit(task taskdto.TaskRes) {
	s.editing = &task
	s.form = TaskForm{Title: task.Title, Description: task.Description}
}

// CancelEdit drops the edit target and clears the form.
func (s *Session) CancelEdit() {
	s.editing = nil
	s.form = TaskForm{}
}

// ToggleStatus flips pending and completed through a regular update.
func (s *Session) ToggleStatus(ctx context.Context, task taskdto.TaskRes) error {
	key := BusyToggle(task.ID)
	s.setBusy(key, true)
	defer s.setBusy(key, false)

	next := "pending"
	if task.Status == "pending" {
		next = "completed"
	}
	if _, err := s.api.UpdateTask(ctx, task.ID, taskdto.UpdateTaskReq{Status: &next}); err != nil {
		s.message = MsgToggleFailed
		return err
	}
	s.refresh(ctx)
	return nil
}

// DeleteTask deletes the task with id.
func (s *Session) DeleteTask(ctx context.Context, id string) error {
	key := BusyDelete(id)
	s.setBusy(key, true)
	defer s.setBusy(key, false)

	if err := s.api.DeleteTask(ctx, id); err != nil {
		s.message = MsgDeleteFailed
		return err
	}
	s.refresh(ctx)
	return nil
}

// Refresh refetches the task list.
func (s *Session) Refresh(ctx context.Context) error {
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		return err
	}
	s.tasks = tasks
	return nil
}

// refresh keeps the previous list when fetching fails.
func (s *Session) refresh(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		slog.Debug("failed to fetch tasks", "error", err)
	}
}

// FindTask returns the listed task with id.
func (s *Session) FindTask(id string) (taskdto.TaskRes, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return taskdto.TaskRes{}, false
}
