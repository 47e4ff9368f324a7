package taskapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/backend/taskapi"
	"taskboard/internal/config"
	"taskboard/internal/service"
)

// recorded captures the last request seen by the test server.
type recorded struct {
	method string
	path   string
	query  string
	header http.Header
	body   string
}

// newTestClient starts a server that records each request and answers with
// handler. The client has a session for user 7 installed.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*taskapi.Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		*rec = recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			header: r.Header.Clone(),
			body:   string(data),
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := taskapi.NewWithHTTPClient(srv.URL+"/", srv.Client())
	client.SetSession(service.Session{Token: "tok-123", TokenType: "bearer", UserID: "7"})
	return client, rec
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestListTasks_HeadersAndFilter(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"tasks":[{"id":1,"title":"a","completed":true}]}`)
	})

	tasks, err := client.ListTasks(context.Background(), service.ListFilter{Completed: service.Bool(true)})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}

	if rec.method != http.MethodGet || rec.path != "/api/7/tasks" {
		t.Errorf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.query != "completed=true" {
		t.Errorf("expected completed=true query, got %q", rec.query)
	}
	if got := rec.header.Get("Authorization"); got != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", got)
	}
	if got := rec.header.Get("Content-Type"); got != "application/json" {
		t.Errorf("expected json content type, got %q", got)
	}
	if rec.header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if len(tasks) != 1 || tasks[0].ID != "1" || !tasks[0].Completed {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}

func TestListTasks_BareArrayNoFilter(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":"x","title":"a"},{"id":"y","title":"b"}]`)
	})

	tasks, err := client.ListTasks(context.Background(), service.ListFilter{})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if rec.query != "" {
		t.Errorf("expected no query without filter, got %q", rec.query)
	}
	if len(tasks) != 2 || tasks[0].ID != "x" || tasks[1].ID != "y" {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}

func TestListTasks_Malformed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"items":[]}`)
	})

	_, err := client.ListTasks(context.Background(), service.ListFilter{})
	if !errors.Is(err, service.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestTaskCalls_RequireUser(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	client.ClearSession()

	ctx := context.Background()
	checks := map[string]error{}
	_, checks["list"] = client.ListTasks(ctx, service.ListFilter{})
	_, checks["create"] = client.CreateTask(ctx, service.NewTask{Title: "x"})
	_, checks["update"] = client.UpdateTask(ctx, "1", service.TaskUpdate{})
	_, checks["delete"] = client.DeleteTask(ctx, "1")
	_, checks["complete"] = client.SetCompletion(ctx, "1", true)

	for name, err := range checks {
		if !errors.Is(err, service.ErrUnauthenticated) {
			t.Errorf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
	if called {
		t.Error("no request should reach the server without a user")
	}
}

func TestCreateTask_SendsTitleAndDescriptionOnly(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"id":3,"title":"x","description":"d","completed":false,"created_at":"2025-01-02T03:04:05Z"}`)
	})

	task, err := client.CreateTask(context.Background(), service.NewTask{Title: "x", Description: "d"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if rec.method != http.MethodPost || rec.path != "/api/7/tasks" {
		t.Errorf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.body != `{"title":"x","description":"d"}` {
		t.Errorf("unexpected body %s", rec.body)
	}
	if task.ID != "3" || task.CreatedAt.IsZero() {
		t.Errorf("unexpected task %+v", task)
	}
}

func TestUpdateTask_RejectedWithDetail(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"detail":"title too long"}`)
	})

	_, err := client.UpdateTask(context.Background(), "5", service.TaskUpdate{Title: service.String("y")})
	if rec.method != http.MethodPut || rec.path != "/api/7/tasks/5" {
		t.Errorf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.body != `{"title":"y"}` {
		t.Errorf("unexpected body %s", rec.body)
	}
	if !errors.Is(err, service.ErrRequestRejected) {
		t.Fatalf("expected ErrRequestRejected, got %v", err)
	}
	var reqErr *service.RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected RequestError with 422, got %v", err)
	}
	if err.Error() != "title too long" {
		t.Errorf("expected server detail, got %q", err.Error())
	}
}

func TestRequestRejected_ValidationList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"too short"}]}`)
	})

	_, err := client.CreateTask(context.Background(), service.NewTask{})
	if err == nil || err.Error() != "field required; too short" {
		t.Fatalf("expected joined validation messages, got %v", err)
	}
}

func TestRequestRejected_NoBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.DeleteTask(context.Background(), "5")
	if err == nil || err.Error() != "failed to delete task (500 Internal Server Error)" {
		t.Fatalf("expected generic message, got %v", err)
	}
}

func TestDeleteTask_NoContent(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ack, err := client.DeleteTask(context.Background(), "5")
	if err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if rec.method != http.MethodDelete || rec.path != "/api/7/tasks/5" {
		t.Errorf("unexpected request %s %s", rec.method, rec.path)
	}
	if !ack.Success || ack.Task != nil {
		t.Errorf("unexpected ack %+v", ack)
	}
}

func TestDeleteTask_EchoesTask(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":5,"title":"gone"}`)
	})

	ack, err := client.DeleteTask(context.Background(), "5")
	if err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if ack.Task == nil || ack.Task.ID != "5" {
		t.Errorf("expected echoed task, got %+v", ack)
	}
}

func TestSetCompletion(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":5,"title":"t","completed":true}`)
	})

	task, err := client.SetCompletion(context.Background(), "5", true)
	if err != nil {
		t.Fatalf("SetCompletion: %v", err)
	}
	if rec.method != http.MethodPatch || rec.path != "/api/7/tasks/5/complete" {
		t.Errorf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.body != `{"completed":true}` {
		t.Errorf("unexpected body %s", rec.body)
	}
	if !task.Completed {
		t.Error("expected completed task")
	}
}

func TestSetCompletion_EmptyBodyIsMalformed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.SetCompletion(context.Background(), "5", true)
	if !errors.Is(err, service.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestNetworkUnreachable_NamesEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	client := taskapi.NewWithHTTPClient(endpoint, http.DefaultClient)
	client.SetSession(service.Session{Token: "t", UserID: "1"})

	_, err := client.ListTasks(context.Background(), service.ListFilter{})
	if !errors.Is(err, service.ErrNetworkUnreachable) {
		t.Fatalf("expected ErrNetworkUnreachable, got %v", err)
	}
	if !strings.Contains(err.Error(), endpoint) {
		t.Errorf("expected message to name %s, got %q", endpoint, err.Error())
	}
}

func TestTimeout_IsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := &config.Config{APIURL: srv.URL, Timeout: 50 * time.Millisecond}
	client := taskapi.New(cfg)
	client.SetSession(service.Session{Token: "t", UserID: "1"})

	_, err := client.ListTasks(context.Background(), service.ListFilter{})
	var netErr *service.NetworkError
	if !errors.As(err, &netErr) || !netErr.Timeout {
		t.Fatalf("expected timeout NetworkError, got %v", err)
	}
}

func TestLogin_AccessTokenAndUserID(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"access_token":"abc","token_type":"bearer","user_id":12}`)
	})
	client.ClearSession()

	sess, err := client.Login(context.Background(), service.Credentials{Username: "ann", Password: "pw", Email: "x@y"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.path != "/auth/login" || rec.body != `{"username":"ann","password":"pw"}` {
		t.Errorf("unexpected login request %s %s", rec.path, rec.body)
	}
	if rec.header.Get("Authorization") != "" {
		t.Error("expected no Authorization header without a session")
	}
	want := service.Session{Token: "abc", TokenType: "bearer", UserID: "12", Username: "ann"}
	if sess != want {
		t.Errorf("expected %+v, got %+v", want, sess)
	}
}

func TestLogin_UserObject(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token":"abc","user":{"id":"u-1","username":"Ann"}}`)
	})

	sess, err := client.Login(context.Background(), service.Credentials{Username: "ann", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token != "abc" || sess.UserID != "u-1" || sess.Username != "Ann" {
		t.Errorf("unexpected session %+v", sess)
	}
}

func TestLogin_UserIDFromJWT(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 42}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]string{"access_token": token})
		writeJSON(w, http.StatusOK, string(body))
	})

	sess, err := client.Login(context.Background(), service.Credentials{Username: "ann", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.UserID != "42" {
		t.Errorf("expected user id 42 from claims, got %q", sess.UserID)
	}
}

func TestLogin_SubjectClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ann-id"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]string{"access_token": token})
		writeJSON(w, http.StatusOK, string(body))
	})

	sess, err := client.Login(context.Background(), service.Credentials{Username: "ann", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.UserID != "ann-id" {
		t.Errorf("expected user id from sub, got %q", sess.UserID)
	}
}

func TestLogin_NoUserID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"access_token":"opaque"}`)
	})

	_, err := client.Login(context.Background(), service.Credentials{Username: "ann", Password: "pw"})
	if !errors.Is(err, service.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestLogin_Rejected(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Incorrect username or password"}`)
	})

	_, err := client.Login(context.Background(), service.Credentials{Username: "ann", Password: "bad"})
	if !service.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if err.Error() != "Incorrect username or password" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestRegister(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"id":9,"username":"ann","email":"a@b.c"}`)
	})

	account, err := client.Register(context.Background(), service.Credentials{Username: "ann", Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.path != "/auth/register" || rec.body != `{"username":"ann","email":"a@b.c","password":"pw"}` {
		t.Errorf("unexpected register request %s %s", rec.path, rec.body)
	}
	if account.ID != "9" || account.Username != "ann" {
		t.Errorf("unexpected account %+v", account)
	}
}

func TestLogout_IgnoresBody(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if rec.method != http.MethodPost || rec.path != "/auth/logout" {
		t.Errorf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.header.Get("Authorization") != "Bearer tok-123" {
		t.Errorf("expected bearer header on logout, got %q", rec.header.Get("Authorization"))
	}
}
