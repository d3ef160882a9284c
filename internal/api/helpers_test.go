package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-manager-api/internal/api"
	"github.com/phrazzld/task-manager-api/internal/api/middleware"
	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/mocks"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/stretchr/testify/require"
)

// testAPI serves the user and task handlers over the real services backed
// by in-memory stores.
type testAPI struct {
	router  http.Handler
	users   *mocks.MockUserStore
	tasks   *mocks.MockTaskStore
	emitter *mocks.RecordingEmitter
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	a := &testAPI{
		users:   mocks.NewMockUserStore(),
		tasks:   mocks.NewMockTaskStore(),
		emitter: &mocks.RecordingEmitter{},
	}
	tx := &mocks.MockTxManager{}

	userSvc, err := service.NewUserService(a.users, a.tasks, tx,
		&mocks.MockJWTService{}, &mocks.MockPasswordHasher{}, a.emitter, log)
	require.NoError(t, err)
	taskSvc, err := service.NewTaskService(a.tasks, tx, log)
	require.NoError(t, err)

	users := api.NewUserHandler(userSvc, log)
	tasks := api.NewTaskHandler(taskSvc, log)
	auth := middleware.NewAuthMiddleware(userSvc, log)

	r := chi.NewRouter()
	r.Post("/users", users.Signup)
	r.Post("/users/login", users.Login)
	r.Get("/users/{id}/avatar", users.GetAvatar)
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Post("/users/logout", users.Logout)
		r.Post("/users/logoutAll", users.LogoutAll)
		r.Get("/users/me", users.GetProfile)
		r.Patch("/users/me", users.UpdateProfile)
		r.Delete("/users/me", users.DeleteProfile)
		r.Post("/users/me/avatar", users.UploadAvatar)
		r.Delete("/users/me/avatar", users.DeleteAvatar)

		r.Post("/tasks", tasks.CreateTask)
		r.Get("/tasks", tasks.ListTasks)
		r.Get("/tasks/{id}", tasks.GetTask)
		r.Patch("/tasks/{id}", tasks.UpdateTask)
		r.Delete("/tasks/{id}", tasks.DeleteTask)
	})
	a.router = r
	return a
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// signup registers a user through the API and returns the response.
func (a *testAPI) signup(t *testing.T, name, email, password string) api.AuthResponse {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/users", "", map[string]any{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp api.AuthResponse
	decode(t, rec, &resp)
	return resp
}

func (a *testAPI) createTask(t *testing.T, token, description string, completed bool) api.TaskResponse {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/tasks", token, map[string]any{
		"description": description, "completed": completed,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task api.TaskResponse
	decode(t, rec, &task)
	return task
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp shared.ErrorResponse
	decode(t, rec, &resp)
	return resp.Error
}
