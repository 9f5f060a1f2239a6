package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskhub/config"
	"taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/router/handler"
	"taskhub/internal/delivery/http/validator"
	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"
	"taskhub/internal/infra/auth"
	"taskhub/internal/usecase/impl"
)

const testSigningSecret = "shared_test_signing_secret"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokenService() service.TokenService {
	cfg := &config.Config{}
	cfg.SecretKey.Signing = testSigningSecret
	cfg.Auth = &config.AuthConfig{AccessTokenTTL: 30 * time.Minute}

	return auth.NewJWTService(auth.Params{Config: cfg, Logger: newDiscardLogger()})
}

// stubUserRepo and stubTaskRepo back the end-to-end tests with in-process
// storage so the full HTTP stack runs without a database.
type stubUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*entity.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{nextID: 1, users: make(map[string]*entity.User)}
}

func (s *stubUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (s *stubUserRepo) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextID
	s.nextID++
	copied := *user
	s.users[user.Username] = &copied

	return nil
}

type stubTaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*entity.Task
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{nextID: 1, tasks: make(map[int64]*entity.Task)}
}

func (s *stubTaskRepo) Create(_ context.Context, task *entity.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextID
	s.nextID++
	copied := *task
	s.tasks[task.ID] = &copied

	return nil
}

func (s *stubTaskRepo) FindByID(_ context.Context, id int64) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	copied := *task

	return &copied, nil
}

func (s *stubTaskRepo) FindByOwner(_ context.Context, owner string) ([]*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*entity.Task
	for id := int64(1); id < s.nextID; id++ {
		if task, ok := s.tasks[id]; ok && task.Owner == owner {
			copied := *task
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (s *stubTaskRepo) Update(_ context.Context, task *entity.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	copied := *task
	s.tasks[task.ID] = &copied

	return nil
}

func (s *stubTaskRepo) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(s.tasks, id)

	return nil
}

// stubStore mimics the store lifecycle for the admin endpoints.
type stubStore struct {
	initErr error
}

func (s *stubStore) Ping(context.Context) error       { return s.initErr }
func (s *stubStore) Initialize(context.Context) error { return s.initErr }

func newTestEcho(r Router) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(newDiscardLogger()).HandleHTTPError
	r.RegisterRoutes(e)

	return e
}

// newAuthApp wires the credential-issuing service end to end against
// in-memory storage.
func newAuthApp(t *testing.T, store repository.Store) *echo.Echo {
	t.Helper()

	logger := newDiscardLogger()
	authUC := impl.NewAuthService(impl.AuthServiceParams{
		UserRepo:     newStubUserRepo(),
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: newTestTokenService(),
		Logger:       logger,
	})

	return newTestEcho(NewAuthRouter(AuthRouterParams{
		AuthHandler:  handler.NewAuthHandler(authUC, logger),
		AdminHandler: handler.NewAdminHandler(store, logger),
	}))
}

// newTasksApp wires the task service end to end, trusting tokens minted with
// the shared signing secret.
func newTasksApp(t *testing.T) *echo.Echo {
	t.Helper()

	logger := newDiscardLogger()
	taskUC := impl.NewTaskService(impl.TaskServiceParams{
		TaskRepo: newStubTaskRepo(),
		Logger:   logger,
	})

	return newTestEcho(NewTasksRouter(TasksRouterParams{
		TaskHandler:    handler.NewTaskHandler(taskUC, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(newTestTokenService(), logger),
	}))
}

func doJSON(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func doLogin(e *echo.Echo, username, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func registerAndLogin(t *testing.T, e *echo.Echo, username, password string) string {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/register", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doLogin(e, username, password)
	require.Equal(t, http.StatusOK, rec.Code)
	token, ok := decodeBody(t, rec)["access_token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	return token
}

func TestAuthAPI_RegisterAndLogin(t *testing.T) {
	e := newAuthApp(t, &stubStore{})

	rec := doJSON(e, http.MethodPost, "/register", "", `{"username":"alice","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "alice", decodeBody(t, rec)["username"])

	rec = doJSON(e, http.MethodPost, "/register", "", `{"username":"alice","password":"different"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.Contains(t, body, "error")

	rec = doLogin(e, "alice", "password123")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])
}

func TestAuthAPI_LoginFailuresAreIndistinguishable(t *testing.T) {
	e := newAuthApp(t, &stubStore{})

	rec := doJSON(e, http.MethodPost, "/register", "", `{"username":"alice","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	unknown := doLogin(e, "nobody", "password123")
	wrongPassword := doLogin(e, "alice", "wrongpassword")

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	// Same status, same body, same challenge header: nothing distinguishes an
	// unknown username from a wrong password.
	assert.Equal(t, unknown.Body.String(), wrongPassword.Body.String())
	assert.Equal(t, "Bearer", unknown.Header().Get(echo.HeaderWWWAuthenticate))
	assert.Equal(t, "Bearer", wrongPassword.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestAuthAPI_RegisterValidation(t *testing.T) {
	e := newAuthApp(t, &stubStore{})

	rec := doJSON(e, http.MethodPost, "/register", "", `{"username":"alice"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(e, http.MethodPost, "/register", "", `{"password":"password123"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAuthAPI_InitDB(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		e := newAuthApp(t, &stubStore{})

		rec := doJSON(e, http.MethodPost, "/init-db", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "Tables created", body["message"])
	})

	t.Run("store down", func(t *testing.T) {
		e := newAuthApp(t, &stubStore{initErr: errors.New("dial tcp: connection refused")})

		rec := doJSON(e, http.MethodPost, "/init-db", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	for name, e := range map[string]*echo.Echo{
		"auth":  newAuthApp(t, &stubStore{}),
		"tasks": newTasksApp(t),
	} {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(e, http.MethodGet, "/health", "", "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
		})
	}
}

func TestTasksAPI_RequiresToken(t *testing.T) {
	e := newTasksApp(t)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodGet, "/tasks", testCase.token, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
		})
	}

	t.Run("expired token", func(t *testing.T) {
		expired, err := newTestTokenService().Mint("alice", -time.Minute)
		require.NoError(t, err)

		rec := doJSON(e, http.MethodGet, "/tasks", expired, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("foreign signing secret", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.SecretKey.Signing = "some_other_secret"
		cfg.Auth = &config.AuthConfig{AccessTokenTTL: 30 * time.Minute}
		stranger := auth.NewJWTService(auth.Params{Config: cfg, Logger: newDiscardLogger()})

		forged, err := stranger.Mint("alice", 30*time.Minute)
		require.NoError(t, err)

		rec := doJSON(e, http.MethodGet, "/tasks", forged, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// TestCrossService_TokenFlow drives the full journey: register and log in on
// the auth service, then use the minted token against the task service.
func TestCrossService_TokenFlow(t *testing.T) {
	authApp := newAuthApp(t, &stubStore{})
	tasksApp := newTasksApp(t)

	aliceToken := registerAndLogin(t, authApp, "alice", "password123")
	bobToken := registerAndLogin(t, authApp, "bob", "hunter2hunter2")

	rec := doJSON(tasksApp, http.MethodPost, "/tasks", aliceToken, `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "Buy milk", body["title"])
	assert.Equal(t, false, body["completed"])
	assert.Equal(t, "alice", body["owner"])

	// Bob can see the task exists only as a 403; he cannot read, change or
	// delete it.
	rec = doJSON(tasksApp, http.MethodGet, "/tasks/1", bobToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(tasksApp, http.MethodPut, "/tasks/1", bobToken, `{"title":"mine now","completed":true}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(tasksApp, http.MethodDelete, "/tasks/1", bobToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Bob's listing stays empty; the task never leaks.
	rec = doJSON(tasksApp, http.MethodGet, "/tasks", bobToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = doJSON(tasksApp, http.MethodGet, "/tasks/1", aliceToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(tasksApp, http.MethodPut, "/tasks/1", aliceToken, `{"title":"Buy milk","completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["completed"])

	rec = doJSON(tasksApp, http.MethodDelete, "/tasks/1", aliceToken, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = doJSON(tasksApp, http.MethodGet, "/tasks/1", aliceToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasksAPI_NotFoundCases(t *testing.T) {
	authApp := newAuthApp(t, &stubStore{})
	tasksApp := newTasksApp(t)
	token := registerAndLogin(t, authApp, "alice", "password123")

	rec := doJSON(tasksApp, http.MethodGet, "/tasks/42", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// A non-integer id addresses nothing.
	rec = doJSON(tasksApp, http.MethodGet, "/tasks/abc", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasksAPI_CreateValidation(t *testing.T) {
	authApp := newAuthApp(t, &stubStore{})
	tasksApp := newTasksApp(t)
	token := registerAndLogin(t, authApp, "alice", "password123")

	rec := doJSON(tasksApp, http.MethodPost, "/tasks", token, `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTasksAPI_ListScopedToCaller(t *testing.T) {
	authApp := newAuthApp(t, &stubStore{})
	tasksApp := newTasksApp(t)
	aliceToken := registerAndLogin(t, authApp, "alice", "password123")
	bobToken := registerAndLogin(t, authApp, "bob", "hunter2hunter2")

	for _, title := range []string{"one", "two"} {
		rec := doJSON(tasksApp, http.MethodPost, "/tasks", aliceToken, `{"title":"`+title+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := doJSON(tasksApp, http.MethodPost, "/tasks", bobToken, `{"title":"bob task"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(tasksApp, http.MethodGet, "/tasks", aliceToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, "alice", task["owner"])
	}
}
