package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sshrut/Smart-Task-Scheduler/internal/api"
	"github.com/Sshrut/Smart-Task-Scheduler/internal/config"
	"github.com/Sshrut/Smart-Task-Scheduler/internal/middleware"
	"github.com/Sshrut/Smart-Task-Scheduler/internal/models"
	"github.com/Sshrut/Smart-Task-Scheduler/internal/repository"
	"github.com/Sshrut/Smart-Task-Scheduler/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitLoggers()
	defer logger.SyncLoggers()
	os.Exit(m.Run())
}

// In-memory stands-ins for the Postgres stores.

type fakeUserStore struct {
	users  map[string]models.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (s *fakeUserStore) Create(username, passwordHash string) (models.User, error) {
	if _, ok := s.users[username]; ok {
		return models.User{}, repository.ErrUsernameTaken
	}
	s.nextID++
	user := models.User{
		ID:           s.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.users[username] = user
	return user, nil
}

func (s *fakeUserStore) FindByUsername(username string) (models.User, error) {
	user, ok := s.users[username]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

type fakeTaskStore struct {
	tasks  []models.Task
	nextID int
}

func (s *fakeTaskStore) Add(task models.Task) (models.Task, error) {
	s.nextID++
	task.ID = s.nextID
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	s.tasks = append(s.tasks, task)
	return task, nil
}

func (s *fakeTaskStore) UpdateCompleted(taskID, userID int, completed bool) (models.Task, error) {
	for i := range s.tasks {
		if s.tasks[i].ID == taskID && s.tasks[i].UserID == userID {
			s.tasks[i].Completed = completed
			s.tasks[i].UpdatedAt = time.Now()
			return s.tasks[i], nil
		}
	}
	return models.Task{}, repository.ErrTaskNotFound
}

func (s *fakeTaskStore) ListForUser(userID int) ([]models.Task, error) {
	tasks := []models.Task{}
	for _, task := range s.tasks {
		if task.UserID == userID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func newTestApp() *fiber.App {
	config.Users = newFakeUserStore()
	config.Tasks = &fakeTaskStore{}

	app := fiber.New()
	app.Use(middleware.ErrorHandler())
	api.RegisterRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	resp.Body.Close()
	return resp, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	resp, _ := doJSON(t, app, "POST", "/api/register", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegister(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, "POST", "/api/register", map[string]string{
		"username": "alice",
		"password": "pw1",
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "User registered successfully", body["message"])

	// Duplicate username is a conflict, reported as 400.
	resp, body = doJSON(t, app, "POST", "/api/register", map[string]string{
		"username": "alice",
		"password": "pw2",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", body["error"])

	resp, _ = doJSON(t, app, "POST", "/api/register", map[string]string{
		"username": "bob",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app := newTestApp()

	resp, _ := doJSON(t, app, "POST", "/api/register", map[string]string{
		"username": "alice",
		"password": "pw1",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/api/login", map[string]string{
		"username": "alice",
		"password": "pw1",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	resp, _ = doJSON(t, app, "POST", "/api/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/login", map[string]string{
		"username": "nobody",
		"password": "pw1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/api/tasks", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAddTaskExplicitDateRoundTrip(t *testing.T) {
	app := newTestApp()
	token := registerAndLogin(t, app, "alice", "pw1")

	resp, body := doJSON(t, app, "POST", "/api/add-task", map[string]string{
		"task":     "Test Task",
		"date":     "2023-10-01T10:00:00",
		"priority": "High",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Task added successfully", body["message"])

	created := body["task"].(map[string]any)
	assert.Equal(t, "Test Task", created["task"])
	assert.Equal(t, "2023-10-01T10:00:00", created["date"])
	assert.Equal(t, false, created["completed"])

	// The timestamp comes back from the listing unmodified.
	resp, body = doJSON(t, app, "GET", "/api/tasks", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, "2023-10-01T10:00:00", tasks[0].(map[string]any)["date"])
}

func TestAddTaskFreeText(t *testing.T) {
	app := newTestApp()
	token := registerAndLogin(t, app, "alice", "pw1")

	resp, body := doJSON(t, app, "POST", "/api/add-task", map[string]string{
		"task":     "Pay rent by the 1st of next month",
		"priority": "high",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	now := time.Now()
	month := int(now.Month())%12 + 1
	year := now.Year()
	if month == 1 {
		year++
	}
	wantDate := fmt.Sprintf("%04d-%02d-01T00:00:00", year, month)

	created := body["task"].(map[string]any)
	assert.Equal(t, "Pay rent", created["task"])
	assert.Equal(t, wantDate, created["date"])
}

func TestAddTaskValidation(t *testing.T) {
	app := newTestApp()
	token := registerAndLogin(t, app, "alice", "pw1")

	resp, body := doJSON(t, app, "POST", "/api/add-task", map[string]string{
		"priority": "low",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Task description is required", body["error"])

	resp, _ = doJSON(t, app, "POST", "/api/add-task", map[string]string{
		"task": "Buy milk tomorrow",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Malformed explicit date and an unresolvable free-text schedule
	// share the same failure contract.
	resp, _ = doJSON(t, app, "POST", "/api/add-task", map[string]string{
		"task":     "Test Task",
		"date":     "10/01/2023",
		"priority": "low",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, "POST", "/api/add-task", map[string]string{
		"task":     "Buy milk",
		"priority": "low",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "could not determine schedule", body["error"])
}

func TestUpdateTask(t *testing.T) {
	app := newTestApp()
	token := registerAndLogin(t, app, "alice", "pw1")

	resp, body := doJSON(t, app, "POST", "/api/add-task", map[string]string{
		"task":     "Test Task",
		"date":     "2023-10-01T10:00:00",
		"priority": "High",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	taskID := int(body["task"].(map[string]any)["id"].(float64))

	resp, body = doJSON(t, app, "PUT", fmt.Sprintf("/api/update-task/%d", taskID), map[string]bool{
		"completed": true,
	}, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Task updated successfully", body["message"])
	assert.Equal(t, true, body["task"].(map[string]any)["completed"])

	resp, _ = doJSON(t, app, "PUT", "/api/update-task/9999", map[string]bool{
		"completed": true,
	}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateTaskScopedToOwner(t *testing.T) {
	app := newTestApp()
	aliceToken := registerAndLogin(t, app, "alice", "pw1")
	bobToken := registerAndLogin(t, app, "bob", "pw2")

	resp, body := doJSON(t, app, "POST", "/api/add-task", map[string]string{
		"task":     "Alice's task",
		"date":     "2023-10-01T10:00:00",
		"priority": "low",
	}, aliceToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	taskID := int(body["task"].(map[string]any)["id"].(float64))

	// Bob cannot touch Alice's task.
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/update-task/%d", taskID), map[string]bool{
		"completed": true,
	}, bobToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListTasksSorted(t *testing.T) {
	app := newTestApp()
	token := registerAndLogin(t, app, "alice", "pw1")

	for _, priority := range []string{"low", "urgent", "high"} {
		resp, _ := doJSON(t, app, "POST", "/api/add-task", map[string]string{
			"task":     "Task " + priority,
			"date":     "2023-10-01T10:00:00",
			"priority": priority,
		}, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := doJSON(t, app, "GET", "/api/tasks", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 3)
	var order []string
	for _, raw := range tasks {
		order = append(order, raw.(map[string]any)["priority"].(string))
	}
	assert.Equal(t, []string{"urgent", "high", "low"}, order)
}

func TestListTasksCompletedLast(t *testing.T) {
	app := newTestApp()
	token := registerAndLogin(t, app, "alice", "pw1")

	resp, body := doJSON(t, app, "POST", "/api/add-task", map[string]string{
		"task":     "Done already",
		"date":     "2023-09-01T08:00:00",
		"priority": "urgent",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	doneID := int(body["task"].(map[string]any)["id"].(float64))

	resp, _ = doJSON(t, app, "POST", "/api/add-task", map[string]string{
		"task":     "Still open",
		"date":     "2023-10-01T10:00:00",
		"priority": "low",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/update-task/%d", doneID), map[string]bool{
		"completed": true,
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, "GET", "/api/tasks", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Still open", tasks[0].(map[string]any)["task"])
	assert.Equal(t, "Done already", tasks[1].(map[string]any)["task"])
}
