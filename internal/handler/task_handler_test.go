package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskboard/internal/auth"
	"taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) ListTasks(ctx context.Context, ownerID uint) ([]model.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *taskServiceMock) CreateTask(ctx context.Context, ownerID uint, title, description string) (*model.Task, error) {
	args := m.Called(ctx, ownerID, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, ownerID, id uint, update service.TaskUpdate) (*model.Task, error) {
	args := m.Called(ctx, ownerID, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, ownerID, id uint) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.validator.Struct(i)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	// Stand in for the JWT middleware.
	c.Set("user", &auth.Claims{UserID: 3, Username: "alice"})
	return c, rec
}

func TestTaskHandler_ListTasks(t *testing.T) {
	svc := new(taskServiceMock)
	svc.On("ListTasks", mock.Anything, uint(3)).Return([]model.Task{
		{ID: 1, Title: "Demo Task", Completed: false},
	}, nil)

	h := NewTaskHandler(svc)
	c, rec := newTestContext(t, http.MethodGet, "/tasks", "")

	require.NoError(t, h.ListTasks(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var tasks []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 1)
	assert.Equal(t, "Demo Task", tasks[0].Title)
	svc.AssertExpectations(t)
}

func TestTaskHandler_CreateTask(t *testing.T) {
	svc := new(taskServiceMock)
	svc.On("CreateTask", mock.Anything, uint(3), "Demo Task", "details").Return(&model.Task{
		ID: 1, Title: "Demo Task", Description: "details", OwnerID: 3,
	}, nil)

	h := NewTaskHandler(svc)
	c, rec := newTestContext(t, http.MethodPost, "/tasks", `{"title":"Demo Task","description":"details"}`)

	require.NoError(t, h.CreateTask(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var task model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, uint(1), task.ID)
	assert.False(t, task.Completed)
	// OwnerID carries the json:"-" tag and must never leak.
	assert.NotContains(t, rec.Body.String(), "owner")
	svc.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_MissingTitle(t *testing.T) {
	h := NewTaskHandler(new(taskServiceMock))
	c, _ := newTestContext(t, http.MethodPost, "/tasks", `{"description":"no title"}`)

	err := h.CreateTask(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestTaskHandler_UpdateTask_NotFound(t *testing.T) {
	svc := new(taskServiceMock)
	svc.On("UpdateTask", mock.Anything, uint(3), uint(42), mock.Anything).Return(nil, errors.ErrTaskNotFound)

	h := NewTaskHandler(svc)
	c, _ := newTestContext(t, http.MethodPut, "/tasks/42", `{"completed":true}`)
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.UpdateTask(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
	svc.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_PartialFields(t *testing.T) {
	completed := true
	svc := new(taskServiceMock)
	svc.On("UpdateTask", mock.Anything, uint(3), uint(1), service.TaskUpdate{Completed: &completed}).Return(&model.Task{
		ID: 1, Title: "Original", Completed: true,
	}, nil)

	h := NewTaskHandler(svc)
	c, rec := newTestContext(t, http.MethodPut, "/tasks/1", `{"completed":true}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.UpdateTask(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	svc := new(taskServiceMock)
	svc.On("DeleteTask", mock.Anything, uint(3), uint(1)).Return(nil)

	h := NewTaskHandler(svc)
	c, rec := newTestContext(t, http.MethodDelete, "/tasks/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.DeleteTask(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestTaskHandler_MissingClaims(t *testing.T) {
	h := NewTaskHandler(new(taskServiceMock))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListTasks(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
