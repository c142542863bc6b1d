package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskboard/internal/errors"
	"taskboard/internal/model"
)

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) Register(ctx context.Context, username, password string) (string, string, *model.User, error) {
	args := m.Called(ctx, username, password)
	var user *model.User
	if v := args.Get(2); v != nil {
		user = v.(*model.User)
	}
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *authServiceMock) Login(ctx context.Context, username, password string) (string, string, *model.User, error) {
	args := m.Called(ctx, username, password)
	var user *model.User
	if v := args.Get(2); v != nil {
		user = v.(*model.User)
	}
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *authServiceMock) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *authServiceMock) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func TestAuthHandler_Register(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("Register", mock.Anything, "alice", "secret").Return("access", "refresh", &model.User{ID: 1, Username: "alice"}, nil)

	h := NewAuthHandler(svc)
	c, rec := newTestContext(t, http.MethodPost, "/register", `{"username":"alice","password":"secret"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "alice", resp.Username)
	// The password hash must never appear in a response.
	assert.NotContains(t, rec.Body.String(), "password")
	svc.AssertExpectations(t)
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("Register", mock.Anything, "alice", "secret").Return("", "", nil, errors.ErrUsernameTaken)

	h := NewAuthHandler(svc)
	c, _ := newTestContext(t, http.MethodPost, "/register", `{"username":"alice","password":"secret"}`)

	err := h.Register(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	h := NewAuthHandler(new(authServiceMock))
	c, _ := newTestContext(t, http.MethodPost, "/register", `{"username":"alice"}`)

	err := h.Register(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("Login", mock.Anything, "alice", "wrong").Return("", "", nil, errors.ErrInvalidCredentials)

	h := NewAuthHandler(svc)
	c, _ := newTestContext(t, http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`)

	err := h.Login(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("Login", mock.Anything, "alice", "secret").Return("access", "refresh", &model.User{ID: 1, Username: "alice"}, nil)

	h := NewAuthHandler(svc)
	c, rec := newTestContext(t, http.MethodPost, "/login", `{"username":"alice","password":"secret"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "refresh", resp.RefreshToken)
	svc.AssertExpectations(t)
}
