package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/errors"
	"taskboard/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, username string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, username, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(repo *MockUserRepository, store *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "alice",
			password: "password123",
			setupMock: func(repo *MockUserRepository, store *MockTokenStore) {
				repo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				store.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), uint(1), "alice", auth.RefreshTokenExpiry).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "username already taken",
			username: "taken",
			password: "password123",
			setupMock: func(repo *MockUserRepository, store *MockTokenStore) {
				repo.On("FindByUsername", mock.Anything, "taken").Return(&model.User{ID: 9, Username: "taken"}, nil)
			},
			expectedError: errors.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			store := new(MockTokenStore)
			tt.setupMock(repo, store)

			svc := NewAuthService(repo, newTestJWTService(), store)
			accessToken, refreshToken, user, err := svc.Register(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.Equal(t, tt.username, user.Username)
				// The plaintext password must never be stored.
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}
			repo.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	existing := &model.User{ID: 5, Username: "alice", PasswordHash: string(hash)}

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(repo *MockUserRepository, store *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "alice",
			password: "correct-password",
			setupMock: func(repo *MockUserRepository, store *MockTokenStore) {
				repo.On("FindByUsername", mock.Anything, "alice").Return(existing, nil)
				store.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), uint(5), "alice", auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong-password",
			setupMock: func(repo *MockUserRepository, store *MockTokenStore) {
				repo.On("FindByUsername", mock.Anything, "alice").Return(existing, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "nobody",
			password: "whatever",
			setupMock: func(repo *MockUserRepository, store *MockTokenStore) {
				repo.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			store := new(MockTokenStore)
			tt.setupMock(repo, store)

			svc := NewAuthService(repo, newTestJWTService(), store)
			accessToken, refreshToken, user, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.Equal(t, tt.username, user.Username)
			}
			repo.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := newTestJWTService()
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(5, "alice")
	assert.NoError(t, err)

	repo := new(MockUserRepository)
	store := new(MockTokenStore)
	store.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(5), "alice", nil)

	svc := NewAuthService(repo, jwtService, store)
	accessToken, err := svc.RefreshToken(context.Background(), refreshToken)
	assert.NoError(t, err)

	claims, err := jwtService.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, uint(5), claims.UserID)
	store.AssertExpectations(t)
}

func TestAuthService_RefreshToken_RejectsGarbage(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), newTestJWTService(), new(MockTokenStore))

	_, err := svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := newTestJWTService()
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(5, "alice")
	assert.NoError(t, err)

	store := new(MockTokenStore)
	store.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	svc := NewAuthService(new(MockUserRepository), jwtService, store)
	assert.NoError(t, svc.Logout(context.Background(), refreshToken))
	store.AssertExpectations(t)
}
