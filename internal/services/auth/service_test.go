package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"clipmark/internal/config"
	"clipmark/internal/utils/crypto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var silentLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// MockUsersRepo is a mock implementation of UsersRepo
type MockUsersRepo struct {
	mock.Mock
}

func (m *MockUsersRepo) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsersRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func testConfig() config.Config {
	return config.Config{
		BcryptCost:       10,
		JWTSecret:        "super-secret-jwt-key-at-least-32-chars",
		JWTAlgorithm:     "HS256",
		JWTExpiryMinutes: 60,
	}
}

func TestService_SignUp(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name    string
		req     SignUpRequest
		setup   func(*MockUsersRepo)
		wantErr bool
		errMsg  string
	}{
		{
			name: "successful signup",
			req: SignUpRequest{
				Email:    "test@example.com",
				Password: "Password123",
			},
			setup: func(repo *MockUsersRepo) {
				repo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, ErrUserNotFound)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).Return(nil)
			},
		},
		{
			name: "email is normalized before lookup",
			req: SignUpRequest{
				Email:    "  Test@Example.COM ",
				Password: "Password123",
			},
			setup: func(repo *MockUsersRepo) {
				repo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, ErrUserNotFound)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).Return(nil)
			},
		},
		{
			name: "duplicate email is masked",
			req: SignUpRequest{
				Email:    "taken@example.com",
				Password: "Password123",
			},
			setup: func(repo *MockUsersRepo) {
				existing := &User{ID: bson.NewObjectID(), Email: "taken@example.com"}
				repo.On("FindByEmail", mock.Anything, "taken@example.com").Return(existing, nil)
			},
			wantErr: true,
			errMsg:  "registration failed",
		},
		{
			name: "duplicate detected on insert is masked",
			req: SignUpRequest{
				Email:    "raced@example.com",
				Password: "Password123",
			},
			setup: func(repo *MockUsersRepo) {
				repo.On("FindByEmail", mock.Anything, "raced@example.com").Return(nil, ErrUserNotFound)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).Return(ErrDuplicate)
			},
			wantErr: true,
			errMsg:  "registration failed",
		},
		{
			name: "repository failure",
			req: SignUpRequest{
				Email:    "test@example.com",
				Password: "Password123",
			},
			setup: func(repo *MockUsersRepo) {
				repo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, ErrUserNotFound)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).Return(errors.New("db error"))
			},
			wantErr: true,
			errMsg:  "failed to create user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUsersRepo)
			tt.setup(repo)

			service := NewService(repo, cfg, silentLogger)
			resp, err := service.SignUp(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
				assert.Nil(t, resp)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, resp)
				assert.NotEmpty(t, resp.Token)
				assert.Equal(t, "test@example.com", resp.User.Email)
				assert.NotEmpty(t, resp.User.PasswordHash)
				assert.NotEqual(t, tt.req.Password, resp.User.PasswordHash)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestService_SignIn(t *testing.T) {
	cfg := testConfig()

	hash, err := crypto.HashPassword("Password123", cfg.BcryptCost)
	require.NoError(t, err)
	user := &User{
		ID:           bson.NewObjectID(),
		Email:        "test@example.com",
		PasswordHash: hash,
	}

	tests := []struct {
		name    string
		req     SignInRequest
		setup   func(*MockUsersRepo)
		wantErr bool
	}{
		{
			name: "successful signin",
			req: SignInRequest{
				Email:    "test@example.com",
				Password: "Password123",
			},
			setup: func(repo *MockUsersRepo) {
				repo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)
			},
		},
		{
			name: "unknown email",
			req: SignInRequest{
				Email:    "nobody@example.com",
				Password: "Password123",
			},
			setup: func(repo *MockUsersRepo) {
				repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, ErrUserNotFound)
			},
			wantErr: true,
		},
		{
			name: "wrong password",
			req: SignInRequest{
				Email:    "test@example.com",
				Password: "WrongPassword1",
			},
			setup: func(repo *MockUsersRepo) {
				repo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUsersRepo)
			tt.setup(repo)

			service := NewService(repo, cfg, silentLogger)
			resp, err := service.SignIn(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, "invalid credentials", err.Error())
				assert.Nil(t, resp)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, resp)
				assert.NotEmpty(t, resp.Token)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestService_TokenCarriesIdentityClaims(t *testing.T) {
	cfg := testConfig()
	repo := new(MockUsersRepo)
	repo.On("FindByEmail", mock.Anything, "claims@example.com").Return(nil, ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).Return(nil)

	service := NewService(repo, cfg, silentLogger)
	resp, err := service.SignUp(context.Background(), SignUpRequest{
		Email:    "claims@example.com",
		Password: "Password123",
	})
	require.NoError(t, err)

	parsed, err := jwt.Parse(resp.Token, func(t *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.Hex(), claims["user_id"])
	assert.Equal(t, "claims@example.com", claims["email"])
	assert.NotNil(t, claims["exp"])
}

func TestService_UnsupportedJWTAlgorithm(t *testing.T) {
	cfg := testConfig()
	cfg.JWTAlgorithm = "RS256"

	repo := new(MockUsersRepo)
	repo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).Return(nil)

	service := NewService(repo, cfg, silentLogger)
	resp, err := service.SignUp(context.Background(), SignUpRequest{
		Email:    "test@example.com",
		Password: "Password123",
	})

	assert.Error(t, err)
	assert.Nil(t, resp)
}
