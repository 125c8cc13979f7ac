// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/metalmind-app/metalmind/app/dto"
	"github.com/metalmind-app/metalmind/app/services"
	"github.com/metalmind-app/metalmind/models"
	"github.com/metalmind-app/metalmind/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserRepository struct {
	users   map[string]*models.User
	findErr error
}

func (m *mockUserRepository) ByID(ctx context.Context, id uint) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Save(ctx context.Context, entity *models.User) error {
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	m.users[entity.Username] = entity
	return nil
}

func (m *mockUserRepository) SaveBatch(ctx context.Context, entities []*models.User) error {
	return nil
}

func (m *mockUserRepository) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepository) Exists(ctx context.Context, filter models.UserFilter) (bool, error) {
	return len(m.users) > 0, nil
}

func (m *mockUserRepository) ByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.users[username], nil
}

func (m *mockUserRepository) ByUUID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.UUID.String() == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return nil
}

func newTestLoginFlow(t *testing.T, repo *mockUserRepository) LoginFlow {
	t.Helper()
	tokenService, err := services.NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)
	return NewLoginFlow(repo, tokenService, 15*time.Minute)
}

func seedUser(t *testing.T, repo *mockUserRepository, username, password string, active bool) *models.User {
	t.Helper()
	hash, err := HashPassword(password, 10)
	require.NoError(t, err)

	user := &models.User{
		ID:           7,
		UUID:         uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     utils.ToPtr(active),
		CreatedAt:    utils.UTCNow(),
	}
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func TestLogin(t *testing.T) {
	repo := &mockUserRepository{}
	user := seedUser(t, repo, "usta", "correct-horse", true)
	flow := newTestLoginFlow(t, repo)

	result, err := flow.Login(context.Background(), &dto.LoginRequest{
		Username: "usta",
		Password: "correct-horse",
	}, testMetadata())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Data.AccessToken)
	assert.Equal(t, "Bearer", result.Data.TokenType)
	assert.Equal(t, int((15 * time.Minute).Seconds()), result.Data.ExpiresIn)
	assert.Equal(t, user.ID, result.Data.User.ID)
	assert.Equal(t, "usta", result.Data.User.Username)
	assert.Equal(t, models.RoleUser, result.Data.User.Role)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		checkFn  func(error) bool
	}{
		{
			name:     "unknown username",
			username: "nobody",
			password: "correct-horse",
			checkFn:  IsUserNotFound,
		},
		{
			name:     "wrong password",
			username: "usta",
			password: "battery-staple",
			checkFn:  IsIncorrectPassword,
		},
		{
			name:     "blank username",
			username: "   ",
			password: "correct-horse",
			checkFn:  IsUserNotFound,
		},
		{
			name:     "blank password",
			username: "usta",
			password: "",
			checkFn:  IsIncorrectPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepository{}
			seedUser(t, repo, "usta", "correct-horse", true)
			flow := newTestLoginFlow(t, repo)

			result, err := flow.Login(context.Background(), &dto.LoginRequest{
				Username: tt.username,
				Password: tt.password,
			}, testMetadata())

			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, tt.checkFn(err))
		})
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	repo := &mockUserRepository{}
	seedUser(t, repo, "usta", "correct-horse", false)
	flow := newTestLoginFlow(t, repo)

	result, err := flow.Login(context.Background(), &dto.LoginRequest{
		Username: "usta",
		Password: "correct-horse",
	}, testMetadata())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsAccountInactive(err))
}

func TestLogin_RepositoryFailure(t *testing.T) {
	repo := &mockUserRepository{findErr: errors.New("connection refused")}
	flow := newTestLoginFlow(t, repo)

	result, err := flow.Login(context.Background(), &dto.LoginRequest{
		Username: "usta",
		Password: "correct-horse",
	}, testMetadata())

	require.Error(t, err)
	assert.Nil(t, result)
}
