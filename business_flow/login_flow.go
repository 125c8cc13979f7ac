// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/metalmind-app/metalmind/app/dto"
	"github.com/metalmind-app/metalmind/app/services"
	"github.com/metalmind-app/metalmind/repository"
	"github.com/metalmind-app/metalmind/utils"
	"golang.org/x/crypto/bcrypt"
)

// LoginFlow handles user authentication
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo       repository.UserRepository
	tokenService   services.TokenService
	accessTokenTTL time.Duration
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	userRepo repository.UserRepository,
	tokenService services.TokenService,
	accessTokenTTL time.Duration,
) LoginFlow {
	return &LoginFlowImpl{
		userRepo:       userRepo,
		tokenService:   tokenService,
		accessTokenTTL: accessTokenTTL,
	}
}

// Login authenticates a user by username and password. The error message
// never reveals whether the username or the password was wrong.
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	if err := lf.validateLoginRequest(request); err != nil {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", err)
	}

	username := strings.TrimSpace(request.Username)

	user, err := lf.userRepo.ByUsername(ctx, username)
	if err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", ErrUserNotFound)
	}

	// Check if account is active
	if !utils.IsTrue(user.IsActive) {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", ErrAccountInactive)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", ErrIncorrectPassword)
	}

	accessToken, _, err := lf.tokenService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	log.Printf("user logged in: id=%d username=%s ip=%s", user.ID, user.Username, clientIP(metadata))

	expiresAt := utils.UTCNowAdd(lf.accessTokenTTL)

	resp := &dto.LoginResponse{
		Success: true,
		Message: "Login successful",
	}
	resp.Data.AccessToken = accessToken
	resp.Data.TokenType = "Bearer"
	resp.Data.ExpiresIn = int(lf.accessTokenTTL.Seconds())
	resp.Data.ExpiresAt = expiresAt
	resp.SetUserInfo(user.ID, user.UUID.String(), user.Username, user.Role, user.IsActive, user.CreatedAt)

	return resp, nil
}

func (lf *LoginFlowImpl) validateLoginRequest(request *dto.LoginRequest) error {
	if strings.TrimSpace(request.Username) == "" {
		return ErrUserNotFound
	}
	if request.Password == "" {
		return ErrIncorrectPassword
	}
	return nil
}

func clientIP(metadata *ClientMetadata) string {
	if metadata == nil || metadata.IPAddress == "" {
		return "unknown"
	}
	return metadata.IPAddress
}

// HashPassword produces a bcrypt hash for seeding and password changes
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
