// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/metalmind-app/metalmind/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for operator accounts
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}

// MaterialRepository defines operations for the commodity price table
type MaterialRepository interface {
	Repository[models.Material, models.MaterialFilter]
	ListAll(ctx context.Context) ([]*models.Material, error)
	ByType(ctx context.Context, materialType string) ([]*models.Material, error)
	MinPriceByTypes(ctx context.Context, types []string) (*float64, error)
	UpdatePrice(ctx context.Context, id uint, price float64, updatedAt time.Time) error
}

// QuoteRepository defines operations for saved quote snapshots
type QuoteRepository interface {
	Repository[models.Quote, models.QuoteFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Quote, error)
}
