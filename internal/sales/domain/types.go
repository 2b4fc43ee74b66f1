package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("sale not found")

// Sale records the sale of a license to a client.
type Sale struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	LicenseID uuid.UUID
	Amount    float64
	SoldAt    time.Time
	Notes     string
	CreatedAt time.Time
}

// Repository abstracts persistence for sales.
type Repository interface {
	Create(ctx context.Context, s Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (Sale, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]Sale, error)
	List(ctx context.Context, limit, offset int32) ([]Sale, int64, error)
}

// Service encapsulates business logic for sales.
type Service interface {
	Create(ctx context.Context, s Sale) (Sale, error)
	GetByID(ctx context.Context, id uuid.UUID) (Sale, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]Sale, error)
	List(ctx context.Context, page, pageSize int) ([]Sale, int64, error)
}
