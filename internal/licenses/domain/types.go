package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("license not found")

// License is a purchased software license owned by a client.
// ExpiresAt is nil for perpetual licenses; those never expire and are
// never picked up by the notification engine.
type License struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	VendorID   *uuid.UUID
	ToolName   string
	LicenseKey string
	Seats      *int
	ExpiresAt  *time.Time
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Expired reports whether the license's expiration date has passed.
func (l License) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}

// ListOptions for license listing
type ListOptions struct {
	ClientID *uuid.UUID
	VendorID *uuid.UUID
	Active   int // -1 any, 1 active, 0 inactive
	Page     int
	PageSize int
}

// ListResult holds items and pagination metadata
type ListResult struct {
	Items      []License
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// Repository abstracts persistence for licenses.
type Repository interface {
	Create(ctx context.Context, l License) error
	GetByID(ctx context.Context, id uuid.UUID) (License, error)
	Update(ctx context.Context, l License) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts ListOptions) ([]License, int64, error)
}

// Service encapsulates business logic for licenses.
type Service interface {
	Create(ctx context.Context, l License) (License, error)
	GetByID(ctx context.Context, id uuid.UUID) (License, error)
	Update(ctx context.Context, l License) (License, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts ListOptions) (ListResult, error)
}
