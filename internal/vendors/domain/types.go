package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("vendor not found")

// Vendor is a software supplier whose tools appear on licenses.
type Vendor struct {
	ID           uuid.UUID
	Name         string
	Website      string
	SupportEmail string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository abstracts persistence for vendors.
type Repository interface {
	Create(ctx context.Context, v Vendor) error
	GetByID(ctx context.Context, id uuid.UUID) (Vendor, error)
	GetByName(ctx context.Context, name string) (Vendor, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]Vendor, error)
}

// Service encapsulates business logic for vendors.
type Service interface {
	Create(ctx context.Context, name, website, supportEmail string) (Vendor, error)
	GetByID(ctx context.Context, id uuid.UUID) (Vendor, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]Vendor, error)
}
