package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("client not found")

// Client is a customer that owns licenses. Email is the notification
// recipient address; it may be empty, in which case expiry notifications
// for the client's licenses are skipped.
type Client struct {
	ID          uuid.UUID
	Name        string
	ContactName string
	Email       string
	Phone       string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListOptions for client listing
type ListOptions struct {
	Query    string
	Active   int // -1 any, 1 active, 0 inactive
	Page     int
	PageSize int
}

// ListResult holds items and pagination metadata
type ListResult struct {
	Items      []Client
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// Repository abstracts persistence for clients.
type Repository interface {
	Create(ctx context.Context, c Client) error
	GetByID(ctx context.Context, id uuid.UUID) (Client, error)
	Update(ctx context.Context, c Client) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query string, active int, limit, offset int32) ([]Client, int64, error)
}

// Service encapsulates business logic for clients.
type Service interface {
	Create(ctx context.Context, name, contactName, email, phone string) (Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (Client, error)
	Update(ctx context.Context, c Client) (Client, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts ListOptions) (ListResult, error)
}
