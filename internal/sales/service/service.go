package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	domain "github.com/cybaemtech/licensedesk/internal/sales/domain"
)

type service struct {
	repo domain.Repository
}

func New(repo domain.Repository) domain.Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	if sale.ClientID == uuid.Nil {
		return domain.Sale{}, errors.New("client_id is required")
	}
	if sale.LicenseID == uuid.Nil {
		return domain.Sale{}, errors.New("license_id is required")
	}
	if sale.Amount < 0 {
		return domain.Sale{}, errors.New("amount must not be negative")
	}
	if sale.SoldAt.IsZero() {
		sale.SoldAt = time.Now()
	}
	sale.ID = uuid.New()
	if err := s.repo.Create(ctx, sale); err != nil {
		return domain.Sale{}, err
	}
	return s.repo.GetByID(ctx, sale.ID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (domain.Sale, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Sale, error) {
	return s.repo.ListByClient(ctx, clientID)
}

func (s *service) List(ctx context.Context, page, pageSize int) ([]domain.Sale, int64, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.List(ctx, int32(pageSize), int32((page-1)*pageSize))
}
