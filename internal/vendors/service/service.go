package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domain "github.com/cybaemtech/licensedesk/internal/vendors/domain"
)

type service struct {
	repo domain.Repository
}

func New(repo domain.Repository) domain.Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, name, website, supportEmail string) (domain.Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Vendor{}, errors.New("vendor name is required")
	}
	// Enforce uniqueness by name
	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return domain.Vendor{}, errors.New("vendor name already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Vendor{}, err
	}

	v := domain.Vendor{
		ID:           uuid.New(),
		Name:         name,
		Website:      strings.TrimSpace(website),
		SupportEmail: strings.TrimSpace(supportEmail),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return domain.Vendor{}, err
	}
	return s.repo.GetByID(ctx, v.ID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (domain.Vendor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *service) List(ctx context.Context) ([]domain.Vendor, error) {
	return s.repo.List(ctx)
}
