package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domain "github.com/cybaemtech/licensedesk/internal/clients/domain"
)

type service struct {
	repo domain.Repository
}

func New(repo domain.Repository) domain.Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, name, contactName, email, phone string) (domain.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Client{}, errors.New("client name is required")
	}
	c := domain.Client{
		ID:          uuid.New(),
		Name:        name,
		ContactName: strings.TrimSpace(contactName),
		Email:       strings.TrimSpace(email),
		Phone:       strings.TrimSpace(phone),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return domain.Client{}, err
	}
	return s.repo.GetByID(ctx, c.ID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, c domain.Client) (domain.Client, error) {
	if strings.TrimSpace(c.Name) == "" {
		return domain.Client{}, errors.New("client name is required")
	}
	if _, err := s.repo.GetByID(ctx, c.ID); err != nil {
		return domain.Client{}, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return domain.Client{}, err
	}
	return s.repo.GetByID(ctx, c.ID)
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *service) List(ctx context.Context, opts domain.ListOptions) (domain.ListResult, error) {
	if opts.PageSize <= 0 || opts.PageSize > 100 {
		opts.PageSize = 20
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Active != -1 && opts.Active != 0 && opts.Active != 1 {
		opts.Active = -1
	}
	limit := int32(opts.PageSize)
	offset := int32((opts.Page - 1) * opts.PageSize)

	items, total, err := s.repo.List(ctx, opts.Query, opts.Active, limit, offset)
	if err != nil {
		return domain.ListResult{}, err
	}
	totalPages := int(total) / opts.PageSize
	if int(total)%opts.PageSize != 0 {
		totalPages++
	}
	return domain.ListResult{
		Items:      items,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: totalPages,
	}, nil
}
