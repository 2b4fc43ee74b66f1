package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domain "github.com/cybaemtech/licensedesk/internal/licenses/domain"
)

type service struct {
	repo domain.Repository
}

func New(repo domain.Repository) domain.Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, l domain.License) (domain.License, error) {
	l.ToolName = strings.TrimSpace(l.ToolName)
	if l.ToolName == "" {
		return domain.License{}, errors.New("tool name is required")
	}
	if l.ClientID == uuid.Nil {
		return domain.License{}, errors.New("client_id is required")
	}
	l.ID = uuid.New()
	l.IsActive = true
	if err := s.repo.Create(ctx, l); err != nil {
		return domain.License{}, err
	}
	return s.repo.GetByID(ctx, l.ID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (domain.License, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, l domain.License) (domain.License, error) {
	if strings.TrimSpace(l.ToolName) == "" {
		return domain.License{}, errors.New("tool name is required")
	}
	if _, err := s.repo.GetByID(ctx, l.ID); err != nil {
		return domain.License{}, err
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return domain.License{}, err
	}
	return s.repo.GetByID(ctx, l.ID)
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

	items, total, err := s.repo.List(ctx, opts)
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
