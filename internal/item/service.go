package item

import (
	"context"
	"strings"

	"gearshare/internal/user"
)

type CreateRequest struct {
	OwnerID     string
	Name        string
	Description string
	Available   bool
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string) (*Item, error)
	ListByOwner(ctx context.Context, ownerID string, from, size int) ([]*Item, int, error)
	Search(ctx context.Context, text string, from, size int) ([]*Item, int, error)
}

type service struct {
	repo        Repository
	userService user.Service
}

func NewService(repo Repository, userService user.Service) Service {
	return &service{
		repo:        repo,
		userService: userService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}

	// Validation: the listing owner must be a registered user
	owner, err := s.userService.GetByID(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	it := &Item{
		OwnerID:     owner.ID,
		OwnerName:   owner.Name,
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if it.OwnerID != updaterUserID {
		return nil, ErrPermissionDenied
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		it.Name = *req.Name
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, ErrEmptyDescription
		}
		it.Description = *req.Description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, from, size int) ([]*Item, int, error) {
	if _, err := s.userService.GetByID(ctx, ownerID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, Filter{OwnerID: ownerID, From: from, Size: size})
}

func (s *service) Search(ctx context.Context, text string, from, size int) ([]*Item, int, error) {
	// Blank query matches nothing rather than everything.
	if strings.TrimSpace(text) == "" {
		return []*Item{}, 0, nil
	}
	return s.repo.List(ctx, Filter{Text: text, From: from, Size: size})
}
