package materials

import (
	"context"
	"errors"

	"github.com/hidesync/hidesync/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Material, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Material, error) {
	if id <= 0 {
		return Material{}, errors.New("invalid material ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, material Material) (Material, error) {
	if err := s.validate(material); err != nil {
		return Material{}, err
	}
	return s.repo.Create(ctx, material)
}

func (s *Service) Update(ctx context.Context, id int64, material Material) error {
	if id <= 0 {
		return errors.New("invalid material ID")
	}
	if err := s.validate(material); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, material)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid material ID")
	}
	return s.repo.Delete(ctx, id)
}
