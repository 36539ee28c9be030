package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/badwolf/storefront-backend/internal/data/repos"
	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

type CategoryService interface {
	Create(ctx context.Context, row *domain.Category) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}

type categoryService struct {
	db         *gorm.DB
	categories repos.CategoryRepo
	log        *logger.Logger
}

func NewCategoryService(db *gorm.DB, categories repos.CategoryRepo, baseLog *logger.Logger) CategoryService {
	return &categoryService{db: db, categories: categories, log: baseLog.With("service", "CategoryService")}
}

func (s *categoryService) Create(ctx context.Context, row *domain.Category) (*domain.Category, error) {
	if err := s.categories.Create(ctx, nil, row); err != nil {
		return nil, err
	}
	s.log.Info("category created", "category_id", row.ID.String(), "name", row.Name)
	return row, nil
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx, nil)
}
