package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

type CategoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.Category) error
	List(ctx context.Context, tx *gorm.DB) ([]*domain.Category, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.Category) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("%w: create category: %v", apperr.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *categoryRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.Category, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Category
	if err := t.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%w: list categories: %v", apperr.ErrStorageUnavailable, err)
	}
	return out, nil
}
