package repos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

// ProductFilter narrows List results. Zero values mean "no filter".
type ProductFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.Product) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, tx *gorm.DB, filter ProductFilter) ([]*domain.Product, int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.Product) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	for idx := range row.Variants {
		if row.Variants[idx].ID == uuid.Nil {
			row.Variants[idx].ID = uuid.New()
		}
		row.Variants[idx].ProductID = row.ID
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("%w: create product: %v", apperr.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Product, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row domain.Product
	err := t.WithContext(ctx).Preload("Variants").Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get product: %v", apperr.ErrStorageUnavailable, err)
	}
	return &row, nil
}

func (r *productRepo) List(ctx context.Context, tx *gorm.DB, filter ProductFilter) ([]*domain.Product, int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Model(&domain.Product{})
	if filter.Category != "" && filter.Category != "all" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count products: %v", apperr.ErrStorageUnavailable, err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	var out []*domain.Product
	if err := q.Preload("Variants").
		Offset(filter.Offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: list products: %v", apperr.ErrStorageUnavailable, err)
	}
	return out, total, nil
}

func (r *productRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return 0, fmt.Errorf("%w: update product: %v", apperr.ErrStorageUnavailable, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *productRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: delete product: %v", apperr.ErrStorageUnavailable, res.Error)
	}
	return res.RowsAffected, nil
}
