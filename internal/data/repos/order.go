package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

type OrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.Order) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, tx *gorm.DB, userID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.OrderStatus, at time.Time) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.Order) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("%w: create order: %v", apperr.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Order, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row domain.Order
	err := t.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get order: %v", apperr.ErrStorageUnavailable, err)
	}
	return &row, nil
}

func (r *orderRepo) List(ctx context.Context, tx *gorm.DB, userID string) ([]*domain.Order, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Model(&domain.Order{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var out []*domain.Order
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", apperr.ErrStorageUnavailable, err)
	}
	return out, nil
}

// UpdateStatus touches only status and updated_at; created_at and the
// frozen items/total are never rewritten.
func (r *orderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.OrderStatus, at time.Time) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": at})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: update order status: %v", apperr.ErrStorageUnavailable, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *orderRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Where("id = ?", id).Delete(&domain.Order{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: delete order: %v", apperr.ErrStorageUnavailable, res.Error)
	}
	return res.RowsAffected, nil
}
