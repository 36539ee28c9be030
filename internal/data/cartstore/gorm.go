package cartstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

type gormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewGormStore returns a cart store backed by the carts table. Writes are
// conditioned on the version column, so concurrent writers against the
// same session key cannot lose updates.
func NewGormStore(db *gorm.DB, baseLog *logger.Logger) Store {
	return &gormStore{db: db, log: baseLog.With("store", "GormCartStore")}
}

func (s *gormStore) WithTx(tx *gorm.DB) Store {
	return &gormStore{db: tx, log: s.log}
}

func (s *gormStore) Get(ctx context.Context, sessionKey string) (*domain.Cart, error) {
	var rec CartRecord
	err := s.db.WithContext(ctx).Where("session_key = ?", sessionKey).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get cart: %v", apperr.ErrStorageUnavailable, err)
	}
	return cartFromRecord(rec), nil
}

func (s *gormStore) CompareAndSwap(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()

	if cart.Version == 0 {
		rec := recordFromCart(cart)
		rec.Version = 1
		res := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&rec)
		if res.Error != nil {
			return fmt.Errorf("%w: insert cart: %v", apperr.ErrStorageUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			// A record appeared between the read and this insert.
			return apperr.ErrConflict
		}
		cart.Version = 1
		return nil
	}

	rec := recordFromCart(cart)
	res := s.db.WithContext(ctx).Model(&CartRecord{}).
		Where("session_key = ? AND version = ?", cart.SessionKey, cart.Version).
		Updates(map[string]interface{}{
			"items":      rec.Items,
			"total":      rec.Total,
			"updated_at": rec.UpdatedAt,
			"version":    cart.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("%w: update cart: %v", apperr.ErrStorageUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrConflict
	}
	cart.Version++
	return nil
}

func (s *gormStore) Upsert(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	rec := recordFromCart(cart)
	rec.Version = 1
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"items":      rec.Items,
				"total":      rec.Total,
				"updated_at": rec.UpdatedAt,
				// Still advance the version so in-flight conditional
				// writers observe the replacement and retry.
				"version": gorm.Expr("carts.version + 1"),
			}),
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("%w: upsert cart: %v", apperr.ErrStorageUnavailable, err)
	}
	return nil
}
