package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

const redisKeyPrefix = "cart:"

type redisDoc struct {
	SessionKey string            `json:"sessionKey"`
	Items      []domain.CartItem `json:"items"`
	Total      float64           `json:"total"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Version    int64             `json:"version"`
}

type redisStore struct {
	rdb *goredis.Client
	log *logger.Logger
}

// NewRedisStore returns a cart store keyed by cart:<sessionKey>, holding
// one JSON document per session. Conditional writes run under WATCH so
// any concurrent touch of the key aborts the transaction.
func NewRedisStore(addr string, baseLog *logger.Logger) (Store, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisStore{rdb: rdb, log: baseLog.With("store", "RedisCartStore")}, nil
}

func (s *redisStore) Get(ctx context.Context, sessionKey string) (*domain.Cart, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+sessionKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get cart: %v", apperr.ErrStorageUnavailable, err)
	}
	var doc redisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode cart: %v", apperr.ErrStorageUnavailable, err)
	}
	return docToCart(doc), nil
}

func (s *redisStore) CompareAndSwap(ctx context.Context, cart *domain.Cart) error {
	key := redisKeyPrefix + cart.SessionKey
	cart.UpdatedAt = time.Now().UTC()

	err := s.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		var current int64
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, goredis.Nil):
			current = 0
		case err != nil:
			return fmt.Errorf("%w: get cart: %v", apperr.ErrStorageUnavailable, err)
		default:
			var doc redisDoc
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("%w: decode cart: %v", apperr.ErrStorageUnavailable, err)
			}
			current = doc.Version
		}
		if current != cart.Version {
			return apperr.ErrConflict
		}

		data, err := json.Marshal(cartToDoc(cart, cart.Version+1))
		if err != nil {
			return fmt.Errorf("%w: encode cart: %v", apperr.ErrStorageUnavailable, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, goredis.TxFailedErr) {
		return apperr.ErrConflict
	}
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) || errors.Is(err, apperr.ErrStorageUnavailable) {
			return err
		}
		return fmt.Errorf("%w: cas cart: %v", apperr.ErrStorageUnavailable, err)
	}
	cart.Version++
	return nil
}

func (s *redisStore) Upsert(ctx context.Context, cart *domain.Cart) error {
	key := redisKeyPrefix + cart.SessionKey
	cart.UpdatedAt = time.Now().UTC()

	// A plain SET is enough here: WATCH-based writers observe the
	// replacement and retry, and Clear is safe to apply blindly.
	version := cart.Version + 1
	if cur, err := s.Get(ctx, cart.SessionKey); err == nil && cur != nil && cur.Version >= version {
		version = cur.Version + 1
	}
	data, err := json.Marshal(cartToDoc(cart, version))
	if err != nil {
		return fmt.Errorf("%w: encode cart: %v", apperr.ErrStorageUnavailable, err)
	}
	if err := s.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: upsert cart: %v", apperr.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *redisStore) Close() error { return s.rdb.Close() }

func cartToDoc(cart *domain.Cart, version int64) redisDoc {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return redisDoc{
		SessionKey: cart.SessionKey,
		Items:      items,
		Total:      cart.Total,
		UpdatedAt:  cart.UpdatedAt,
		Version:    version,
	}
}

func docToCart(doc redisDoc) *domain.Cart {
	items := doc.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return &domain.Cart{
		SessionKey: doc.SessionKey,
		Items:      items,
		Total:      doc.Total,
		UpdatedAt:  doc.UpdatedAt,
		Version:    doc.Version,
	}
}
