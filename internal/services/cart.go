package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/badwolf/storefront-backend/internal/catalog"
	"github.com/badwolf/storefront-backend/internal/data/cartstore"
	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

// DefaultMaxRetries bounds the optimistic-concurrency retry loop per
// cart mutation.
const DefaultMaxRetries = 5

type CartService interface {
	AddItem(ctx context.Context, sessionKey string, productID uuid.UUID, variantID *uuid.UUID, quantity int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, sessionKey string, productID uuid.UUID, variantID *uuid.UUID, quantity int) (*domain.Cart, error)
	Clear(ctx context.Context, sessionKey string) (*domain.Cart, error)
	Read(ctx context.Context, sessionKey string) (*domain.Cart, error)
}

type cartService struct {
	store      cartstore.Store
	lookup     catalog.Lookup
	log        *logger.Logger
	maxRetries int
}

func NewCartService(store cartstore.Store, lookup catalog.Lookup, baseLog *logger.Logger, maxRetries int) CartService {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &cartService{
		store:      store,
		lookup:     lookup,
		log:        baseLog.With("service", "CartService"),
		maxRetries: maxRetries,
	}
}

// mutate runs one read-modify-write cycle per attempt: read the stored
// cart together with its version, apply fn, write back conditioned on
// the version. A conflicting writer forces a fresh cycle; exhaustion
// surfaces as ErrConflict, never as a lost update.
func (s *cartService) mutate(ctx context.Context, sessionKey string, fn func(cart *domain.Cart) error) (*domain.Cart, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		cart, err := s.store.Get(ctx, sessionKey)
		if err != nil {
			return nil, err
		}
		if cart == nil {
			cart = domain.NewCart(sessionKey)
		}

		if err := fn(cart); err != nil {
			return nil, err
		}
		cart.RecomputeTotal()

		err = s.store.CompareAndSwap(ctx, cart)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		s.log.Debug("cart write conflict, retrying",
			"session_key", sessionKey, "attempt", attempt+1)
	}
	return nil, fmt.Errorf("%w: cart %q after %d attempts", apperr.ErrConflict, sessionKey, s.maxRetries)
}

func (s *cartService) AddItem(ctx context.Context, sessionKey string, productID uuid.UUID, variantID *uuid.UUID, quantity int) (*domain.Cart, error) {
	if sessionKey == "" {
		sessionKey = domain.DefaultSessionKey
	}
	if quantity <= 0 {
		quantity = 1
	}

	line, err := s.lookup.ResolveLine(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, sessionKey, func(cart *domain.Cart) error {
		if idx := cart.FindItem(productID, variantID); idx >= 0 {
			cart.Items[idx].Quantity += quantity
			return nil
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			VariantID: variantID,
			Name:      line.Name,
			Variant:   line.VariantLabel,
			Price:     line.UnitPrice,
			Image:     line.Image,
			Quantity:  quantity,
		})
		return nil
	})
}

func (s *cartService) SetQuantity(ctx context.Context, sessionKey string, productID uuid.UUID, variantID *uuid.UUID, quantity int) (*domain.Cart, error) {
	if sessionKey == "" {
		sessionKey = domain.DefaultSessionKey
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		cart, err := s.store.Get(ctx, sessionKey)
		if err != nil {
			return nil, err
		}
		if cart == nil {
			return nil, fmt.Errorf("%w: cart %q", apperr.ErrNotFound, sessionKey)
		}

		if quantity <= 0 {
			cart.RemoveItem(productID, variantID)
		} else if idx := cart.FindItem(productID, variantID); idx >= 0 {
			cart.Items[idx].Quantity = quantity
		}
		// An absent line is a no-op, not an error.
		cart.RecomputeTotal()

		err = s.store.CompareAndSwap(ctx, cart)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: cart %q after %d attempts", apperr.ErrConflict, sessionKey, s.maxRetries)
}

// Clear replaces the cart with the empty state. Commutative, so it may
// be applied blindly; concurrent conditional writers observe the
// replacement and retry.
func (s *cartService) Clear(ctx context.Context, sessionKey string) (*domain.Cart, error) {
	if sessionKey == "" {
		sessionKey = domain.DefaultSessionKey
	}
	cart := domain.NewCart(sessionKey)
	if err := s.store.Upsert(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) Read(ctx context.Context, sessionKey string) (*domain.Cart, error) {
	if sessionKey == "" {
		sessionKey = domain.DefaultSessionKey
	}
	cart, err := s.store.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		// Synthesized, not persisted.
		cart = domain.NewCart(sessionKey)
	}
	return cart, nil
}
