package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/badwolf/storefront-backend/internal/data/cartstore"
	"github.com/badwolf/storefront-backend/internal/data/repos"
	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

// PlaceOrderInput carries the session key and contact fields. It never
// carries items or a total: those are taken from the persisted cart at
// execution time, so a client cannot tamper with prices.
type PlaceOrderInput struct {
	SessionKey      string
	UserID          string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
}

type OrderService interface {
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, userID string) ([]*domain.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	db         *gorm.DB
	orders     repos.OrderRepo
	store      cartstore.Store
	log        *logger.Logger
	maxRetries int
}

func NewOrderService(db *gorm.DB, orders repos.OrderRepo, store cartstore.Store, baseLog *logger.Logger, maxRetries int) OrderService {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &orderService{
		db:         db,
		orders:     orders,
		store:      store,
		log:        baseLog.With("service", "OrderService"),
		maxRetries: maxRetries,
	}
}

// PlaceOrder snapshots the persisted cart into an immutable order and
// empties the cart. With a transactional cart store the read, the order
// insert and the conditional clear commit as one unit; otherwise the
// order is persisted first and the clear is retried on its own, so a
// crash can never leave an order without a true cart snapshot behind it.
func (s *orderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	if in.SessionKey == "" {
		in.SessionKey = domain.DefaultSessionKey
	}

	if ts, ok := s.store.(cartstore.Transactional); ok && s.db != nil {
		return s.placeOrderInTx(ctx, ts, in)
	}
	return s.placeOrderSequenced(ctx, in)
}

func (s *orderService) placeOrderInTx(ctx context.Context, ts cartstore.Transactional, in PlaceOrderInput) (*domain.Order, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		var order *domain.Order
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			st := ts.WithTx(tx)
			cart, err := st.Get(ctx, in.SessionKey)
			if err != nil {
				return err
			}
			if cart.IsEmpty() {
				return fmt.Errorf("%w: session %q", apperr.ErrEmptyCart, in.SessionKey)
			}

			order = s.buildOrder(cart, in)
			if err := s.orders.Create(ctx, tx, order); err != nil {
				return err
			}

			empty := domain.NewCart(in.SessionKey)
			empty.Version = cart.Version
			return st.CompareAndSwap(ctx, empty)
		})
		if err == nil {
			s.log.Info("order placed",
				"order_id", order.ID.String(), "session_key", in.SessionKey, "total", order.Total)
			return order, nil
		}
		if errors.Is(err, apperr.ErrConflict) {
			// A concurrent cart write landed between our read and the
			// clear; the rollback dropped the order, start over.
			s.log.Debug("order placement conflict, retrying",
				"session_key", in.SessionKey, "attempt", attempt+1)
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: place order for cart %q after %d attempts", apperr.ErrConflict, in.SessionKey, s.maxRetries)
}

func (s *orderService) placeOrderSequenced(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	cart, err := s.store.Get(ctx, in.SessionKey)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, fmt.Errorf("%w: session %q", apperr.ErrEmptyCart, in.SessionKey)
	}

	order := s.buildOrder(cart, in)
	if err := s.orders.Create(ctx, nil, order); err != nil {
		return nil, err
	}

	// The order is durable; only the clear is retried from here on. Each
	// attempt is conditioned on the version observed by its own read.
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		empty := domain.NewCart(in.SessionKey)
		empty.Version = cart.Version
		err = s.store.CompareAndSwap(ctx, empty)
		if err == nil {
			s.log.Info("order placed",
				"order_id", order.ID.String(), "session_key", in.SessionKey, "total", order.Total)
			return order, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		cart, err = s.store.Get(ctx, in.SessionKey)
		if err != nil {
			return nil, err
		}
		if cart == nil {
			cart = domain.NewCart(in.SessionKey)
		}
	}
	// The order itself was created from a true snapshot; give up on the
	// clear rather than invent a blind overwrite. The caller gets the
	// order together with ErrCartNotCleared so the partial state is
	// visible instead of passing as full success.
	s.log.Error("cart clear conflicted past the retry budget after order creation",
		"order_id", order.ID.String(), "session_key", in.SessionKey)
	return order, fmt.Errorf("%w: session %q, order %s", apperr.ErrCartNotCleared, in.SessionKey, order.ID)
}

func (s *orderService) buildOrder(cart *domain.Cart, in PlaceOrderInput) *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:              uuid.New(),
		SessionKey:      in.SessionKey,
		UserID:          in.UserID,
		Items:           cart.Snapshot(),
		Total:           cart.Total,
		Status:          domain.OrderStatusPending,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		ShippingAddress: in.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %q", apperr.ErrInvalidStatus, status)
	}
	affected, err := s.orders.UpdateStatus(ctx, nil, id, status, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	return s.orders.GetByID(ctx, nil, id)
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.List(ctx, nil, userID)
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.orders.Delete(ctx, nil, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	return nil
}
