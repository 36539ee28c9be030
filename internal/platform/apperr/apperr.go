package apperr

import "errors"

var (
	// ErrNotFound covers unknown product/variant/cart/order references.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart is returned when order placement hits a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidStatus is returned for a status value outside the allowed set.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrConflict is returned when the optimistic-concurrency retry budget
	// is exhausted. Transient: the caller may retry the whole request.
	ErrConflict = errors.New("concurrent modification conflict")
	// ErrStorageUnavailable wraps infrastructure failures from the store.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCartNotCleared reports that an order was durably placed but the
	// cart clear lost every retry. The order accompanying this error is
	// valid; only the cart state is stale.
	ErrCartNotCleared = errors.New("order placed but cart not cleared")
)
