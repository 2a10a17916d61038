package stock

import "errors"

var (
	// ErrInsufficientStock is returned when a negative delta would drive an
	// item's stock below zero. The operation performed no mutation and the
	// caller may surface it as a rejected request.
	ErrInsufficientStock = errors.New("insufficient stock for operation")

	// ErrNegativeStock is returned when the defensive post-write check
	// finds a negative counter despite the pre-check. It signals a logic
	// defect, not a business condition, and should be logged loudly.
	ErrNegativeStock = errors.New("operation left stock negative")

	// ErrLockTimeout is returned when the item-scoped lock cannot be
	// acquired within the configured wait. The caller may retry the whole
	// reconciliation attempt from freshly read record state.
	ErrLockTimeout = errors.New("timed out waiting for stock lock")
)
