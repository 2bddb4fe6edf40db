package entitlement

import "errors"

var (
	ErrLimitExceeded   = errors.New("entitlement: limit exceeded")
	ErrInvalidQuantity = errors.New("entitlement: quantity must be positive")
)
