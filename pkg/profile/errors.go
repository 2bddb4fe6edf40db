package profile

import "errors"

var (
	ErrProfileNotFound       = errors.New("profile not found")
	ErrCustomerAlreadyLinked = errors.New("profile already linked to another customer")
	ErrMissingCustomerID     = errors.New("customer id is required")
	ErrNilProfile            = errors.New("profile is nil")
)
