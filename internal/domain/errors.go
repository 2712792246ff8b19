package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidHub      = errors.New("unresolvable trade hub")
	ErrInvalidDiscount = errors.New("invalid discount percent")
	ErrRateLimited     = errors.New("rate limited")
	ErrUnauthorized    = errors.New("unauthorized")
)
