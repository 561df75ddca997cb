package service

import "errors"

var (
	ErrInvalidClaim = errors.New("invalid claim")
	ErrClaimExists  = errors.New("claim already exists")
)
