package services

import "errors"

// Sentinel errors returned by the service layer. Controllers map them
// onto HTTP statuses: ErrInvalid → 400, ErrUnauthorized → 401,
// ErrForbidden → 403, ErrNotFound → 404; everything else is a 500.
var (
	ErrInvalid      = errors.New("invalid request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")

	// ErrOtpExpired means a code existed but its window closed.
	ErrOtpExpired = errors.New("verification code expired")
	// ErrOtpMismatch means the submitted code does not match.
	ErrOtpMismatch = errors.New("verification code does not match")
	// ErrOtpThrottled means the subject asked for too many codes.
	ErrOtpThrottled = errors.New("too many verification requests")

	// ErrEmailTaken means the address already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrBadCredentials covers unknown email and wrong password alike.
	ErrBadCredentials = errors.New("invalid email or password")
	// ErrBlocked means the account exists but has been suspended.
	ErrBlocked = errors.New("account blocked")

	// ErrOutOfStock means a checkout line exceeds available stock.
	ErrOutOfStock = errors.New("insufficient stock")
	// ErrBadStatus means an unknown order status was submitted.
	ErrBadStatus = errors.New("unknown order status")
)
