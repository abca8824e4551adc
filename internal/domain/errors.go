package domain

import "errors"

var (
	// ErrResourceNotFound is returned when the requested resource does not exist
	ErrResourceNotFound = errors.New("resource not found")

	// ErrVerificationUnavailable is returned when every verification tier
	// failed. Distinct from a denial: a denial is a confident "you don't
	// qualify", this is "we couldn't tell".
	ErrVerificationUnavailable = errors.New("ownership verification unavailable")

	// ErrCheckTimeout is returned when the caller deadline expired before
	// any qualifying wallet/rule pair was found.
	ErrCheckTimeout = errors.New("access check deadline exceeded")

	// ErrGrantNotFound is returned when no grant matches the given token
	ErrGrantNotFound = errors.New("grant not found")

	// ErrGrantExpired is returned when the grant's lifetime has lapsed
	ErrGrantExpired = errors.New("grant expired")

	// ErrGrantExhausted is returned when the grant's usage allowance is spent
	ErrGrantExhausted = errors.New("grant usage exhausted")

	// ErrGrantRevoked is returned when the grant was explicitly revoked
	ErrGrantRevoked = errors.New("grant revoked")

	// ErrConflictingIssuance is returned when a concurrent request minted a
	// grant for the same user and resource first. Callers retry the reuse path.
	ErrConflictingIssuance = errors.New("conflicting grant issuance")

	// ErrTokenCollision is returned when grant token minting kept colliding
	// with existing tokens. This indicates a broken entropy source and is fatal.
	ErrTokenCollision = errors.New("grant token collision after retries")
)
