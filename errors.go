package tokengate

import "errors"

var (
	// ErrInvalidToken is an exported constant or variable used by the token service.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenType is an exported constant or variable used by the token service.
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrSessionNotFound is an exported constant or variable used by the token service.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTokenMismatch is an exported constant or variable used by the token service.
	ErrTokenMismatch = errors.New("refresh token does not match stored session")
	// ErrTokenRevoked is an exported constant or variable used by the token service.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrStoreUnavailable is an exported constant or variable used by the token service.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrPrincipalNotFound is an exported constant or variable used by the token service.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrMissingCredential is an exported constant or variable used by the token service.
	ErrMissingCredential = errors.New("missing bearer credential")
	// ErrServiceNotReady is an exported constant or variable used by the token service.
	ErrServiceNotReady = errors.New("service not initialized")
)
