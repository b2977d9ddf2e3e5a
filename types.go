package tokengate

import "context"

// Principal is the authenticated identity a token represents: an opaque
// positive account identifier plus a role string. It is immutable once a
// token is minted; tokengate never mutates account data.
type Principal struct {
	ID   int64
	Role string
}

// TokenPair is returned by [Service.Issue] and surfaced to the client on
// login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	UserID       int64
	Role         string
}

// RefreshResult is returned by [Service.Refresh]. Only a new access token is
// minted; the stored refresh token is left in place.
type RefreshResult struct {
	AccessToken string
	UserID      int64
	Role        string
}

// LogoutResult reports what a best-effort logout actually cleaned up.
// Logout itself never fails; absent or invalid inputs simply leave the
// corresponding field false.
type LogoutResult struct {
	RefreshCleared bool
	AccessRevoked  bool
}

// PrincipalProvider is the interface callers must implement so Refresh can
// recover the principal's role: refresh tokens deliberately carry no role
// claim, so the role is re-read from the system of record, exactly once per
// redemption.
type PrincipalProvider interface {
	PrincipalByID(ctx context.Context, id int64) (Principal, error)
}

// PrincipalProviderFunc adapts a plain function to [PrincipalProvider].
type PrincipalProviderFunc func(ctx context.Context, id int64) (Principal, error)

// PrincipalByID implements [PrincipalProvider].
func (f PrincipalProviderFunc) PrincipalByID(ctx context.Context, id int64) (Principal, error) {
	return f(ctx, id)
}
