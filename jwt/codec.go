package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kind claim values. The "type" claim is what separates an access token
// from a refresh token; the two are never interchangeable.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var (
	// ErrMalformed is returned when a token cannot be parsed or its claim
	// schema is violated (missing exp/iat/type, non-numeric subject).
	ErrMalformed = errors.New("malformed token")
	// ErrExpired is returned when the exp claim has passed, even if the
	// signature is valid.
	ErrExpired = errors.New("token expired")
	// ErrBadSignature is returned on MAC mismatch or on any signing
	// algorithm other than HS256 (including "none").
	ErrBadSignature = errors.New("bad token signature")
)

// Config defines a public type used by tokengate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	Leeway     time.Duration
}

// Claims is the strongly typed claim set carried by every tokengate token.
// Access tokens carry Role and a jti used as the revocation identity;
// refresh tokens carry a jti purely for uniqueness and never a role.
type Claims struct {
	Role      string `json:"role,omitempty"`
	TokenKind string `json:"type"`
	jwt.RegisteredClaims
}

// PrincipalID returns the subject as a positive account identifier, or 0 when
// the subject is absent or not a positive integer.
func (c *Claims) PrincipalID() int64 {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// RevocationID is the identity under which an access token can be
// blacklisted: "<sub>:<jti>". Empty for refresh tokens.
func (c *Claims) RevocationID() string {
	if c.ID == "" {
		return ""
	}
	return c.Subject + ":" + c.ID
}

// Codec signs and verifies tokens with a single symmetric HS256 secret loaded
// once at construction. All methods are pure functions of the token string
// and the secret; a Codec is safe for unsynchronized concurrent use.
type Codec struct {
	config Config
}

// NewCodec validates cfg and returns a ready Codec.
//
// The secret must be at least 32 bytes so the HMAC key is not weaker than the
// SHA-256 output it keys.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) < 32 {
		return nil, errors.New("hs256 secret must be at least 32 bytes")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.RefreshTTL < cfg.AccessTTL {
		return nil, errors.New("refresh TTL must not be shorter than access TTL")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Codec{config: cfg}, nil
}

// AccessTTL reports the configured access-token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.config.AccessTTL }

// RefreshTTL reports the configured refresh-token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.config.RefreshTTL }

// EncodeAccess mints a signed access token for the principal: subject, role,
// type="access", iat, exp=iat+AccessTTL, and a fresh jti.
func (c *Codec) EncodeAccess(principalID int64, role string) (string, error) {
	if principalID <= 0 {
		return "", errors.New("principal id must be positive")
	}

	now := time.Now()
	claims := Claims{
		Role:      role,
		TokenKind: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(principalID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.config.AccessTTL)),
			ID:        uuid.NewString(),
			Issuer:    c.config.Issuer,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.config.Secret)
}

// EncodeRefresh mints a signed refresh token: subject, type="refresh", iat,
// exp=iat+RefreshTTL, and a fresh jti. The jti exists only to make every mint
// distinct (iat has second resolution); a refresh token authorizes nothing by
// itself and is only ever compared against the stored session record.
func (c *Codec) EncodeRefresh(principalID int64) (string, error) {
	if principalID <= 0 {
		return "", errors.New("principal id must be positive")
	}

	now := time.Now()
	claims := Claims{
		TokenKind: KindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(principalID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.config.RefreshTTL)),
			ID:        uuid.NewString(),
			Issuer:    c.config.Issuer,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.config.Secret)
}

// Decode parses and fully verifies a token string. It fails with
// [ErrMalformed], [ErrExpired], or [ErrBadSignature]; no partially decoded
// claims are ever returned alongside an error.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return c.config.Secret, nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrBadSignature
	}
	if claims.TokenKind != KindAccess && claims.TokenKind != KindRefresh {
		return nil, fmt.Errorf("%w: unknown token kind", ErrMalformed)
	}
	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing iat", ErrMalformed)
	}
	if claims.PrincipalID() == 0 {
		return nil, fmt.Errorf("%w: subject is not a positive account id", ErrMalformed)
	}

	return claims, nil
}

// ExtractKind reports the token's kind claim without verifying the signature.
// It fails soft: any parse problem yields "". Callers use it only for
// best-effort classification before acting on a firm Decode result.
func (c *Codec) ExtractKind(tokenStr string) string {
	claims := unverifiedClaims(tokenStr)
	if claims == nil {
		return ""
	}
	return claims.TokenKind
}

// ExtractPrincipal reports the token's subject as an account id without
// verifying the signature, or 0 when absent or unparseable.
func (c *Codec) ExtractPrincipal(tokenStr string) int64 {
	claims := unverifiedClaims(tokenStr)
	if claims == nil {
		return 0
	}
	return claims.PrincipalID()
}

func unverifiedClaims(tokenStr string) *Claims {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil
	}
	return claims
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
