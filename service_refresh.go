package tokengate

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/seojun-dev/tokengate/jwt"
	"github.com/seojun-dev/tokengate/session"
)

// Refresh redeems a refresh token for a new access token.
//
// The presented token must decode and verify, carry kind "refresh", and
// byte-for-byte equal the value currently stored under its principal's
// session slot — store membership, not signature validity, is what makes a
// refresh token current. The stored token is not rotated, so redeeming is
// idempotent and concurrent redemptions of the same token all succeed.
//
// Failure modes, each distinguishable by errors.Is: [ErrInvalidToken],
// [ErrWrongTokenType], [ErrSessionNotFound], [ErrTokenMismatch],
// [ErrPrincipalNotFound], and [ErrStoreUnavailable] when Redis cannot be
// reached (never conflated with a missing session).
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if s == nil || s.codec == nil || s.sessions == nil || s.principals == nil {
		return nil, ErrServiceNotReady
	}

	result, principalID, err := s.redeemRefresh(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenMismatch):
			s.metricInc(MetricRefreshMismatch)
			s.metricInc(MetricRefreshFailure)
		case errors.Is(err, ErrStoreUnavailable):
			s.metricInc(MetricStoreUnavailable)
			s.metricInc(MetricRefreshFailure)
		default:
			s.metricInc(MetricRefreshFailure)
		}
		s.emitAudit(ctx, AuditEventRefresh, principalID, false, err)
		return nil, err
	}

	s.metricInc(MetricRefreshSuccess)
	s.emitAudit(ctx, AuditEventRefresh, principalID, true, nil)
	return result, nil
}

func (s *Service) redeemRefresh(ctx context.Context, refreshToken string) (*RefreshResult, int64, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenKind != jwt.KindRefresh {
		return nil, 0, ErrWrongTokenType
	}

	principalID := claims.PrincipalID()
	if principalID == 0 {
		return nil, 0, ErrInvalidToken
	}

	stored, err := s.sessions.GetRefresh(ctx, principalID)
	if err != nil {
		if errors.Is(err, session.ErrRefreshNotFound) {
			return nil, principalID, ErrSessionNotFound
		}
		return nil, principalID, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return nil, principalID, ErrTokenMismatch
	}

	principal, err := s.principals.PrincipalByID(ctx, principalID)
	if err != nil {
		return nil, principalID, fmt.Errorf("%w: %v", ErrPrincipalNotFound, err)
	}

	access, err := s.codec.EncodeAccess(principalID, principal.Role)
	if err != nil {
		return nil, principalID, err
	}

	return &RefreshResult{
		AccessToken: access,
		UserID:      principalID,
		Role:        principal.Role,
	}, principalID, nil
}
