package tokengate

import (
	"context"
	"fmt"
	"time"

	"github.com/seojun-dev/tokengate/jwt"
)

// ValidateAccess verifies a presented access token end to end: signature,
// expiry, kind, and the revocation blacklist. On success it returns the
// request-scoped principal the token represents.
//
// A Redis failure during the blacklist consult surfaces as
// [ErrStoreUnavailable]; it is never treated as "not revoked" silently, the
// caller decides whether to fail open or closed.
func (s *Service) ValidateAccess(ctx context.Context, tokenStr string) (*Principal, error) {
	if s == nil || s.codec == nil || s.sessions == nil {
		return nil, ErrServiceNotReady
	}

	start := time.Now()
	principal, err := s.validateAccess(ctx, tokenStr)
	s.metricObserve(MetricValidateLatency, time.Since(start))

	if err != nil {
		return nil, err
	}
	return principal, nil
}

func (s *Service) validateAccess(ctx context.Context, tokenStr string) (*Principal, error) {
	if tokenStr == "" {
		s.metricInc(MetricValidateFailure)
		return nil, ErrMissingCredential
	}

	claims, err := s.codec.Decode(tokenStr)
	if err != nil {
		s.metricInc(MetricValidateFailure)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenKind != jwt.KindAccess {
		s.metricInc(MetricValidateFailure)
		return nil, ErrWrongTokenType
	}

	// Tokens without a jti cannot be blacklisted, so there is nothing to
	// consult for them.
	if identity := claims.RevocationID(); identity != "" {
		revoked, err := s.sessions.IsBlacklisted(ctx, identity)
		if err != nil {
			s.metricInc(MetricValidateFailure)
			s.metricInc(MetricStoreUnavailable)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if revoked {
			s.metricInc(MetricValidateRevoked)
			// The only validate outcome worth an audit trail: someone
			// presented a token that was explicitly revoked.
			s.emitAudit(ctx, AuditEventValidate, claims.PrincipalID(), false, ErrTokenRevoked)
			return nil, ErrTokenRevoked
		}
	}

	s.metricInc(MetricValidateSuccess)
	return &Principal{
		ID:   claims.PrincipalID(),
		Role: claims.Role,
	}, nil
}

func (s *Service) metricObserve(id MetricID, d time.Duration) {
	if s == nil || s.metrics == nil {
		return
	}
	s.metrics.Observe(id, d)
}
