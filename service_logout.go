package tokengate

import (
	"context"
	"time"

	"github.com/seojun-dev/tokengate/jwt"
)

// Logout is best-effort and never fails the request. A valid refresh token
// has its session record deleted; a valid access token is blacklisted under
// its revocation identity for exactly its remaining lifetime, so the entry's
// storage cost never outlives the token's own validity window. Absent,
// malformed, expired, or wrong-kind inputs are silently ignored, and both
// side effects are idempotent.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) LogoutResult {
	var result LogoutResult
	if s == nil || s.codec == nil || s.sessions == nil {
		return result
	}

	var auditID int64

	if refreshToken != "" {
		if claims, err := s.codec.Decode(refreshToken); err == nil && claims.TokenKind == jwt.KindRefresh {
			if id := claims.PrincipalID(); id > 0 {
				auditID = id
				if err := s.sessions.DeleteRefresh(ctx, id); err == nil {
					result.RefreshCleared = true
					s.metricInc(MetricLogoutRefreshCleared)
				}
			}
		}
	}

	if accessToken != "" {
		if claims, err := s.codec.Decode(accessToken); err == nil && claims.TokenKind == jwt.KindAccess {
			if auditID == 0 {
				auditID = claims.PrincipalID()
			}
			identity := claims.RevocationID()
			remaining := time.Until(claims.ExpiresAt.Time)
			if identity != "" && remaining > 0 {
				if err := s.sessions.Blacklist(ctx, identity, accessToken, remaining); err == nil {
					result.AccessRevoked = true
					s.metricInc(MetricLogoutAccessRevoked)
				}
			}
		}
	}

	s.metricInc(MetricLogout)
	s.emitAudit(ctx, AuditEventLogout, auditID, true, nil)

	return result
}
