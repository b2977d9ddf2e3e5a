package tokengate

import (
	"context"
	"fmt"
	"time"

	"github.com/seojun-dev/tokengate/jwt"
	"github.com/seojun-dev/tokengate/session"
)

// Service defines a public type used by tokengate APIs.
//
// Service instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Service struct {
	config     Config
	codec      *jwt.Codec
	sessions   *session.Store
	principals PrincipalProvider
	audit      *auditDispatcher
	metrics    *Metrics
}

// Close flushes and stops the audit dispatcher. Safe on a nil Service.
func (s *Service) Close() {
	if s == nil {
		return
	}
	if s.audit != nil {
		s.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded under
// backpressure.
func (s *Service) AuditDropped() uint64 {
	if s == nil || s.audit == nil {
		return 0
	}
	return s.audit.Dropped()
}

// MetricsSnapshot copies the current counters and histograms for exporters.
func (s *Service) MetricsSnapshot() MetricsSnapshot {
	if s == nil || s.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return s.metrics.Snapshot()
}

// Issue mints an access+refresh pair for the principal and persists the
// refresh token under the principal's session slot, clobbering any prior
// record. No prior session is consulted: issuing is what enforces the
// single-live-session-per-principal invariant, last writer winning.
func (s *Service) Issue(ctx context.Context, principal Principal) (*TokenPair, error) {
	if s == nil || s.codec == nil || s.sessions == nil {
		return nil, ErrServiceNotReady
	}

	access, err := s.codec.EncodeAccess(principal.ID, principal.Role)
	if err != nil {
		s.metricInc(MetricIssueFailure)
		s.emitAudit(ctx, AuditEventIssue, principal.ID, false, err)
		return nil, err
	}

	refresh, err := s.codec.EncodeRefresh(principal.ID)
	if err != nil {
		s.metricInc(MetricIssueFailure)
		s.emitAudit(ctx, AuditEventIssue, principal.ID, false, err)
		return nil, err
	}

	if err := s.sessions.PutRefresh(ctx, principal.ID, refresh, s.codec.RefreshTTL()); err != nil {
		s.metricInc(MetricIssueFailure)
		s.metricInc(MetricStoreUnavailable)
		s.emitAudit(ctx, AuditEventIssue, principal.ID, false, err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.metricInc(MetricIssueSuccess)
	s.emitAudit(ctx, AuditEventIssue, principal.ID, true, nil)

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       principal.ID,
		Role:         principal.Role,
	}, nil
}

func (s *Service) metricInc(id MetricID) {
	if s == nil || s.metrics == nil {
		return
	}
	s.metrics.Inc(id)
}

func (s *Service) emitAudit(ctx context.Context, eventType string, userID int64, success bool, opErr error) {
	if s == nil || s.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   success,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}

	s.audit.Emit(ctx, event)
}
