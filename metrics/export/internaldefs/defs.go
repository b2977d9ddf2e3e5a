package internaldefs

import (
	tokengate "github.com/seojun-dev/tokengate"
)

// CounterDef defines a public type used by tokengate APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   tokengate.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by tokengate APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   tokengate.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the token service.
var CounterDefs = []CounterDef{
	{ID: tokengate.MetricIssueSuccess, Name: "tokengate_issue_success_total", Help: "Successfully issued token pairs."},
	{ID: tokengate.MetricIssueFailure, Name: "tokengate_issue_failure_total", Help: "Failed token pair issuances."},
	{ID: tokengate.MetricRefreshSuccess, Name: "tokengate_refresh_success_total", Help: "Successful refresh redemptions."},
	{ID: tokengate.MetricRefreshFailure, Name: "tokengate_refresh_failure_total", Help: "Failed refresh redemptions."},
	{ID: tokengate.MetricRefreshMismatch, Name: "tokengate_refresh_mismatch_total", Help: "Refresh tokens rejected for not matching the stored session."},
	{ID: tokengate.MetricValidateSuccess, Name: "tokengate_validate_success_total", Help: "Access tokens accepted by validation."},
	{ID: tokengate.MetricValidateFailure, Name: "tokengate_validate_failure_total", Help: "Access tokens rejected by validation."},
	{ID: tokengate.MetricValidateRevoked, Name: "tokengate_validate_revoked_total", Help: "Access tokens rejected by the revocation blacklist."},
	{ID: tokengate.MetricLogout, Name: "tokengate_logout_total", Help: "Logout operations."},
	{ID: tokengate.MetricLogoutRefreshCleared, Name: "tokengate_logout_refresh_cleared_total", Help: "Logouts that deleted a refresh session record."},
	{ID: tokengate.MetricLogoutAccessRevoked, Name: "tokengate_logout_access_revoked_total", Help: "Logouts that blacklisted an access token."},
	{ID: tokengate.MetricStoreUnavailable, Name: "tokengate_store_unavailable_total", Help: "Operations that failed because the session store was unreachable."},
}

// HistogramDefs is an exported constant or variable used by the token service.
var HistogramDefs = []HistogramDef{
	{ID: tokengate.MetricValidateLatency, Name: "tokengate_validate_latency_seconds", Help: "Validate latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the token service.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the token service.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed width.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative counts
// the Prometheus exposition format expects.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
