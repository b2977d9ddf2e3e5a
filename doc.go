// Package tokengate issues, verifies, rotates, and revokes the bearer
// credentials that authorize access to a record-management API. It pairs
// short-lived HMAC-signed access tokens with longer-lived refresh tokens
// whose currency is decided by a shared Redis store, not by signature
// validity alone.
//
// The package is designed for concurrent server workloads: Service methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. The signing secret is process-wide immutable state; the
// only shared mutable resource is the Redis session store, reached solely
// through atomic single-key operations.
//
// # Architecture boundaries
//
// tokengate is the public surface. It exposes [Service], [Builder], [Config],
// and value types (TokenPair, LogoutResult, MetricsSnapshot). Claim encoding
// lives in jwt/, Redis persistence in session/, request identity plumbing in
// middleware/, and the HTTP handlers in httpapi/. Account rows, credential
// checks, and password hashing belong to the caller behind [PrincipalProvider]
// and httpapi's CredentialVerifier — this package only ever sees an opaque
// account id and a role string.
//
// # What this package must NOT do
//
//   - Touch account storage or mutate account data.
//   - Keep per-request state between requests.
//   - Treat a Redis outage as a missing session: the two fail differently
//     so a transient outage never logs anyone out.
package tokengate
