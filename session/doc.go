// Package session provides the Redis-backed store recording, per principal,
// the currently valid refresh token, and the self-expiring blacklist of
// revoked access-token identities.
//
// # Key layout
//
//   - refresh_token:<principalId> → refresh token string, TTL = refresh TTL
//   - blacklist:<identity>        → access token string, TTL = remaining
//     access-token lifetime at revocation time
//
// Both families are optionally namespaced under a configurable prefix. Every
// operation is an atomic single-key command; expiry is enforced by Redis
// itself and the store never sweeps.
//
// # Architecture boundaries
//
// This package owns Redis I/O and nothing else. It does NOT parse tokens,
// compare a presented refresh token against the stored one, or decide what a
// blacklist hit means — the service layer does.
//
// # What this package must NOT do
//
//   - Import tokengate or jwt (no upward imports).
//   - Collapse transport failures into not-found: [ErrRedisUnavailable] and
//     [ErrRefreshNotFound] are distinct so a Redis outage is never mistaken
//     for a logged-out session.
package session
