// Package middleware exposes the HTTP adapters that turn a bearer token into
// a request-scoped principal.
//
// # Gates
//
//   - [Identify] — extracts the Authorization bearer token, validates it
//     through the Service, and on success stores the principal in the request
//     context. On ANY failure (missing header, malformed token, bad
//     signature, expiry, wrong kind, blacklist hit, store outage) the request
//     simply proceeds unauthenticated: the gate populates identity, it never
//     rejects, and it never reveals which check failed.
//   - [RequirePrincipal] — the downstream decision: 401 when Identify did not
//     establish a principal. Protected routes chain Identify then
//     RequirePrincipal.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Service calls. It does NOT
// implement token logic itself and holds no state between requests.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Service.ValidateAccess).
//   - Access Redis (the Service handles I/O).
//   - Surface validation failure causes to the client.
package middleware
