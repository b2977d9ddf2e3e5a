// Package jwt builds and verifies the compact HMAC-signed access and refresh
// tokens used by tokengate.
//
// # Architecture boundaries
//
// This package owns the [Codec] (claim construction, signing, strict decode)
// and the [Claims] schema. It is pure computation over the token string and
// the process-wide secret: no I/O, no Redis, no session policy. Whether a
// structurally valid token is still *current* (stored refresh slot, revocation
// list) is decided by the service layer, never here.
//
// # What this package must NOT do
//
//   - Import tokengate or session (no upward imports).
//   - Accept any signing algorithm other than HS256.
//   - Treat a missing or wrongly typed claim as a soft nil — schema violations
//     are decode failures.
package jwt
