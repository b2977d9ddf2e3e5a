// Package httpapi provides the HTTP surface over the token service: login,
// refresh redemption, logout, and a principal echo route, plus the request
// logging and per-IP rate limiting the auth endpoints are served with.
//
// Status mapping is deliberately coarse: credential and session failures all
// answer 401 with the same "invalid or expired session" body so the API
// leaks nothing about which check failed, while a session-store outage
// answers 503 so clients know to retry rather than re-authenticate.
//
// Credential checking itself (account lookup, password verification) is the
// caller's business, supplied through [CredentialVerifier].
package httpapi
