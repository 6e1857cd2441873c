// Package authcore implements email/password authentication with JWT
// sessions, single-use recovery tokens, and role based authorization.
//
// The Service type is the entry point. It sequences the subpackages into
// the account flows:
//
//   - secret generates and digests the random recovery secrets
//   - password hashes and verifies passwords with argon2id
//   - jwt mints and validates the HS256 access/refresh token pair
//   - recovery manages single-use, time-bounded recovery tokens
//   - permission resolves role grants, dynamic first with a static fallback
//   - postgres and redisstore are the persistence adapters
//   - mail delivers the reset and verification links
//
// Construct a Service with New, handing it a Config and the Dependencies
// it orchestrates. See examples/http-minimal for a complete wiring.
package authcore
