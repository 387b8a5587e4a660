// Package jwt wraps golang-jwt with the narrow token surface the engine
// needs: signed access tokens carrying a subject id and an expiry, verified
// without any store lookup.
//
// The signing secret (or Ed25519 key pair) is passed in at construction and
// never read from ambient state. Expired and malformed tokens fail with
// distinct sentinels so callers can report them separately.
package jwt
