// Package password provides argon2id hashing and verification for stored
// credentials. Hashes use the PHC string format, and verification compares
// with constant-time semantics.
package password
