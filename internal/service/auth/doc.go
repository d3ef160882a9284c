// Package auth is the credential service: bcrypt password hashing and
// HMAC-signed session tokens.
package auth
