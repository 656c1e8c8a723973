// Package models holds the persistent records and derived views shared by
// the store, the authenticator and the transports.
package models

import "time"

// User is a registered account. Name and Email are both unique and either
// one identifies the user at login.
//
// PasswordHash and PasswordSalt are only ever produced by a password.Hasher;
// PasswordScheme names the hasher that produced them.
type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   []byte
	PasswordSalt   []byte
	PasswordScheme string
	CreatedAt      time.Time
}
