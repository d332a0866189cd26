// Package models holds the persistent server-side records.
package models

import "time"

// User is the stored identity record. PasswordHash is a bcrypt hash and is
// the only form in which a credential is ever kept.
type User struct {
	ID            string
	UserName      string
	Email         string
	PasswordHash  string
	SecurityStamp string
	Roles         []string
	CreatedAt     time.Time
}
