// Package auth is the minimal session layer: user accounts with bcrypt
// password hashes and JWT issuance on login.
package auth

import (
	"time"

	id "presensi/pkg/domain"
)

// User is an account that can record attendance or administer the roster.
type User struct {
	ID           id.UserID
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// TokenResult is what a successful login returns.
type TokenResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	UserID      id.UserID
	Role        string
}
