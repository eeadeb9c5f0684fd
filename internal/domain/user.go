package domain

import "time"

// User is a registered account that can receive anonymous messages at its
// public profile link.
type User struct {
	ID           string
	Name         string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
