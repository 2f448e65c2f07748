package domain

import "time"

type ID int64

// User is the identity record. PasswordHash is the one-way digest; the
// plaintext is never stored, logged, or echoed back.
type User struct {
	ID           ID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Summary is the public projection of a User: no digest.
type Summary struct {
	ID       ID     `json:"user_id"`
	Username string `json:"username"`
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, Username: u.Username}
}
