package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is a registered user of the planner. The secret is never stored
// in plaintext: SecretHash is the salted argon2id digest of the password.
type Account struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	SecretHash []byte    `json:"-"`
	SecretSalt []byte    `json:"-"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// Artifact is a generated project plan, immutable once stored.
type Artifact struct {
	ID         int64     `json:"id"`
	OwnerEmail string    `json:"owner_email"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	AccountID int64     `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
