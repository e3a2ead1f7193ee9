package model

import "time"

// Account is a registered user. Accounts are created once and never
// mutated or deleted.
type Account struct {
	Username     string // login name, unique (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}
