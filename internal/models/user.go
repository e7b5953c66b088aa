package models

import "time"

// SystemUser is the single shared credential row (id is always 1).
type SystemUser struct {
	ID                 int       `json:"id"`
	PasswordHash       string    `json:"-"` // don't expose hash
	LastPasswordChange time.Time `json:"last_password_change"`
}
