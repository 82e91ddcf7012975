package models

import "time"

// HRUser is a recruiter account. It is the tenancy boundary: every applicant,
// availability rule and interview belongs to exactly one HR user.
type HRUser struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	APIKey    string    `db:"api_key" json:"api_key,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	HRUserID string
	Name     string
	Email    string
}
