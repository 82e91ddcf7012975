package models

import "time"

// Applicant statuses as driven by the review pipeline.
const (
	ApplicantStatusNew       = "new"
	ApplicantStatusReviewed  = "reviewed"
	ApplicantStatusAccepted  = "accepted"
	ApplicantStatusRejected  = "rejected"
	ApplicantStatusScheduled = "scheduled"
)

// Applicant is a candidate owned by an HR user.
type Applicant struct {
	ID        string    `db:"id" json:"id"`
	HRUserID  string    `db:"hr_user_id" json:"hr_user_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Position  string    `db:"position" json:"position"`
	Status    string    `db:"status" json:"status"`
	Score     *float64  `db:"score" json:"score,omitempty"`
	Verdict   *string   `db:"verdict" json:"verdict,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ApplicantFilter narrows down applicant listings.
type ApplicantFilter struct {
	Status   string
	Search   string
	Page     int
	PageSize int
}
