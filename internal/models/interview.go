package models

import "time"

// Interview is a committed booking of an applicant into a slot. ScheduledAt is
// a UTC instant; collision detection between interviews happens at minute
// resolution.
type Interview struct {
	ID           string    `db:"id" json:"id"`
	ApplicantID  string    `db:"applicant_id" json:"applicant_id"`
	HRUserID     string    `db:"hr_user_id" json:"hr_user_id"`
	ScheduledAt  time.Time `db:"scheduled_at" json:"scheduled_at"`
	ReminderSent bool      `db:"reminder_sent" json:"reminder_sent"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// InterviewDetail joins the booking with applicant contact info for listings
// and reminder digests.
type InterviewDetail struct {
	Interview
	ApplicantName  string `db:"applicant_name" json:"applicant_name"`
	ApplicantEmail string `db:"applicant_email" json:"applicant_email"`
}

// CandidateSlot is an ephemeral, unbooked, conflict-free slot produced by the
// expander. It is never persisted.
type CandidateSlot struct {
	HRUserID    string    `json:"hr_user_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}
