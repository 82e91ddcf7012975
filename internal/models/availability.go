package models

import "time"

// AvailabilityRule is a recurring weekly window during which an HR user holds
// interviews. DayOfWeek follows time.Weekday numbering (0 = Sunday). StartTime
// and EndTime are wall-clock "HH:MM" strings interpreted in the configured
// scheduling timezone.
//
// Rules for one user may overlap; overlapping windows are expanded
// independently and can emit the same slot more than once.
type AvailabilityRule struct {
	ID        string    `db:"id" json:"id,omitempty"`
	HRUserID  string    `db:"hr_user_id" json:"hr_user_id,omitempty"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at,omitempty"`
}
