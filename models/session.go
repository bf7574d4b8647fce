package models

import "time"

// Activity identifies the kind of experience a session offers.
type Activity string

const (
	ActivitySlime   Activity = "slime"
	ActivityTufting Activity = "tufting"
)

// Valid reports whether the activity is one of the known kinds.
func (a Activity) Valid() bool {
	return a == ActivitySlime || a == ActivityTufting
}

// Session represents one bookable instance of an activity at a branch on a date/time.
// Dates are branch-local "YYYY-MM-DD" strings and times are "HH:MM" (24h); no timezone
// conversion is ever applied to either.
type Session struct {
	ID             string    `bson:"id" json:"id"`
	BranchID       string    `bson:"branch_id" json:"branchId"`
	Date           string    `bson:"date" json:"date"`       // "YYYY-MM-DD"
	Time           string    `bson:"time" json:"time"`       // "HH:MM"
	Activity       Activity  `bson:"activity" json:"activity"` // slime | tufting
	Label          string    `bson:"label,omitempty" json:"label,omitempty"`
	Type           string    `bson:"type,omitempty" json:"type,omitempty"` // e.g. "Slime Play & Demo"
	AgeGroup       string    `bson:"age_group,omitempty" json:"ageGroup,omitempty"`
	TotalSeats     int       `bson:"total_seats" json:"totalSeats"`
	BookedSeats    int       `bson:"booked_seats" json:"bookedSeats"`
	AvailableSeats int       `bson:"available_seats" json:"availableSeats"`  // always total - booked
	Price          float64   `bson:"price,omitempty" json:"price,omitempty"` // informational; price is fixed at booking time
	IsActive       bool      `bson:"is_active" json:"isActive"`
	CreatedBy      string    `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

// SessionSummary is the availability-query projection of a Session.
type SessionSummary struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	Label          string   `json:"label,omitempty"`
	Type           string   `json:"type,omitempty"`
	AgeGroup       string   `json:"ageGroup,omitempty"`
	Activity       Activity `json:"activity"`
	AvailableSeats int      `json:"availableSeats"`
	TotalSeats     int      `json:"totalSeats"`
	IsActive       bool     `json:"isActive"`
}

// Summary projects the session into its availability view.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:             s.ID,
		Date:           s.Date,
		Time:           s.Time,
		Label:          s.Label,
		Type:           s.Type,
		AgeGroup:       s.AgeGroup,
		Activity:       s.Activity,
		AvailableSeats: s.AvailableSeats,
		TotalSeats:     s.TotalSeats,
		IsActive:       s.IsActive,
	}
}

// SessionTemplate describes one time slot to materialize when generating
// sessions for a date.
type SessionTemplate struct {
	Time       string  `json:"time"`
	Label      string  `json:"label,omitempty"`
	Type       string  `json:"type,omitempty"`
	AgeGroup   string  `json:"ageGroup,omitempty"`
	TotalSeats int     `json:"totalSeats"`
	Price      float64 `json:"price,omitempty"`
}

// SessionSpec is a full session definition used by the bulk replace operation.
type SessionSpec struct {
	Time       string   `json:"time"`
	Activity   Activity `json:"activity"`
	Label      string   `json:"label,omitempty"`
	Type       string   `json:"type,omitempty"`
	AgeGroup   string   `json:"ageGroup,omitempty"`
	TotalSeats int      `json:"totalSeats"`
	Price      float64  `json:"price,omitempty"`
}

// SessionMetadataUpdate carries partial display-field edits for a session.
// Nil fields are left untouched. Capacity is deliberately absent; it changes
// only through the seat-accounting path.
type SessionMetadataUpdate struct {
	Label    *string  `json:"label,omitempty"`
	Type     *string  `json:"type,omitempty"`
	AgeGroup *string  `json:"ageGroup,omitempty"`
	Time     *string  `json:"time,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	IsActive *bool    `json:"isActive,omitempty"`
}

// SeatCounts is returned by seat mutations so callers see the committed state.
type SeatCounts struct {
	TotalSeats     int `json:"totalSeats"`
	BookedSeats    int `json:"bookedSeats"`
	AvailableSeats int `json:"availableSeats"`
}
