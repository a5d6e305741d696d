package domain

import "time"

// DateLayout is the calendar-day format accepted from users
const DateLayout = "2006-01-02"

// Draft is the in-progress financing request. It only lives in memory and is
// reset to its empty state after a successful submission.
type Draft struct {
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	StartDate          time.Time `json:"startDate"` // zero = unset
	EndDate            time.Time `json:"endDate"`   // zero = unset
	Country            *Country  `json:"country"`
	Currency           string    `json:"currency"`
	ProjectCode        string    `json:"projectCode"`
	ProjectDescription string    `json:"projectDescription"`
	Amount             float64   `json:"amount"`
}

// NewDraft returns an empty draft
func NewDraft() *Draft {
	return &Draft{}
}

// Reset clears every field back to the empty initial values
func (d *Draft) Reset() {
	*d = Draft{}
}

// IsEmpty reports whether the draft holds its initial values
func (d *Draft) IsEmpty() bool {
	return *d == Draft{}
}

// Clone returns a copy that shares nothing mutable with d
func (d *Draft) Clone() *Draft {
	c := *d
	if d.Country != nil {
		country := *d.Country
		c.Country = &country
	}
	return &c
}

// SetStartDate stores the calendar day of t
func (d *Draft) SetStartDate(t time.Time) {
	d.StartDate = Day(t)
}

// SetEndDate stores the calendar day of t
func (d *Draft) SetEndDate(t time.Time) {
	d.EndDate = Day(t)
}

// Day truncates t to midnight in its own location. The zero time stays zero.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseDay parses a YYYY-MM-DD string in the given location
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

// FormatDay renders a calendar day, or "" for the zero time
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
