package domain

import "time"

// Payload is the JSON body sent to the request-submission API
type Payload struct {
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	Country            string    `json:"country"`
	Currency           string    `json:"currency"`
	ProjectCode        string    `json:"projectCode"`
	ProjectDescription string    `json:"projectDescription"`
	Amount             float64   `json:"amount"`
}

// NewPayload flattens the country record to its display name and copies every
// other field unchanged. Dates are sent as UTC midnight of the selected day.
func NewPayload(d *Draft) Payload {
	p := Payload{
		FirstName:          d.FirstName,
		LastName:           d.LastName,
		StartDate:          utcDay(d.StartDate),
		EndDate:            utcDay(d.EndDate),
		Currency:           d.Currency,
		ProjectCode:        d.ProjectCode,
		ProjectDescription: d.ProjectDescription,
		Amount:             d.Amount,
	}
	if d.Country != nil {
		p.Country = d.Country.Name
	}
	return p
}

func utcDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
