// Package constraint derives the dependent field states of a request draft:
// the currency lock that follows the selected country, and the end-date
// window that follows the start date. Everything here is recomputed from the
// draft on demand; Apply is the single place that writes derived values back.
package constraint

import (
	"time"

	"github.com/noema/dashboard/internal/domain"
)

// Policy holds the tunable bounds of the derived rules
type Policy struct {
	LeadDays     int    // earliest start is today + LeadDays
	MinTermYears int    // end date lower bound, in years after the start
	MaxTermYears int    // end date upper bound, in years after the start
	LockCurrency string // currency forced for OPEC member countries
}

// DefaultPolicy returns the standard financing request policy
func DefaultPolicy() Policy {
	return Policy{
		LeadDays:     15,
		MinTermYears: 1,
		MaxTermYears: 3,
		LockCurrency: "USD",
	}
}

// Lock describes whether the currency input is editable
type Lock struct {
	Locked bool
	Code   string // forced code when Locked
}

// CurrencyLock forces the lock code when the country is an OPEC member
func CurrencyLock(country *domain.Country, lockCode string) Lock {
	if country != nil && country.IsOPEC {
		return Lock{Locked: true, Code: domain.NormalizeCurrencyCode(lockCode)}
	}
	return Lock{}
}

// Window is an inclusive range of calendar days
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the calendar day of t falls inside the window
func (w Window) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	day := domain.Day(t.In(w.From.Location()))
	return !day.Before(w.From) && !day.After(w.To)
}

// Clamp moves t onto the nearest day inside the window
func (w Window) Clamp(t time.Time) time.Time {
	day := domain.Day(t.In(w.From.Location()))
	switch {
	case day.Before(w.From):
		return w.From
	case day.After(w.To):
		return w.To
	default:
		return day
	}
}

// EarliestStart returns the first selectable start day
func EarliestStart(now time.Time, leadDays int) time.Time {
	return domain.Day(now).AddDate(0, 0, leadDays)
}

// StartSelectable reports whether day may be picked as a start date
func StartSelectable(day, now time.Time, p Policy) bool {
	if day.IsZero() {
		return false
	}
	return !domain.Day(day.In(now.Location())).Before(EarliestStart(now, p.LeadDays))
}

// EndWindow returns the valid end-date range for the given start. An unset
// start falls back to the earliest selectable start as its basis.
func EndWindow(start, now time.Time, p Policy) Window {
	basis := domain.Day(start)
	if start.IsZero() {
		basis = EarliestStart(now, p.LeadDays)
	}
	return Window{
		From: basis.AddDate(p.MinTermYears, 0, 0),
		To:   basis.AddDate(p.MaxTermYears, 0, 0),
	}
}

// EndSelectable reports whether day may be picked as an end date
func EndSelectable(day, start, now time.Time, p Policy) bool {
	return EndWindow(start, now, p).Contains(day)
}

// State is the full set of derived values for a draft
type State struct {
	Currency   Lock
	StartFloor time.Time
	EndWindow  Window
}

// Derive computes every derived value from the canonical draft
func Derive(d *domain.Draft, now time.Time, p Policy) State {
	return State{
		Currency:   CurrencyLock(d.Country, p.LockCurrency),
		StartFloor: EarliestStart(now, p.LeadDays),
		EndWindow:  EndWindow(d.StartDate, now, p),
	}
}

// Apply writes the locked currency into the draft. Unlocked drafts keep
// whatever currency the user chose.
func Apply(d *domain.Draft, s State) {
	if s.Currency.Locked {
		d.Currency = s.Currency.Code
	}
}

// SetCountry changes the country and re-applies the currency rule
func SetCountry(d *domain.Draft, country *domain.Country, p Policy) Lock {
	d.Country = country
	lock := CurrencyLock(country, p.LockCurrency)
	if lock.Locked {
		d.Currency = lock.Code
	}
	return lock
}

// SetCurrency changes the currency unless it is locked by the country
func SetCurrency(d *domain.Draft, code string, p Policy) bool {
	if CurrencyLock(d.Country, p.LockCurrency).Locked {
		return false
	}
	d.Currency = domain.NormalizeCurrencyCode(code)
	return true
}
