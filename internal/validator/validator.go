// Package validator checks a request draft field by field and produces the
// inline messages shown next to each input.
package validator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/noema/dashboard/internal/constraint"
	"github.com/noema/dashboard/internal/domain"
)

const (
	msgFirstName      = "First name must be at least 2 characters."
	msgLastName       = "Last name must be at least 2 characters."
	msgStartRequired  = "Start date is required."
	msgEndRequired    = "End date is required."
	msgCountry        = "Country is required."
	msgCurrency       = "Currency is required."
	msgUnknownCurr    = "Unknown currency."
	msgProjectCode    = "Must be in the format ABCD-1234."
	msgDescriptionMin = "Project description must be at least 10 characters."
	msgDescriptionMax = "Project description should not be more than 150 characters."
	msgAmount         = "Amount must be at least 1."
)

// ProjectCodePattern matches codes like ABCD-1234
var ProjectCodePattern = regexp.MustCompile(`^[A-Z]{4}-\d{4}$`)

// FieldResult is the outcome for a single field
type FieldResult struct {
	Valid   bool
	Message string
}

// Result maps every draft field to its outcome
type Result map[domain.Field]FieldResult

// Valid reports whether every field passed
func (r Result) Valid() bool {
	for _, fr := range r {
		if !fr.Valid {
			return false
		}
	}
	return true
}

// Message returns the error message of a field, or "" when it is valid
func (r Result) Message(f domain.Field) string {
	return r[f].Message
}

// FieldError pairs a field with its message
type FieldError struct {
	Field   domain.Field
	Message string
}

// Errors lists the invalid fields in form order
func (r Result) Errors() []FieldError {
	var out []FieldError
	for _, f := range domain.Fields {
		if fr, ok := r[f]; ok && !fr.Valid {
			out = append(out, FieldError{Field: f, Message: fr.Message})
		}
	}
	return out
}

// Err returns nil for a valid result, otherwise a validation.Errors keyed by
// field name
func (r Result) Err() error {
	errs := validation.Errors{}
	for f, fr := range r {
		if !fr.Valid {
			errs[string(f)] = errors.New(fr.Message)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// InvalidFields returns the names of the failing fields, for logging
func (r Result) InvalidFields() []string {
	var names []string
	for _, fe := range r.Errors() {
		names = append(names, string(fe.Field))
	}
	return names
}

// Validator applies the financing request rules
type Validator struct {
	policy     constraint.Policy
	currencies []interface{}
}

// New creates a validator. currencyCodes restricts the accepted currencies;
// an empty list accepts any non-empty code.
func New(policy constraint.Policy, currencyCodes []string) *Validator {
	codes := make([]interface{}, len(currencyCodes))
	for i, c := range currencyCodes {
		codes[i] = domain.NormalizeCurrencyCode(c)
	}
	return &Validator{policy: policy, currencies: codes}
}

// Validate checks every field of d independently. It never mutates d.
func (v *Validator) Validate(d *domain.Draft, now time.Time) Result {
	earliest := constraint.EarliestStart(now, v.policy.LeadDays)
	window := constraint.EndWindow(d.StartDate, now, v.policy)
	lock := constraint.CurrencyLock(d.Country, v.policy.LockCurrency)

	checks := map[domain.Field]error{
		domain.FieldFirstName: validation.Validate(d.FirstName,
			validation.Required.Error(msgFirstName),
			validation.RuneLength(2, 0).Error(msgFirstName),
		),
		domain.FieldLastName: validation.Validate(d.LastName,
			validation.Required.Error(msgLastName),
			validation.RuneLength(2, 0).Error(msgLastName),
		),
		domain.FieldStartDate: validation.Validate(dayIn(d.StartDate, now.Location()),
			validation.Required.Error(msgStartRequired),
			validation.Min(earliest).Error(fmt.Sprintf("Start date must be on or after %s.", domain.FormatDay(earliest))),
		),
		domain.FieldEndDate: validation.Validate(dayIn(d.EndDate, window.From.Location()),
			validation.Required.Error(msgEndRequired),
			validation.Min(window.From).Error(windowMessage(window)),
			validation.Max(window.To).Error(windowMessage(window)),
		),
		domain.FieldCountry: validation.Validate(d.Country,
			validation.Required.Error(msgCountry),
		),
		domain.FieldCurrency: validation.Validate(d.Currency, v.currencyRules(lock)...),
		domain.FieldProjectCode: validation.Validate(d.ProjectCode,
			validation.Required.Error(msgProjectCode),
			validation.RuneLength(9, 9).Error(msgProjectCode),
			validation.Match(ProjectCodePattern).Error(msgProjectCode),
		),
		domain.FieldProjectDescription: validation.Validate(d.ProjectDescription,
			validation.Required.Error(msgDescriptionMin),
			validation.RuneLength(10, 0).Error(msgDescriptionMin),
			validation.RuneLength(0, 150).Error(msgDescriptionMax),
		),
		domain.FieldAmount: validation.Validate(d.Amount,
			validation.Required.Error(msgAmount),
			validation.By(finite),
			validation.Min(1.0).Error(msgAmount),
		),
	}

	result := make(Result, len(checks))
	for f, err := range checks {
		if err != nil {
			result[f] = FieldResult{Message: err.Error()}
			continue
		}
		result[f] = FieldResult{Valid: true}
	}
	return result
}

func (v *Validator) currencyRules(lock constraint.Lock) []validation.Rule {
	rules := []validation.Rule{validation.Required.Error(msgCurrency)}
	if len(v.currencies) > 0 {
		rules = append(rules, validation.In(v.currencies...).Error(msgUnknownCurr))
	}
	if lock.Locked {
		rules = append(rules, validation.By(func(value interface{}) error {
			if code, _ := value.(string); code != lock.Code {
				return fmt.Errorf("Currency must be %s for OPEC countries.", lock.Code)
			}
			return nil
		}))
	}
	return rules
}

// finite rejects NaN and infinities, which cannot be encoded as JSON
func finite(value interface{}) error {
	if f, _ := value.(float64); math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New(msgAmount)
	}
	return nil
}

func windowMessage(w constraint.Window) string {
	return fmt.Sprintf("End date must be between %s and %s.", domain.FormatDay(w.From), domain.FormatDay(w.To))
}

func dayIn(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	return domain.Day(t.In(loc))
}
