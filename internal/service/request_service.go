package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noema/dashboard/internal/api"
	"github.com/noema/dashboard/internal/constraint"
	"github.com/noema/dashboard/internal/domain"
	"github.com/noema/dashboard/internal/validator"
	"go.uber.org/zap"
)

var ErrValidation = errors.New("request has invalid fields")

// ValidationError carries the per-field result that blocked a submission
type ValidationError struct {
	Result validator.Result
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, fe := range e.Result.Errors() {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Outcome is the result of a submission attempt that reached the network
type Outcome struct {
	Notification domain.Notification
	Receipt      *api.Receipt // nil on failure
}

// Succeeded reports whether the remote API accepted the request
func (o Outcome) Succeeded() bool {
	return o.Notification.Kind == domain.NotificationSuccess
}

// RequestService owns the financing request rules and submission pipeline
type RequestService interface {
	// Policy returns the rule bounds in effect
	Policy() constraint.Policy

	// Derive computes the dependent field states of the draft
	Derive(d *domain.Draft) constraint.State

	// Validate checks every field of the draft
	Validate(d *domain.Draft) validator.Result

	// SetCountry selects a country and re-applies the currency lock
	SetCountry(d *domain.Draft, country *domain.Country) constraint.Lock

	// SetCurrency changes the currency unless the country locks it
	SetCurrency(d *domain.Draft, code string) bool

	// Submit validates, sends and, on success, resets the draft. A validation
	// failure returns a *ValidationError and never touches the network. A
	// network failure returns the failure outcome alongside the error and
	// leaves the draft unchanged.
	Submit(ctx context.Context, d *domain.Draft) (Outcome, error)
}

type requestService struct {
	policy    constraint.Policy
	validator *validator.Validator
	submitter api.Submitter
	now       func() time.Time
	logger    *zap.Logger
}

// NewRequestService creates the request service
func NewRequestService(
	policy constraint.Policy,
	v *validator.Validator,
	submitter api.Submitter,
	logger *zap.Logger,
) RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &requestService{
		policy:    policy,
		validator: v,
		submitter: submitter,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *requestService) Policy() constraint.Policy {
	return s.policy
}

func (s *requestService) Derive(d *domain.Draft) constraint.State {
	return constraint.Derive(d, s.now(), s.policy)
}

func (s *requestService) Validate(d *domain.Draft) validator.Result {
	return s.validator.Validate(d, s.now())
}

func (s *requestService) SetCountry(d *domain.Draft, country *domain.Country) constraint.Lock {
	return constraint.SetCountry(d, country, s.policy)
}

func (s *requestService) SetCurrency(d *domain.Draft, code string) bool {
	return constraint.SetCurrency(d, code, s.policy)
}

func (s *requestService) Submit(ctx context.Context, d *domain.Draft) (Outcome, error) {
	now := s.now()
	constraint.Apply(d, constraint.Derive(d, now, s.policy))

	result := s.validator.Validate(d, now)
	if !result.Valid() {
		s.logger.Info("financing request blocked by validation",
			zap.Strings("fields", result.InvalidFields()))
		return Outcome{}, &ValidationError{Result: result}
	}

	receipt, err := s.submitter.Submit(ctx, domain.NewPayload(d))
	if err != nil {
		s.logger.Warn("financing request submission failed", zap.Error(err))
		return Outcome{Notification: domain.NewFailureNotification()}, err
	}

	d.Reset()
	s.logger.Info("financing request submitted", zap.String("request_id", receipt.RequestID))
	return Outcome{Notification: domain.NewSuccessNotification(), Receipt: receipt}, nil
}
