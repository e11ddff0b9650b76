package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/patchline/passforge/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidLimit  = errors.New("limit cannot be negative")
	ErrInvalidRecord = errors.New("invalid mutation record")
	ErrInvalidRate   = errors.New("invalid category rate")
	ErrInvalidEvent  = errors.New("invalid feedback event")
	ErrInvalidPref   = errors.New("invalid preference entry")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateLimit(limit int) error {
	if limit < 0 {
		return ErrInvalidLimit
	}
	return nil
}

// validateMutationRecord validates a record before persistence.
func validateMutationRecord(record *model.MutationRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// validateCategoryRate validates an aggregate before persistence.
func validateCategoryRate(rate *model.CategoryRate) error {
	if rate == nil {
		return fmt.Errorf("%w: rate", ErrNilParameter)
	}
	if rate.Key == "" {
		return fmt.Errorf("%w: missing key", ErrInvalidRate)
	}
	if rate.Rate < 0 || rate.Rate > 1 {
		return fmt.Errorf("%w: rate %v outside [0,1]", ErrInvalidRate, rate.Rate)
	}
	return nil
}

// validatePreference validates a preference entry before persistence.
func validatePreference(pref *model.PreferenceEntry) error {
	if pref == nil {
		return fmt.Errorf("%w: preference", ErrNilParameter)
	}
	if err := pref.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPref, err)
	}
	return nil
}

// validateFeedbackEvent validates an event before persistence.
func validateFeedbackEvent(event *model.FeedbackEvent) error {
	if event == nil {
		return fmt.Errorf("%w: event", ErrNilParameter)
	}
	if event.PatternType == "" {
		return fmt.Errorf("%w: missing pattern type", ErrInvalidEvent)
	}
	if event.Rating < 0 || event.Rating > 10 {
		return fmt.Errorf("%w: rating %d outside [0,10]", ErrInvalidEvent, event.Rating)
	}
	return nil
}
