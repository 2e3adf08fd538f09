// Package apperr defines the error taxonomy shared by the booking core and
// its HTTP surface.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrPriceNotConfigured = fmt.Errorf("price not configured: %w", ErrNotFound)
	ErrSlotConflict       = errors.New("slot conflict")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrUpstream           = errors.New("upstream error")
	ErrInternal           = errors.New("internal error")
)

// Validation returns an ErrValidation carrying a user-facing message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns an ErrNotFound naming the missing entity.
func NotFound(entity string, key any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, entity, key)
}

// Conflict returns an ErrSlotConflict with a reason.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSlotConflict, fmt.Sprintf(format, args...))
}

// Transition returns an ErrInvalidTransition describing the rejected move.
func Transition(from, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Internal wraps a store or driver failure. Errors already classified by this
// package pass through unchanged so callers can wrap liberally.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsClassified(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: timed out: %w", ErrInternal, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}

// IsClassified reports whether err already belongs to the taxonomy.
func IsClassified(err error) bool {
	for _, target := range []error{ErrValidation, ErrNotFound, ErrSlotConflict, ErrInvalidTransition, ErrUpstream, ErrInternal} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
