package payments

import (
	"database/sql"
	"strings"

	"github.com/codr1/courtside/internal/apperr"
)

// ProviderState is a payment status reported by the provider, normalized.
type ProviderState string

const (
	StateApproved  ProviderState = "approved"
	StateRejected  ProviderState = "rejected"
	StateCancelled ProviderState = "cancelled"
	StateRefunded  ProviderState = "refunded"
	StatePending   ProviderState = "pending"
	StateUnknown   ProviderState = "unknown"
)

var stateAliases = map[string]ProviderState{
	"approved":   StateApproved,
	"paid":       StateApproved,
	"authorized": StateApproved,
	"success":    StateApproved,
	"rejected":   StateRejected,
	"failed":     StateRejected,
	"declined":   StateRejected,
	"cancelled":  StateCancelled,
	"canceled":   StateCancelled,
	"voided":     StateCancelled,
	"refunded":   StateRefunded,
	"pending":    StatePending,
	"in_process": StatePending,
	"created":    StatePending,
	"unknown":    StateUnknown,
}

// NormalizeState maps a provider status onto the known vocabulary.
func NormalizeState(raw string) (ProviderState, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", apperr.Validation("payment state is required")
	}
	state, ok := stateAliases[key]
	if !ok {
		return "", apperr.Validation("unrecognized payment state %q", raw)
	}
	return state, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
