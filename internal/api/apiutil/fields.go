package apiutil

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/codr1/courtside/internal/models"
)

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, FieldError{Field: field, Reason: "is required"}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, FieldError{Field: field, Reason: "must be greater than 0"}
	}
	return value, nil
}

// PathID parses a positive id from a route wildcard.
func PathID(r *http.Request, name string) (int64, error) {
	return ParsePositiveInt64Field(r.PathValue(name), name)
}

func ParseDateField(raw string, field string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, FieldError{Field: field, Reason: "is required"}
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		return time.Time{}, FieldError{Field: field, Reason: "must be formatted as YYYY-MM-DD"}
	}
	return date, nil
}

// RequireText trims a required text field.
func RequireText(raw string, field string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", FieldError{Field: field, Reason: "is required"}
	}
	return value, nil
}
