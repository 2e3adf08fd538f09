package request

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/codr1/courtside/internal/apperr"
)

// ParseID parses a positive int64 id from a query or path value.
func ParseID(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// Lookup identifies a reservation either by payment order id or by its own id.
type Lookup struct {
	OrderID       string
	ReservationID int64
}

// ReservationLookup reads ?orderId= or ?id=. Exactly one must be present and
// non-empty.
func ReservationLookup(r *http.Request) (Lookup, error) {
	query := r.URL.Query()
	orderValues, hasOrder := query["orderId"]
	idValues, hasID := query["id"]

	switch {
	case hasOrder && hasID:
		return Lookup{}, apperr.Validation("use either orderId or id, not both")
	case hasOrder:
		orderID := strings.TrimSpace(first(orderValues))
		if orderID == "" {
			return Lookup{}, apperr.Validation("orderId must not be empty")
		}
		return Lookup{OrderID: orderID}, nil
	case hasID:
		id, ok := ParseID(first(idValues))
		if !ok {
			return Lookup{}, apperr.Validation("id must be a positive integer")
		}
		return Lookup{ReservationID: id}, nil
	}
	return Lookup{}, apperr.Validation("orderId or id is required")
}

// OrderID reads a required ?orderId= value.
func OrderID(r *http.Request) (string, error) {
	orderID := strings.TrimSpace(r.URL.Query().Get("orderId"))
	if orderID == "" {
		return "", apperr.Validation("orderId is required")
	}
	return orderID, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
