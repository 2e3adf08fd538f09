package request

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/codr1/courtside/internal/apperr"
)

func TestReservationLookup(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    Lookup
		wantErr bool
	}{
		{name: "order id", target: "/reserva/info?orderId=abc-123", want: Lookup{OrderID: "abc-123"}},
		{name: "reservation id", target: "/reserva/info?id=42", want: Lookup{ReservationID: 42}},
		{name: "both keys", target: "/reserva/info?orderId=abc&id=42", wantErr: true},
		{name: "neither key", target: "/reserva/info", wantErr: true},
		{name: "empty order id", target: "/reserva/info?orderId=", wantErr: true},
		{name: "blank order id", target: "/reserva/info?orderId=%20%20", wantErr: true},
		{name: "non numeric id", target: "/reserva/info?id=abc", wantErr: true},
		{name: "zero id", target: "/reserva/info?id=0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReservationLookup(httptest.NewRequest("GET", tt.target, nil))
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrValidation) {
					t.Fatalf("err = %v, want validation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReservationLookup: %v", err)
			}
			if got != tt.want {
				t.Fatalf("lookup = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	if id, ok := ParseID(" 7 "); !ok || id != 7 {
		t.Fatalf("ParseID = %d, %v", id, ok)
	}
	for _, raw := range []string{"", "-1", "0", "x"} {
		if _, ok := ParseID(raw); ok {
			t.Fatalf("ParseID(%q) ok, want rejected", raw)
		}
	}
}
