// internal/models/pricing.go
package models

import (
	"time"

	dbgen "github.com/codr1/courtside/internal/db/generated"
)

// PriceRule prices the slot starting at Start for one court type and bucket.
type PriceRule struct {
	ID            int64         `json:"id"`
	CourtType     string        `json:"courtType"`
	Bucket        WeekdayBucket `json:"weekdayBucket"`
	Start         TimeOfDay     `json:"hour"`
	Amount        int64         `json:"amount"`
	Active        bool          `json:"active"`
	CreatedBy     string        `json:"createdBy,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	DeactivatedAt *time.Time    `json:"deactivatedAt,omitempty"`
}

// PriceKey identifies the single active rule a slot may resolve to.
type PriceKey struct {
	CourtType string
	Bucket    WeekdayBucket
	Start     TimeOfDay
}

func (r PriceRule) Key() PriceKey {
	return PriceKey{CourtType: r.CourtType, Bucket: r.Bucket, Start: r.Start}
}

func PriceRuleFromDB(row dbgen.PriceRule) PriceRule {
	rule := PriceRule{
		ID:        row.ID,
		CourtType: row.CourtType,
		Bucket:    WeekdayBucket(row.WeekdayBucket),
		Start:     TimeOfDay(row.StartMinute),
		Amount:    row.Amount,
		Active:    row.Active,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt.UTC(),
	}
	if row.DeactivatedAt.Valid {
		deactivated := row.DeactivatedAt.Time.UTC()
		rule.DeactivatedAt = &deactivated
	}
	return rule
}
