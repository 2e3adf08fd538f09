// internal/models/schedule.go
package models

import (
	"fmt"
	"strings"
	"time"

	dbgen "github.com/codr1/courtside/internal/db/generated"
)

// ScheduleBlock removes a period from availability. It targets one court, one
// court type, or every court when both are empty, and applies either to a
// single date or to every date in a weekday bucket. A nil Start blocks the
// whole day.
type ScheduleBlock struct {
	ID        int64          `json:"id"`
	CourtID   *int64         `json:"courtId,omitempty"`
	CourtType string         `json:"courtType,omitempty"`
	Date      *time.Time     `json:"-"`
	Bucket    *WeekdayBucket `json:"weekdayBucket,omitempty"`
	Start     *TimeOfDay     `json:"hour,omitempty"`
	End       *TimeOfDay     `json:"until,omitempty"`
	Reason    string         `json:"reason"`
	Active    bool           `json:"active"`
	CreatedBy string         `json:"createdBy,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// BlockView is the block as exposed over HTTP.
type BlockView struct {
	ScheduleBlock
	Date string `json:"date,omitempty"`
}

func (b ScheduleBlock) View() BlockView {
	view := BlockView{ScheduleBlock: b}
	if b.Date != nil {
		view.Date = FormatDate(*b.Date)
	}
	return view
}

// AppliesTo reports whether the block targets the court on the date.
func (b ScheduleBlock) AppliesTo(court Court, date time.Time) bool {
	if b.CourtID != nil && *b.CourtID != court.ID {
		return false
	}
	if b.CourtType != "" && b.CourtType != court.Type {
		return false
	}
	if b.Date != nil {
		return b.Date.Equal(date)
	}
	if b.Bucket != nil {
		return *b.Bucket == BucketFor(date)
	}
	return false
}

// Covers reports whether the block overlaps [start, end) on a day it applies to.
func (b ScheduleBlock) Covers(start, end TimeOfDay) bool {
	if b.Start == nil || b.End == nil {
		return true
	}
	return start < *b.End && *b.Start < end
}

// Describe renders the block for change notifications.
func (b ScheduleBlock) Describe() string {
	var target string
	switch {
	case b.CourtID != nil:
		target = fmt.Sprintf("court %d", *b.CourtID)
	case b.CourtType != "":
		target = fmt.Sprintf("%s courts", b.CourtType)
	default:
		target = "all courts"
	}

	var when string
	switch {
	case b.Date != nil:
		when = FormatDate(*b.Date)
	case b.Bucket != nil:
		when = "every " + string(*b.Bucket)
	}

	period := "all day"
	if b.Start != nil && b.End != nil {
		period = fmt.Sprintf("%s-%s", b.Start, b.End)
	}

	parts := []string{target, when, period}
	if reason := strings.TrimSpace(b.Reason); reason != "" {
		parts = append(parts, "("+reason+")")
	}
	return strings.Join(parts, " ")
}

func ScheduleBlockFromDB(row dbgen.ScheduleBlock) ScheduleBlock {
	block := ScheduleBlock{
		ID:        row.ID,
		CourtType: row.CourtType.String,
		Reason:    row.Reason,
		Active:    row.Active,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt.UTC(),
	}
	if row.CourtID.Valid {
		id := row.CourtID.Int64
		block.CourtID = &id
	}
	if row.BlockDate.Valid {
		if date, err := ParseDate(row.BlockDate.String); err == nil {
			block.Date = &date
		}
	}
	if row.WeekdayBucket.Valid {
		bucket := WeekdayBucket(row.WeekdayBucket.String)
		block.Bucket = &bucket
	}
	if row.StartMinute.Valid && row.EndMinute.Valid {
		start := TimeOfDay(row.StartMinute.Int64)
		end := TimeOfDay(row.EndMinute.Int64)
		block.Start = &start
		block.End = &end
	}
	return block
}

// SlotStatus is the availability of one slot.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotBlocked   SlotStatus = "blocked"
)

// Slot is one bookable step on a court.
type Slot struct {
	CourtID int64      `json:"courtId"`
	Date    time.Time  `json:"-"`
	Start   TimeOfDay  `json:"hour"`
	End     TimeOfDay  `json:"until"`
	Status  SlotStatus `json:"status"`
	Amount  *int64     `json:"amount,omitempty"`
}

// SlotView is the slot as exposed over HTTP.
type SlotView struct {
	Slot
	Date string `json:"date"`
}

func (s Slot) View() SlotView {
	return SlotView{Slot: s, Date: FormatDate(s.Date)}
}
