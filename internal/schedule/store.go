// Package schedule computes court availability and manages schedule blocks.
package schedule

import (
	"context"
	"database/sql"
	"iter"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/notify"
)

const (
	MaxRangeDays = 31
	// CellMinutes is the lock granularity of reservation_slots.
	CellMinutes = 15
)

// Hours describes the bookable part of each day.
type Hours struct {
	Opens       models.TimeOfDay
	Closes      models.TimeOfDay
	Granularity int
}

// DefaultHours is 08:00 to 23:00 in one-hour slots.
func DefaultHours() Hours {
	return Hours{
		Opens:       models.NewTimeOfDay(8, 0),
		Closes:      models.NewTimeOfDay(23, 0),
		Granularity: 60,
	}
}

// Aligned reports whether [start, end) is a whole number of slots on the grid.
func (h Hours) Aligned(start, end models.TimeOfDay) bool {
	if start < h.Opens || end > h.Closes || end <= start {
		return false
	}
	return int(start-h.Opens)%h.Granularity == 0 && int(end-start)%h.Granularity == 0
}

// Availability is a finite slot listing. All may be ranged any number of times.
type Availability struct {
	CourtID int64
	From    time.Time
	To      time.Time
	Slots   []models.Slot
}

func (a Availability) All() iter.Seq[models.Slot] {
	return func(yield func(models.Slot) bool) {
		for _, slot := range a.Slots {
			if !yield(slot) {
				return
			}
		}
	}
}

type Store struct {
	db       *db.DB
	notifier *notify.Notifier
	hours    Hours
	timeout  time.Duration
	now      func() time.Time
}

func NewStore(database *db.DB, notifier *notify.Notifier, hours Hours, timeout time.Duration) *Store {
	return &Store{
		db:       database,
		notifier: notifier,
		hours:    hours,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *Store) Hours() Hours {
	return s.hours
}

// ListSlots reports every slot of the court between from and to inclusive.
// Blocks take precedence over bookings. Amounts are attached when a price is
// configured and omitted otherwise.
func (s *Store) ListSlots(ctx context.Context, courtID int64, from, to time.Time) (Availability, error) {
	if to.Before(from) {
		return Availability{}, apperr.Validation("to must not be before from")
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days > MaxRangeDays {
		return Availability{}, apperr.Validation("range covers %d days, maximum is %d", days, MaxRangeDays)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	courtRow, err := s.db.Queries.GetCourt(ctx, courtID)
	if err != nil {
		if db.IsNoRows(err) {
			return Availability{}, apperr.NotFound("court", courtID)
		}
		return Availability{}, apperr.Internal("load court", err)
	}
	court := models.CourtFromDB(courtRow)

	blockRows, err := s.db.Queries.ListActiveScheduleBlocks(ctx)
	if err != nil {
		return Availability{}, apperr.Internal("list schedule blocks", err)
	}
	blocks := make([]models.ScheduleBlock, 0, len(blockRows))
	for _, row := range blockRows {
		blocks = append(blocks, models.ScheduleBlockFromDB(row))
	}

	claimed, err := s.db.Queries.ListClaimedSlots(ctx, dbgen.ListClaimedSlotsParams{
		CourtID:  courtID,
		FromDate: models.FormatDate(from),
		ToDate:   models.FormatDate(to),
	})
	if err != nil {
		return Availability{}, apperr.Internal("list claimed slots", err)
	}
	booked := make(map[string]map[models.TimeOfDay]bool)
	for _, cell := range claimed {
		if booked[cell.SlotDate] == nil {
			booked[cell.SlotDate] = make(map[models.TimeOfDay]bool)
		}
		booked[cell.SlotDate][models.TimeOfDay(cell.SlotMinute)] = true
	}

	ruleRows, err := s.db.Queries.ListActivePriceRulesByType(ctx, court.Type)
	if err != nil {
		return Availability{}, apperr.Internal("list price rules", err)
	}
	prices := make(map[models.PriceKey]int64, len(ruleRows))
	for _, row := range ruleRows {
		rule := models.PriceRuleFromDB(row)
		prices[rule.Key()] = rule.Amount
	}

	availability := Availability{CourtID: courtID, From: from, To: to}
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		var dayBlocks []models.ScheduleBlock
		for _, block := range blocks {
			if block.AppliesTo(court, date) {
				dayBlocks = append(dayBlocks, block)
			}
		}
		dayBooked := booked[models.FormatDate(date)]
		bucket := models.BucketFor(date)

		for start := s.hours.Opens; start.Add(s.hours.Granularity) <= s.hours.Closes; start = start.Add(s.hours.Granularity) {
			end := start.Add(s.hours.Granularity)
			slot := models.Slot{CourtID: courtID, Date: date, Start: start, End: end, Status: models.SlotAvailable}
			switch {
			case coveredByAny(dayBlocks, start, end):
				slot.Status = models.SlotBlocked
			case anyCellClaimed(dayBooked, start, end):
				slot.Status = models.SlotBooked
			}
			if amount, ok := prices[models.PriceKey{CourtType: court.Type, Bucket: bucket, Start: start}]; ok {
				amount := amount
				slot.Amount = &amount
			}
			availability.Slots = append(availability.Slots, slot)
		}
	}

	return availability, nil
}

func coveredByAny(blocks []models.ScheduleBlock, start, end models.TimeOfDay) bool {
	for _, block := range blocks {
		if block.Covers(start, end) {
			return true
		}
	}
	return false
}

func anyCellClaimed(claimed map[models.TimeOfDay]bool, start, end models.TimeOfDay) bool {
	if len(claimed) == 0 {
		return false
	}
	for cell := start; cell < end; cell = cell.Add(CellMinutes) {
		if claimed[cell] {
			return true
		}
	}
	return false
}

// Cells lists the lock cells covering [start, end).
func Cells(start, end models.TimeOfDay) []models.TimeOfDay {
	cells := make([]models.TimeOfDay, 0, int(end-start)/CellMinutes)
	for cell := start; cell < end; cell = cell.Add(CellMinutes) {
		cells = append(cells, cell)
	}
	return cells
}

// BlockingReason returns the first active block covering the range on the
// court, or "" when none applies. It reads through q so a claim can check
// inside its own transaction.
func BlockingReason(ctx context.Context, q dbgen.Querier, court models.Court, date time.Time, start, end models.TimeOfDay) (string, bool, error) {
	rows, err := q.ListBlocksForCourtDate(ctx, dbgen.ListBlocksForCourtDateParams{
		CourtID:       sql.NullInt64{Int64: court.ID, Valid: true},
		CourtType:     sql.NullString{String: court.Type, Valid: true},
		BlockDate:     sql.NullString{String: models.FormatDate(date), Valid: true},
		WeekdayBucket: sql.NullString{String: string(models.BucketFor(date)), Valid: true},
	})
	if err != nil {
		return "", false, apperr.Internal("list blocks", err)
	}
	for _, row := range rows {
		block := models.ScheduleBlockFromDB(row)
		if block.AppliesTo(court, date) && block.Covers(start, end) {
			reason := strings.TrimSpace(block.Reason)
			if reason == "" {
				reason = "blocked"
			}
			return reason, true, nil
		}
	}
	return "", false, nil
}

// IsBlocked reports whether any active block covers the range.
func (s *Store) IsBlocked(ctx context.Context, court models.Court, date time.Time, start, end models.TimeOfDay) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, blocked, err := BlockingReason(ctx, s.db.Queries, court, date, start, end)
	return blocked, err
}

func (s *Store) ListBlocks(ctx context.Context) ([]models.ScheduleBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.Queries.ListActiveScheduleBlocks(ctx)
	if err != nil {
		return nil, apperr.Internal("list schedule blocks", err)
	}
	blocks := make([]models.ScheduleBlock, 0, len(rows))
	for _, row := range rows {
		blocks = append(blocks, models.ScheduleBlockFromDB(row))
	}
	return blocks, nil
}

func (s *Store) emit(ctx context.Context, admin string, changes ...string) {
	log.Ctx(ctx).Info().Str("admin", admin).Strs("changes", changes).Msg("Schedule updated")
	s.notifier.Notify(ctx, notify.ScheduleChanged{AdminName: admin, Changes: changes})
}
