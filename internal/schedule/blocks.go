package schedule

import (
	"context"
	"database/sql"
	"strings"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
	"github.com/codr1/courtside/internal/models"
)

// BlockInput is an admin request to take time out of availability.
type BlockInput struct {
	CourtID   *int64               `json:"courtId,omitempty"`
	CourtType string               `json:"courtType,omitempty"`
	Date      string               `json:"date,omitempty"`
	Bucket    models.WeekdayBucket `json:"weekdayBucket,omitempty"`
	Start     *models.TimeOfDay    `json:"hour,omitempty"`
	End       *models.TimeOfDay    `json:"until,omitempty"`
	Reason    string               `json:"reason"`
}

func (in BlockInput) params(admin string) (dbgen.CreateScheduleBlockParams, error) {
	params := dbgen.CreateScheduleBlockParams{
		Reason:    strings.TrimSpace(in.Reason),
		CreatedBy: admin,
	}

	courtType := strings.TrimSpace(in.CourtType)
	if in.CourtID != nil && courtType != "" {
		return params, apperr.Validation("courtId and courtType are mutually exclusive")
	}
	if in.CourtID != nil {
		if *in.CourtID <= 0 {
			return params, apperr.Validation("courtId must be a positive integer")
		}
		params.CourtID = sql.NullInt64{Int64: *in.CourtID, Valid: true}
	}
	if courtType != "" {
		params.CourtType = sql.NullString{String: courtType, Valid: true}
	}

	date := strings.TrimSpace(in.Date)
	switch {
	case date != "" && in.Bucket != "":
		return params, apperr.Validation("date and weekdayBucket are mutually exclusive")
	case date != "":
		parsed, err := models.ParseDate(date)
		if err != nil {
			return params, apperr.Validation("%s", err.Error())
		}
		params.BlockDate = sql.NullString{String: models.FormatDate(parsed), Valid: true}
	case in.Bucket != "":
		if !in.Bucket.Valid() {
			return params, apperr.Validation("weekdayBucket must be one of weekdays, saturday, sunday")
		}
		params.WeekdayBucket = sql.NullString{String: string(in.Bucket), Valid: true}
	default:
		return params, apperr.Validation("date or weekdayBucket is required")
	}

	switch {
	case in.Start == nil && in.End != nil:
		return params, apperr.Validation("until requires hour")
	case in.Start != nil:
		start := *in.Start
		end := start.Add(60)
		if in.End != nil {
			end = *in.End
		}
		if !start.Valid() || !end.Valid() || end <= start {
			return params, apperr.Validation("block range %s-%s is invalid", start, end)
		}
		if int(start)%CellMinutes != 0 || int(end)%CellMinutes != 0 {
			return params, apperr.Validation("block range must align to %d minutes", CellMinutes)
		}
		params.StartMinute = sql.NullInt64{Int64: int64(start), Valid: true}
		params.EndMinute = sql.NullInt64{Int64: int64(end), Valid: true}
	}

	return params, nil
}

// SetBlock records a block and announces it.
func (s *Store) SetBlock(ctx context.Context, admin string, input BlockInput) (models.ScheduleBlock, error) {
	admin = strings.TrimSpace(admin)
	params, err := input.params(admin)
	if err != nil {
		return models.ScheduleBlock{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if params.CourtID.Valid {
		if _, err := s.db.Queries.GetCourt(ctx, params.CourtID.Int64); err != nil {
			if db.IsNoRows(err) {
				return models.ScheduleBlock{}, apperr.NotFound("court", params.CourtID.Int64)
			}
			return models.ScheduleBlock{}, apperr.Internal("load court", err)
		}
	}

	row, err := s.db.Queries.CreateScheduleBlock(ctx, params)
	if err != nil {
		return models.ScheduleBlock{}, apperr.Internal("create schedule block", err)
	}
	block := models.ScheduleBlockFromDB(row)

	s.emit(ctx, admin, "blocked "+block.Describe())
	return block, nil
}

// ClearBlock deactivates a block and announces it.
func (s *Store) ClearBlock(ctx context.Context, admin string, id int64) (models.ScheduleBlock, error) {
	admin = strings.TrimSpace(admin)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.db.Queries.GetScheduleBlock(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return models.ScheduleBlock{}, apperr.NotFound("schedule block", id)
		}
		return models.ScheduleBlock{}, apperr.Internal("load schedule block", err)
	}

	affected, err := s.db.Queries.ClearScheduleBlock(ctx, dbgen.ClearScheduleBlockParams{
		ClearedAt: sql.NullTime{Time: s.now().UTC(), Valid: true},
		ID:        id,
	})
	if err != nil {
		return models.ScheduleBlock{}, apperr.Internal("clear schedule block", err)
	}
	if affected == 0 {
		return models.ScheduleBlock{}, apperr.NotFound("active schedule block", id)
	}

	block := models.ScheduleBlockFromDB(row)
	block.Active = false
	s.emit(ctx, admin, "unblocked "+block.Describe())
	return block, nil
}
