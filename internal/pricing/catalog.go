// Package pricing stores and resolves time-bucketed court prices.
package pricing

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/notify"
)

// RuleInput is an admin request to price one slot start.
type RuleInput struct {
	CourtType string               `json:"courtType"`
	Bucket    models.WeekdayBucket `json:"weekdayBucket"`
	Start     models.TimeOfDay     `json:"hour"`
	Amount    int64                `json:"amount"`
}

func (in RuleInput) normalized() RuleInput {
	in.CourtType = strings.TrimSpace(in.CourtType)
	return in
}

func (in RuleInput) Validate() error {
	if in.CourtType == "" {
		return apperr.Validation("courtType is required")
	}
	if !in.Bucket.Valid() {
		return apperr.Validation("weekdayBucket must be one of weekdays, saturday, sunday")
	}
	if in.Start < 0 || in.Start >= models.NewTimeOfDay(24, 0) || int(in.Start)%15 != 0 {
		return apperr.Validation("hour must be a 15-minute aligned time before 24:00")
	}
	if in.Amount < 0 {
		return apperr.Validation("amount must not be negative")
	}
	return nil
}

// RuleChange is the outcome of an upsert.
type RuleChange struct {
	Previous *models.PriceRule `json:"previous,omitempty"`
	Current  models.PriceRule  `json:"current"`
	Changes  []string          `json:"changes"`
}

type Catalog struct {
	db       *db.DB
	notifier *notify.Notifier
	timeout  time.Duration
	now      func() time.Time
}

func NewCatalog(database *db.DB, notifier *notify.Notifier, timeout time.Duration) *Catalog {
	return &Catalog{
		db:       database,
		notifier: notifier,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Resolve returns the active price for a slot. It never substitutes a default.
func (c *Catalog) Resolve(ctx context.Context, courtType string, date time.Time, start models.TimeOfDay) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return ResolveIn(ctx, c.db.Queries, courtType, date, start)
}

// Quote sums the per-slot prices of [start, end) in steps of granularity.
func (c *Catalog) Quote(ctx context.Context, courtType string, date time.Time, start, end models.TimeOfDay, granularity int) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return QuoteIn(ctx, c.db.Queries, courtType, date, start, end, granularity)
}

// ResolveIn resolves a price using q, so callers can price inside their own
// transaction.
func ResolveIn(ctx context.Context, q dbgen.Querier, courtType string, date time.Time, start models.TimeOfDay) (int64, error) {
	bucket := models.BucketFor(date)
	rule, err := q.GetActivePriceRule(ctx, dbgen.GetActivePriceRuleParams{
		CourtType:     courtType,
		WeekdayBucket: string(bucket),
		StartMinute:   int64(start),
	})
	if err != nil {
		if db.IsNoRows(err) {
			return 0, fmt.Errorf("%w: %s %s %s", apperr.ErrPriceNotConfigured, courtType, bucket, start)
		}
		return 0, apperr.Internal("resolve price", err)
	}
	return rule.Amount, nil
}

func QuoteIn(ctx context.Context, q dbgen.Querier, courtType string, date time.Time, start, end models.TimeOfDay, granularity int) (int64, error) {
	if granularity <= 0 {
		return 0, apperr.Validation("slot granularity must be positive")
	}
	if end <= start {
		return 0, apperr.Validation("end must be after start")
	}
	var total int64
	for slot := start; slot < end; slot = slot.Add(granularity) {
		amount, err := ResolveIn(ctx, q, courtType, date, slot)
		if err != nil {
			return 0, err
		}
		total += amount
	}
	return total, nil
}

// ListActive returns the active rules, optionally filtered to one court type.
func (c *Catalog) ListActive(ctx context.Context, courtType string) ([]models.PriceRule, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		rows []dbgen.PriceRule
		err  error
	)
	if courtType = strings.TrimSpace(courtType); courtType == "" {
		rows, err = c.db.Queries.ListActivePriceRules(ctx)
	} else {
		rows, err = c.db.Queries.ListActivePriceRulesByType(ctx, courtType)
	}
	if err != nil {
		return nil, apperr.Internal("list price rules", err)
	}
	return rulesFromDB(rows), nil
}

// UpsertRule activates a price for its key, deactivating any rule it
// supersedes in the same transaction.
func (c *Catalog) UpsertRule(ctx context.Context, admin string, input RuleInput) (RuleChange, error) {
	input = input.normalized()
	if err := input.Validate(); err != nil {
		return RuleChange{}, err
	}
	admin = strings.TrimSpace(admin)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var change RuleChange
	err := c.db.RunInTx(ctx, func(tx *db.DB) error {
		existing, err := tx.Queries.GetActivePriceRule(ctx, dbgen.GetActivePriceRuleParams{
			CourtType:     input.CourtType,
			WeekdayBucket: string(input.Bucket),
			StartMinute:   int64(input.Start),
		})
		switch {
		case err == nil:
			previous := models.PriceRuleFromDB(existing)
			change.Previous = &previous
			if existing.Amount == input.Amount {
				change.Current = previous
				return nil
			}
			if err := deactivate(ctx, tx.Queries, existing.ID, c.now()); err != nil {
				return err
			}
		case !db.IsNoRows(err):
			return apperr.Internal("load price rule", err)
		}

		created, err := tx.Queries.CreatePriceRule(ctx, dbgen.CreatePriceRuleParams{
			CourtType:     input.CourtType,
			WeekdayBucket: string(input.Bucket),
			StartMinute:   int64(input.Start),
			Amount:        input.Amount,
			CreatedBy:     admin,
		})
		if err != nil {
			return apperr.Internal("create price rule", err)
		}
		change.Current = models.PriceRuleFromDB(created)
		return nil
	})
	if err != nil {
		return RuleChange{}, apperr.Internal("upsert price rule", err)
	}

	var before []models.PriceRule
	if change.Previous != nil {
		before = append(before, *change.Previous)
	}
	change.Changes = Diff(before, []models.PriceRule{change.Current})
	c.emit(ctx, admin, input.CourtType, change.Changes)
	return change, nil
}

// DeactivateRule retires an active rule without replacement.
func (c *Catalog) DeactivateRule(ctx context.Context, admin string, id int64) (models.PriceRule, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var retired models.PriceRule
	err := c.db.RunInTx(ctx, func(tx *db.DB) error {
		row, err := tx.Queries.GetPriceRule(ctx, id)
		if err != nil {
			if db.IsNoRows(err) {
				return apperr.NotFound("price rule", id)
			}
			return apperr.Internal("load price rule", err)
		}
		if !row.Active {
			return apperr.NotFound("active price rule", id)
		}
		if err := deactivate(ctx, tx.Queries, id, c.now()); err != nil {
			return err
		}
		retired = models.PriceRuleFromDB(row)
		return nil
	})
	if err != nil {
		return models.PriceRule{}, apperr.Internal("deactivate price rule", err)
	}

	c.emit(ctx, strings.TrimSpace(admin), retired.CourtType, Diff([]models.PriceRule{retired}, nil))
	retired.Active = false
	return retired, nil
}

// ReplaceRules makes rules the complete active set for courtType.
func (c *Catalog) ReplaceRules(ctx context.Context, admin, courtType string, inputs []RuleInput) ([]string, error) {
	courtType = strings.TrimSpace(courtType)
	if courtType == "" {
		return nil, apperr.Validation("courtType is required")
	}
	seen := make(map[slotKey]bool, len(inputs))
	desired := make([]models.PriceRule, 0, len(inputs))
	for i, input := range inputs {
		input = input.normalized()
		if input.CourtType == "" {
			input.CourtType = courtType
		}
		if input.CourtType != courtType {
			return nil, apperr.Validation("rule %d has courtType %q, want %q", i, input.CourtType, courtType)
		}
		if err := input.Validate(); err != nil {
			return nil, err
		}
		key := slotKey{bucket: input.Bucket, start: input.Start}
		if seen[key] {
			return nil, apperr.Validation("duplicate rule for %s %s", input.Bucket, input.Start)
		}
		seen[key] = true
		desired = append(desired, models.PriceRule{CourtType: courtType, Bucket: input.Bucket, Start: input.Start, Amount: input.Amount})
	}
	admin = strings.TrimSpace(admin)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var changes []string
	err := c.db.RunInTx(ctx, func(tx *db.DB) error {
		rows, err := tx.Queries.ListActivePriceRulesByType(ctx, courtType)
		if err != nil {
			return apperr.Internal("list price rules", err)
		}
		current := rulesFromDB(rows)
		changes = Diff(current, desired)
		if len(changes) == 0 {
			return nil
		}

		now := c.now()
		after := indexRules(desired)
		for _, rule := range current {
			if next, ok := after[slotKey{bucket: rule.Bucket, start: rule.Start}]; ok && next.Amount == rule.Amount {
				continue
			}
			if err := deactivate(ctx, tx.Queries, rule.ID, now); err != nil {
				return err
			}
		}

		before := indexRules(current)
		for _, rule := range desired {
			if prev, ok := before[slotKey{bucket: rule.Bucket, start: rule.Start}]; ok && prev.Amount == rule.Amount {
				continue
			}
			if _, err := tx.Queries.CreatePriceRule(ctx, dbgen.CreatePriceRuleParams{
				CourtType:     courtType,
				WeekdayBucket: string(rule.Bucket),
				StartMinute:   int64(rule.Start),
				Amount:        rule.Amount,
				CreatedBy:     admin,
			}); err != nil {
				return apperr.Internal("create price rule", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal("replace price rules", err)
	}

	c.emit(ctx, admin, courtType, changes)
	return changes, nil
}

func (c *Catalog) emit(ctx context.Context, admin, courtType string, changes []string) {
	if len(changes) == 0 {
		return
	}
	log.Ctx(ctx).Info().
		Str("admin", admin).
		Str("court_type", courtType).
		Int("changes", len(changes)).
		Msg("Price catalog updated")
	c.notifier.Notify(ctx, notify.PriceChanged{AdminName: admin, CourtType: courtType, Changes: changes})
}

func deactivate(ctx context.Context, q dbgen.Querier, id int64, at time.Time) error {
	if _, err := q.DeactivatePriceRule(ctx, dbgen.DeactivatePriceRuleParams{
		DeactivatedAt: sql.NullTime{Time: at.UTC(), Valid: true},
		ID:            id,
	}); err != nil {
		return apperr.Internal("deactivate price rule", err)
	}
	return nil
}

func rulesFromDB(rows []dbgen.PriceRule) []models.PriceRule {
	rules := make([]models.PriceRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, models.PriceRuleFromDB(row))
	}
	return rules
}
