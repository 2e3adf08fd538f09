package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codr1/courtside/internal/models"
)

type fakeSweeper struct {
	calls []time.Time
	n     int
	err   error
}

func (f *fakeSweeper) ExpireStale(_ context.Context, now time.Time) ([]models.Reservation, error) {
	f.calls = append(f.calls, now)
	return make([]models.Reservation, f.n), f.err
}

func TestAddJobValidation(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer svc.Stop()

	if _, err := svc.AddJob("", "* * * * *", func() {}); !errors.Is(err, ErrEmptyJobName) {
		t.Fatalf("empty name err = %v", err)
	}
	if _, err := svc.AddJob("job", " ", func() {}); !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("empty cron err = %v", err)
	}
	if _, err := svc.AddJob("job", "not a cron", func() {}); err == nil {
		t.Fatal("invalid cron accepted")
	}
	if _, err := svc.AddJob("job", "*/5 * * * *", func() {}); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
}

func TestNilServiceIsNotInitialized(t *testing.T) {
	var svc *Service
	if _, err := svc.AddJob("job", "* * * * *", func() {}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("AddJob err = %v", err)
	}
	if err := svc.Stop(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Stop err = %v", err)
	}
}

func TestRegisterExpiryJob(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer svc.Stop()

	if err := RegisterExpiryJob(svc, nil, "* * * * *", time.Second); err == nil {
		t.Fatal("nil sweeper accepted")
	}
	if err := RegisterExpiryJob(svc, &fakeSweeper{}, "* * * * *", time.Second); err != nil {
		t.Fatalf("RegisterExpiryJob: %v", err)
	}
	jobs := svc.scheduler.Jobs()
	if len(jobs) != 1 || jobs[0].Name() != ExpiryJobName {
		t.Fatalf("jobs = %v, want one %s job", jobs, ExpiryJobName)
	}
}

func TestRunExpirySweep(t *testing.T) {
	now := time.Date(2025, 7, 1, 18, 30, 0, 0, time.UTC)

	sweeper := &fakeSweeper{n: 2}
	if got := runExpirySweep(context.Background(), sweeper, now); got != 2 {
		t.Fatalf("expired = %d, want 2", got)
	}
	if len(sweeper.calls) != 1 || !sweeper.calls[0].Equal(now) {
		t.Fatalf("calls = %v", sweeper.calls)
	}

	failing := &fakeSweeper{err: errors.New("disk full")}
	if got := runExpirySweep(context.Background(), failing, now); got != 0 {
		t.Fatalf("expired = %d, want 0", got)
	}
}
