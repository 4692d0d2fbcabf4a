package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
)

// Recalculator — точка входа, которую запускает планировщик.
type Recalculator interface {
	RecomputeAllMembershipTiers(ctx context.Context) error
}

// Scheduler раз в сутки в заданное локальное время запускает пересчёт.
// Состояние между запусками не хранится; неудачный запуск не повторяется.
type Scheduler struct {
	rec        Recalculator
	hour       int
	minute     int
	loc        *time.Location
	runOnStart bool
	log        *slog.Logger
	now        func() time.Time
	after      func(d time.Duration) <-chan time.Time
}

// NewScheduler создает планировщик с запуском в hour:minute по часовому поясу loc.
func NewScheduler(rec Recalculator, hour, minute int, loc *time.Location, runOnStart bool, log *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		rec:        rec,
		hour:       hour,
		minute:     minute,
		loc:        loc,
		runOnStart: runOnStart,
		log:        log,
		now:        time.Now,
		after:      time.After,
	}
}

// NextRun возвращает ближайший момент hour:minute строго после now в часовом поясе now.
func NextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return next
}

// Run блокируется до отмены ctx.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.runOnStart {
		s.runOnce(ctx)
	}
	for {
		now := s.now().In(s.loc)
		next := NextRun(now, s.hour, s.minute)
		s.log.Info("next membership recalculation scheduled", slog.Time("at", next))

		select {
		case <-ctx.Done():
			s.log.Info("membership scheduler stopped")
			return nil
		case <-s.after(next.Sub(now)):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.rec.RecomputeAllMembershipTiers(ctx); err != nil {
		s.log.Error("scheduled membership recalculation failed, waiting for next run", sl.Err(err))
	}
}
