package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shanebrain/postbot/app/audit"
	"github.com/shanebrain/postbot/app/platform"
)

// errorThreshold is the cumulative error count that triggers an escalated
// warning. Informational only: the loop keeps running, the operator stops it.
const errorThreshold = 5

// cronParser accepts the standard five-field grammar plus an optional
// leading seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// ValidateSchedule checks a cron expression against the recognized grammar.
func ValidateSchedule(expr string) error {
	_, err := cronParser.Parse(expr)
	return err
}

// Scheduler drives the posting pass on a cron schedule. Each trigger
// iterates all active platforms sequentially with isolated failure
// handling. Triggers never overlap: a trigger arriving while the previous
// pass still runs is dropped.
type Scheduler struct {
	runner   *Runner
	stats    *Stats
	schedule cron.Schedule
	expr     string
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
}

// New validates the cron expression and builds the scheduler. An invalid
// expression is a fatal configuration error, detected here, before the
// timer is ever armed.
func New(platforms []platform.Platform, generator ContentSource, auditLog *audit.Logger, expr string) (*Scheduler, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stats := &Stats{}

	return &Scheduler{
		runner:   NewRunner(platforms, generator, auditLog, stats),
		stats:    stats,
		schedule: schedule,
		expr:     expr,
		ctx:      ctx,
		cancel:   cancel,
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}, nil
}

// Start arms the timer. The expression was validated in New, so AddFunc
// cannot fail on grammar.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.expr, s.trigger); err != nil {
		return fmt.Errorf("failed to arm schedule: %w", err)
	}

	names := make([]string, 0, len(s.runner.platforms))
	for _, p := range s.runner.platforms {
		names = append(names, p.Name())
	}

	slog.Info("Scheduler started", "platforms", strings.Join(names, ", "), "schedule", s.expr)
	for _, next := range s.NextRuns(3) {
		slog.Info("Planned run", "at", next.Format(time.RFC3339))
	}

	s.cron.Start()
	return nil
}

// Stop disarms the timer and logs final cumulative stats. In-flight
// requests are abandoned at the process boundary, not awaited.
func (s *Scheduler) Stop() {
	s.cancel()
	s.cron.Stop()

	posts, errors := s.stats.Snapshot()
	slog.Warn("Scheduler stopped", "posts", posts, "errors", errors)
}

// Stats exposes the cumulative counters for the status API.
func (s *Scheduler) Stats() (posts, errors int) {
	return s.stats.Snapshot()
}

// NextRuns returns the next n planned trigger times.
func (s *Scheduler) NextRuns(n int) []time.Time {
	runs := make([]time.Time, 0, n)
	t := time.Now()
	for i := 0; i < n; i++ {
		t = s.schedule.Next(t)
		runs = append(runs, t)
	}
	return runs
}

// trigger is one scheduled pass: process every platform once, then check
// the cumulative error threshold.
func (s *Scheduler) trigger() {
	slog.Info("Scheduled post triggered")

	s.runner.Run(s.ctx, ModePublish)

	posts, errors := s.stats.Snapshot()
	slog.Info("Cumulative stats", "posts", posts, "errors", errors)

	if errors >= errorThreshold {
		slog.Error("Too many errors. Check your tokens and API status.", "errors", errors)
	}
}
