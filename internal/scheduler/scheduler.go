// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: event log purging and
// the yearly school year rollover.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lagrandiose/grandiose/internal/model"
)

const jobTimeout = 5 * time.Minute

// Default schedules in standard cron syntax.
const (
	PurgeEventsSchedule = "30 3 * * *"
	RolloverSchedule    = "5 0 * * *"
)

// EventPurger deletes old audit events.
type EventPurger interface {
	PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// SchoolYearRoller advances the current school year when due.
type SchoolYearRoller interface {
	RolloverSchoolYear(ctx context.Context, now time.Time) (model.SchoolYear, bool, error)
}

type job struct {
	name        string
	description string
	schedule    string
	entryID     cron.EntryID
	run         func(ctx context.Context) error
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string
	Description string
	Schedule    string
	LastRun     time.Time
	NextRun     time.Time
}

// Scheduler owns a cron instance and the jobs registered on it.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	mu     sync.RWMutex
	jobs   map[string]*job
}

// New creates a scheduler. Jobs are added with Add before Start.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
		jobs:   make(map[string]*job),
	}
}

// Add registers fn under name on the given cron schedule.
func (s *Scheduler) Add(name, description, schedule string, fn func(ctx context.Context) error) error {
	j := &job{name: name, description: description, schedule: schedule, run: fn}
	id, err := s.cron.AddFunc(schedule, func() { s.execute(j) })
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	j.entryID = id

	s.mu.Lock()
	s.jobs[name] = j
	s.mu.Unlock()
	return nil
}

func (s *Scheduler) execute(j *job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := j.run(ctx); err != nil {
		s.logger.Error("scheduled job failed", "job", j.name, "error", err)
		return
	}
	s.logger.Debug("scheduled job finished", "job", j.name, "duration", time.Since(start))
}

// Trigger runs a job immediately in the calling goroutine.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return j.run(ctx)
}

// Jobs lists registered jobs sorted by name.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		entry := s.cron.Entry(j.entryID)
		out = append(out, JobInfo{
			Name:        j.name,
			Description: j.description,
			Schedule:    j.schedule,
			LastRun:     entry.Prev,
			NextRun:     entry.Next,
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Options selects the maintenance jobs.
type Options struct {
	EventRetention time.Duration
	AutoSchoolYear bool
}

// RegisterDefaults adds the purge job and, when enabled, the rollover job.
func (s *Scheduler) RegisterDefaults(events EventPurger, years SchoolYearRoller, opts Options) error {
	err := s.Add("purge-events", "Delete events older than the retention period", PurgeEventsSchedule,
		func(ctx context.Context) error {
			n, err := events.PurgeOlderThan(ctx, opts.EventRetention)
			if err != nil {
				return err
			}
			if n > 0 {
				s.logger.Info("purged old events", "count", n, "retention", opts.EventRetention)
			}
			return nil
		})
	if err != nil {
		return err
	}

	if !opts.AutoSchoolYear {
		return nil
	}
	return s.Add("school-year-rollover", "Advance the current school year on September 1st", RolloverSchedule,
		func(ctx context.Context) error {
			y, changed, err := years.RolloverSchoolYear(ctx, time.Now())
			if err != nil {
				return err
			}
			if changed {
				s.logger.Info("school year rolled over", "category", model.EventCategorySchoolYear, "year", y.Label())
			}
			return nil
		})
}
