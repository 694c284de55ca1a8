package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// ─────────────────────────────────────────────────────────────
// Autosaver: periodic page persistence
// ─────────────────────────────────────────────────────────────

// DefaultAutosaveSpec saves every thirty seconds.
const DefaultAutosaveSpec = "@every 30s"

// SaveFunc persists whatever the app considers dirty.
type SaveFunc func(ctx context.Context) error

// Autosaver runs a SaveFunc on a cron schedule. Overlapping runs are
// skipped.
type Autosaver struct {
	spec    string
	save    SaveFunc
	emitter EventEmitter
	running runningJobsGuard

	mu    sync.Mutex
	sched *cron.Cron
}

// NewAutosaver creates an Autosaver. An empty spec uses DefaultAutosaveSpec.
func NewAutosaver(spec string, save SaveFunc, emitter EventEmitter) *Autosaver {
	if spec == "" {
		spec = DefaultAutosaveSpec
	}
	return &Autosaver{spec: spec, save: save, emitter: emitter}
}

// Start schedules the job. Calling Start twice restarts the schedule.
func (a *Autosaver) Start(ctx context.Context) error {
	a.Stop()

	c := cron.New()
	if _, err := c.AddFunc(a.spec, func() { a.Run(ctx) }); err != nil {
		return fmt.Errorf("schedule autosave %q: %w", a.spec, err)
	}
	c.Start()

	a.mu.Lock()
	a.sched = c
	a.mu.Unlock()
	log.Printf("[AUTOSAVE] scheduled %s", a.spec)
	return nil
}

// Run saves once. It reports false when a save was already in flight.
func (a *Autosaver) Run(ctx context.Context) bool {
	if !a.running.TryLock("autosave") {
		return false
	}
	defer a.running.Unlock("autosave")

	if err := a.save(ctx); err != nil {
		log.Printf("[AUTOSAVE] save failed: %v", err)
		a.emitter.Emit(ctx, "autosave:error", err.Error())
		return true
	}
	a.emitter.Emit(ctx, "autosave:done", nil)
	return true
}

// Stop halts the schedule and waits for an in-flight save.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	c := a.sched
	a.sched = nil
	a.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
