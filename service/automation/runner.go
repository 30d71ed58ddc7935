/*
 * @module service/automation/runner
 * @description Cron runner for the background QC jobs with status reporting and manual triggers
 * @architecture Scheduler pattern built on robfig/cron
 * @stateFlow Register -> Start -> (cron tick | Trigger) -> execute under lock -> Stop
 * @rules A job failure is logged and counted, never propagated to the process; with a lock configured only one replica runs a tick
 * @dependencies github.com/robfig/cron/v3, ceramiqc/service/distributed_lock
 * @refs service/automation/jobs.go, api/controllers/automation_controller.go
 */

package automation

import (
	"ceramiqc/service/distributed_lock"
	"ceramiqc/service/metrics"
	"ceramiqc/service/qcerror"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one periodic task.
type Job struct {
	ID   string
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

type jobState struct {
	job       Job
	entryID   cron.EntryID
	lastRun   *time.Time
	lastError string
	runs      int
	skipped   int
}

// Runner schedules jobs on a cron clock.
type Runner struct {
	cron    *cron.Cron
	locks   *distributed_lock.LockExecutor
	lockTTL time.Duration
	metrics *metrics.Collector
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	jobs    map[string]*jobState
	running bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLock makes each run take a lock keyed by job id, held for at most ttl.
func WithLock(lock distributed_lock.DistributedLock, ttl time.Duration) Option {
	return func(r *Runner) {
		if lock != nil {
			r.locks = distributed_lock.NewLockExecutor(lock)
			r.lockTTL = ttl
		}
	}
}

// WithMetrics reports job runs to m.
func WithMetrics(m *metrics.Collector) Option {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner creates a stopped runner evaluating specs in loc.
func NewRunner(loc *time.Location, opts ...Option) *Runner {
	if loc == nil {
		loc = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		cron:    cron.New(cron.WithLocation(loc)),
		lockTTL: 10 * time.Minute,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		jobs:    map[string]*jobState{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds job under its cron spec. Ids must be unique.
func (r *Runner) Register(job Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.jobs[job.ID]; dup {
		return fmt.Errorf("job %s already registered", job.ID)
	}
	state := &jobState{job: job}
	id, err := r.cron.AddFunc(job.Spec, func() {
		_ = r.execute(r.ctx, state)
	})
	if err != nil {
		return fmt.Errorf("add job %s [%s]: %w", job.ID, job.Spec, err)
	}
	state.entryID = id
	r.jobs[job.ID] = state
	slog.Info("automation job registered", "job", job.ID, "spec", job.Spec)
	return nil
}

// Start begins ticking.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.cron.Start()
	r.running = true
	slog.Info("automation runner started", "jobs", len(r.jobs))
}

// Stop halts ticking and waits for running jobs to return.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		r.cancel()
		return
	}
	r.running = false
	r.mu.Unlock()

	r.cancel()
	<-r.cron.Stop().Done()
	slog.Info("automation runner stopped")
}

// Trigger runs a job now, outside its schedule, and returns its error.
func (r *Runner) Trigger(ctx context.Context, id string) error {
	r.mu.Lock()
	state, ok := r.jobs[id]
	r.mu.Unlock()
	if !ok {
		return qcerror.NotFound("job %s not found", id)
	}
	slog.Info("automation job triggered manually", "job", id)
	return r.execute(ctx, state)
}

func (r *Runner) execute(ctx context.Context, state *jobState) (err error) {
	job := state.job
	start := r.now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job %s panicked: %v", job.ID, p)
		}
		r.finish(state, start, err)
	}()

	if r.locks == nil {
		return job.Run(ctx)
	}
	ran, err := r.locks.ExecuteWithLock(ctx, "job:"+job.ID, r.lockTTL, func() error {
		return job.Run(ctx)
	})
	if err == nil && !ran {
		r.mu.Lock()
		state.skipped++
		r.mu.Unlock()
		slog.Info("automation job skipped, running elsewhere", "job", job.ID)
	}
	return err
}

func (r *Runner) finish(state *jobState, start time.Time, err error) {
	elapsed := r.now().Sub(start)
	r.mu.Lock()
	state.runs++
	state.lastRun = &start
	state.lastError = ""
	if err != nil {
		state.lastError = err.Error()
	}
	r.mu.Unlock()

	r.metrics.JobFinished(state.job.ID, elapsed, err)
	if err != nil {
		slog.Error("automation job failed", "job", state.job.ID, "elapsed", elapsed, "error", err)
		return
	}
	slog.Info("automation job finished", "job", state.job.ID, "elapsed", elapsed)
}

// JobStatus describes one registered job.
type JobStatus struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Trigger   string     `json:"trigger"`
	NextRun   *time.Time `json:"next_run"`
	LastRun   *time.Time `json:"last_run"`
	LastError string     `json:"last_error,omitempty"`
	Runs      int        `json:"runs"`
	Skipped   int        `json:"skipped"`
}

// Status is the runner state returned by the jobs endpoint.
type Status struct {
	Status string      `json:"status"`
	Jobs   []JobStatus `json:"jobs"`
}

// Status reports every job ordered by id.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := Status{Status: "stopped", Jobs: make([]JobStatus, 0, len(r.jobs))}
	if r.running {
		out.Status = "running"
	}
	for _, state := range r.jobs {
		js := JobStatus{
			ID:        state.job.ID,
			Name:      state.job.Name,
			Trigger:   "cron[" + state.job.Spec + "]",
			LastRun:   state.lastRun,
			LastError: state.lastError,
			Runs:      state.runs,
			Skipped:   state.skipped,
		}
		if next := r.cron.Entry(state.entryID).Next; !next.IsZero() {
			js.NextRun = &next
		}
		out.Jobs = append(out.Jobs, js)
	}
	sort.Slice(out.Jobs, func(i, j int) bool { return out.Jobs[i].ID < out.Jobs[j].ID })
	return out
}
