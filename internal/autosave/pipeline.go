// Package autosave saves goal edits after a quiet period. Each edit replaces
// the pending snapshot and restarts the delay, so a burst of edits produces
// a single write of the latest form.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/internal/client"
	"github.com/goal-tracker/backend/internal/domain/entity"
)

const (
	// DefaultDelay is the quiet period before pending edits are written.
	DefaultDelay = 500 * time.Millisecond
	// DefaultMaxRetries is how many times a failed write is retried.
	DefaultMaxRetries = 3
	// DefaultRetryBackoff is the delay before the first retry. It doubles on each attempt.
	DefaultRetryBackoff = time.Second
	// DefaultWriteTimeout bounds a single write.
	DefaultWriteTimeout = 10 * time.Second
	// UntitledName replaces a blank name when saving.
	UntitledName = "Untitled goal"
)

// ErrClosed is returned by Edit after the pipeline was closed.
var ErrClosed = errors.New("autosave: pipeline closed")

// Store is the subset of the API the pipeline writes to.
type Store interface {
	UpdateGoal(ctx context.Context, id uuid.UUID, patch entity.GoalPatch) (client.Goal, error)
	UpdateUserGoal(ctx context.Context, id uuid.UUID, accumulated decimal.Decimal) (client.UserGoal, error)
	DeleteUserGoal(ctx context.Context, assignmentID, goalID uuid.UUID) error
}

// Form is the full state of the goal editor.
type Form struct {
	Name        string
	TargetDate  *time.Time
	Accumulated decimal.Decimal
	Target      decimal.Decimal
}

// Snapshot is a form captured by an edit. Seq grows with every edit.
type Snapshot struct {
	Seq  uint64
	Form Form

	// owed lists the writes still missing for this snapshot. Zero means both.
	owed parts
}

// parts is a set of the two writes a snapshot is saved with.
type parts uint8

const (
	partGoal parts = 1 << iota
	partAmount

	partsAll = partGoal | partAmount
)

func (s Snapshot) remaining() parts {
	if s.owed == 0 {
		return partsAll
	}
	return s.owed
}

// State is the phase of the pipeline.
type State int

const (
	StateIdle State = iota
	StatePending
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSaving:
		return "saving"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// LeaveResult tells what Leave did.
type LeaveResult int

const (
	// LeaveStayed means the user declined to delete and the editor stays open.
	LeaveStayed LeaveResult = iota
	// LeaveDeleted means the user goal was deleted.
	LeaveDeleted
	// LeaveSaved means all edits were written and the pipeline closed.
	LeaveSaved
)

func (r LeaveResult) String() string {
	switch r {
	case LeaveStayed:
		return "stayed"
	case LeaveDeleted:
		return "deleted"
	case LeaveSaved:
		return "saved"
	default:
		return fmt.Sprintf("LeaveResult(%d)", int(r))
	}
}

// Status is a point-in-time view of the pipeline.
type Status struct {
	State State
	// Dirty is true while some edit has not been written successfully.
	Dirty    bool
	LastErr  error
	Seq      uint64
	SavedSeq uint64
}

// Config holds the pipeline settings. Zero values take the defaults.
type Config struct {
	AssignmentID uuid.UUID
	GoalID       uuid.UUID
	Delay        time.Duration
	// MaxRetries below zero disables retries.
	MaxRetries   int
	RetryBackoff time.Duration
	WriteTimeout time.Duration
	Scheduler    Scheduler
	// OnSaved runs after a successful write of the newest snapshot.
	OnSaved func(Snapshot)
}

type result struct {
	seq uint64
	err error
}

// Pipeline debounces edits of one user goal and writes them to the store.
type Pipeline struct {
	store Store
	cfg   Config
	log   *slog.Logger

	mu          sync.Mutex
	state       State
	current     Form
	seq         uint64
	pending     *Snapshot
	ready       bool
	timer       Timer
	saving      bool
	inflight    *Snapshot
	attempts    int
	savedSeq    uint64
	lastErr     error
	last        result
	completions uint64
	changed     chan struct{}
	closed      bool
}

// New creates an idle pipeline for the user goal whose saved form is initial.
func New(store Store, cfg Config, initial Form) *Pipeline {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = DefaultMaxRetries
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = SystemScheduler{}
	}

	return &Pipeline{
		store:   store,
		cfg:     cfg,
		log:     slog.With("assignment_id", cfg.AssignmentID, "goal_id", cfg.GoalID),
		current: initial,
		changed: make(chan struct{}),
	}
}

// Edit records the latest form and restarts the quiet period. Edits made
// while a write is in flight are written after it.
func (p *Pipeline) Edit(form Form) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	p.stopTimer()
	p.seq++
	p.current = form
	p.pending = &Snapshot{Seq: p.seq, Form: form}
	p.ready = false
	p.attempts = 0
	if !p.saving {
		p.state = StatePending
	}
	p.timer = p.cfg.Scheduler.AfterFunc(p.cfg.Delay, p.due(p.seq))
	return nil
}

// Current returns the latest form, saved or not.
func (p *Pipeline) Current() Form {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Status returns the current state of the pipeline.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		State:    p.state,
		Dirty:    p.pending != nil || p.inflight != nil,
		LastErr:  p.lastErr,
		Seq:      p.seq,
		SavedSeq: p.savedSeq,
	}
}

// Flush writes pending edits without waiting for the quiet period and
// returns the error of the newest snapshot's write.
func (p *Pipeline) Flush(ctx context.Context) error {
	p.mu.Lock()
	if p.pending == nil && p.inflight == nil {
		p.mu.Unlock()
		return nil
	}

	target := p.seq
	gen := p.completions
	if p.pending != nil {
		p.stopTimer()
		p.ready = true
		if !p.saving {
			p.saving = true
			go p.run()
		}
	}

	for {
		if p.savedSeq >= target {
			p.mu.Unlock()
			return nil
		}
		if p.completions > gen && p.last.seq >= target {
			err := p.last.err
			p.mu.Unlock()
			return err
		}
		changed := p.changed
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
		p.mu.Lock()
	}
}

// Leave closes the editor. A goal whose target is zero or below is treated as
// abandoned: confirm decides between deleting it and staying in the editor.
// Any other goal is flushed, and the pipeline closes once the write succeeded.
func (p *Pipeline) Leave(ctx context.Context, confirm func(context.Context) bool) (LeaveResult, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return LeaveStayed, ErrClosed
	}
	target := p.current.Target
	p.mu.Unlock()

	if !target.IsPositive() {
		if !confirm(ctx) {
			return LeaveStayed, nil
		}
		return p.deleteAndClose(ctx)
	}

	if err := p.Flush(ctx); err != nil {
		return LeaveStayed, err
	}
	p.Close()
	return LeaveSaved, nil
}

// Close stops timers and discards unsaved edits. A write in flight completes.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *Pipeline) closeLocked() {
	p.stopTimer()
	p.closed = true
	p.pending = nil
	p.ready = false
	if !p.saving {
		p.state = StateIdle
	}
}

func (p *Pipeline) deleteAndClose(ctx context.Context) (LeaveResult, error) {
	p.mu.Lock()
	p.closeLocked()
	p.mu.Unlock()

	if err := p.waitIdle(ctx); err != nil {
		return LeaveStayed, err
	}

	if err := p.store.DeleteUserGoal(ctx, p.cfg.AssignmentID, p.cfg.GoalID); err != nil {
		p.mu.Lock()
		p.closed = false
		p.mu.Unlock()
		return LeaveStayed, fmt.Errorf("failed to delete user goal: %w", err)
	}

	p.log.Info("Deleted abandoned user goal")
	return LeaveDeleted, nil
}

// waitIdle blocks until no write is in flight.
func (p *Pipeline) waitIdle(ctx context.Context) error {
	p.mu.Lock()
	for p.saving {
		changed := p.changed
		p.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
		p.mu.Lock()
	}
	p.mu.Unlock()
	return nil
}

// due returns the timer callback for snapshot seq. A callback whose snapshot
// was superseded does nothing.
func (p *Pipeline) due(seq uint64) func() {
	return func() {
		p.mu.Lock()
		if p.closed || p.pending == nil || p.pending.Seq != seq {
			p.mu.Unlock()
			return
		}
		p.timer = nil
		p.ready = true
		if p.saving {
			// The writer picks it up when the in-flight write completes.
			p.mu.Unlock()
			return
		}
		p.saving = true
		p.mu.Unlock()
		p.run()
	}
}

// run writes ready snapshots one at a time until none is left. The caller
// must have set p.saving.
func (p *Pipeline) run() {
	for {
		p.mu.Lock()
		if p.closed || p.pending == nil || !p.ready {
			p.saving = false
			if p.pending == nil {
				p.state = StateIdle
			} else {
				p.state = StatePending
			}
			p.notify()
			p.mu.Unlock()
			return
		}
		snap := *p.pending
		p.pending = nil
		p.ready = false
		p.inflight = &snap
		p.state = StateSaving
		p.mu.Unlock()

		goalErr, amountErr := p.write(snap)

		p.mu.Lock()
		newest := p.complete(snap, goalErr, amountErr)
		p.mu.Unlock()

		if newest && p.cfg.OnSaved != nil {
			p.cfg.OnSaved(snap)
		}

		p.mu.Lock()
		p.notify()
		p.mu.Unlock()
	}
}

// complete records the outcome of a write and reports whether it saved the
// newest snapshot. Only the writes that failed are sent again.
func (p *Pipeline) complete(snap Snapshot, goalErr, amountErr error) bool {
	err := errors.Join(goalErr, amountErr)
	p.inflight = nil
	p.completions++
	p.last = result{seq: snap.Seq, err: err}

	if err == nil {
		p.savedSeq = snap.Seq
		p.lastErr = nil
		p.attempts = 0
		return snap.Seq == p.seq
	}

	p.lastErr = err
	if p.pending != nil || p.closed {
		// A newer edit carries the whole form, so the failed one is not retried.
		p.log.Warn("Autosave failed, newer edit pending", "seq", snap.Seq, "error", err)
		return false
	}

	var failed parts
	retry := false
	if goalErr != nil {
		failed |= partGoal
		retry = retry || retryable(goalErr)
	}
	if amountErr != nil {
		failed |= partAmount
		retry = retry || retryable(amountErr)
	}
	snap.owed = failed
	p.pending = &snap
	p.attempts++
	if !retry || p.attempts > p.cfg.MaxRetries {
		p.log.Error("Autosave failed, giving up until the next edit or flush",
			"seq", snap.Seq,
			"attempts", p.attempts,
			"error", err,
		)
		return false
	}

	backoff := p.cfg.RetryBackoff << (p.attempts - 1)
	p.log.Warn("Autosave failed, retrying",
		"seq", snap.Seq,
		"attempt", p.attempts,
		"backoff", backoff,
		"error", err,
	)
	p.timer = p.cfg.Scheduler.AfterFunc(backoff, p.due(snap.Seq))
	return false
}

// write sends the halves of the form the snapshot still owes. Both are
// attempted even when one fails.
func (p *Pipeline) write(snap Snapshot) (goalErr, amountErr error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.WriteTimeout)
	defer cancel()

	owed := snap.remaining()
	if owed&partGoal != 0 {
		goalErr = p.writeGoal(ctx, snap.Form)
	}
	if owed&partAmount != 0 {
		if _, err := p.store.UpdateUserGoal(ctx, p.cfg.AssignmentID, snap.Form.Accumulated); err != nil {
			amountErr = fmt.Errorf("update user goal: %w", err)
		}
	}
	return goalErr, amountErr
}

func (p *Pipeline) writeGoal(ctx context.Context, form Form) error {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		name = UntitledName
	}
	target := form.Target
	patch := entity.GoalPatch{
		Name:         &name,
		TargetAmount: &target,
		TargetDate:   entity.Nullable[time.Time]{Set: true, Value: form.TargetDate},
	}

	if _, err := p.store.UpdateGoal(ctx, p.cfg.GoalID, patch); err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

func (p *Pipeline) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// notify wakes everyone waiting on a state change.
func (p *Pipeline) notify() {
	close(p.changed)
	p.changed = make(chan struct{})
}

// retryable reports whether a write may succeed when sent again unchanged.
func retryable(err error) bool {
	return !client.IsValidation(err) && !client.IsNotFound(err) && !client.IsUnauthorized(err)
}
