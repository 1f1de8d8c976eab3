package practice

import (
	"context"
	"errors"
	"time"

	"github.com/verte-zerg/tuistrum/internal/catalog"
)

// ErrRunnerStopped is returned by Do once the runner loop has exited.
var ErrRunnerStopped = errors.New("practice runner stopped")

const runnerQueueSize = 64

// Runner owns an Engine on a single goroutine. Calls made through Do and
// events fired by the runner's timers are queued and applied one at a time.
type Runner struct {
	engine   *Engine
	cmds     chan func()
	done     chan struct{}
	onChange func(Snapshot)

	// timers is only touched on the loop goroutine.
	timers map[uint64]*time.Timer
	nextID uint64
}

// NewRunner creates an engine for p that schedules its events on the runner.
// opts.Scheduler is ignored. onChange, when set, is called on the loop
// goroutine after every applied command or event.
func NewRunner(p *catalog.Pattern, opts Options, onChange func(Snapshot)) (*Runner, error) {
	r := &Runner{
		cmds:     make(chan func(), runnerQueueSize),
		done:     make(chan struct{}),
		onChange: onChange,
		timers:   map[uint64]*time.Timer{},
	}
	opts.Scheduler = r
	engine, err := NewEngine(p, opts)
	if err != nil {
		return nil, err
	}
	r.engine = engine
	return r, nil
}

// Run processes commands until ctx is cancelled. It must be called once.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	defer r.stopTimers()
	for {
		select {
		case fn := <-r.cmds:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Do runs fn against the engine on the loop goroutine and waits for it.
func (r *Runner) Do(ctx context.Context, fn func(*Engine)) error {
	applied := make(chan struct{})
	cmd := func() {
		fn(r.engine)
		r.changed()
		close(applied)
	}
	select {
	case r.cmds <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrRunnerStopped
	}
	select {
	case <-applied:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrRunnerStopped
	}
}

// Snapshot returns the engine state, read on the loop goroutine.
func (r *Runner) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := r.Do(ctx, func(e *Engine) {
		snap = e.Snapshot()
	})
	return snap, err
}

// Schedule implements Scheduler. It is called by the engine on the loop
// goroutine.
func (r *Runner) Schedule(delay time.Duration, ev Event) {
	r.nextID++
	id := r.nextID
	r.timers[id] = time.AfterFunc(delay, func() {
		r.post(func() {
			delete(r.timers, id)
			if r.engine.Deliver(ev) {
				r.changed()
			}
		})
	})
}

func (r *Runner) post(fn func()) {
	select {
	case r.cmds <- fn:
	case <-r.done:
	}
}

func (r *Runner) changed() {
	if r.onChange != nil {
		r.onChange(r.engine.Snapshot())
	}
}

func (r *Runner) stopTimers() {
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}
