// Package runner executes whole patchops operations off the caller's
// goroutine while allowing at most one operation per target at a time.
// With a lock directory the limit also holds across processes.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/CodexForgeBR/patchops/internal/exitcode"
	"github.com/CodexForgeBR/patchops/internal/logging"
	"github.com/CodexForgeBR/patchops/internal/notification"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

// Func is one complete operation. It should honor ctx where it blocks.
type Func func(ctx context.Context) error

// Result is the single completion event delivered for a submitted operation.
type Result struct {
	ID       string
	Kind     string
	Target   string
	Started  time.Time
	Finished time.Time
	Err      error
	ExitCode int
	Message  string
}

// Elapsed is the wall time the operation ran for.
func (r Result) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Recorder persists finished operations.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

// Runner serializes operations per target.
type Runner struct {
	log     *logging.Logger
	rec     Recorder
	lockDir string
	now     func() time.Time
	newID   func() string

	mu       sync.Mutex
	inflight map[string]string // target -> operation id
	wg       sync.WaitGroup
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder stores every Result in rec once the operation finishes.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.rec = rec }
}

// WithLockDir also guards each target with a lock file in dir, so
// operations on one target are serialized across processes.
func WithLockDir(dir string) Option {
	return func(r *Runner) { r.lockDir = dir }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New returns a Runner that reports completions to log.
func New(log *logging.Logger, opts ...Option) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	r := &Runner{
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
		inflight: make(map[string]string),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Busy reports whether an operation on target is in flight.
func (r *Runner) Busy(target string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inflight[target]
	return ok
}

// Submit starts fn on its own goroutine. The returned channel delivers
// exactly one Result and is then closed. Submitting while another operation
// holds target fails with patcherr.ErrBusy and fn is not run.
func (r *Runner) Submit(ctx context.Context, kind, target string, fn Func) (<-chan Result, error) {
	id := r.newID()

	r.mu.Lock()
	if _, busy := r.inflight[target]; busy {
		r.mu.Unlock()
		return nil, r.busy(kind, target, id)
	}
	r.inflight[target] = id
	r.mu.Unlock()

	var fl *flock.Flock
	if r.lockDir != "" {
		var err error
		fl, err = tryLockTarget(r.lockDir, target)
		if err != nil || fl == nil {
			r.release(target)
			if err != nil {
				return nil, err
			}
			return nil, r.busy(kind, target, id)
		}
	}

	r.log.Debug(fmt.Sprintf("Started %s on %s [%s]", kind, target, id))

	ch := make(chan Result, 1)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(ch)

		res := Result{ID: id, Kind: kind, Target: target, Started: r.now()}
		res.Err = call(ctx, fn)
		res.Finished = r.now()
		res.ExitCode = exitcode.FromError(res.Err)
		res.Message = notification.FormatEvent(eventFor(res.ExitCode), kind, target, id,
			int(res.Elapsed().Seconds()), res.ExitCode)

		if fl != nil {
			if err := fl.Unlock(); err != nil {
				r.log.Warn(fmt.Sprintf("Failed to release lock for %s: %v", target, err))
			}
		}
		r.release(target)

		r.report(res)
		if r.rec != nil {
			if err := r.rec.Record(context.WithoutCancel(ctx), res); err != nil {
				r.log.Warn(fmt.Sprintf("Failed to record %s in history: %v", kind, err))
			}
		}
		ch <- res
	}()
	return ch, nil
}

func (r *Runner) busy(kind, target, id string) error {
	r.log.Warn(notification.FormatEvent(notification.EventBusy, kind, target, id, 0, exitcode.Busy))
	return fmt.Errorf("%s on %s: %w", kind, target, patcherr.ErrBusy)
}

func (r *Runner) release(target string) {
	r.mu.Lock()
	delete(r.inflight, target)
	r.mu.Unlock()
}

// Run submits fn and waits for its Result.
func (r *Runner) Run(ctx context.Context, kind, target string, fn Func) (Result, error) {
	ch, err := r.Submit(ctx, kind, target, fn)
	if err != nil {
		return Result{Kind: kind, Target: target, Err: err, ExitCode: exitcode.FromError(err)}, err
	}
	res := <-ch
	return res, res.Err
}

// Wait blocks until every submitted operation has delivered its Result.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) report(res Result) {
	switch {
	case res.Err == nil:
		r.log.Success(res.Message)
	case res.ExitCode == exitcode.Interrupted:
		r.log.Warn(res.Message)
	default:
		r.log.Error(fmt.Sprintf("%s: %v", res.Message, res.Err))
	}
}

func call(ctx context.Context, fn Func) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("operation panicked: %v", p)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

func eventFor(code int) string {
	switch code {
	case exitcode.Success:
		return notification.EventSucceeded
	case exitcode.Interrupted:
		return notification.EventInterrupted
	default:
		return notification.EventFailed
	}
}

