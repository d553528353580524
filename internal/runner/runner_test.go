package runner_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/patchops/internal/exitcode"
	"github.com/CodexForgeBR/patchops/internal/logging"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
	"github.com/CodexForgeBR/patchops/internal/runner"
)

func init() {
	color.NoColor = true
}

type memRecorder struct {
	mu      sync.Mutex
	results []runner.Result
	err     error
}

func (m *memRecorder) Record(_ context.Context, r runner.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return m.err
}

func wait(t *testing.T, ch <-chan runner.Result) runner.Result {
	t.Helper()
	select {
	case res, ok := <-ch:
		require.True(t, ok, "result channel closed without a result")
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("no result within timeout")
		return runner.Result{}
	}
}

// =============================================================================
// Submit
// =============================================================================

func TestSubmitDeliversExactlyOneResult(t *testing.T) {
	r := runner.New(logging.Discard())
	ch, err := r.Submit(context.Background(), "lock on", "/game", func(context.Context) error { return nil })
	require.NoError(t, err)

	res := wait(t, ch)
	assert.NoError(t, res.Err)
	assert.Equal(t, exitcode.Success, res.ExitCode)
	assert.Equal(t, "lock on", res.Kind)
	assert.Equal(t, "/game", res.Target)
	assert.Len(t, res.ID, 36)
	assert.False(t, res.Finished.Before(res.Started))

	_, open := <-ch
	assert.False(t, open, "channel should be closed after the result")
}

func TestSubmitRejectsSecondOperationOnSameTarget(t *testing.T) {
	r := runner.New(logging.Discard())
	release := make(chan struct{})
	started := make(chan struct{})

	ch, err := r.Submit(context.Background(), "preset apply", "/game", func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	require.NoError(t, err)
	<-started

	assert.True(t, r.Busy("/game"))
	ran := false
	_, err = r.Submit(context.Background(), "vram on", "/game", func(context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, patcherr.ErrBusy)

	close(release)
	wait(t, ch)
	assert.False(t, ran)
	assert.False(t, r.Busy("/game"))

	_, err = r.Run(context.Background(), "vram on", "/game", func(context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestLockDirRejectsOperationFromAnotherRunner(t *testing.T) {
	locks := t.TempDir()
	first := runner.New(logging.Discard(), runner.WithLockDir(locks))
	second := runner.New(logging.Discard(), runner.WithLockDir(locks))
	release := make(chan struct{})
	started := make(chan struct{})

	ch, err := first.Submit(context.Background(), "preset apply", "/game", func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	require.NoError(t, err)
	<-started

	ran := false
	res, err := second.Run(context.Background(), "set MaxFPS", "/game", func(context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, patcherr.ErrBusy)
	assert.Equal(t, exitcode.Busy, res.ExitCode)
	assert.False(t, ran)
	assert.False(t, second.Busy("/game"), "a rejected submit must not leave the target marked busy")

	close(release)
	assert.NoError(t, wait(t, ch).Err)

	_, err = second.Run(context.Background(), "set MaxFPS", "/game", func(context.Context) error { return nil })
	assert.NoError(t, err)
	assert.FileExists(t, runner.LockPath(locks, "/game"))
}

func TestLockPathIsStablePerTarget(t *testing.T) {
	assert.Equal(t, runner.LockPath("/l", "/game"), runner.LockPath("/l", "/game/"))
	assert.NotEqual(t, runner.LockPath("/l", "/game"), runner.LockPath("/l", "/other"))
}

func TestSubmitAllowsDifferentTargets(t *testing.T) {
	r := runner.New(logging.Discard())
	release := make(chan struct{})

	ch1, err := r.Submit(context.Background(), "dxvk install", "/a", func(context.Context) error {
		<-release
		return nil
	})
	require.NoError(t, err)
	ch2, err := r.Submit(context.Background(), "dxvk install", "/b", func(context.Context) error { return nil })
	require.NoError(t, err)

	assert.NoError(t, wait(t, ch2).Err)
	close(release)
	assert.NoError(t, wait(t, ch1).Err)
	r.Wait()
}

func TestSubmitMapsErrorsToExitCodes(t *testing.T) {
	r := runner.New(logging.Discard())

	res, err := r.Run(context.Background(), "preset apply", "/g", func(context.Context) error {
		return patcherr.NotFound("config.ini", "/g/players")
	})
	assert.ErrorIs(t, err, patcherr.ErrNotFound)
	assert.Equal(t, exitcode.NotFound, res.ExitCode)
	assert.Contains(t, res.Message, "failed")
}

func TestSubmitCanceledContextSkipsOperation(t *testing.T) {
	r := runner.New(logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	res, err := r.Run(ctx, "t7 install", "/g", func(context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
	assert.Equal(t, exitcode.Interrupted, res.ExitCode)
	assert.Contains(t, res.Message, "interrupted")
}

func TestSubmitRecoversPanics(t *testing.T) {
	r := runner.New(logging.Discard())
	res, err := r.Run(context.Background(), "status", "/g", func(context.Context) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, exitcode.Error, res.ExitCode)
	assert.False(t, r.Busy("/g"))
}

// =============================================================================
// Reporting
// =============================================================================

func TestRunLogsCompletion(t *testing.T) {
	var out bytes.Buffer
	r := runner.New(logging.New(logging.WithOutput(&out)))

	_, err := r.Run(context.Background(), "lock on", "/g", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[SUCCESS]")
	assert.Contains(t, out.String(), "lock on on /g")

	out.Reset()
	_, err = r.Run(context.Background(), "lock off", "/g", func(context.Context) error { return errors.New("disk full") })
	require.Error(t, err)
	assert.Contains(t, out.String(), "[ERROR]")
	assert.Contains(t, out.String(), "disk full")
}

func TestRecorderReceivesResults(t *testing.T) {
	rec := &memRecorder{}
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return start.Add(time.Duration(calls-1) * 90 * time.Second)
	}
	r := runner.New(logging.Discard(), runner.WithRecorder(rec), runner.WithClock(clock))

	res, err := r.Run(context.Background(), "dxvk install", "/g", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, res.Elapsed())
	assert.Contains(t, res.Message, "completed in 1m 30s")

	require.Len(t, rec.results, 1)
	assert.Equal(t, res.ID, rec.results[0].ID)
}

func TestRecorderFailureIsOnlyWarned(t *testing.T) {
	var out bytes.Buffer
	rec := &memRecorder{err: errors.New("db locked")}
	r := runner.New(logging.New(logging.WithOutput(&out)), runner.WithRecorder(rec))

	_, err := r.Run(context.Background(), "status", "/g", func(context.Context) error { return nil })
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "[WARN]")
	assert.Contains(t, out.String(), "db locked")
}
