package longform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	mu      sync.Mutex
	serials []int
	failOn  map[int]error
}

func (f *fakeDispatcher) DispatchRow(_ context.Context, _ string, row Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serials = append(f.serials, row.SerialNumber)
	if err, ok := f.failOn[row.SerialNumber]; ok {
		return err
	}
	return nil
}

func (f *fakeDispatcher) dispatched() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.serials...)
}

type fakeSaver struct {
	mu    sync.Mutex
	last  []Row
	saves int
}

func (f *fakeSaver) SaveRows(_ context.Context, _ string, rows []Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = append([]Row(nil), rows...)
	f.saves++
	return nil
}

func (f *fakeSaver) lastSheet() []Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Row(nil), f.last...)
}

func sheetWithEligible(serials ...int) []Row {
	rows := EmptyRows()
	for _, n := range serials {
		rows[n-1].AudioURL = fmt.Sprintf("https://cdn/a%d.mp3", n)
		rows[n-1].ImageURL = fmt.Sprintf("https://cdn/i%d.png", n)
	}
	return rows
}

func waitDone(t *testing.T, s *Sequencer) RunReport {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.Report().State == RunDone
	}, 5*time.Second, 5*time.Millisecond)
	return s.Report()
}

func TestLockDuration(t *testing.T) {
	// 5 minutes between 3 rows: two gaps plus the fixed buffer.
	require.Equal(t, 1320*time.Second, LockDuration(5, 3))
	require.Equal(t, 720*time.Second, LockDuration(0, 3))
	require.Equal(t, 720*time.Second, LockDuration(10, 1))
	require.Equal(t, 720*time.Second, CompileLockDuration)
}

func TestSequencer_RefusesEmptyRunBeforeLock(t *testing.T) {
	lock := NewLock()
	s := NewSequencer(lock, &fakeDispatcher{}, &fakeSaver{})

	_, err := s.Start(context.Background(), Project{ID: "p1", Name: "demo"}, EmptyRows(), 0)
	require.ErrorIs(t, err, ErrNoEligibleRows)

	// The lock was never touched.
	require.False(t, lock.Status().Active)
}

func TestSequencer_DispatchesAllWithZeroInterval(t *testing.T) {
	d := &fakeDispatcher{}
	sv := &fakeSaver{}
	s := NewSequencer(NewLock(), d, sv)

	_, err := s.Start(context.Background(), Project{ID: "p1", Name: "demo"}, sheetWithEligible(1, 2, 3), 0)
	require.NoError(t, err)

	r := waitDone(t, s)
	require.Equal(t, 3, r.Dispatched)
	require.Zero(t, r.Failed)
	require.Equal(t, []int{1, 2, 3}, d.dispatched())
}

func TestSequencer_SerialOrderAmongEligible(t *testing.T) {
	d := &fakeDispatcher{}
	s := NewSequencer(NewLock(), d, &fakeSaver{})

	_, err := s.Start(context.Background(), Project{ID: "p1", Name: "demo"}, sheetWithEligible(11, 2, 7), 0)
	require.NoError(t, err)

	waitDone(t, s)
	require.Equal(t, []int{2, 7, 11}, d.dispatched())
}

func TestSequencer_FailureIsLocalized(t *testing.T) {
	d := &fakeDispatcher{failOn: map[int]error{3: errors.New("n8n returned 502")}}
	sv := &fakeSaver{}
	s := NewSequencer(NewLock(), d, sv)

	_, err := s.Start(context.Background(), Project{ID: "p1", Name: "demo"}, sheetWithEligible(1, 2, 3, 4), 0)
	require.NoError(t, err)

	r := waitDone(t, s)
	require.Equal(t, 3, r.Dispatched)
	require.Equal(t, 1, r.Failed)
	require.Equal(t, []int{1, 2, 3, 4}, d.dispatched(), "a failed row must not abort the run")

	sheet := sv.lastSheet()
	require.Len(t, sheet, ProjectRowCount)
	require.Equal(t, RowComplete, sheet[0].Status)
	require.Equal(t, RowComplete, sheet[1].Status)
	require.Equal(t, RowIncomplete, sheet[2].Status)
	require.Equal(t, RowComplete, sheet[3].Status)

	var failed []RowOutcome
	for _, o := range r.Outcomes {
		if !o.Success {
			failed = append(failed, o)
		}
	}
	require.Len(t, failed, 1)
	require.Equal(t, 3, failed[0].SerialNumber)
	require.Contains(t, failed[0].Error, "502")
}

func TestSequencer_LockConflictAbortsWholeRun(t *testing.T) {
	lock := NewLock()
	_, err := lock.Acquire(time.Hour, LockReasonCompile)
	require.NoError(t, err)

	d := &fakeDispatcher{}
	s := NewSequencer(lock, d, &fakeSaver{})

	_, err = s.Start(context.Background(), Project{ID: "p1", Name: "demo"}, sheetWithEligible(1, 2), 0)
	require.ErrorIs(t, err, ErrLockHeld)
	require.Empty(t, d.dispatched(), "no dispatch may happen when the lock is refused")
}

func TestSequencer_RejectedWhileCompileHoldsLock(t *testing.T) {
	lock := NewLock()
	compileEnds, err := lock.Acquire(CompileLockDuration, LockReasonCompile)
	require.NoError(t, err)

	d := &fakeDispatcher{}
	s := NewSequencer(lock, d, &fakeSaver{})

	held, err := s.Start(context.Background(), Project{ID: "p1", Name: "demo"}, sheetWithEligible(1, 2), 0)
	require.ErrorIs(t, err, ErrLockHeld)
	require.Equal(t, compileEnds, held, "the conflict must report the compile lock's expiry")
	require.Empty(t, d.dispatched())
	require.Equal(t, RunIdle, s.Report().State)
}

func TestSequencer_NormalizesCallerSerials(t *testing.T) {
	// Rows arriving with zero or duplicate serial numbers are renumbered
	// by position before eligibility is decided.
	rows := make([]Row, ProjectRowCount)
	rows[5] = Row{SerialNumber: 99, AudioURL: "https://cdn/a6.mp3", ImageURL: "https://cdn/i6.png"}
	rows[8] = Row{AudioURL: "https://cdn/a9.mp3", ImageURL: "https://cdn/i9.png"}

	d := &fakeDispatcher{}
	sv := &fakeSaver{}
	s := NewSequencer(NewLock(), d, sv)

	_, err := s.Start(context.Background(), Project{ID: "p1", Name: "demo"}, rows, 0)
	require.NoError(t, err)

	waitDone(t, s)
	require.Equal(t, []int{6, 9}, d.dispatched())

	sheet := sv.lastSheet()
	require.Equal(t, RowComplete, sheet[5].Status)
	require.Equal(t, RowComplete, sheet[8].Status)
}

func TestSequencer_WaitsBetweenRowsOnly(t *testing.T) {
	var mu sync.Mutex
	var waits []time.Duration

	d := &fakeDispatcher{}
	s := NewSequencer(NewLock(), d, &fakeSaver{})
	s.after = func(dur time.Duration) <-chan time.Time {
		mu.Lock()
		waits = append(waits, dur)
		mu.Unlock()
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}

	_, err := s.Start(context.Background(), Project{ID: "p1", Name: "demo"}, sheetWithEligible(1, 2, 3), 5)
	require.NoError(t, err)

	waitDone(t, s)
	mu.Lock()
	defer mu.Unlock()
	// Two gaps for three rows, none after the last.
	require.Equal(t, []time.Duration{5 * time.Minute, 5 * time.Minute}, waits)
}

func TestSequencer_AbandonedRunStopsWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := &fakeDispatcher{}
	s := NewSequencer(NewLock(), d, &fakeSaver{})
	s.after = func(time.Duration) <-chan time.Time {
		// Never fires: cancellation is the only way out of the wait.
		return make(chan time.Time)
	}

	_, err := s.Start(ctx, Project{ID: "p1", Name: "demo"}, sheetWithEligible(1, 2), 1)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.Report().State == RunWaiting
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	r := waitDone(t, s)
	require.Equal(t, []int{1}, d.dispatched())
	require.Equal(t, 1, r.Dispatched)
}
