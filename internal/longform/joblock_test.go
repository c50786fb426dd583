package longform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func lockAt(t0 time.Time) (*Lock, *time.Time) {
	now := t0
	l := NewLock()
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLock_AcquireAndStatus(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, _ := lockAt(t0)

	endsAt, err := l.Acquire(60*time.Second, LockReasonGenerate)
	require.NoError(t, err)
	require.Equal(t, t0.Add(60*time.Second), endsAt)

	st := l.Status()
	require.True(t, st.Active)
	require.NotNil(t, st.EndsAt)
	require.Equal(t, endsAt, *st.EndsAt)
	require.Equal(t, LockReasonGenerate, st.Reason)
}

func TestLock_ConflictLeavesHolderUntouched(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, now := lockAt(t0)

	first, err := l.Acquire(120*time.Second, LockReasonGenerate)
	require.NoError(t, err)

	*now = t0.Add(30 * time.Second)
	held, err := l.Acquire(600*time.Second, LockReasonCompile)
	require.ErrorIs(t, err, ErrLockHeld)
	require.Equal(t, first, held)

	st := l.Status()
	require.True(t, st.Active)
	require.Equal(t, first, *st.EndsAt)
	require.Equal(t, LockReasonGenerate, st.Reason)
}

func TestLock_LazyExpiryClearsState(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, now := lockAt(t0)

	_, err := l.Acquire(60*time.Second, LockReasonCompile)
	require.NoError(t, err)

	// Polled at t+61s: inactive, state cleared as a side effect of the read.
	*now = t0.Add(61 * time.Second)
	st := l.Status()
	require.False(t, st.Active)
	require.Nil(t, st.EndsAt)
	require.Empty(t, st.Reason)

	// A fresh acquire now succeeds.
	_, err = l.Acquire(10*time.Second, LockReasonGenerate)
	require.NoError(t, err)
}

func TestLock_AcquireAfterExpiryWithoutStatusRead(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, now := lockAt(t0)

	_, err := l.Acquire(30*time.Second, LockReasonGenerate)
	require.NoError(t, err)

	*now = t0.Add(31 * time.Second)
	endsAt, err := l.Acquire(30*time.Second, LockReasonCompile)
	require.NoError(t, err)
	require.Equal(t, now.Add(30*time.Second), endsAt)
}
