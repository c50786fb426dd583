package longform

import (
	"errors"
	"sync"
	"time"
)

// ErrLockHeld is returned by Lock.Acquire while an unexpired lock exists.
var ErrLockHeld = errors.New("job already in progress")

// Lock is the process-wide mutual-exclusion flag guarding the long-running
// generate and compile actions. Locks end by expiry only: there is no
// release operation, and expired state is cleared lazily the next time the
// lock is read rather than by a background timer.
type Lock struct {
	mu     sync.Mutex
	active bool
	endsAt time.Time
	reason string

	// now is swapped in tests.
	now func() time.Time
}

func NewLock() *Lock {
	return &Lock{now: time.Now}
}

// LockStatus is the externally visible lock state.
type LockStatus struct {
	Active bool       `json:"active"`
	EndsAt *time.Time `json:"ends_at"`
	Reason string     `json:"reason,omitempty"`
}

// Acquire atomically claims the lock for d. On conflict it returns the
// current holder's expiry alongside ErrLockHeld; the held lock is never
// altered by a losing acquire.
func (l *Lock) Acquire(d time.Duration, reason string) (time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.active && now.Before(l.endsAt) {
		return l.endsAt, ErrLockHeld
	}

	l.active = true
	l.endsAt = now.Add(d)
	l.reason = reason
	return l.endsAt, nil
}

// Status reports the lock state, expiring it first if ends_at has passed.
func (l *Lock) Status() LockStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active && !l.now().Before(l.endsAt) {
		l.active = false
		l.endsAt = time.Time{}
		l.reason = ""
	}

	if !l.active {
		return LockStatus{}
	}
	endsAt := l.endsAt
	return LockStatus{Active: true, EndsAt: &endsAt, Reason: l.reason}
}
