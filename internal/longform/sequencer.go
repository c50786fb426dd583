package longform

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrNoEligibleRows is returned when a generate run is requested but no row
// qualifies for dispatch. The run is refused before the lock is touched.
var ErrNoEligibleRows = errors.New("no eligible rows to dispatch")

// lockBufferSeconds pads the requested lock duration past the final
// dispatch so the receiving system has time to finish the last row.
const lockBufferSeconds = 720

// CompileLockDuration is the span a compile action claims the job lock.
// A compile is a single external workflow, so the same tail buffer that
// covers a generate run's final row covers it.
const CompileLockDuration = lockBufferSeconds * time.Second

// LockReasonGenerate and LockReasonCompile identify the two actions that
// compete for the job lock.
const (
	LockReasonGenerate = "generate_remaining"
	LockReasonCompile  = "compile"
)

// LockDuration computes how long a generate run claims the job lock:
// one interval per gap between dispatches, plus the fixed buffer.
func LockDuration(intervalMinutes, rowCount int) time.Duration {
	gaps := rowCount - 1
	if gaps < 0 {
		gaps = 0
	}
	seconds := intervalMinutes*60*gaps + lockBufferSeconds
	return time.Duration(seconds) * time.Second
}

// Dispatcher delivers a single row's payload to the external endpoint.
// The endpoint is opaque: retries and rate limits are its problem.
type Dispatcher interface {
	DispatchRow(ctx context.Context, projectName string, row Row) error
}

// RowSaver persists a project's full row sheet.
type RowSaver interface {
	SaveRows(ctx context.Context, projectID string, rows []Row) error
}

type RunState string

const (
	RunIdle        RunState = "idle"
	RunDispatching RunState = "dispatching"
	RunWaiting     RunState = "waiting"
	RunDone        RunState = "done"
)

// RowOutcome records the result of one dispatch attempt. Failures are
// final: a failed row stays incomplete and is not retried within the run.
type RowOutcome struct {
	SerialNumber int    `json:"serial_number"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

// RunReport is a snapshot of the current or most recent generate run.
type RunReport struct {
	State         RunState     `json:"state"`
	ProjectID     string       `json:"project_id,omitempty"`
	ProjectName   string       `json:"project_name,omitempty"`
	CurrentSerial int          `json:"current_serial,omitempty"`
	WaitUntil     *time.Time   `json:"wait_until,omitempty"`
	Total         int          `json:"total"`
	Dispatched    int          `json:"dispatched"`
	Failed        int          `json:"failed"`
	Outcomes      []RowOutcome `json:"outcomes,omitempty"`
	StartedAt     *time.Time   `json:"started_at,omitempty"`
	FinishedAt    *time.Time   `json:"finished_at,omitempty"`
}

// Sequencer dispatches the eligible rows of one project strictly one at a
// time, sleeping a fixed interval between rows. A run claims the job lock
// for its whole precomputed span before the first dispatch; the lock, not
// the sequencer, arbitrates concurrent invocations.
type Sequencer struct {
	lock     *Lock
	dispatch Dispatcher
	saver    RowSaver

	mu     sync.Mutex
	report RunReport

	// after is swapped in tests.
	after func(time.Duration) <-chan time.Time
}

func NewSequencer(lock *Lock, dispatch Dispatcher, saver RowSaver) *Sequencer {
	return &Sequencer{
		lock:     lock,
		dispatch: dispatch,
		saver:    saver,
		report:   RunReport{State: RunIdle},
		after:    time.After,
	}
}

// Start validates the run, claims the job lock and kicks off the dispatch
// goroutine. ctx should outlive the request that triggered the run; runs
// keep going after the browser tab that started them is gone.
//
// On ErrLockHeld the returned time is the conflicting lock's expiry.
func (s *Sequencer) Start(ctx context.Context, project Project, rows []Row, intervalMinutes int) (time.Time, error) {
	// Eligibility is read off the normalized sheet so callers with stale
	// or duplicate serial numbers cannot address the wrong row later.
	sheet := PadRows(rows)
	eligible := EligibleRows(sheet)
	if len(eligible) == 0 {
		return time.Time{}, ErrNoEligibleRows
	}

	endsAt, err := s.lock.Acquire(LockDuration(intervalMinutes, len(eligible)), LockReasonGenerate)
	if err != nil {
		return endsAt, err
	}

	now := time.Now()
	s.mu.Lock()
	s.report = RunReport{
		State:       RunDispatching,
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Total:       len(eligible),
		StartedAt:   &now,
	}
	s.mu.Unlock()

	go s.run(ctx, project, sheet, eligible, time.Duration(intervalMinutes)*time.Minute)
	return endsAt, nil
}

// Report returns a copy of the run state for status polling.
func (s *Sequencer) Report() RunReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.report
	r.Outcomes = append([]RowOutcome(nil), s.report.Outcomes...)
	return r
}

func (s *Sequencer) run(ctx context.Context, project Project, sheet, eligible []Row, interval time.Duration) {
	slog.Info("generate run started", "project", project.Name, "rows", len(eligible), "interval", interval)

	for i, row := range eligible {
		s.setDispatching(row.SerialNumber)

		if err := s.dispatch.DispatchRow(ctx, project.Name, row); err != nil {
			// Failures are independent: report and move on.
			slog.Error("row dispatch failed", "project", project.Name, "serial", row.SerialNumber, "error", err)
			s.recordOutcome(row.SerialNumber, err)
		} else {
			sheet[row.SerialNumber-1].Status = RowComplete
			if err := s.saver.SaveRows(ctx, project.ID, sheet); err != nil {
				slog.Error("failed to persist row status", "project", project.Name, "serial", row.SerialNumber, "error", err)
			}
			s.recordOutcome(row.SerialNumber, nil)
		}

		if i < len(eligible)-1 && interval > 0 {
			until := time.Now().Add(interval)
			s.setWaiting(until)
			select {
			case <-ctx.Done():
				slog.Info("generate run abandoned", "project", project.Name)
				s.finish()
				return
			case <-s.after(interval):
			}
		}
	}

	// Persist the final sheet state even when the last dispatch failed.
	if err := s.saver.SaveRows(ctx, project.ID, sheet); err != nil {
		slog.Error("failed to persist final row sheet", "project", project.Name, "error", err)
	}

	s.finish()
	r := s.Report()
	slog.Info("generate run finished", "project", project.Name, "dispatched", r.Dispatched, "failed", r.Failed)
}

func (s *Sequencer) setDispatching(serial int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.State = RunDispatching
	s.report.CurrentSerial = serial
	s.report.WaitUntil = nil
}

func (s *Sequencer) setWaiting(until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.State = RunWaiting
	s.report.WaitUntil = &until
}

func (s *Sequencer) recordOutcome(serial int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := RowOutcome{SerialNumber: serial, Success: err == nil}
	if err != nil {
		out.Error = err.Error()
		s.report.Failed++
	} else {
		s.report.Dispatched++
	}
	s.report.Outcomes = append(s.report.Outcomes, out)
}

func (s *Sequencer) finish() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.State = RunDone
	s.report.CurrentSerial = 0
	s.report.WaitUntil = nil
	s.report.FinishedAt = &now
}
