// Package bulk runs Discord-sourced batch jobs: a list of items, each
// pointing at Discord messages whose attachments become one n8n job,
// forwarded one per interval. Jobs live in an in-memory registry and can
// be polled and cancelled while running.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"greenroom.tools/console/pkg/discord"
	"greenroom.tools/console/pkg/n8n"
)

var (
	ErrJobNotFound = errors.New("bulk job not found")
	ErrNoItems     = errors.New("bulk job has no items")
	ErrNotRunning  = errors.New("bulk job is not running")
)

type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusCancelled JobStatus = "cancelled"
)

// Target selects which n8n webhook receives the extracted jobs.
type Target string

const (
	TargetSubmit Target = "submit"
	TargetNocap  Target = "nocap"
)

// Item is one unit of work: a display name plus the Discord messages
// holding its media.
type Item struct {
	User       string  `json:"user"`
	ImagesLink string  `json:"images_link"`
	AudiosLink string  `json:"audios_link"`
	AudioSpeed float64 `json:"aud_speed,omitempty"`
}

// ItemOutcome records how one item went.
type ItemOutcome struct {
	User        string     `json:"user"`
	Dispatched  bool       `json:"dispatched"`
	Error       string     `json:"error,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// JobReport is a point-in-time snapshot of a job.
type JobReport struct {
	ID              uuid.UUID     `json:"id"`
	Status          JobStatus     `json:"status"`
	Target          Target        `json:"target"`
	IntervalMinutes int           `json:"interval_minutes"`
	TotalItems      int           `json:"total_items"`
	Dispatched      int           `json:"dispatched"`
	Failed          int           `json:"failed"`
	Outcomes        []ItemOutcome `json:"outcomes"`
	CreatedAt       time.Time     `json:"created_at"`
	FinishedAt      *time.Time    `json:"finished_at,omitempty"`
}

type job struct {
	mu     sync.Mutex
	report JobReport
	items  []Item
	cancel context.CancelFunc
}

// MediaSource resolves Discord message links into attachment lists.
type MediaSource interface {
	MessageAttachments(ctx context.Context, messageLink string) (discord.Attachments, error)
}

// Forwarder posts extracted jobs to n8n.
type Forwarder interface {
	SubmitJob(ctx context.Context, p n8n.SubmitJobPayload) error
	NocapJob(ctx context.Context, p n8n.NocapJobPayload) error
}

// Registry owns all bulk jobs for the process lifetime.
type Registry struct {
	mu    sync.Mutex
	jobs  map[uuid.UUID]*job
	media MediaSource
	n8n   Forwarder
	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

func NewRegistry(media MediaSource, forwarder Forwarder) *Registry {
	return &Registry{
		jobs:  make(map[uuid.UUID]*job),
		media: media,
		n8n:   forwarder,
		now:   time.Now,
		after: func(d time.Duration) <-chan time.Time { return time.After(d) },
	}
}

// Start registers a new job and launches its runner goroutine.
func (r *Registry) Start(ctx context.Context, target Target, items []Item, intervalMinutes int) (uuid.UUID, error) {
	if len(items) == 0 {
		return uuid.Nil, ErrNoItems
	}
	switch target {
	case TargetSubmit, TargetNocap:
	default:
		return uuid.Nil, fmt.Errorf("unknown bulk target %q", target)
	}
	if intervalMinutes < 0 {
		intervalMinutes = 0
	}

	runCtx, cancel := context.WithCancel(ctx)
	j := &job{
		items:  items,
		cancel: cancel,
		report: JobReport{
			ID:              uuid.New(),
			Status:          StatusPending,
			Target:          target,
			IntervalMinutes: intervalMinutes,
			TotalItems:      len(items),
			Outcomes:        make([]ItemOutcome, 0, len(items)),
			CreatedAt:       r.now(),
		},
	}

	r.mu.Lock()
	r.jobs[j.report.ID] = j
	r.mu.Unlock()

	go r.run(runCtx, j)
	return j.report.ID, nil
}

// Report returns a snapshot of the job's progress.
func (r *Registry) Report(id uuid.UUID) (JobReport, error) {
	r.mu.Lock()
	j, ok := r.jobs[id]
	r.mu.Unlock()
	if !ok {
		return JobReport{}, ErrJobNotFound
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	snapshot := j.report
	snapshot.Outcomes = append([]ItemOutcome(nil), j.report.Outcomes...)
	return snapshot, nil
}

// Cancel stops a pending or running job.
func (r *Registry) Cancel(id uuid.UUID) error {
	r.mu.Lock()
	j, ok := r.jobs[id]
	r.mu.Unlock()
	if !ok {
		return ErrJobNotFound
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	switch j.report.Status {
	case StatusPending, StatusRunning:
		j.cancel()
		j.report.Status = StatusCancelled
		now := r.now()
		j.report.FinishedAt = &now
		return nil
	default:
		return ErrNotRunning
	}
}

func (r *Registry) run(ctx context.Context, j *job) {
	j.mu.Lock()
	if j.report.Status != StatusPending {
		j.mu.Unlock()
		return
	}
	j.report.Status = StatusRunning
	target := j.report.Target
	interval := time.Duration(j.report.IntervalMinutes) * time.Minute
	j.mu.Unlock()

	for i, item := range j.items {
		if ctx.Err() != nil {
			return
		}

		err := r.dispatchItem(ctx, target, item)
		r.recordOutcome(j, item, err)
		if err != nil {
			slog.Error("bulk item failed", "job_id", j.report.ID, "user", item.User, "error", err)
		} else {
			slog.Info("bulk item forwarded", "job_id", j.report.ID, "user", item.User)
		}

		if interval > 0 && i < len(j.items)-1 {
			select {
			case <-ctx.Done():
				return
			case <-r.after(interval):
			}
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.report.Status == StatusRunning {
		j.report.Status = StatusCompleted
		now := r.now()
		j.report.FinishedAt = &now
	}
}

func (r *Registry) dispatchItem(ctx context.Context, target Target, item Item) error {
	images, err := r.media.MessageAttachments(ctx, item.ImagesLink)
	if err != nil {
		return fmt.Errorf("fetch images message: %w", err)
	}
	audios, err := r.media.MessageAttachments(ctx, item.AudiosLink)
	if err != nil {
		return fmt.Errorf("fetch audios message: %w", err)
	}

	switch target {
	case TargetNocap:
		return r.n8n.NocapJob(ctx, n8n.NocapJobPayload{
			User:   item.User,
			Images: images.Images,
			Audios: audios.Audios,
		})
	default:
		return r.n8n.SubmitJob(ctx, n8n.SubmitJobPayload{
			User:       item.User,
			Images:     images.Images,
			Audios:     audios.Audios,
			AudioSpeed: item.AudioSpeed,
		})
	}
}

func (r *Registry) recordOutcome(j *job, item Item, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := r.now()
	outcome := ItemOutcome{User: item.User, CompletedAt: &now}
	if err != nil {
		outcome.Error = err.Error()
		j.report.Failed++
	} else {
		outcome.Dispatched = true
		j.report.Dispatched++
	}
	j.report.Outcomes = append(j.report.Outcomes, outcome)
}
