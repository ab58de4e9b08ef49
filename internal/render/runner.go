package render

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"shaqyru-backend/internal/canva"
)

// DefaultPollInterval matches the fixed 10-second tick of the original flow.
const DefaultPollInterval = 10 * time.Second

// DesignAPI is the slice of the Canva client the runner needs. Satisfied
// by *canva.Client.
type DesignAPI interface {
	CreateAutofill(ctx context.Context, req canva.AutofillRequest) (string, error)
	GetAutofillStatus(ctx context.Context, jobID string) (*canva.AutofillStatus, error)
	CreateExport(ctx context.Context, req canva.ExportRequest) (string, error)
	GetExportStatus(ctx context.Context, jobID string) (*canva.ExportStatus, error)
}

// Store persists the machine snapshot after every transition.
type Store interface {
	UpdateRenderState(renderID uuid.UUID, snap Snapshot) error
}

// EventPublisher pushes snapshot changes to subscribers (Redis pub/sub).
type EventPublisher interface {
	PublishRenderEvent(ctx context.Context, renderID uuid.UUID, snap Snapshot) error
}

type Runner struct {
	api      DesignAPI
	store    Store
	events   EventPublisher
	interval time.Duration
	logger   *log.Logger
}

func NewRunner(api DesignAPI, store Store, events EventPublisher, interval time.Duration, logger *log.Logger) *Runner {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		api:      api,
		store:    store,
		events:   events,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the full autofill-then-export flow in the background and
// returns immediately. Cancelling ctx stops all polling; a cancelled run
// persists nothing further and issues no further requests.
func (r *Runner) Start(ctx context.Context, renderID uuid.UUID, req canva.AutofillRequest, exportReq canva.ExportRequest) {
	go r.run(ctx, renderID, req, exportReq)
}

// Run executes the flow synchronously and returns the final snapshot. The
// export job is only ever created after an autofill poll has observed
// "success", and uses exactly the design id from that response. The two
// polling loops never overlap: the export loop starts strictly after the
// autofill loop has stopped.
func (r *Runner) Run(ctx context.Context, renderID uuid.UUID, req canva.AutofillRequest, exportReq canva.ExportRequest) Snapshot {
	snap := NewSnapshot(exportReq.DesignType)
	snap.State = StateSubmitting
	r.persist(ctx, renderID, snap)

	// Submits are retried; polling never is.
	var jobID string
	err := canva.RetryWithBackoff(func() error {
		var err error
		jobID, err = r.api.CreateAutofill(ctx, req)
		return err
	}, 3)
	if err != nil {
		if ctx.Err() != nil {
			return snap
		}
		snap = Transition(snap, Event{Type: EventTransportError, Message: err.Error()})
		r.persist(ctx, renderID, snap)
		return snap
	}

	snap = Transition(snap, Event{Type: EventAutofillSubmitted, JobID: jobID})
	r.persist(ctx, renderID, snap)
	r.logger.Printf("[RENDER %s] autofill job %s submitted", renderID, jobID)

	snap, ok := r.pollAutofill(ctx, renderID, snap)
	if !ok || snap.State != StateSuccess {
		return snap
	}

	exportReq.DesignID = snap.DesignID
	var exportID string
	err = canva.RetryWithBackoff(func() error {
		var err error
		exportID, err = r.api.CreateExport(ctx, exportReq)
		return err
	}, 3)
	if err != nil {
		if ctx.Err() != nil {
			return snap
		}
		snap = Transition(snap, Event{Type: EventTransportError, Message: err.Error()})
		r.persist(ctx, renderID, snap)
		return snap
	}

	snap = Transition(snap, Event{Type: EventExportSubmitted, JobID: exportID})
	r.persist(ctx, renderID, snap)
	r.logger.Printf("[RENDER %s] export job %s submitted for design %s", renderID, exportID, snap.DesignID)

	snap, _ = r.pollExport(ctx, renderID, snap)
	return snap
}

func (r *Runner) run(ctx context.Context, renderID uuid.UUID, req canva.AutofillRequest, exportReq canva.ExportRequest) {
	snap := r.Run(ctx, renderID, req, exportReq)
	if ctx.Err() != nil {
		r.logger.Printf("[RENDER %s] cancelled in phase %s", renderID, snap.Phase)
		return
	}
	if snap.State == StateFailed {
		r.logger.Printf("[RENDER %s] failed: %s", renderID, snap.Err)
		return
	}
	r.logger.Printf("[RENDER %s] completed, %d url(s)", renderID, len(snap.URLs))
}

// pollAutofill ticks until the autofill job reaches a terminal state or
// ctx is cancelled. The second return value is false when the loop was
// torn down by cancellation.
func (r *Runner) pollAutofill(ctx context.Context, renderID uuid.UUID, snap Snapshot) (Snapshot, bool) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return snap, false
		case <-ticker.C:
		}

		status, err := r.api.GetAutofillStatus(ctx, snap.AutofillJobID)
		if err != nil {
			if ctx.Err() != nil {
				return snap, false
			}
			snap = Transition(snap, Event{Type: EventTransportError, Message: err.Error()})
			r.persist(ctx, renderID, snap)
			return snap, true
		}

		next := Transition(snap, Event{
			Type:      EventAutofillStatus,
			Status:    status.Status,
			Message:   status.Message,
			DesignID:  status.DesignID,
			ViewURL:   status.ViewURL,
			EditURL:   status.EditURL,
			Thumbnail: status.Thumbnail,
		})
		if next.State != snap.State || next.DesignID != snap.DesignID {
			snap = next
			r.persist(ctx, renderID, snap)
		}
		if snap.State == StateSuccess || snap.State == StateFailed {
			return snap, true
		}
	}
}

func (r *Runner) pollExport(ctx context.Context, renderID uuid.UUID, snap Snapshot) (Snapshot, bool) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return snap, false
		case <-ticker.C:
		}

		status, err := r.api.GetExportStatus(ctx, snap.ExportJobID)
		if err != nil {
			if ctx.Err() != nil {
				return snap, false
			}
			snap = Transition(snap, Event{Type: EventTransportError, Message: err.Error()})
			r.persist(ctx, renderID, snap)
			return snap, true
		}

		next := Transition(snap, Event{
			Type:    EventExportStatus,
			Status:  status.Status,
			Message: status.Message,
			URLs:    status.URLs,
		})
		if next.State != snap.State {
			snap = next
			r.persist(ctx, renderID, snap)
		}
		if snap.State == StateSuccess || snap.State == StateFailed {
			return snap, true
		}
	}
}

func (r *Runner) persist(ctx context.Context, renderID uuid.UUID, snap Snapshot) {
	if r.store != nil {
		if err := r.store.UpdateRenderState(renderID, snap); err != nil {
			r.logger.Printf("[RENDER %s] failed to persist state: %v", renderID, err)
		}
	}
	if r.events != nil {
		if err := r.events.PublishRenderEvent(ctx, renderID, snap); err != nil {
			r.logger.Printf("[RENDER %s] failed to publish event: %v", renderID, err)
		}
	}
}
