package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shaqyru-backend/internal/render"
)

func TestTransition_AutofillHappyPath(t *testing.T) {
	snap := render.NewSnapshot("pdf")
	assert.Equal(t, render.PhaseAutofill, snap.Phase)
	assert.Equal(t, render.StateIdle, snap.State)

	snap = render.Transition(snap, render.Event{Type: render.EventAutofillSubmitted, JobID: "job-1"})
	assert.Equal(t, render.StatePolling, snap.State)
	assert.Equal(t, "job-1", snap.AutofillJobID)

	// In-progress polls keep the snapshot unchanged.
	next := render.Transition(snap, render.Event{Type: render.EventAutofillStatus, Status: "in_progress"})
	assert.Equal(t, snap, next)

	snap = render.Transition(snap, render.Event{
		Type:     render.EventAutofillStatus,
		Status:   "success",
		DesignID: "design-1",
		ViewURL:  "https://example.com/view",
	})
	assert.Equal(t, render.StateSuccess, snap.State)
	assert.Equal(t, "design-1", snap.DesignID)
	assert.False(t, snap.Terminal())
}

func TestTransition_AutofillSuccessWithoutDesignIDFails(t *testing.T) {
	snap := render.NewSnapshot("pdf")
	snap = render.Transition(snap, render.Event{Type: render.EventAutofillSubmitted, JobID: "job-1"})
	snap = render.Transition(snap, render.Event{Type: render.EventAutofillStatus, Status: "success"})

	assert.Equal(t, render.StateFailed, snap.State)
	assert.Equal(t, render.ErrDesignIDMissing, snap.Err)
	assert.True(t, snap.Terminal())
}

func TestTransition_ExportOnlyAfterAutofillSuccess(t *testing.T) {
	snap := render.NewSnapshot("pdf")
	snap = render.Transition(snap, render.Event{Type: render.EventAutofillSubmitted, JobID: "job-1"})

	// An export submission while autofill is still polling is ignored.
	next := render.Transition(snap, render.Event{Type: render.EventExportSubmitted, JobID: "exp-1"})
	assert.Equal(t, snap, next)
	assert.Equal(t, render.PhaseAutofill, next.Phase)

	snap = render.Transition(snap, render.Event{
		Type: render.EventAutofillStatus, Status: "success", DesignID: "design-1",
	})
	snap = render.Transition(snap, render.Event{Type: render.EventExportSubmitted, JobID: "exp-1"})
	assert.Equal(t, render.PhaseExport, snap.Phase)
	assert.Equal(t, render.StatePolling, snap.State)
	assert.Equal(t, "exp-1", snap.ExportJobID)
}

func TestTransition_ExportSuccessIsTerminal(t *testing.T) {
	snap := render.NewSnapshot("mp4")
	snap = render.Transition(snap, render.Event{Type: render.EventAutofillSubmitted, JobID: "job-1"})
	snap = render.Transition(snap, render.Event{Type: render.EventAutofillStatus, Status: "success", DesignID: "d1"})
	snap = render.Transition(snap, render.Event{Type: render.EventExportSubmitted, JobID: "exp-1"})
	snap = render.Transition(snap, render.Event{
		Type: render.EventExportStatus, Status: "success",
		URLs: []string{"https://example.com/out.mp4"},
	})

	assert.True(t, snap.Terminal())
	assert.Equal(t, []string{"https://example.com/out.mp4"}, snap.URLs)

	// Terminal snapshots ignore anything further.
	next := render.Transition(snap, render.Event{Type: render.EventExportStatus, Status: "error", Message: "late"})
	assert.Equal(t, snap, next)
}

func TestTransition_ErrorUsesServerMessageOrFallback(t *testing.T) {
	snap := render.NewSnapshot("pdf")
	snap = render.Transition(snap, render.Event{Type: render.EventAutofillSubmitted, JobID: "job-1"})

	withMsg := render.Transition(snap, render.Event{Type: render.EventAutofillStatus, Status: "error", Message: "template was deleted"})
	assert.Equal(t, render.StateFailed, withMsg.State)
	assert.Equal(t, "template was deleted", withMsg.Err)

	withoutMsg := render.Transition(snap, render.Event{Type: render.EventAutofillStatus, Status: "error"})
	assert.Equal(t, render.GenericFailure, withoutMsg.Err)
}

func TestTransition_UnknownStatusIsNoOp(t *testing.T) {
	snap := render.NewSnapshot("pdf")
	snap = render.Transition(snap, render.Event{Type: render.EventAutofillSubmitted, JobID: "job-1"})

	next := render.Transition(snap, render.Event{Type: render.EventAutofillStatus, Status: "queued"})
	assert.Equal(t, snap, next)
}
