package render

// The two-phase autofill/export flow is modeled as an explicit state
// machine. Transition is a pure function from a snapshot and an observed
// event to the next snapshot; the Runner owns the timers and network calls
// and feeds events in. Terminal snapshots never transition again.

type Phase string

const (
	PhaseAutofill Phase = "autofill"
	PhaseExport   Phase = "export"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StatePolling    State = "polling"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

// GenericFailure is surfaced when the upstream reports an error without a
// message of its own.
const GenericFailure = "rendering failed, please try again"

// ErrDesignIDMissing is surfaced when autofill succeeds without a design id.
const ErrDesignIDMissing = "design id not found"

// Snapshot is the full observable state of one render run.
type Snapshot struct {
	Phase Phase
	State State

	AutofillJobID string
	ExportJobID   string

	DesignID   string
	DesignType string
	ViewURL    string
	EditURL    string
	Thumbnail  string
	URLs       []string

	Err string
}

// NewSnapshot is the initial state before anything has been submitted.
func NewSnapshot(designType string) Snapshot {
	if designType == "" {
		designType = "pdf"
	}
	return Snapshot{Phase: PhaseAutofill, State: StateIdle, DesignType: designType}
}

// Terminal reports whether no further transitions are possible.
func (s Snapshot) Terminal() bool {
	if s.State == StateFailed {
		return true
	}
	return s.Phase == PhaseExport && s.State == StateSuccess
}

type EventType string

const (
	EventAutofillSubmitted EventType = "autofill_submitted"
	EventAutofillStatus    EventType = "autofill_status"
	EventExportSubmitted   EventType = "export_submitted"
	EventExportStatus      EventType = "export_status"
	EventTransportError    EventType = "transport_error"
)

// Event is one observation fed into the machine: a job submission
// acknowledgement, a poll result, or a transport failure.
type Event struct {
	Type    EventType
	JobID   string
	Status  string // "in_progress", "success", "error"
	Message string

	DesignID  string
	ViewURL   string
	EditURL   string
	Thumbnail string
	URLs      []string
}

// Transition applies one event to a snapshot. Unknown poll statuses leave
// the snapshot unchanged so the loop keeps running; events against a
// terminal snapshot are ignored.
func Transition(s Snapshot, e Event) Snapshot {
	if s.Terminal() {
		return s
	}

	switch e.Type {
	case EventAutofillSubmitted:
		if s.Phase != PhaseAutofill {
			return s
		}
		s.State = StatePolling
		s.AutofillJobID = e.JobID
		return s

	case EventAutofillStatus:
		if s.Phase != PhaseAutofill || s.State != StatePolling {
			return s
		}
		switch e.Status {
		case "success":
			s.ViewURL = e.ViewURL
			s.EditURL = e.EditURL
			s.Thumbnail = e.Thumbnail
			if e.DesignID == "" {
				s.State = StateFailed
				s.Err = ErrDesignIDMissing
				return s
			}
			s.DesignID = e.DesignID
			s.State = StateSuccess
			return s
		case "error":
			s.State = StateFailed
			s.Err = failureMessage(e.Message)
			return s
		default:
			return s
		}

	case EventExportSubmitted:
		if s.Phase != PhaseAutofill || s.State != StateSuccess {
			return s
		}
		s.Phase = PhaseExport
		s.State = StatePolling
		s.ExportJobID = e.JobID
		return s

	case EventExportStatus:
		if s.Phase != PhaseExport || s.State != StatePolling {
			return s
		}
		switch e.Status {
		case "success":
			s.State = StateSuccess
			s.URLs = e.URLs
			return s
		case "error":
			s.State = StateFailed
			s.Err = failureMessage(e.Message)
			return s
		default:
			return s
		}

	case EventTransportError:
		s.State = StateFailed
		s.Err = failureMessage(e.Message)
		return s
	}

	return s
}

func failureMessage(msg string) string {
	if msg == "" {
		return GenericFailure
	}
	return msg
}
