package recording

import "time"

// State is the pipeline's top-level state.
type State string

const (
	Idle       State = "idle"
	Recording  State = "recording"
	Processing State = "processing"
	Done       State = "done"
)

// Phase refines Processing (transcribing, delivering) and Done (success,
// failure).
type Phase string

const (
	PhaseNone         Phase = ""
	PhaseTranscribing Phase = "transcribing"
	PhaseDelivering   Phase = "delivering"
	PhaseSuccess      Phase = "success"
	PhaseFailure      Phase = "failure"
)

// DeliveryStatus is the webhook outcome for the current transcript.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySuccess DeliveryStatus = "success"
	DeliveryFailure DeliveryStatus = "failure"
)

// User-facing messages.
const (
	MessageTranscriptionFailed = "Transcription failed, try again."
	MessageDelivered           = "Your document has been generated and sent to your email"
	MessageDeliveryFailed      = "Failed to send your request for processing"
)

// Delivery is the result of forwarding the transcript.
type Delivery struct {
	Status  DeliveryStatus `json:"status"`
	Message string         `json:"message,omitempty"`
}

// Snapshot is the observable pipeline state. It is published to subscribers
// on every transition.
type Snapshot struct {
	CycleID    string     `json:"cycleId,omitempty"`
	State      State      `json:"state"`
	Phase      Phase      `json:"phase,omitempty"`
	Transcript string     `json:"transcript,omitempty"`
	Delivery   *Delivery  `json:"delivery,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Chunks     int        `json:"chunks"`
}

// Terminal reports whether the snapshot is Done.
func (s Snapshot) Terminal() bool { return s.State == Done }

// Succeeded reports whether the cycle finished with a delivered transcript.
func (s Snapshot) Succeeded() bool { return s.State == Done && s.Phase == PhaseSuccess }

func (s Snapshot) clone() Snapshot {
	if s.Delivery != nil {
		d := *s.Delivery
		s.Delivery = &d
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		s.StartedAt = &t
	}
	return s
}
