package autoroll

import "github.com/osse101/FumoBot_Go/internal/domain"

// State is the lifecycle position of a session.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// EventType drives the session lifecycle.
type EventType string

const (
	EventStarted        EventType = "started"
	EventBatchCompleted EventType = "batch_completed"
	EventBatchFailed    EventType = "batch_failed"
	EventStopRequested  EventType = "stop_requested"
	EventShutdown       EventType = "shutdown"
)

// Event is one lifecycle input. FailureKind is set for EventBatchFailed.
type Event struct {
	Type        EventType
	FailureKind domain.RollErrorKind
}

// StopReason explains why a session ended.
type StopReason string

const (
	ReasonNone     StopReason = ""
	ReasonUser     StopReason = "user"
	ReasonFailed   StopReason = "failed"
	ReasonShutdown StopReason = "shutdown"
)

// OutputKind is a notification the presentation layer should show.
type OutputKind string

const (
	OutputStarted  OutputKind = "started"
	OutputProgress OutputKind = "progress"
	OutputStopped  OutputKind = "stopped"
)

// Output is produced by Transition.
type Output struct {
	Kind        OutputKind
	Reason      StopReason
	FailureKind domain.RollErrorKind
}

// Transition is the session state machine. It is pure: the caller applies the
// new state and delivers the outputs. Unknown combinations leave the state as is.
func Transition(s State, ev Event) (State, []Output) {
	switch s {
	case StateIdle:
		switch ev.Type {
		case EventStarted:
			return StateRunning, []Output{{Kind: OutputStarted}}
		case EventStopRequested, EventShutdown:
			return StateStopped, nil
		}

	case StateRunning:
		switch ev.Type {
		case EventBatchCompleted:
			return StateRunning, []Output{{Kind: OutputProgress}}
		case EventBatchFailed:
			return StateStopped, []Output{{Kind: OutputStopped, Reason: ReasonFailed, FailureKind: ev.FailureKind}}
		case EventStopRequested:
			return StateStopped, []Output{{Kind: OutputStopped, Reason: ReasonUser}}
		case EventShutdown:
			return StateStopped, []Output{{Kind: OutputStopped, Reason: ReasonShutdown}}
		}
	}
	return s, nil
}
