package autoroll

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/FumoBot_Go/internal/domain"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name      string
		from      State
		event     Event
		wantState State
		wantOut   []Output
	}{
		{"start", StateIdle, Event{Type: EventStarted}, StateRunning, []Output{{Kind: OutputStarted}}},
		{"batch completes", StateRunning, Event{Type: EventBatchCompleted}, StateRunning, []Output{{Kind: OutputProgress}}},
		{
			"batch fails", StateRunning,
			Event{Type: EventBatchFailed, FailureKind: domain.RollErrInsufficientCoins},
			StateStopped,
			[]Output{{Kind: OutputStopped, Reason: ReasonFailed, FailureKind: domain.RollErrInsufficientCoins}},
		},
		{"user stop", StateRunning, Event{Type: EventStopRequested}, StateStopped, []Output{{Kind: OutputStopped, Reason: ReasonUser}}},
		{"shutdown", StateRunning, Event{Type: EventShutdown}, StateStopped, []Output{{Kind: OutputStopped, Reason: ReasonShutdown}}},
		{"stop before start", StateIdle, Event{Type: EventStopRequested}, StateStopped, nil},
		{"batch before start ignored", StateIdle, Event{Type: EventBatchCompleted}, StateIdle, nil},
		{"stopped is terminal", StateStopped, Event{Type: EventStarted}, StateStopped, nil},
		{"double start ignored", StateRunning, Event{Type: EventStarted}, StateRunning, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, out := Transition(tt.from, tt.event)
			assert.Equal(t, tt.wantState, got)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}
