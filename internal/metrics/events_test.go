package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/event"
)

func TestEventMetricsCollector_RollCompleted(t *testing.T) {
	bus := event.NewMemoryBus()
	require.NoError(t, NewEventMetricsCollector().Register(bus))

	epicBefore := testutil.ToFloat64(FumosRolled.WithLabelValues(string(domain.RarityEpic)))
	pityBefore := testutil.ToFloat64(PityTriggers.WithLabelValues(string(domain.RarityAstral)))
	txBefore := testutil.ToFloat64(RollTransactions.WithLabelValues("true", "false"))

	err := bus.Publish(context.Background(), event.NewRollCompletedEvent(event.RollCompletedPayloadV1{
		UserID:       "u1",
		Credited:     3,
		CoinsSpent:   300,
		Rarities:     map[domain.Rarity]int{domain.RarityEpic: 2, domain.RarityAstral: 1},
		PityTriggers: []domain.Rarity{domain.RarityAstral},
	}, true))

	require.NoError(t, err)
	assert.Equal(t, epicBefore+2, testutil.ToFloat64(FumosRolled.WithLabelValues(string(domain.RarityEpic))))
	assert.Equal(t, pityBefore+1, testutil.ToFloat64(PityTriggers.WithLabelValues(string(domain.RarityAstral))))
	assert.Equal(t, txBefore+1, testutil.ToFloat64(RollTransactions.WithLabelValues("true", "false")))
}

func TestEventMetricsCollector_RollFailed(t *testing.T) {
	bus := event.NewMemoryBus()
	require.NoError(t, NewEventMetricsCollector().Register(bus))

	before := testutil.ToFloat64(RollFailures.WithLabelValues(string(domain.RollErrNoFumoFound)))
	refundBefore := testutil.ToFloat64(CoinsRefunded)

	require.NoError(t, bus.Publish(context.Background(), event.NewRollFailedEvent("u1", domain.RollErrNoFumoFound, 100)))

	assert.Equal(t, before+1, testutil.ToFloat64(RollFailures.WithLabelValues(string(domain.RollErrNoFumoFound))))
	assert.Equal(t, refundBefore+100, testutil.ToFloat64(CoinsRefunded))
}

func TestEventMetricsCollector_AutoRollGauge(t *testing.T) {
	c := NewEventMetricsCollector()
	ctx := context.Background()
	before := testutil.ToFloat64(AutoRollSessions)

	require.NoError(t, c.HandleEvent(ctx, event.NewAutoRollEvent(event.AutoRollStarted, event.AutoRollPayloadV1{UserID: "u1"})))
	assert.Equal(t, before+1, testutil.ToFloat64(AutoRollSessions))

	require.NoError(t, c.HandleEvent(ctx, event.NewAutoRollEvent(event.AutoRollStopped, event.AutoRollPayloadV1{UserID: "u1"})))
	assert.Equal(t, before, testutil.ToFloat64(AutoRollSessions))
}

func TestEventMetricsCollector_BadPayload(t *testing.T) {
	before := testutil.ToFloat64(EventHandlerErrors.WithLabelValues(string(event.BoostGranted)))

	err := NewEventMetricsCollector().HandleEvent(context.Background(), event.Event{Type: event.BoostGranted, Payload: "not a payload"})

	assert.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(EventHandlerErrors.WithLabelValues(string(event.BoostGranted))))
}
