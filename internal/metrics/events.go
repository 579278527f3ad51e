package metrics

import (
	"context"
	"strconv"

	"github.com/osse101/FumoBot_Go/internal/event"
	"github.com/osse101/FumoBot_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.RollCompleted,
		event.RollFailed,
		event.BoostGranted,
		event.BoostsPruned,
		event.AutoRollStarted,
		event.AutoRollStopped,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.RollCompleted:
		var p event.RollCompletedPayloadV1
		if p, err = event.DecodePayload[event.RollCompletedPayloadV1](evt.Payload); err == nil {
			auto, _ := evt.GetMetadataValue(event.MetadataKeyAutoRoll).(bool)
			RollTransactions.WithLabelValues(strconv.FormatBool(auto), strconv.FormatBool(p.Partial)).Inc()
			for rarity, n := range p.Rarities {
				FumosRolled.WithLabelValues(string(rarity)).Add(float64(n))
			}
			for _, rarity := range p.PityTriggers {
				PityTriggers.WithLabelValues(string(rarity)).Inc()
			}
			CoinsSpent.Add(float64(p.CoinsSpent))
		}

	case event.RollFailed:
		var p event.RollFailedPayloadV1
		if p, err = event.DecodePayload[event.RollFailedPayloadV1](evt.Payload); err == nil {
			RollFailures.WithLabelValues(string(p.Kind)).Inc()
			CoinsRefunded.Add(float64(p.Refunded))
		}

	case event.BoostGranted:
		var p event.BoostGrantedPayloadV1
		if p, err = event.DecodePayload[event.BoostGrantedPayloadV1](evt.Payload); err == nil {
			BoostsGranted.WithLabelValues(string(p.Kind)).Inc()
		}

	case event.BoostsPruned:
		var p event.BoostsPrunedPayloadV1
		if p, err = event.DecodePayload[event.BoostsPrunedPayloadV1](evt.Payload); err == nil {
			BoostsPruned.Add(float64(p.Deleted))
		}

	case event.AutoRollStarted:
		AutoRollSessions.Inc()

	case event.AutoRollStopped:
		AutoRollSessions.Dec()
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
