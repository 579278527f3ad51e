package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/FumoBot_Go/internal/logger"
)

type retryEntry struct {
	event     Event
	attempt   int
	lastErr   error
	nextRetry time.Time
}

// ResilientPublisher wraps a Bus with asynchronous exponential-backoff retries.
// Events that exhaust their retries, or arrive while the queue is full, go to the dead-letter file.
type ResilientPublisher struct {
	bus          Bus
	retryQueue   chan retryEntry
	maxRetries   int
	retryDelay   time.Duration
	deadLetter   *DeadLetterWriter
	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

var _ Bus = (*ResilientPublisher)(nil)

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}
	rp.wg.Add(1)
	go rp.retryWorker()
	return rp, nil
}

// Publish implements Bus. Failures are retried in the background and never reach the caller.
func (rp *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	rp.PublishWithRetry(ctx, event)
	return nil
}

// Subscribe delegates to the wrapped bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

// PublishWithRetry publishes once synchronously and queues a retry on failure
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := rp.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)
	rp.enqueue(retryEntry{
		event:     event,
		attempt:   1,
		lastErr:   err,
		nextRetry: time.Now().Add(CalculateRetryDelay(rp.retryDelay, 1)),
	})
}

func (rp *ResilientPublisher) enqueue(e retryEntry) {
	select {
	case rp.retryQueue <- e:
	default:
		logger.Warn(LogMsgRetryQueueFull, "event_type", e.event.Type)
		rp.writeDeadLetter(e)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		select {
		case <-rp.shutdown:
			rp.drain()
			return
		case e := <-rp.retryQueue:
			if !rp.waitUntil(e.nextRetry) {
				rp.retry(e, true)
				rp.drain()
				return
			}
			rp.retry(e, false)
		}
	}
}

// waitUntil sleeps until t and reports false if shutdown started first
func (rp *ResilientPublisher) waitUntil(t time.Time) bool {
	d := time.Until(t)
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-rp.shutdown:
		return false
	}
}

func (rp *ResilientPublisher) retry(e retryEntry, final bool) {
	err := rp.bus.Publish(context.Background(), e.event)
	if err == nil {
		logger.Info(LogMsgEventRetrySucceeded, "event_type", e.event.Type, "attempt", e.attempt)
		return
	}

	e.lastErr = err
	if final || e.attempt >= rp.maxRetries {
		logger.Warn(LogMsgEventRetryExhausted, "event_type", e.event.Type, "attempts", e.attempt)
		rp.writeDeadLetter(e)
		return
	}

	e.attempt++
	e.nextRetry = time.Now().Add(CalculateRetryDelay(rp.retryDelay, e.attempt))
	logger.Debug(LogMsgEventRetryFailed, "event_type", e.event.Type, "attempt", e.attempt, "error", err)
	rp.enqueue(e)
}

// drain makes one last attempt for everything still queued
func (rp *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case e := <-rp.retryQueue:
			rp.retry(e, true)
			drained++
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (rp *ResilientPublisher) writeDeadLetter(e retryEntry) {
	if rp.deadLetter == nil {
		return
	}
	if err := rp.deadLetter.Write(e.event, e.attempt, e.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", e.event.Type, "error", err)
	}
}

// Shutdown stops the worker after draining the queue, or when ctx expires
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.shutdownOnce.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}

	if rp.deadLetter != nil {
		return rp.deadLetter.Close()
	}
	return nil
}
