// Package autoroll owns per-user auto-roll sessions: a loop of independent
// batch rolls that can be stopped between batches.
package autoroll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/FumoBot_Go/internal/catalog"
	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/event"
	"github.com/osse101/FumoBot_Go/internal/logger"
	"github.com/osse101/FumoBot_Go/internal/roll"
)

// Config tunes the manager. A zero Interval runs batches back to back.
type Config struct {
	BatchSize        int
	Interval         time.Duration
	SummaryTTL       time.Duration
	SummaryCacheSize int
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Interval < 0 {
		c.Interval = DefaultInterval
	}
	if c.SummaryTTL <= 0 {
		c.SummaryTTL = DefaultSummaryTTL
	}
	if c.SummaryCacheSize <= 0 {
		c.SummaryCacheSize = DefaultSummaryCacheSize
	}
	return c
}

// Options are per-session overrides. Zero values use the manager config.
type Options struct {
	BatchSize int
}

// Summary is the observable state of a session.
type Summary struct {
	SessionID     string                `json:"session_id"`
	UserID        string                `json:"user_id"`
	State         State                 `json:"state"`
	BatchSize     int                   `json:"batch_size"`
	Batches       int                   `json:"batches"`
	Rolls         int                   `json:"rolls"`
	CoinsSpent    int64                 `json:"coins_spent"`
	Rarities      map[domain.Rarity]int `json:"rarities"`
	Best          *domain.RollOutcome   `json:"best,omitempty"`
	StopRequested bool                  `json:"stop_requested,omitempty"`
	StopReason    StopReason            `json:"stop_reason,omitempty"`
	FailureKind   domain.RollErrorKind  `json:"failure_kind,omitempty"`
	StartedAt     time.Time             `json:"started_at"`
	StoppedAt     *time.Time            `json:"stopped_at,omitempty"`
}

func (s Summary) clone() Summary {
	out := s
	out.Rarities = make(map[domain.Rarity]int, len(s.Rarities))
	for k, v := range s.Rarities {
		out.Rarities[k] = v
	}
	if s.Best != nil {
		best := *s.Best
		out.Best = &best
	}
	return out
}

type session struct {
	mu      sync.Mutex
	summary Summary
	cancel  context.CancelCauseFunc
	done    chan struct{}
}

func (s *session) snapshot() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary.clone()
}

// Manager is the single owner of auto-roll sessions, at most one per user.
type Manager struct {
	roller    roll.Service
	presenter Presenter
	bus       event.Bus
	cfg       Config
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
	finished *expirable.LRU[string, Summary]
	wg       sync.WaitGroup
}

// NewManager creates a manager. A nil presenter logs notifications; a nil bus discards events.
func NewManager(roller roll.Service, presenter Presenter, bus event.Bus, cfg Config) *Manager {
	cfg = cfg.withDefaults()
	if presenter == nil {
		presenter = LogPresenter{}
	}
	if bus == nil {
		bus = event.NopBus{}
	}
	return &Manager{
		roller:    roller,
		presenter: presenter,
		bus:       bus,
		cfg:       cfg,
		now:       time.Now,
		sessions:  make(map[string]*session),
		finished:  expirable.NewLRU[string, Summary](cfg.SummaryCacheSize, nil, cfg.SummaryTTL),
	}
}

// Start launches a session for userID. The session outlives ctx; stop it with Stop or Shutdown.
func (m *Manager) Start(ctx context.Context, userID string, cat catalog.Provider, opts Options) (Summary, error) {
	if userID == "" || cat == nil {
		return Summary{}, fmt.Errorf("%w: user and catalog are required", domain.ErrInvalidInput)
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = m.cfg.BatchSize
	}
	if limit := m.roller.MaxBatchSize(); batchSize > limit {
		batchSize = limit
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Summary{}, ErrManagerClosed
	}
	if _, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return Summary{}, fmt.Errorf("%w: user %s", domain.ErrSessionActive, userID)
	}

	sessCtx, cancel := context.WithCancelCause(context.WithoutCancel(ctx))
	s := &session{
		summary: Summary{
			SessionID: uuid.New().String(),
			UserID:    userID,
			State:     StateIdle,
			BatchSize: batchSize,
			Rarities:  make(map[domain.Rarity]int),
			StartedAt: m.now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.sessions[userID] = s
	m.finished.Remove(userID)
	m.wg.Add(1)
	m.mu.Unlock()

	m.apply(sessCtx, s, Event{Type: EventStarted})
	m.publish(sessCtx, event.AutoRollStarted, s.snapshot())
	logger.FromContext(ctx).Info(LogMsgSessionStarted, "user_id", userID, "session_id", s.summary.SessionID, "batch_size", batchSize)

	go m.run(sessCtx, s, cat)
	return s.snapshot(), nil
}

// Stop asks the user's session to end after its current batch.
func (m *Manager) Stop(userID string) (Summary, error) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return Summary{}, fmt.Errorf("%w: user %s", domain.ErrSessionNotFound, userID)
	}

	s.mu.Lock()
	s.summary.StopRequested = true
	s.mu.Unlock()
	s.cancel(errStopRequested)
	return s.snapshot(), nil
}

// Wait blocks until the user's running session has finished or ctx is done.
func (m *Manager) Wait(ctx context.Context, userID string) error {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the running session, or the summary of a recently stopped one.
func (m *Manager) Status(userID string) (Summary, error) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	m.mu.Unlock()
	if ok {
		return s.snapshot(), nil
	}
	if sum, ok := m.finished.Get(userID); ok {
		return sum.clone(), nil
	}
	return Summary{}, fmt.Errorf("%w: user %s", domain.ErrSessionNotFound, userID)
}

// Active returns the number of running sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown stops every session and waits for their current batches to finish.
func (m *Manager) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgShuttingDown)

	m.mu.Lock()
	m.closed = true
	for _, s := range m.sessions {
		s.cancel(errShutdown)
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgShutdownDone)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgShutdownForced)
		return ctx.Err()
	}
}

// run is the session loop. Cancellation is observed only between batches;
// a batch in flight always runs to completion.
func (m *Manager) run(ctx context.Context, s *session, cat catalog.Provider) {
	defer m.wg.Done()
	defer close(s.done)
	defer m.finish(ctx, s)

	var timer *time.Timer
	for {
		if ctx.Err() != nil {
			m.apply(ctx, s, m.stopEvent(ctx))
			return
		}

		res, err := m.roller.RollBatch(context.WithoutCancel(ctx), s.summary.UserID, cat, s.summary.BatchSize, true)
		if err != nil {
			kind := domain.RollErrRollFailed
			var rollErr *domain.RollError
			if errors.As(err, &rollErr) {
				kind = rollErr.Kind
			}
			logger.FromContext(ctx).Warn(LogMsgBatchFailed, "user_id", s.summary.UserID, "kind", string(kind), "error", err)
			m.apply(ctx, s, Event{Type: EventBatchFailed, FailureKind: kind})
			return
		}
		s.record(res)
		m.apply(ctx, s, Event{Type: EventBatchCompleted})

		if m.cfg.Interval == 0 {
			continue
		}
		if timer == nil {
			timer = time.NewTimer(m.cfg.Interval)
			defer timer.Stop()
		} else {
			timer.Reset(m.cfg.Interval)
		}
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}
}

func (m *Manager) stopEvent(ctx context.Context) Event {
	if errors.Is(context.Cause(ctx), errShutdown) {
		return Event{Type: EventShutdown}
	}
	return Event{Type: EventStopRequested}
}

func (s *session) record(res *roll.BatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.Batches++
	s.summary.Rolls += res.Credited
	s.summary.CoinsSpent += res.CoinsSpent
	for _, it := range res.Items {
		s.summary.Rarities[it.Rarity]++
	}
	if res.Best != nil && (s.summary.Best == nil || res.Best.BetterThan(*s.summary.Best)) {
		best := *res.Best
		s.summary.Best = &best
	}
}

// apply runs one FSM step and presents its outputs.
func (m *Manager) apply(ctx context.Context, s *session, ev Event) {
	s.mu.Lock()
	next, outputs := Transition(s.summary.State, ev)
	if next == s.summary.State && len(outputs) == 0 {
		s.mu.Unlock()
		logger.FromContext(ctx).Debug(LogMsgInvalidTransition, "state", string(next), "event", string(ev.Type))
		return
	}
	s.summary.State = next
	for _, out := range outputs {
		if out.Kind == OutputStopped {
			s.summary.StopReason = out.Reason
			s.summary.FailureKind = out.FailureKind
		}
	}
	if next == StateStopped && s.summary.StoppedAt == nil {
		at := m.now()
		s.summary.StoppedAt = &at
	}
	snap := s.summary.clone()
	s.mu.Unlock()

	for _, out := range outputs {
		if err := m.presenter.Present(ctx, Notification{Output: out, Summary: snap}); err != nil {
			logger.FromContext(ctx).Warn(LogMsgPresentFailed, "user_id", snap.UserID, "error", err)
		}
	}
}

// finish moves a stopped session from the live map into the summary cache.
func (m *Manager) finish(ctx context.Context, s *session) {
	snap := s.snapshot()

	m.mu.Lock()
	if m.sessions[snap.UserID] == s {
		delete(m.sessions, snap.UserID)
	}
	m.finished.Add(snap.UserID, snap)
	m.mu.Unlock()

	m.publish(ctx, event.AutoRollStopped, snap)
	logger.FromContext(ctx).Info(LogMsgSessionStopped,
		"user_id", snap.UserID,
		"session_id", snap.SessionID,
		"reason", string(snap.StopReason),
		"batches", snap.Batches,
		"rolls", snap.Rolls)
}

func (m *Manager) publish(ctx context.Context, t event.Type, snap Summary) {
	evt := event.NewAutoRollEvent(t, event.AutoRollPayloadV1{
		UserID:    snap.UserID,
		SessionID: snap.SessionID,
		Batches:   snap.Batches,
		Rolls:     snap.Rolls,
		Reason:    string(snap.StopReason),
	})
	if err := m.bus.Publish(context.WithoutCancel(ctx), evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", t, "error", err)
	}
}
