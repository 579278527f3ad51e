package boost

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/FumoBot_Go/internal/concurrency"
	"github.com/osse101/FumoBot_Go/internal/domain"
)

type MockBoostRepo struct {
	mock.Mock
}

func (m *MockBoostRepo) GetActiveBoosts(ctx context.Context, userID string, now time.Time) ([]domain.Boost, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Boost), args.Error(1)
}

func (m *MockBoostRepo) SaveBoost(ctx context.Context, boost domain.Boost) error {
	args := m.Called(ctx, boost)
	return args.Error(0)
}

func (m *MockBoostRepo) DeleteExpiredBoosts(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func fixedRnd(v float64) func() float64 {
	return func() float64 { return v }
}

func TestCompose_RefreshesStaleDice(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBoostRepo)
	l := newLedger(repo, nil, nil, fixedRnd(0.5))

	currentHour := testNow.Unix() / 3600
	repo.On("GetActiveBoosts", ctx, "u1", testNow).Return([]domain.Boost{
		{UserID: "u1", Source: "dice", Effect: domain.HourlyDiceEffect{Hour: currentHour - 1, Multiplier: 0.5}},
	}, nil)
	repo.On("SaveBoost", ctx, mock.MatchedBy(func(b domain.Boost) bool {
		dice, ok := b.Effect.(domain.HourlyDiceEffect)
		return ok && dice.Hour == currentHour && dice.Multiplier == 1.75
	})).Return(nil)

	m, err := l.Compose(ctx, "u1", testNow)

	require.NoError(t, err)
	assert.InDelta(t, 1.75, m.Luck, 1e-9)
	repo.AssertExpectations(t)
}

func TestCompose_KeepsFreshDice(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBoostRepo)
	l := newLedger(repo, nil, nil, fixedRnd(0.9))

	repo.On("GetActiveBoosts", ctx, "u1", testNow).Return([]domain.Boost{
		{UserID: "u1", Source: "dice", Effect: domain.HourlyDiceEffect{Hour: testNow.Unix() / 3600, Multiplier: 2}},
	}, nil)

	m, err := l.Compose(ctx, "u1", testNow)

	require.NoError(t, err)
	assert.InDelta(t, 2.0, m.Luck, 1e-9)
	repo.AssertNotCalled(t, "SaveBoost", mock.Anything, mock.Anything)
}

func TestCompose_DiceWriteFailureStillUsesFreshValue(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBoostRepo)
	l := newLedger(repo, nil, nil, fixedRnd(0))

	repo.On("GetActiveBoosts", ctx, "u1", testNow).Return([]domain.Boost{
		{UserID: "u1", Source: "dice", Effect: domain.HourlyDiceEffect{}},
	}, nil)
	repo.On("SaveBoost", ctx, mock.Anything).Return(errors.New("db down"))

	m, err := l.Compose(ctx, "u1", testNow)

	require.NoError(t, err)
	assert.InDelta(t, DiceMin, m.Luck, 1e-9)
}

func TestCompose_ReadErrorPropagates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBoostRepo)
	l := newLedger(repo, nil, nil, fixedRnd(0))

	repo.On("GetActiveBoosts", ctx, "u1", testNow).Return(nil, errors.New("db down"))

	m, err := l.Compose(ctx, "u1", testNow)

	assert.Error(t, err)
	assert.Equal(t, Neutral(), m)
}

func TestGrant_NewBoost(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBoostRepo)
	defs := Definitions{"luck-potion": {Source: "luck-potion", Duration: time.Hour, MaxStack: 3, Effect: domain.LuckEffect{Multiplier: 2}}}
	l := newLedger(repo, defs, nil, fixedRnd(0))

	repo.On("GetActiveBoosts", ctx, "u1", testNow).Return([]domain.Boost{}, nil)
	repo.On("SaveBoost", ctx, mock.Anything).Return(nil)

	b, err := l.Grant(ctx, "u1", "luck-potion", testNow)

	require.NoError(t, err)
	assert.Equal(t, 1, b.Stack)
	require.NotNil(t, b.ExpiresAt)
	assert.Equal(t, testNow.Add(time.Hour), *b.ExpiresAt)
}

func TestGrant_RefreshStacksUpToMax(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBoostRepo)
	defs := Definitions{"luck-potion": {Source: "luck-potion", Duration: time.Hour, MaxStack: 3, Effect: domain.LuckEffect{Multiplier: 2}}}
	l := newLedger(repo, defs, nil, fixedRnd(0))

	expires := testNow.Add(time.Minute)
	repo.On("GetActiveBoosts", ctx, "u1", testNow).Return([]domain.Boost{
		{UserID: "u1", Source: "luck-potion", Stack: 3, ExpiresAt: &expires, Effect: domain.LuckEffect{Multiplier: 2}},
	}, nil)
	repo.On("SaveBoost", ctx, mock.Anything).Return(nil)

	b, err := l.Grant(ctx, "u1", "luck-potion", testNow)

	require.NoError(t, err)
	assert.Equal(t, 3, b.Stack)
	assert.Equal(t, testNow.Add(time.Hour), *b.ExpiresAt)
}

func TestGrant_TopsUpUses(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBoostRepo)
	defs := Definitions{"fair-scroll": {Source: "fair-scroll", MaxStack: 1, Effect: domain.EqualizeEffect{Uses: 3}}}
	l := newLedger(repo, defs, nil, fixedRnd(0))

	repo.On("GetActiveBoosts", ctx, "u1", testNow).Return([]domain.Boost{
		{UserID: "u1", Source: "fair-scroll", Stack: 1, Effect: domain.EqualizeEffect{Uses: 2}},
	}, nil)
	repo.On("SaveBoost", ctx, mock.Anything).Return(nil)

	b, err := l.Grant(ctx, "u1", "fair-scroll", testNow)

	require.NoError(t, err)
	assert.Equal(t, domain.EqualizeEffect{Uses: 5}, b.Effect)
	assert.Nil(t, b.ExpiresAt)
}

func TestGrant_UnknownSource(t *testing.T) {
	l := newLedger(new(MockBoostRepo), nil, nil, fixedRnd(0))

	_, err := l.Grant(context.Background(), "u1", "nope", testNow)

	assert.ErrorIs(t, err, domain.ErrBoostNotDefined)
}

func TestLedger_GrantAndPreviewHoldUserLock(t *testing.T) {
	locker := concurrency.NewLockManager()
	defs := Definitions{"luck-potion": {Source: "luck-potion", Duration: time.Hour, MaxStack: 3, Effect: domain.LuckEffect{Multiplier: 2}}}
	repo := new(MockBoostRepo)
	l := newLedger(repo, defs, locker, fixedRnd(0))

	unlock, err := locker.Lock(context.Background(), concurrency.UserKey("u1"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Grant(ctx, "u1", "luck-potion", testNow)
	assert.ErrorIs(t, err, domain.ErrLockNotAcquired)
	_, _, err = l.Preview(ctx, "u1", testNow)
	assert.ErrorIs(t, err, domain.ErrLockNotAcquired)
	repo.AssertNotCalled(t, "GetActiveBoosts", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SaveBoost", mock.Anything, mock.Anything)

	unlock()
	repo.On("GetActiveBoosts", mock.Anything, "u1", testNow).Return([]domain.Boost{
		{UserID: "u1", Source: "luck-potion", Stack: 1, Effect: domain.LuckEffect{Multiplier: 2}},
	}, nil)

	mods, rows, err := l.Preview(context.Background(), "u1", testNow)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, mods.Luck, 1e-9)
	assert.Len(t, rows, 1)
	assert.Zero(t, locker.Size())
}
