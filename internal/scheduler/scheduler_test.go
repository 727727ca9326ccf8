package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cirrusops/revenue/internal/clock"
	movementdomain "github.com/cirrusops/revenue/internal/movement/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubMovementService struct {
	calls      []time.Time
	batchSizes []int
	err        error
	block      bool
}

func (s *stubMovementService) RunBatch(ctx context.Context, orgID snowflake.ID, date time.Time) (*movementdomain.OrgReport, error) {
	return &movementdomain.OrgReport{OrgID: orgID}, nil
}

func (s *stubMovementService) RunAll(ctx context.Context, date time.Time, batchSize int) (*movementdomain.BatchReport, error) {
	s.calls = append(s.calls, date)
	s.batchSizes = append(s.batchSizes, batchSize)
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return &movementdomain.BatchReport{
		Date: date,
		Orgs: []movementdomain.OrgReport{{Snapshots: 3}},
	}, nil
}

func (s *stubMovementService) ListSnapshots(ctx context.Context, orgID snowflake.ID, from, to time.Time) ([]movementdomain.RevenueSnapshot, error) {
	return nil, nil
}

func newTestScheduler(t *testing.T, svc movementdomain.Service, now time.Time) (*Scheduler, *clock.FakeClock) {
	t.Helper()
	fake := clock.NewFakeClock(now)
	sched, err := New(Params{
		Log:         zap.NewNop(),
		MovementSvc: svc,
		Clock:       fake,
		Config:      Config{RunInterval: time.Hour, JobTimeout: 50 * time.Millisecond},
	})
	require.NoError(t, err)
	return sched, fake
}

func TestRunOnce_UsesInjectedClock(t *testing.T) {
	now := time.Date(2026, 3, 31, 2, 0, 0, 0, time.UTC)
	stub := &stubMovementService{}
	sched, fake := newTestScheduler(t, stub, now)

	require.NoError(t, sched.RunOnce(context.Background()))
	require.Len(t, stub.calls, 1)
	assert.Equal(t, now, stub.calls[0])

	fake.Advance(24 * time.Hour)
	require.NoError(t, sched.RunOnce(context.Background()))
	require.Len(t, stub.calls, 2)
	assert.Equal(t, now.Add(24*time.Hour), stub.calls[1])
}

func TestRunOnce_BatchErrorPropagates(t *testing.T) {
	stub := &stubMovementService{err: errors.New("db down")}
	sched, _ := newTestScheduler(t, stub, time.Now())

	err := sched.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "movement_batch")
}

func TestRunOnce_TimeoutIsSoft(t *testing.T) {
	stub := &stubMovementService{block: true}
	sched, _ := newTestScheduler(t, stub, time.Now())

	// Deadline hits inside the job; the run itself still succeeds.
	assert.NoError(t, sched.RunOnce(context.Background()))
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop()})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, time.Hour, cfg.RunInterval)
	assert.Equal(t, 5*time.Minute, cfg.JobTimeout)
	assert.Equal(t, 500, cfg.BatchSize)

	custom := Config{RunInterval: time.Minute, JobTimeout: time.Second, BatchSize: 10}.withDefaults()
	assert.Equal(t, time.Minute, custom.RunInterval)
}

func TestRunOnce_PassesBatchSize(t *testing.T) {
	now := time.Date(2026, 3, 31, 2, 0, 0, 0, time.UTC)
	stub := &stubMovementService{}
	fake := clock.NewFakeClock(now)
	sched, err := New(Params{
		Log:         zap.NewNop(),
		MovementSvc: stub,
		Clock:       fake,
		Config:      Config{RunInterval: time.Hour, JobTimeout: time.Second, BatchSize: 25},
	})
	require.NoError(t, err)

	require.NoError(t, sched.RunOnce(context.Background()))
	require.Equal(t, []int{25}, stub.batchSizes)
}
