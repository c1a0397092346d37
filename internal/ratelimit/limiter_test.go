package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpolitica/politician-indexer/internal/adapter"
	"github.com/openpolitica/politician-indexer/internal/config"
	"github.com/openpolitica/politician-indexer/internal/mocks"
	"github.com/openpolitica/politician-indexer/internal/ratelimit"
)

func TestWaitIfNeeded_BurstThenDelay(t *testing.T) {
	l := ratelimit.New(map[string]config.RateLimitConfig{
		"chamber": {RequestsPerPeriod: 60, Period: time.Minute, Burst: 2},
	})

	// Burst allowance: the first two calls should not wait
	assert.Equal(t, time.Duration(0), l.WaitIfNeeded("chamber"))
	assert.Equal(t, time.Duration(0), l.WaitIfNeeded("chamber"))

	// Third call exceeds the burst and must wait roughly one period slot
	d := l.WaitIfNeeded("chamber")
	assert.Greater(t, d, time.Duration(0))
	assert.LessOrEqual(t, d, time.Second+100*time.Millisecond)
}

func TestWaitIfNeeded_ZeroPeriodMeansUnlimited(t *testing.T) {
	l := ratelimit.New(map[string]config.RateLimitConfig{
		"tse": {RequestsPerPeriod: 10, Period: 0},
	})

	for range 100 {
		assert.Equal(t, time.Duration(0), l.WaitIfNeeded("tse"))
	}
}

func TestWaitIfNeeded_UnknownSource(t *testing.T) {
	l := ratelimit.New(nil)
	assert.Equal(t, time.Duration(0), l.WaitIfNeeded("unknown"))
}

func TestDo_ExecutesAfterWait(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mocks.NewMockClock(ctrl)

	fired := make(chan time.Time, 1)
	fired <- time.Now()
	clock.EXPECT().After(gomock.Any()).Return(fired).AnyTimes()

	l := ratelimit.New(map[string]config.RateLimitConfig{
		"chamber": {RequestsPerPeriod: 1, Period: time.Minute, Burst: 1},
	})

	// First call consumes the burst, second forces a wait through the clock
	for i := 0; i < 2; i++ {
		got, err := ratelimit.Do(context.Background(), l, clock, "chamber", func(ctx context.Context) (int, error) {
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	}
}

func TestDo_CanceledContextAbortsWait(t *testing.T) {
	l := ratelimit.New(map[string]config.RateLimitConfig{
		"chamber": {RequestsPerPeriod: 1, Period: time.Hour, Burst: 1},
	})
	clock := adapter.NewClock()

	// Consume the burst token so the next call has to wait
	_ = l.WaitIfNeeded("chamber")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ratelimit.Do(ctx, l, clock, "chamber", func(ctx context.Context) (int, error) {
		t.Fatal("call should not execute after cancellation")
		return 0, nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDo_NilLimiterExecutesDirectly(t *testing.T) {
	clock := adapter.NewClock()
	got, err := ratelimit.Do(context.Background(), nil, clock, "chamber", func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}
