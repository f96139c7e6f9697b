package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoBudget(t *testing.T) {
	ctx := context.Background()
	failure := fmt.Errorf("still broken")

	{
		calls := 0
		err := Do(ctx, Policy{MaxAttempts: 3}, func(ctx context.Context) error {
			calls++
			return failure
		})
		require.ErrorIs(t, err, failure)
		require.Equal(t, 3, calls)
	}
	{
		calls := 0
		err := Do(ctx, Policy{MaxAttempts: 5}, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return failure
			}
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	}
	{
		err := Do(ctx, Policy{MaxAttempts: 0}, func(ctx context.Context) error {
			return nil
		})
		require.Error(t, err)
	}
}

func TestDoStop(t *testing.T) {
	fatal := fmt.Errorf("no point retrying")

	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 10}, func(ctx context.Context) error {
		calls++
		return Stop(fatal)
	})
	require.ErrorIs(t, err, fatal)
	require.Equal(t, 1, calls)
}

func TestDoContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, Policy{MaxAttempts: 5, Backoff: time.Millisecond}, func(ctx context.Context) error {
		calls++
		return fmt.Errorf("transient")
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}
