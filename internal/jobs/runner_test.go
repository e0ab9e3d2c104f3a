package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/tasker-scraper/internal/ratelimit"
)

type fakeNavigator struct {
	current int
	failOn  map[int]bool
	calls   []int
}

func (n *fakeNavigator) NavigateToPage(_ context.Context, index int) error {
	n.calls = append(n.calls, index)
	if n.failOn[index] {
		return errors.New("nav failed")
	}
	n.current = index
	return nil
}

func (n *fakeNavigator) CurrentPageIndex() int { return n.current }

func TestLimitedNavigator(t *testing.T) {
	t.Run("delegates navigation and index", func(t *testing.T) {
		inner := &fakeNavigator{current: 1}
		nav := &limitedNavigator{
			inner:   inner,
			limiter: ratelimit.NewAdaptiveRateLimiter(time.Millisecond, 2*time.Millisecond),
		}

		require.NoError(t, nav.NavigateToPage(context.Background(), 3))
		assert.Equal(t, []int{3}, inner.calls)
		assert.Equal(t, 3, nav.CurrentPageIndex())
	})

	t.Run("propagates navigation errors", func(t *testing.T) {
		inner := &fakeNavigator{current: 1, failOn: map[int]bool{2: true}}
		nav := &limitedNavigator{
			inner:   inner,
			limiter: ratelimit.NewAdaptiveRateLimiter(time.Millisecond, 2*time.Millisecond),
		}

		err := nav.NavigateToPage(context.Background(), 2)
		assert.Error(t, err)
		assert.Equal(t, 1, nav.CurrentPageIndex())
	})

	t.Run("aborts when context is cancelled during wait", func(t *testing.T) {
		inner := &fakeNavigator{current: 1}
		limiter := ratelimit.NewAdaptiveRateLimiter(5*time.Second, 5*time.Second)
		nav := &limitedNavigator{inner: inner, limiter: limiter}

		// Prime the limiter so the next wait actually blocks.
		require.NoError(t, limiter.Wait(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := nav.NavigateToPage(ctx, 2)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Empty(t, inner.calls)
	})

	t.Run("works without a limiter", func(t *testing.T) {
		inner := &fakeNavigator{current: 1}
		nav := &limitedNavigator{inner: inner}

		require.NoError(t, nav.NavigateToPage(context.Background(), 2))
		assert.Equal(t, 2, nav.CurrentPageIndex())
	})
}
