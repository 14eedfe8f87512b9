package fetchgroup_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/hexfetch/internal/engine/fetchgroup"
)

func TestGroup_SingleFlight(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := fetchgroup.New[string]()

		var executions atomic.Int64
		work := func() (string, error) {
			executions.Add(1)
			time.Sleep(10 * time.Millisecond)
			return "result", nil
		}

		const waiters = 16
		results := make([]string, waiters)
		var wg sync.WaitGroup
		for i := range waiters {
			wg.Add(1)
			go func() {
				defer wg.Done()
				g.Run("plug-1.14.0", work)
				v, err := g.Await("plug-1.14.0", time.Second)
				assert.NoError(t, err)
				results[i] = v
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(1), executions.Load())
		for _, v := range results {
			assert.Equal(t, "result", v)
		}
	})
}

func TestGroup_ResultIsMemoized(t *testing.T) {
	g := fetchgroup.New[int]()

	var executions atomic.Int64
	work := func() (int, error) {
		executions.Add(1)
		return 42, nil
	}

	g.Run("key", work)
	v, err := g.Await("key", time.Second)
	require.NoError(t, err)
	require.Equal(t, 42, v)

	// Scheduling again after completion is a no-op; the cached outcome is
	// served.
	g.Run("key", work)
	v, err = g.Await("key", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, int64(1), executions.Load())
}

func TestGroup_FailurePropagatesToAllWaiters(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := fetchgroup.New[string]()
		boom := errors.New("registry exploded")

		g.Run("key", func() (string, error) {
			time.Sleep(time.Millisecond)
			return "", boom
		})

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := g.Await("key", time.Second)
				assert.ErrorIs(t, err, boom)
			}()
		}
		wg.Wait()
	})
}

func TestGroup_AwaitTimeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := fetchgroup.New[string]()
		release := make(chan struct{})

		g.Run("key", func() (string, error) {
			<-release
			return "late", nil
		})

		_, err := g.Await("key", 10*time.Millisecond)
		assert.ErrorIs(t, err, domain.ErrFetchTimeout)

		// The work was not cancelled by the timed-out waiter: once it
		// finishes, its result is there for later callers.
		close(release)
		v, err := g.Await("key", time.Second)
		require.NoError(t, err)
		assert.Equal(t, "late", v)
	})
}

func TestGroup_DistinctKeysRunIndependently(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := fetchgroup.New[string]()

		g.Run("a", func() (string, error) { return "a", nil })
		g.Run("b", func() (string, error) { return "", errors.New("b failed") })

		v, err := g.Await("a", time.Second)
		require.NoError(t, err)
		assert.Equal(t, "a", v)

		_, err = g.Await("b", time.Second)
		assert.Error(t, err)
	})
}

func TestGroup_AwaitWithoutRun(t *testing.T) {
	g := fetchgroup.New[string]()

	_, err := g.Await("never-scheduled", time.Millisecond)
	assert.ErrorIs(t, err, fetchgroup.ErrNotScheduled)
}

func TestGroup_WaitDrains(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := fetchgroup.New[int]()

		var done atomic.Int64
		for i := range 8 {
			g.Run(string(rune('a'+i)), func() (int, error) {
				time.Sleep(time.Millisecond)
				done.Add(1)
				return i, nil
			})
		}

		g.Wait()
		assert.Equal(t, int64(8), done.Load())
	})
}
