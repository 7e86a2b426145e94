package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/bookshelf/pkg/circuit_breaker"
)

var errService = errors.New("service error")

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func Test_circuitBreaker_Call(t *testing.T) {
	t.Parallel()
	ok := func() error { return nil }
	fail := func() error { return errService }

	t.Run("stays closed below percentile", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(10, time.Second, 0.3, 2)
		for i := 0; i < 8; i++ {
			require.NoError(t, cb.Call(ok))
		}
		require.ErrorIs(t, cb.Call(fail), errService)
		require.ErrorIs(t, cb.Call(fail), errService)
		require.Equal(t, circuit_breaker.Closed, cb.State())
	})

	t.Run("opens, half-opens and recovers", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{t: time.Unix(0, 0)}
		var transitions []circuit_breaker.Status
		cb := circuit_breaker.New(4, time.Second, 0.5, 2,
			circuit_breaker.WithClock(clock.now),
			circuit_breaker.WithStateHook(func(_, to circuit_breaker.Status) {
				transitions = append(transitions, to)
			}),
		)
		require.Error(t, cb.Call(fail))
		require.Error(t, cb.Call(fail))
		require.Equal(t, circuit_breaker.Open, cb.State())

		called := false
		err := cb.Call(func() error { called = true; return nil })
		require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
		require.False(t, called)

		clock.advance(2 * time.Second)
		require.NoError(t, cb.Call(ok))
		require.Equal(t, circuit_breaker.HalfOpen, cb.State())
		require.NoError(t, cb.Call(ok))
		require.Equal(t, circuit_breaker.Closed, cb.State())
		require.Equal(t, []circuit_breaker.Status{
			circuit_breaker.Open, circuit_breaker.HalfOpen, circuit_breaker.Closed,
		}, transitions)
	})

	t.Run("half-open failure reopens", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{t: time.Unix(0, 0)}
		cb := circuit_breaker.New(2, time.Second, 0.5, 3, circuit_breaker.WithClock(clock.now))
		require.Error(t, cb.Call(fail))
		require.Equal(t, circuit_breaker.Open, cb.State())
		clock.advance(2 * time.Second)
		require.Error(t, cb.Call(fail))
		require.Equal(t, circuit_breaker.Open, cb.State())
	})

	t.Run("ignored errors do not count", func(t *testing.T) {
		t.Parallel()
		errMissing := errors.New("missing")
		cb := circuit_breaker.New(2, time.Second, 0.5, 1,
			circuit_breaker.WithIgnore(func(err error) bool { return errors.Is(err, errMissing) }))
		for i := 0; i < 5; i++ {
			require.ErrorIs(t, cb.Call(func() error { return errMissing }), errMissing)
		}
		require.Equal(t, circuit_breaker.Closed, cb.State())
	})
}
