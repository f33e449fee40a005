// SPDX-License-Identifier: AGPL-3.0-or-later
package trigger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btouchard/campaignd/internal/domain/models"
)

// fakeClock is a manually-driven Clock, grounded on the manual-clock
// idiom from thejerf/abtime: Now is fixed at construction, After
// returns a channel already holding one value so every sleep resolves
// instantly.
// Trigger logic under test cares about ordering and generation values,
// not real wall-clock delay.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.Now().Add(d)
	return ch
}

// blockingClock never delivers on After, so a select racing it against
// ctx.Done() always takes the cancellation branch -- used to test abort
// behaviour without a race against a clock that fires immediately.
type blockingClock struct {
	now time.Time
}

func (c blockingClock) Now() time.Time                  { return c.now }
func (c blockingClock) After(time.Duration) <-chan time.Time { return make(chan time.Time) }

func drain(t *testing.T, ch <-chan uint64, timeout time.Duration) (uint64, bool) {
	t.Helper()
	select {
	case v, ok := <-ch:
		return v, ok
	case <-time.After(timeout):
		t.Fatal("timed out waiting for trigger to fire")
		return 0, false
	}
}

// TestDatetimeTrigger_FiresOnce verifies a one-shot DatetimeTrigger
// emits exactly one generation then closes its channel.
func TestDatetimeTrigger_FiresOnce(t *testing.T) {
	clock := newFakeClock(time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC))
	tr := NewDatetime(models.D(models.WeekdayDay(models.Thursday)), models.NaiveTime{Hour: 9}, WithClock(clock))

	recv, ok := tr.Receiver()
	require.True(t, ok)

	tr.Start()

	gen, ok := drain(t, recv, time.Second)
	require.True(t, ok)
	assert.Equal(t, uint64(0), gen)

	_, ok = drain(t, recv, time.Second)
	assert.False(t, ok, "channel should close after the one-shot fire")

	tr.Wait()
}

// TestTrigger_ReceiverOnlyOnce ensures a second Receiver() call fails,
// preventing two consumers racing on the same channel.
func TestTrigger_ReceiverOnlyOnce(t *testing.T) {
	tr := NewDatetime(models.PartialDate{}, models.NaiveTime{})

	_, ok := tr.Receiver()
	require.True(t, ok)

	_, ok = tr.Receiver()
	assert.False(t, ok)
}

// TestCounterTrigger_FiniteRepetition verifies a counter wrapping a
// datetime template fires exactly n times then closes.
func TestCounterTrigger_FiniteRepetition(t *testing.T) {
	clock := newFakeClock(time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC))
	template := NewDatetime(models.PartialDate{}, models.NaiveTime{Hour: 9}, WithClock(clock))
	tr := NewCounter(Finite(3), template, WithClock(clock))

	recv, ok := tr.Receiver()
	require.True(t, ok)

	tr.Start()

	var gens []uint64
	for {
		gen, ok := drain(t, recv, 2*time.Second)
		if !ok {
			break
		}
		gens = append(gens, gen)
	}

	assert.Equal(t, []uint64{0, 1, 2}, gens)
	tr.Wait()
}

// TestCounterTrigger_ForwardGenerationOffsetsChildren verifies that
// forwarding the parent's generation counter before Start offsets every
// child fire by that amount.
func TestCounterTrigger_ForwardGenerationOffsetsChildren(t *testing.T) {
	clock := newFakeClock(time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC))
	template := NewDatetime(models.PartialDate{}, models.NaiveTime{Hour: 9}, WithClock(clock))
	tr := NewCounter(Finite(2), template, WithClock(clock))
	tr.ForwardGeneration(10)

	recv, ok := tr.Receiver()
	require.True(t, ok)

	tr.Start()

	gen1, ok := drain(t, recv, 2*time.Second)
	require.True(t, ok)
	gen2, ok := drain(t, recv, 2*time.Second)
	require.True(t, ok)

	assert.Equal(t, uint64(10), gen1)
	assert.Equal(t, uint64(11), gen2)

	tr.Wait()
}

// TestTrigger_AbortStopsDatetimeBeforeFiring verifies an aborted
// trigger never delivers a generation it had not already sent.
func TestTrigger_AbortStopsDatetimeBeforeFiring(t *testing.T) {
	clock := blockingClock{now: time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC)}
	tr := NewDatetime(models.Y(3000), models.NaiveTime{Hour: 9}, WithClock(clock))

	recv, ok := tr.Receiver()
	require.True(t, ok)

	tr.Start()
	tr.Abort()
	tr.Wait()

	_, ok = drain(t, recv, time.Second)
	assert.False(t, ok)
}

// TestCounterTrigger_AbortPropagatesToActiveChild verifies aborting a
// CounterTrigger also aborts whatever child it currently has in
// flight.
func TestCounterTrigger_AbortPropagatesToActiveChild(t *testing.T) {
	clock := blockingClock{now: time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC)}
	template := NewDatetime(models.Y(3000), models.NaiveTime{Hour: 9}, WithClock(clock))
	tr := NewCounter(Infinite(), template, WithClock(clock))

	recv, ok := tr.Receiver()
	require.True(t, ok)

	tr.Start()
	time.Sleep(20 * time.Millisecond) // let the first child spawn
	tr.Abort()
	tr.Wait()

	_, ok = drain(t, recv, time.Second)
	assert.False(t, ok)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "datetime", KindDatetime.String())
	assert.Equal(t, "counter", KindCounter.String())
}

func TestTrigger_StartTwiceIsANoOp(t *testing.T) {
	clock := newFakeClock(time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC))
	tr := NewDatetime(models.PartialDate{}, models.NaiveTime{Hour: 9}, WithClock(clock))

	recv, ok := tr.Receiver()
	require.True(t, ok)

	tr.Start()
	tr.Start() // must not panic or spawn a second producer

	gen, ok := drain(t, recv, time.Second)
	require.True(t, ok)
	assert.Equal(t, uint64(0), gen)

	tr.Wait()
}
