// SPDX-License-Identifier: AGPL-3.0-or-later
package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btouchard/campaignd/internal/domain/models"
	"github.com/btouchard/campaignd/internal/domain/trigger"
	"github.com/btouchard/campaignd/internal/infrastructure/email"
)

type stubMailer struct{}

func (stubMailer) Send(context.Context, *models.Email, email.Recipient) error { return nil }

type countingClock struct {
	now time.Time
}

func (c countingClock) Now() time.Time { return c.now }
func (c countingClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func TestScheduler_RegisterAndFire(t *testing.T) {
	sched := New(stubMailer{})

	tr := trigger.NewDatetime(models.PartialDate{}, models.NaiveTime{}, trigger.WithClock(countingClock{now: time.Now()}))

	var mu sync.Mutex
	fired := 0
	var wg sync.WaitGroup
	wg.Add(1)

	err := sched.RegisterTriggerWithAction("test-campaign", tr, func(ctx context.Context, generation uint64, mailer email.Mailer) {
		mu.Lock()
		fired++
		mu.Unlock()
		wg.Done()
	})
	require.NoError(t, err)

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, fired)
}

func TestScheduler_RegisterTwiceWithSameTriggerFails(t *testing.T) {
	sched := New(stubMailer{})
	tr := trigger.NewDatetime(models.Y(3000), models.NaiveTime{})

	err := sched.RegisterTriggerWithAction("first", tr, func(context.Context, uint64, email.Mailer) {})
	require.NoError(t, err)

	err = sched.RegisterTriggerWithAction("second", tr, func(context.Context, uint64, email.Mailer) {})
	assert.Error(t, err)

	sched.Shutdown()
}

func TestScheduler_TriggersReportsGenerations(t *testing.T) {
	sched := New(stubMailer{})
	tr := trigger.NewDatetime(models.Y(3000), models.NaiveTime{})

	err := sched.RegisterTriggerWithAction("future-campaign", tr, func(context.Context, uint64, email.Mailer) {})
	require.NoError(t, err)

	names := sched.Triggers()
	assert.Contains(t, names, "future-campaign")
	assert.Equal(t, uint64(0), names["future-campaign"])

	sched.Shutdown()
}

func TestScheduler_ShutdownStopsConsumers(t *testing.T) {
	sched := New(stubMailer{})
	tr := trigger.NewDatetime(models.Y(3000), models.NaiveTime{})

	err := sched.RegisterTriggerWithAction("never-fires", tr, func(context.Context, uint64, email.Mailer) {
		t.Fatal("action should never run for a year-3000 trigger in this short test")
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		sched.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
}
