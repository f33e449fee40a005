// SPDX-License-Identifier: AGPL-3.0-or-later
package trigger

import "time"

// Clock abstracts wall-clock access so DatetimeTrigger can be driven by
// a fake in tests instead of real sleeps, exercising multi-second and
// multi-day firing patterns in milliseconds. Grounded on the
// manual-clock idiom from thejerf/abtime: a Clock is an interface the
// production code depends on, with a real implementation backed by
// time.Now/time.After and a fake implementation substituted under test.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// systemClock is the production Clock, a thin wrapper over the time
// package.
type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
