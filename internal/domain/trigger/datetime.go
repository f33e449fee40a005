// SPDX-License-Identifier: AGPL-3.0-or-later
package trigger

import (
	"context"

	"github.com/btouchard/campaignd/pkg/logger"
)

// runDatetime is the producer goroutine for a KindDatetime trigger: a
// one-shot that sleeps until a concrete wall-clock instant, emits one
// generation, then closes its channel.
func (t *Trigger) runDatetime(ctx context.Context) {
	defer t.closeDone()
	defer close(t.ch)

	log := logger.Component("trigger.datetime")

	now := t.clock.Now()
	target := t.datetime.date.NextValidDate(now, t.datetime.time)
	wait := target.Sub(now)
	if wait < 0 {
		// Target resolved to the past: treated as "fire immediately",
		// logged rather than failing.
		log.Warn("datetime trigger target resolved to the past, firing immediately",
			"target", target, "now", now)
		wait = 0
	}

	select {
	case <-ctx.Done():
		log.Debug("datetime trigger aborted before firing")
		return
	case <-t.clock.After(wait):
	}

	gen := t.gen.get()
	select {
	case t.ch <- gen:
		log.Info("datetime trigger fired", "generation", gen)
	case <-ctx.Done():
		// Equivalent to the sender observing a closed receiver: not an
		// error, just an early exit.
		log.Debug("datetime trigger aborted while sending", "generation", gen)
	}
}
