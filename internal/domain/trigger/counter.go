// SPDX-License-Identifier: AGPL-3.0-or-later
package trigger

import (
	"context"

	"github.com/btouchard/campaignd/pkg/logger"
)

// runCounter is the producer goroutine for a KindCounter trigger: it
// deep-clones its inner template once per iteration,
// runs the clone to completion, and re-emits the parent's own
// generation for every child fire. The child is re-created each
// iteration because primitive triggers (e.g. DatetimeTrigger) are
// one-shot by design; this keeps each primitive's lifecycle simple.
func (t *Trigger) runCounter(ctx context.Context) {
	defer t.closeDone()
	defer close(t.ch)

	log := logger.Component("trigger.counter")
	rep := t.counter.repetition

	for i := uint64(0); !rep.finite || i < rep.n; i++ {
		child := t.counter.template.Clone()
		child.ForwardGeneration(t.gen.get())

		childRecv, _ := child.Receiver()
		child.Start()
		t.setActiveChild(child)

		select {
		case _, ok := <-childRecv:
			if !ok {
				log.Debug("counter trigger child closed without firing, stopping", "iteration", i)
				child.Wait()
				t.setActiveChild(nil)
				return
			}
		case <-ctx.Done():
			log.Debug("counter trigger aborted, aborting active child", "iteration", i)
			child.Abort()
			child.Wait()
			t.setActiveChild(nil)
			return
		}

		child.Wait()
		t.setActiveChild(nil)

		gen := t.gen.next()
		select {
		case t.ch <- gen:
			log.Info("counter trigger fired", "generation", gen, "iteration", i)
		case <-ctx.Done():
			return
		}
	}

	log.Debug("counter trigger exhausted its repetition count", "fires", rep.n)
}
