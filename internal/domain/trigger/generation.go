// SPDX-License-Identifier: AGPL-3.0-or-later
// Package trigger implements a composable, generation-counted,
// asynchronous firing engine: a Trigger envelope wrapping either a
// one-shot DatetimeTrigger or a repeating CounterTrigger, producing
// generation numbers on a bounded channel.
package trigger

import "sync"

// generationCounter is a shared, mutex-guarded monotonic counter: reads
// and writes are serialised by a mutex between the producer goroutine
// and the envelope holder. It never decreases.
type generationCounter struct {
	mu    sync.Mutex
	value uint64
}

func (g *generationCounter) get() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

// forward adds n to the counter. Used to offset child triggers or to
// skip over completed runs on resume.
func (g *generationCounter) forward(n uint64) {
	g.mu.Lock()
	g.value += n
	g.mu.Unlock()
}

// next returns the current value then increments it by one.
func (g *generationCounter) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := g.value
	g.value++
	return v
}
