// SPDX-License-Identifier: AGPL-3.0-or-later
package trigger

import (
	"context"
	"sync"

	"github.com/btouchard/campaignd/internal/domain/models"
	"github.com/btouchard/campaignd/pkg/logger"
)

// channelCapacity bounds the trigger->consumer channel: if a consumer
// falls behind, the producer's send suspends, which applies natural
// backpressure.
const channelCapacity = 4

// Kind discriminates the two primitive trigger variants. Dispatch is
// closed; adding a new primitive requires extending this enum and the
// switches in String, Start and Clone.
type Kind int

const (
	KindDatetime Kind = iota
	KindCounter
)

func (k Kind) String() string {
	switch k {
	case KindDatetime:
		return "datetime"
	case KindCounter:
		return "counter"
	default:
		return "unknown"
	}
}

// Repetition is the CounterTrigger's iteration count: a fixed number of
// fires, or unbounded.
type Repetition struct {
	finite bool
	n      uint64
}

// Finite builds a Repetition that stops after n fires.
func Finite(n uint64) Repetition { return Repetition{finite: true, n: n} }

// Infinite builds a Repetition with no upper bound.
func Infinite() Repetition { return Repetition{finite: false} }

// Option configures a Trigger at construction time.
type Option func(*Trigger)

// WithClock overrides the Clock a DatetimeTrigger resolves "now" and
// sleeps against. Defaults to the real system clock; tests substitute a
// fake to drive scenarios deterministically.
func WithClock(c Clock) Option {
	return func(t *Trigger) { t.clock = c }
}

// datetimeSpec holds the parameters of a one-shot DatetimeTrigger.
type datetimeSpec struct {
	date models.PartialDate
	time models.NaiveTime
}

// counterSpec holds the parameters of a CounterTrigger: a repetition
// count and an inner trigger template that is deep-cloned on every
// iteration.
type counterSpec struct {
	repetition Repetition
	template   *Trigger
}

// Trigger is a tagged union over {Datetime, Counter}, owning the
// output channel, the shared generation counter, and lifecycle
// controls. Construct with NewDatetime or NewCounter; clone with Clone.
type Trigger struct {
	kind  Kind
	clock Clock

	datetime *datetimeSpec
	counter  *counterSpec

	gen *generationCounter
	ch  chan uint64

	mu          sync.Mutex
	recvTaken   bool
	started     bool
	cancel      context.CancelFunc
	done        chan struct{}
	activeChild *Trigger // only meaningful for KindCounter; abort propagation target
}

// NewDatetime builds a one-shot trigger over a partial date and a naive
// time of day.
func NewDatetime(date models.PartialDate, t models.NaiveTime, opts ...Option) *Trigger {
	tr := &Trigger{
		kind:     KindDatetime,
		clock:    systemClock{},
		datetime: &datetimeSpec{date: date, time: t},
		gen:      &generationCounter{},
		ch:       make(chan uint64, channelCapacity),
	}
	for _, o := range opts {
		o(tr)
	}
	return tr
}

// NewCounter builds a repetition wrapper around an inner, unstarted
// trigger template.
func NewCounter(rep Repetition, template *Trigger, opts ...Option) *Trigger {
	tr := &Trigger{
		kind:    KindCounter,
		clock:   systemClock{},
		counter: &counterSpec{repetition: rep, template: template},
		gen:     &generationCounter{},
		ch:      make(chan uint64, channelCapacity),
	}
	for _, o := range opts {
		o(tr)
	}
	return tr
}

// Receiver returns the output channel's receive end exactly once;
// subsequent calls report ok == false.
func (t *Trigger) Receiver() (ch <-chan uint64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.recvTaken {
		return nil, false
	}
	t.recvTaken = true
	return t.ch, true
}

// Generation reads the shared counter under lock.
func (t *Trigger) Generation() uint64 {
	return t.gen.get()
}

// ForwardGeneration adds n to the shared counter: used to offset child
// triggers or to skip over completed runs on resume.
// The happens-before edge is the generationCounter's mutex: any forward
// performed before Start is guaranteed visible to the producer goroutine
// spawned by Start, because acquiring that mutex inside the goroutine
// synchronizes with the release performed here.
func (t *Trigger) ForwardGeneration(n uint64) {
	t.gen.forward(n)
}

// Kind reports the trigger's variant tag.
func (t *Trigger) Kind() Kind { return t.kind }

// Start arms the trigger: it dispatches on the variant to spawn the
// producer goroutine. Calling twice is a no-op with a warning.
func (t *Trigger) Start() {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		logger.Logger.Warn("trigger already started, ignoring", "kind", t.kind.String())
		return
	}
	t.started = true
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})
	t.mu.Unlock()

	switch t.kind {
	case KindDatetime:
		go t.runDatetime(ctx)
	case KindCounter:
		go t.runCounter(ctx)
	}
}

// Abort cancels the producer goroutine and, for a CounterTrigger,
// transitively aborts the currently active child. Cancellation is
// cooperative: it takes effect at the producer's next await point.
func (t *Trigger) Abort() {
	t.mu.Lock()
	cancel := t.cancel
	child := t.activeChild
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if child != nil {
		child.Abort()
	}
}

// Wait blocks until the producer goroutine has exited. It is a no-op if
// Start was never called.
func (t *Trigger) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Clone produces a fresh envelope with the same variant/parameters, a
// new channel pair, a zero generation counter, and no active task. This
// is how CounterTrigger manufactures children. The inner
// template of a counter is itself a Trigger; cloning a counter clones
// its template value structurally, not its runtime state.
func (t *Trigger) Clone() *Trigger {
	switch t.kind {
	case KindDatetime:
		return NewDatetime(t.datetime.date, t.datetime.time, WithClock(t.clock))
	case KindCounter:
		return NewCounter(t.counter.repetition, t.counter.template.Clone(), WithClock(t.clock))
	default:
		panic("trigger: unknown kind in Clone")
	}
}

func (t *Trigger) setActiveChild(child *Trigger) {
	t.mu.Lock()
	t.activeChild = child
	t.mu.Unlock()
}

func (t *Trigger) closeDone() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done != nil {
		close(done)
	}
}
