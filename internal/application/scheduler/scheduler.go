// SPDX-License-Identifier: AGPL-3.0-or-later
// Package scheduler binds a Trigger to an async action, spawns the
// consumer goroutine, and holds the task handles for shutdown.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/btouchard/campaignd/internal/domain/trigger"
	"github.com/btouchard/campaignd/internal/infrastructure/email"
	"github.com/btouchard/campaignd/pkg/logger"
)

// Action is the async callable invoked once per fire: it receives the
// generation and a shared Mailer, and is solely responsible for its own
// error handling -- it never returns an error to the scheduler, keeping
// the consumer loop total.
type Action func(ctx context.Context, generation uint64, mailer email.Mailer)

type registration struct {
	name    string
	trigger *trigger.Trigger
	done    chan struct{}
}

// Scheduler holds a shared Mailer and the list of registered triggers
// plus their consumer goroutines. Shutting down a Scheduler aborts every
// producer and consumer; an in-flight action is cancelled at its next
// await point.
type Scheduler struct {
	mailer email.Mailer

	mu            sync.Mutex
	registrations []*registration
	ctx           context.Context
	cancel        context.CancelFunc
}

// New constructs a Scheduler bound to the given Mailer. The Mailer is
// shared (by reference) among every consumer goroutine spawned by
// RegisterTriggerWithAction -- never a process-global.
func New(mailer email.Mailer) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		mailer: mailer,
		ctx:    ctx,
		cancel: cancel,
	}
}

// RegisterTriggerWithAction takes the trigger's receiver, spawns a
// consumer goroutine that serialises one action invocation per fire,
// then starts the trigger. Registering the same trigger twice fails
// loudly because Receiver() can only be taken once.
func (s *Scheduler) RegisterTriggerWithAction(name string, tr *trigger.Trigger, action Action) error {
	recv, ok := tr.Receiver()
	if !ok {
		return fmt.Errorf("scheduler: trigger %q receiver already taken", name)
	}

	reg := &registration{name: name, trigger: tr, done: make(chan struct{})}

	s.mu.Lock()
	s.registrations = append(s.registrations, reg)
	ctx := s.ctx
	s.mu.Unlock()

	go s.consume(ctx, reg, recv, action)

	tr.Start()
	return nil
}

// consume loops: await next generation, invoke action(gen, mailer) and
// await it to completion before taking the next message. This
// serialises invocations per trigger -- no overlapping actions for the
// same trigger.
func (s *Scheduler) consume(ctx context.Context, reg *registration, recv <-chan uint64, action Action) {
	defer close(reg.done)
	log := logger.Component("scheduler.consumer")

	for {
		select {
		case gen, ok := <-recv:
			if !ok {
				log.Debug("trigger channel closed, consumer exiting", "trigger", reg.name)
				return
			}
			action(ctx, gen, s.mailer)
		case <-ctx.Done():
			log.Debug("consumer cancelled", "trigger", reg.name)
			return
		}
	}
}

// Triggers returns the names and current generations of every
// registered trigger, for introspection (e.g. the status HTTP server).
func (s *Scheduler) Triggers() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]uint64, len(s.registrations))
	for _, r := range s.registrations {
		out[r.name] = r.trigger.Generation()
	}
	return out
}

// Shutdown aborts every producer and consumer goroutine. In-flight
// actions are cancelled at their next await point; an SMTP send already
// in progress is not abortable mid-TCP-write and will complete or error
// on its own.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	regs := s.registrations
	s.mu.Unlock()

	s.cancel()
	for _, r := range regs {
		r.trigger.Abort()
	}
	for _, r := range regs {
		r.trigger.Wait()
		<-r.done
	}
}
