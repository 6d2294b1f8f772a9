// Package event provides the in-process bus that fans out side effects
// (email delivery, deferred image promotion) from state transitions. Handler
// execution is decoupled from publication, so the services stay synchronously
// testable: publishing never blocks and returns no result to the caller.
package event

import (
	"context"
	"sync"
	"time"
)

const (
	ConfirmEmail        = "confirmEmail"
	ForgetPassword      = "forgetPassword"
	PromoteProfileImage = "promoteProfileImage"
)

type Handler func(ctx context.Context, payload any)

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish dispatches payload to every handler registered for name, each on
// its own goroutine. Events with no handlers are dropped silently.
func (b *Bus) Publish(name string, payload any) {
	b.mu.RLock()
	handlers := b.handlers[name]
	b.mu.RUnlock()

	for _, h := range handlers {
		h := h
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			h(context.Background(), payload)
		}()
	}
}

// PublishAfter schedules a Publish once the delay has elapsed. Used for the
// deferred profile-image promotion check.
func (b *Bus) PublishAfter(delay time.Duration, name string, payload any) {
	b.wg.Add(1)
	time.AfterFunc(delay, func() {
		defer b.wg.Done()
		b.Publish(name, payload)
	})
}

// Wait blocks until all dispatched handlers have returned. Test helper.
func (b *Bus) Wait() {
	b.wg.Wait()
}
