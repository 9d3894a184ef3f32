package event

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/Josh-Grafman/boatrental/internal/logging"
)

// Handler is a function that handles a message.
type Handler func(Message)

// wildcard is the registry key for SubscribeAll handlers.
const wildcard Channel = "*"

// Subscription is the handle returned by Subscribe. The subscribing
// component owns it and must Release it when it is torn down.
type Subscription struct {
	id       uint64
	channel  Channel
	handler  Handler
	bus      *Bus
	released atomic.Bool
}

// Channel returns the channel the subscription listens on ("*" for all).
func (s *Subscription) Channel() Channel { return s.channel }

// Release removes the subscription from its bus. It is safe to call more
// than once and on a nil subscription.
func (s *Subscription) Release() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.Unsubscribe(s)
}

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool {
	return s != nil && !s.released.Load()
}

// Bus is a synchronous publish/subscribe message bus. Components talk to
// each other through it instead of holding references to one another.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[Channel][]*Subscription
	nextID        atomic.Uint64
	logger        *logging.Logger
}

// NewBus creates a new message bus. A nil logger discards handler failures.
func NewBus(logger *logging.Logger) *Bus {
	return &Bus{
		subscriptions: make(map[Channel][]*Subscription),
		logger:        logging.OrNop(logger).WithComponent("bus"),
	}
}

// Subscribe registers a handler for a channel. Handlers on the same channel
// are called in registration order.
func (b *Bus) Subscribe(channel Channel, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{
		id:      b.nextID.Add(1),
		channel: channel,
		handler: handler,
		bus:     b,
	}
	b.subscriptions[channel] = append(b.subscriptions[channel], sub)
	return sub
}

// SubscribeAll registers a handler for every channel. Wildcard handlers run
// after the channel's own handlers.
func (b *Bus) SubscribeAll(handler Handler) *Subscription {
	return b.Subscribe(wildcard, handler)
}

// Unsubscribe removes exactly the given subscription. It returns true if the
// subscription was registered; calling it again returns false.
func (b *Bus) Unsubscribe(sub *Subscription) bool {
	if sub == nil || sub.bus != b {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !sub.released.CompareAndSwap(false, true) {
		return false
	}

	subs := b.subscriptions[sub.channel]
	for i, s := range subs {
		if s == sub {
			// Build a new slice: a publish in progress may hold the old one.
			next := make([]*Subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(b.subscriptions, sub.channel)
			} else {
				b.subscriptions[sub.channel] = next
			}
			return true
		}
	}
	return false
}

// Publish validates msg and delivers it synchronously to every handler
// subscribed to its channel, then to wildcard handlers.
//
// The subscriber list is snapshotted before delivery: handlers added during
// this call are not invoked by it, and handlers removed during this call are
// still invoked if they were in the snapshot. A panicking handler is logged
// and recovered; delivery continues with the next handler.
func (b *Bus) Publish(msg Message) error {
	if msg == nil {
		return fmt.Errorf("publish: nil message")
	}
	if err := msg.Validate(); err != nil {
		b.logger.Warn("rejected message", "channel", string(msg.Channel()), "kind", string(msg.Kind()), "error", err.Error())
		return err
	}

	b.mu.RLock()
	specific := b.subscriptions[msg.Channel()]
	all := b.subscriptions[wildcard]
	snapshot := make([]*Subscription, 0, len(specific)+len(all))
	snapshot = append(snapshot, specific...)
	snapshot = append(snapshot, all...)
	b.mu.RUnlock()

	b.logger.Debug("publish", "channel", string(msg.Channel()), "kind", string(msg.Kind()), "handlers", len(snapshot))

	for _, sub := range snapshot {
		b.safeCall(sub, msg)
	}
	return nil
}

// safeCall invokes a handler and recovers from any panic.
func (b *Bus) safeCall(sub *Subscription, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				"channel", string(msg.Channel()),
				"kind", string(msg.Kind()),
				"subscription", sub.id,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	sub.handler(msg)
}

// Clear removes all subscriptions.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, subs := range b.subscriptions {
		for _, s := range subs {
			s.released.Store(true)
		}
	}
	b.subscriptions = make(map[Channel][]*Subscription)
}

// SubscriptionCount returns the total number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, subs := range b.subscriptions {
		count += len(subs)
	}
	return count
}
