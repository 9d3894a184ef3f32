// Package event provides the in-process message bus that decouples the
// boat browser's components.
//
// The search results publish a selection, and the detail tabs, the map and
// the reviews react to it, without any of them holding a reference to the
// others.
//
// # Main Types
//
//   - [Bus]: synchronous publish/subscribe dispatcher, safe for concurrent use
//   - [Message]: tagged message interface; one concrete type per channel
//   - [Subscription]: handle owned by the subscriber, released on teardown
//
// # Channels and Messages
//
// [BoatChannel] carries [BoatMessage] with kind "select" (one boat id) or
// "refresh" (a list of boat ids, or nil for every boat). [ReviewChannel]
// carries [ReviewMessage] with kind "created". Messages are validated when
// they are published; a malformed message is rejected and not delivered.
// Subscribers ignore kinds they do not recognize.
//
// # Delivery
//
// Publish delivers in the caller's turn, in registration order, from a
// snapshot of the subscriber list taken when Publish starts. A handler that
// panics is recovered and logged; the remaining handlers still run and the
// publisher never sees the panic.
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//
//	sub := bus.Subscribe(event.BoatChannel, func(m event.Message) {
//	    msg, ok := m.(event.BoatMessage)
//	    if !ok {
//	        return
//	    }
//	    switch msg.Kind() {
//	    case event.KindSelect:
//	        load(msg.BoatID)
//	    case event.KindRefresh:
//	        if msg.Covers(current) {
//	            reload()
//	        }
//	    }
//	})
//	defer sub.Release()
//
//	_ = bus.Publish(event.NewSelectMessage("b-17"))
package event
