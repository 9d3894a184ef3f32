// Package selection tracks which boat is currently selected and announces
// selection changes on the message bus.
package selection

import (
	"slices"
	"sync"

	"github.com/Josh-Grafman/boatrental/internal/event"
	"github.com/Josh-Grafman/boatrental/internal/logging"
)

// State is a snapshot of the coordinator.
type State struct {
	Selected bool
	BoatID   string
}

func (s State) String() string {
	if !s.Selected {
		return "unselected"
	}
	return "selected(" + s.BoatID + ")"
}

type opKind int

const (
	opSelect opKind = iota
	opClear
	opRefresh
)

type transition struct {
	kind opKind
	id   string
	ids  []string
}

// Publisher is the part of the bus the coordinator needs.
type Publisher interface {
	Publish(msg event.Message) error
}

// Coordinator owns the selected boat id.
//
// Transitions are serialized. A transition requested while another one is
// still delivering its message, whether from a handler of that message or
// from another goroutine, is queued and applied once the current delivery
// has finished. Queued transitions keep their request order.
type Coordinator struct {
	bus    Publisher
	logger *logging.Logger

	mu       sync.Mutex
	state    State
	pending  []transition
	draining bool
}

// New creates a coordinator in the unselected state.
func New(bus Publisher, logger *logging.Logger) *Coordinator {
	return &Coordinator{
		bus:    bus,
		logger: logging.OrNop(logger).WithComponent("selection"),
	}
}

// Select moves to Selected(boatID) and publishes a select message.
// Selecting the current boat again still publishes.
func (c *Coordinator) Select(boatID string) {
	if boatID == "" {
		c.logger.Warn("ignoring select without a boat id")
		return
	}
	c.enqueue(transition{kind: opSelect, id: boatID})
}

// Clear moves to Unselected. It publishes nothing.
func (c *Coordinator) Clear() {
	c.enqueue(transition{kind: opClear})
}

// Refresh publishes a refresh message for boatIDs, or for every boat when
// none are given. The selection does not change.
func (c *Coordinator) Refresh(boatIDs ...string) {
	c.enqueue(transition{kind: opRefresh, ids: slices.Clone(boatIDs)})
}

// Current returns the selected boat id, if any.
func (c *Coordinator) Current() (string, bool) {
	s := c.State()
	return s.BoatID, s.Selected
}

// State returns a snapshot of the coordinator's state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) enqueue(t transition) {
	c.mu.Lock()
	c.pending = append(c.pending, t)
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true
	c.mu.Unlock()

	c.drain()
}

// drain applies queued transitions until none remain. Only one goroutine
// drains at a time; the state change and its publish happen together.
func (c *Coordinator) drain() {
	for {
		c.mu.Lock()
		if len(c.pending) == 0 {
			c.draining = false
			c.mu.Unlock()
			return
		}
		t := c.pending[0]
		c.pending = c.pending[1:]

		var msg event.Message
		switch t.kind {
		case opSelect:
			c.state = State{Selected: true, BoatID: t.id}
			msg = event.NewSelectMessage(t.id)
		case opClear:
			c.state = State{}
		case opRefresh:
			msg = event.NewRefreshMessage(t.ids...)
		}
		c.mu.Unlock()

		if msg == nil {
			c.logger.Debug("selection cleared")
			continue
		}
		c.publish(msg)
	}
}

func (c *Coordinator) publish(msg event.Message) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(msg); err != nil {
		c.logger.Warn("publish failed", "kind", string(msg.Kind()), "error", err.Error())
	}
}
