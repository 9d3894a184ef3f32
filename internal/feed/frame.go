// Package feed mirrors the message bus to browsers over websockets. Every
// message published on the bus is sent to every connected client as one
// JSON frame; clients may send select commands back.
package feed

import (
	"encoding/json"
	"time"

	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/event"
)

// Frame is the JSON form of a bus message.
type Frame struct {
	Channel   string    `json:"channel"`
	Kind      string    `json:"kind"`
	BoatID    string    `json:"boat_id,omitempty"`
	BoatIDs   []string  `json:"boat_ids,omitempty"`
	ReviewID  string    `json:"review_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// FrameFor converts a bus message. It reports false for message types the
// feed does not carry.
func FrameFor(msg event.Message) (Frame, bool) {
	f := Frame{
		Channel:   string(msg.Channel()),
		Kind:      string(msg.Kind()),
		Timestamp: msg.Timestamp(),
	}
	switch m := msg.(type) {
	case event.BoatMessage:
		f.BoatID = m.BoatID
		f.BoatIDs = m.BoatIDs
	case event.ReviewMessage:
		f.BoatID = m.BoatID
		f.ReviewID = m.ReviewID
	default:
		return Frame{}, false
	}
	return f, true
}

// Command is what a client may send: {"action":"select","boat_id":"b-1"}.
type Command struct {
	Action  string   `json:"action"`
	BoatID  string   `json:"boat_id,omitempty"`
	BoatIDs []string `json:"boat_ids,omitempty"`
}

const (
	ActionSelect  = "select"
	ActionRefresh = "refresh"
)

// ParseCommand decodes and checks a client command.
func ParseCommand(data []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return Command{}, errors.NewValidationError("command is not valid JSON").WithCause(err)
	}
	switch c.Action {
	case ActionSelect:
		if c.BoatID == "" {
			return Command{}, errors.NewValidationError("select requires a boat id").WithField("boat_id")
		}
	case ActionRefresh:
	default:
		return Command{}, errors.NewValidationError("unknown action").WithField("action").WithValue(c.Action)
	}
	return c, nil
}
