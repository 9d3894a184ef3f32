package event

import (
	"fmt"
	"slices"
	"time"

	"github.com/Josh-Grafman/boatrental/internal/errors"
)

// Channel is a named namespace on the bus. Publishers and subscribers agree
// on it out of band; delivery never crosses channels.
type Channel string

const (
	// BoatChannel carries selection and refresh notifications for boats.
	BoatChannel Channel = "boat"
	// ReviewChannel carries review lifecycle notifications.
	ReviewChannel Channel = "review"
)

// Kind tags the variant of a message within its channel.
type Kind string

const (
	KindSelect  Kind = "select"
	KindRefresh Kind = "refresh"
	KindCreated Kind = "created"
)

// Message is the interface that all bus messages implement.
type Message interface {
	// Channel returns the channel the message is published on.
	Channel() Channel

	// Kind returns the variant tag. Subscribers ignore kinds they do not know.
	Kind() Kind

	// Timestamp returns when the message was created.
	Timestamp() time.Time

	// Validate reports whether the message is well formed for its channel.
	Validate() error
}

type baseMessage struct {
	kind      Kind
	timestamp time.Time
}

func (m baseMessage) Kind() Kind           { return m.kind }
func (m baseMessage) Timestamp() time.Time { return m.timestamp }

func newBase(kind Kind) baseMessage {
	return baseMessage{kind: kind, timestamp: time.Now()}
}

// -----------------------------------------------------------------------------
// Boat Channel
// -----------------------------------------------------------------------------

// BoatMessage is the only message type carried on BoatChannel.
//
// A select message names exactly one boat. A refresh message names the boats
// whose data changed; a nil BoatIDs means every boat.
type BoatMessage struct {
	baseMessage
	BoatID  string   // set for KindSelect
	BoatIDs []string // set for KindRefresh; nil refreshes everything
}

// NewSelectMessage creates a select message for boatID.
func NewSelectMessage(boatID string) BoatMessage {
	return BoatMessage{baseMessage: newBase(KindSelect), BoatID: boatID}
}

// NewRefreshMessage creates a refresh message. With no ids it refreshes
// every boat.
func NewRefreshMessage(boatIDs ...string) BoatMessage {
	var ids []string
	if len(boatIDs) > 0 {
		ids = slices.Clone(boatIDs)
	}
	return BoatMessage{baseMessage: newBase(KindRefresh), BoatIDs: ids}
}

func (m BoatMessage) Channel() Channel { return BoatChannel }

// Covers reports whether a refresh message applies to boatID.
func (m BoatMessage) Covers(boatID string) bool {
	if m.kind != KindRefresh || boatID == "" {
		return false
	}
	return m.BoatIDs == nil || slices.Contains(m.BoatIDs, boatID)
}

// Validate checks the message against its kind.
func (m BoatMessage) Validate() error {
	switch m.kind {
	case KindSelect:
		if m.BoatID == "" {
			return errors.NewValidationError("select message requires a boat id").WithField("boat_id")
		}
	case KindRefresh:
		for i, id := range m.BoatIDs {
			if id == "" {
				return errors.NewValidationError(fmt.Sprintf("refresh message has an empty id at %d", i)).
					WithField("boat_ids")
			}
		}
	default:
		return errors.NewValidationError("boat channel does not carry this kind").
			WithField("kind").WithValue(string(m.kind)).WithCause(errors.ErrUnknownMessageKind)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Review Channel
// -----------------------------------------------------------------------------

// ReviewMessage is the only message type carried on ReviewChannel.
type ReviewMessage struct {
	baseMessage
	BoatID   string
	ReviewID string
}

// NewReviewCreatedMessage announces that a review for boatID was stored.
func NewReviewCreatedMessage(boatID, reviewID string) ReviewMessage {
	return ReviewMessage{baseMessage: newBase(KindCreated), BoatID: boatID, ReviewID: reviewID}
}

func (m ReviewMessage) Channel() Channel { return ReviewChannel }

// Validate checks the message against its kind.
func (m ReviewMessage) Validate() error {
	if m.kind != KindCreated {
		return errors.NewValidationError("review channel does not carry this kind").
			WithField("kind").WithValue(string(m.kind)).WithCause(errors.ErrUnknownMessageKind)
	}
	if m.BoatID == "" {
		return errors.NewValidationError("created message requires a boat id").WithField("boat_id")
	}
	return nil
}
