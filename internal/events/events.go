package events

import (
	"context"
	"strconv"
	"time"
)

const (
	MembershipPurchased  = "membership.purchased"
	MembershipCancelled  = "membership.cancelled"
	ClassEnrolled        = "class.enrolled"
	ClassUnenrolled      = "class.unenrolled"
	EquipmentReserved    = "equipment.reserved"
	ReservationCancelled = "equipment.reservation_cancelled"
	InstructorRated      = "instructor.rated"
)

// Event is the envelope written to the event stream. Key orders events of
// the same client within a partition.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

func New(eventType string, clientID uint, data any) Event {
	return Event{
		Type:       eventType,
		Key:        strconv.FormatUint(uint64(clientID), 10),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
