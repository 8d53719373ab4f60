package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types published on the booking events topic.
const (
	BookingCreated  = "booking.created"
	BookingApproved = "booking.approved"
	BookingRejected = "booking.rejected"
)

// Envelope is the CloudEvents-style wrapper every published message uses.
type Envelope struct {
	SpecVersion string          `json:"specversion"`
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Type        string          `json:"type"`
	Time        time.Time       `json:"time"`
	Data        json.RawMessage `json:"data"`
}

// NewEnvelope wraps the payload in an envelope with a fresh event id.
func NewEnvelope(source, eventType string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return Envelope{
		SpecVersion: "1.0",
		ID:          uuid.NewString(),
		Source:      source,
		Type:        eventType,
		Time:        time.Now().UTC(),
		Data:        raw,
	}, nil
}

// ParseEnvelope decodes a raw message into an Envelope.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return Envelope{}, fmt.Errorf("failed to parse event envelope: %w", err)
	}
	return e, nil
}

// ParseData decodes the envelope payload into the given value.
func (e Envelope) ParseData(v any) error {
	return json.Unmarshal(e.Data, v)
}

// BookingEvent is the payload for all booking lifecycle events.
type BookingEvent struct {
	BookingID  uint64    `json:"booking_id"`
	ItemID     uint64    `json:"item_id"`
	BookerID   uint64    `json:"booker_id"`
	OwnerID    uint64    `json:"owner_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
