// Package events publishes booking lifecycle events to Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TypeBookingCreated = "booking.created"
	TypeBookingPaid    = "booking.paid"
)

// Event is the JSON payload published for each booking change.
type Event struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	BookingID    string    `json:"bookingId"`
	PatientEmail string    `json:"patientEmail,omitempty"`
	Treatment    string    `json:"treatmentName,omitempty"`
	Date         string    `json:"appointmentDate,omitempty"`
	Time         string    `json:"appointmentTime,omitempty"`
	Transaction  string    `json:"transactionId,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType, bookingID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		BookingID:  bookingID,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher publishes events as JSON on a single channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", event.Type, err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("events: publish %s: %w", event.Type, err)
	}
	return nil
}

// Nop drops every event. Used when Redis is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
