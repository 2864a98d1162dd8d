// Package events publishes domain events and chat notifications to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	ReviewCreated        = "review.created"
	ReferralCompleted    = "referral.completed"

	// NotifyWhatsApp is consumed by the chat gateway.
	NotifyWhatsApp = "notify.whatsapp"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data any) error
	Close() error
}

type NATSPublisher struct {
	conn *nats.Conn
	log  *zap.Logger
}

func NewNATSPublisher(url string, log *zap.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("cleaning-hub"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn, log: log.With(zap.String("publisher", "nats"))}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}

	p.log.Debug("Publishing event", zap.String("subject", subject), zap.ByteString("data", payload))

	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

type logPublisher struct {
	log *zap.Logger
}

// NewLogPublisher returns a Publisher that only logs events.
func NewLogPublisher(log *zap.Logger) Publisher {
	return &logPublisher{log: log.With(zap.String("publisher", "log"))}
}

func (p *logPublisher) Publish(_ context.Context, subject string, data any) error {
	p.log.Info("Event", zap.String("subject", subject), zap.Any("data", data))
	return nil
}

func (p *logPublisher) Close() error { return nil }

type ChatMessage struct {
	To        string `json:"to"`
	Message   string `json:"message"`
	BookingID string `json:"bookingId"`
}

type BookingEvent struct {
	BookingID   string    `json:"bookingId"`
	UserID      string    `json:"userId,omitempty"`
	ServiceName string    `json:"serviceName"`
	Status      string    `json:"status"`
	Channel     string    `json:"channel"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type ReviewEvent struct {
	ReviewID   string    `json:"reviewId"`
	BookingID  string    `json:"bookingId"`
	UserID     string    `json:"userId"`
	Rating     int       `json:"rating"`
	Points     int       `json:"points"`
	OccurredAt time.Time `json:"occurredAt"`
}

type ReferralEvent struct {
	ReferralID     string    `json:"referralId"`
	ReferrerID     string    `json:"referrerId"`
	ReferredUserID string    `json:"referredUserId"`
	Points         int       `json:"points"`
	OccurredAt     time.Time `json:"occurredAt"`
}
