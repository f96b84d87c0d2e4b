package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"studiobook/pkg/config"
	"studiobook/pkg/kafka"
	"studiobook/pkg/logger"
	"studiobook/pkg/model"
)

// SubmittedEvent is the payload published when a booking is created. It
// carries the frozen totals, not the full breakdown; consumers that need the
// details fetch the record by reference.
type SubmittedEvent struct {
	BookingID   string    `json:"booking_id"`
	Reference   string    `json:"reference"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	EventDate   string    `json:"event_date"`
	Total       int64     `json:"total"`
	Advance     int64     `json:"advance"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type Publisher interface {
	BookingSubmitted(ctx context.Context, booking *model.BookingRecord) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher builds a publisher for the submitted-bookings topic.
func NewKafkaPublisher(cfg *config.Config, log *logger.Logger) (Publisher, error) {
	kafkaCfg, err := kafka.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kafka config: %w", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsSubmittedTopic, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &kafkaPublisher{producer: producer}, nil
}

func (p *kafkaPublisher) BookingSubmitted(ctx context.Context, booking *model.BookingRecord) error {
	event := SubmittedEvent{
		BookingID:   booking.ID,
		Reference:   booking.Reference,
		ClientName:  booking.ClientInfo.FullName,
		ClientPhone: booking.PhoneNormalized,
		EventDate:   booking.EventDetails.EventDate,
		Total:       booking.Breakdown.Total,
		Advance:     booking.Breakdown.Advance,
		SubmittedAt: booking.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal submitted event: %w", err)
	}

	return p.producer.Publish(ctx, kafka.Message{
		Key:       booking.Reference,
		Value:     payload,
		Timestamp: event.SubmittedAt,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher is used when event publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) BookingSubmitted(ctx context.Context, booking *model.BookingRecord) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
