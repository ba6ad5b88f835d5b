package kafka

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/Harmonybod/Event-Ticketing-System/internal/models"
)

const (
	TopicReservationCreated  = "ticketing.reservation.created"
	TopicReservationApproved = "ticketing.reservation.approved"
	TopicReservationRejected = "ticketing.reservation.rejected"
	TopicReservationDeleted  = "ticketing.reservation.deleted"
	TopicTicketsExpired      = "ticketing.tickets.expired"
)

// Topics lists everything the service publishes to, in the order main
// ensures them at startup.
var Topics = []string{
	TopicReservationCreated,
	TopicReservationApproved,
	TopicReservationRejected,
	TopicReservationDeleted,
	TopicTicketsExpired,
}

type Producer struct {
	Writer *kafka.Writer
}

// NewProducer builds a topic-agnostic writer; each publish names its
// topic on the message.
func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer}
}

func (p *Producer) publish(topic, key string, payload interface{}) error {
	msgBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: msgBytes,
		},
	)
}

type reservationEvent struct {
	Reservation models.Reservation `json:"reservation"`
	Codes       []string           `json:"codes,omitempty"`
	Hashkeys    []string           `json:"hashkeys,omitempty"`
}

// PublishReservationCreated streams the new reservation and its codes
func (p *Producer) PublishReservationCreated(reservation models.Reservation, codes []string) error {
	return p.publish(TopicReservationCreated,
		strconv.FormatInt(reservation.ReservationID, 10),
		reservationEvent{Reservation: reservation, Codes: codes})
}

// PublishReservationApproved streams the approval with its hashkeys
func (p *Producer) PublishReservationApproved(reservation models.Reservation, hashkeys []string) error {
	return p.publish(TopicReservationApproved,
		strconv.FormatInt(reservation.ReservationID, 10),
		reservationEvent{Reservation: reservation, Hashkeys: hashkeys})
}

// PublishReservationRejected streams the rejection event
func (p *Producer) PublishReservationRejected(reservation models.Reservation) error {
	return p.publish(TopicReservationRejected,
		strconv.FormatInt(reservation.ReservationID, 10),
		reservationEvent{Reservation: reservation})
}

// PublishReservationDeleted streams the hard delete event
func (p *Producer) PublishReservationDeleted(reservationID int64) error {
	return p.publish(TopicReservationDeleted,
		strconv.FormatInt(reservationID, 10),
		map[string]int64{"reservation_id": reservationID})
}

// PublishTicketsExpired streams the nightly sweep outcome
func (p *Producer) PublishTicketsExpired(stats models.SweepStats) error {
	return p.publish(TopicTicketsExpired, "sweep", stats)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
