package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	deliveryTimeout = 5 * time.Second
	flushInterval   = 5 * time.Millisecond
)

const (
	TaskListCreated = "task_list_created"
	TaskListUpdated = "task_list_updated"
	TaskListDeleted = "task_list_deleted"
	TaskCreated     = "task_created"
	TaskUpdated     = "task_updated"
	TaskDeleted     = "task_deleted"
	UserRegistered  = "user_registered"
)

type Event struct {
	Type         string    `json:"type"`
	UserID       uint      `json:"user_id"`
	TaskListUUID string    `json:"tasklist_uuid,omitempty"`
	TaskUUID     string    `json:"task_uuid,omitempty"`
	At           time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           deliveryTimeout,
		// Publish writes one message synchronously; without these the writer
		// holds it for the default one second batch window.
		BatchSize:    1,
		BatchTimeout: flushInterval,
	}}
}

// Publish writes ev keyed by its owner, so one user's events stay ordered on
// a single partition.
func (p *Producer) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(ev.UserID), 10)),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: delivery failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Discard drops every event. It is used when no brokers are configured.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
func (Discard) Close() error                         { return nil }
