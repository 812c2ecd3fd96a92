package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
}

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Async:    false,
	}

	return &KafkaProducer{writer: writer}
}

func NewKafkaConsumer(brokers []string, topic, groupID string) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 1 * time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	return &KafkaConsumer{reader: reader}
}

func (p *KafkaProducer) Publish(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	return p.writer.WriteMessages(ctx, message)
}

func (c *KafkaConsumer) Subscribe(ctx context.Context, handler func(Message) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			message, err := c.reader.ReadMessage(ctx)
			if err != nil {
				return fmt.Errorf("failed to read message: %w", err)
			}

			msg := Message{
				Key:   string(message.Key),
				Value: message.Value,
				Topic: message.Topic,
			}

			if err := handler(msg); err != nil {
				fmt.Printf("Failed to handle message: %v\n", err)
				continue
			}
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

type Message struct {
	Key   string
	Value []byte
	Topic string
}

type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserUpdated    EventType = "user_updated"
	EventChirpCreated   EventType = "chirp_created"
	EventChirpDeleted   EventType = "chirp_deleted"
	EventFollowCreated  EventType = "follow_created"
	EventFollowDeleted  EventType = "follow_deleted"
	EventLikeCreated    EventType = "like_created"
	EventLikeDeleted    EventType = "like_deleted"
	EventRechirpCreated EventType = "rechirp_created"
	EventRechirpDeleted EventType = "rechirp_deleted"
)

type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func NewEvent(eventType EventType, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return Event{Type: eventType, Timestamp: time.Now(), Data: raw}, nil
}

type ChirpEventData struct {
	ChirpID   string `json:"chirp_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	ReplyToID string `json:"reply_to_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

type FollowEventData struct {
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
}

type EngagementEventData struct {
	UserID  string `json:"user_id"`
	ChirpID string `json:"chirp_id"`
}
