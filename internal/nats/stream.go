package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/showrunner-ai/orchestrator-platform/internal/model"
)

const (
	// StreamName is the name of the turn event stream.
	StreamName = "ORCHESTRATOR_TURNS"

	// SubjectPrefix is the prefix for all turn subjects.
	SubjectPrefix = "turn"
)

// TurnPublisher publishes orchestrator turns. Satisfied by TurnStream;
// the orchestrator service takes the interface so tests can fake it.
type TurnPublisher interface {
	PublishTurn(ctx context.Context, event *model.TurnEvent) (uint64, error)
}

// TurnStream manages the JetStream stream carrying conversation turns.
type TurnStream struct {
	client *Client
}

// NewTurnStream creates a turn stream manager.
func NewTurnStream(client *Client) *TurnStream {
	return &TurnStream{client: client}
}

// EnsureStream ensures the turn stream exists with proper configuration.
func (s *TurnStream) EnsureStream(ctx context.Context) error {
	js := s.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil // stream already exists
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		MaxBytes:    10 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Orchestrator conversation turns",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// TurnSubject returns the subject for one conversation turn.
func TurnSubject(sessionID string, role model.Role) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, sessionID, role)
}

// SessionFilter returns the filter subject for all turns of a session.
func SessionFilter(sessionID string) string {
	return fmt.Sprintf("%s.%s.>", SubjectPrefix, sessionID)
}

// PublishTurn publishes a turn event to JetStream.
func (s *TurnStream) PublishTurn(ctx context.Context, event *model.TurnEvent) (uint64, error) {
	subject := TurnSubject(event.SessionID, event.Role)

	data, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal turn event: %w", err)
	}

	ack, err := s.client.JetStream().Publish(ctx, subject, data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish turn event: %w", err)
	}

	return ack.Sequence, nil
}

// GetTurns retrieves turn events for a session starting after a
// sequence number.
func (s *TurnStream) GetTurns(ctx context.Context, sessionID string, afterSequence uint64, limit int) ([]model.TurnEvent, uint64, error) {
	js := s.client.JetStream()

	consumerConfig := jetstream.ConsumerConfig{
		FilterSubject: SessionFilter(sessionID),
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	}
	if afterSequence > 0 {
		consumerConfig.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		consumerConfig.OptStartSeq = afterSequence + 1
	}

	consumer, err := js.CreateConsumer(ctx, StreamName, consumerConfig)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create consumer: %w", err)
	}

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch turn events: %w", err)
	}

	var events []model.TurnEvent
	var lastSequence uint64

	for msg := range batch.Messages() {
		var event model.TurnEvent
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			continue
		}
		if meta, err := msg.Metadata(); err == nil {
			lastSequence = meta.Sequence.Stream
		}
		events = append(events, event)
	}

	if batch.Error() != nil && batch.Error() != context.DeadlineExceeded {
		return nil, 0, fmt.Errorf("batch error: %w", batch.Error())
	}

	return events, lastSequence, nil
}
