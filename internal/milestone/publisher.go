// Package milestone publishes downstream commands: the milestone advance that
// follows a successful disclosure and the PP approval/revision notifications
// that follow a successful eligibility submission. Commands go to a Kafka
// topic consumed by the milestones tracker; publishing is synchronous so the
// workflow can honor its ordering guarantee (command only after the triggering
// side effect succeeded).
package milestone

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Command types on the wire.
const (
	CommandAdvancePPPDMilestone = "milestone.advance_pppd"
	CommandRequestApproval      = "eligibility.request_approval"
	CommandRequestRevision      = "eligibility.request_revision"
)

// Command is the wire envelope for downstream commands. Keyed by operation
// number so per-operation ordering holds within a partition.
type Command struct {
	Type            string    `json:"type"`
	OperationNumber string    `json:"operationNumber"`
	IssuedAt        time.Time `json:"issuedAt"`
}

// Publisher produces commands to Kafka.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// NewPublisher connects to the brokers and ensures the command topic exists.
// Topic creation is idempotent; an already-existing topic is not an error.
func NewPublisher(ctx context.Context, brokers []string, topic string) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ensure topic %s: %w", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			client.Close()
			return nil, fmt.Errorf("ensure topic %s: %w", topic, r.Err)
		}
	}

	return &Publisher{client: client, topic: topic}, nil
}

// AdvancePPPDMilestone dispatches the public-project-profile-disclosed
// milestone advance for an operation.
func (p *Publisher) AdvancePPPDMilestone(ctx context.Context, opNumber string) error {
	return p.publish(ctx, CommandAdvancePPPDMilestone, opNumber)
}

// RequestApproval dispatches the PP approval notification.
func (p *Publisher) RequestApproval(ctx context.Context, opNumber string) error {
	return p.publish(ctx, CommandRequestApproval, opNumber)
}

// RequestRevision dispatches the PP revision notification.
func (p *Publisher) RequestRevision(ctx context.Context, opNumber string) error {
	return p.publish(ctx, CommandRequestRevision, opNumber)
}

func (p *Publisher) publish(ctx context.Context, commandType, opNumber string) error {
	payload, err := json.Marshal(Command{
		Type:            commandType,
		OperationNumber: opNumber,
		IssuedAt:        time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode %s command: %w", commandType, err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(opNumber),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish %s for %s: %w", commandType, opNumber, err)
	}
	return nil
}

// Close flushes and releases the Kafka client.
func (p *Publisher) Close() {
	p.client.Close()
}

// NopPublisher discards commands. Used when no brokers are configured, so
// local development does not require Kafka.
type NopPublisher struct{}

func (NopPublisher) AdvancePPPDMilestone(context.Context, string) error { return nil }
func (NopPublisher) RequestApproval(context.Context, string) error     { return nil }
func (NopPublisher) RequestRevision(context.Context, string) error     { return nil }
