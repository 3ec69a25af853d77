//go:build integration

package milestone_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"sgprep/internal/milestone"
	"sgprep/pkg/testutil/containers"
)

type PublisherSuite struct {
	suite.Suite
	brokers   []string
	publisher *milestone.Publisher
	topic     string
}

func TestPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupSuite() {
	s.brokers = containers.GetManager().GetRedpanda(s.T()).Brokers
	s.topic = "sgprep.commands.test"

	var err error
	s.publisher, err = milestone.NewPublisher(context.Background(), s.brokers, s.topic)
	s.Require().NoError(err)
}

func (s *PublisherSuite) TearDownSuite() {
	if s.publisher != nil {
		s.publisher.Close()
	}
}

func (s *PublisherSuite) TestPublishesKeyedCommands() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.Require().NoError(s.publisher.AdvancePPPDMilestone(ctx, "OP-1234"))
	s.Require().NoError(s.publisher.RequestApproval(ctx, "OP-1234"))
	s.Require().NoError(s.publisher.RequestRevision(ctx, "OP-5678"))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.brokers...),
		kgo.ConsumeTopics(s.topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var commands []milestone.Command
	for len(commands) < 3 {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(fetches.Err())
		fetches.EachRecord(func(record *kgo.Record) {
			var cmd milestone.Command
			s.Require().NoError(json.Unmarshal(record.Value, &cmd))
			s.Equal(cmd.OperationNumber, string(record.Key))
			commands = append(commands, cmd)
		})
	}

	types := make(map[string]string)
	for _, cmd := range commands {
		types[cmd.Type] = cmd.OperationNumber
		s.False(cmd.IssuedAt.IsZero())
	}
	s.Equal("OP-1234", types[milestone.CommandAdvancePPPDMilestone])
	s.Equal("OP-1234", types[milestone.CommandRequestApproval])
	s.Equal("OP-5678", types[milestone.CommandRequestRevision])
}

func (s *PublisherSuite) TestTopicCreationIsIdempotent() {
	second, err := milestone.NewPublisher(context.Background(), s.brokers, s.topic)
	s.Require().NoError(err)
	second.Close()
}
