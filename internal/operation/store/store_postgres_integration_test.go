//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sgprep/internal/operation"
	"sgprep/internal/operation/store"
	"sgprep/pkg/platform/sentinel"
	"sgprep/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	at       time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())

	_, err := s.postgres.DB.ExecContext(context.Background(), store.Schema)
	s.Require().NoError(err)

	s.store = store.NewPostgres(s.postgres.DB)
	s.at = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "operation_events")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()

	op := operation.New("OP-1234", "u1", s.at)
	sub := operation.EligibilitySubmission{
		EndDate:      timePtr(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)),
		StartTimeSet: true,
		MeetingStartTime: timePtr(
			time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),
	}
	s.Require().NoError(op.SubmitEligibility(sub, "u1", s.at))
	op.RegisterPPDocument(operation.Document{DocumentType: operation.DocTypePublicPPPdf, FileName: "pp.pdf"}, "u1", s.at)
	s.Require().NoError(s.store.Save(ctx, op))
	s.Empty(op.PendingEvents())

	loaded, err := s.store.Get(ctx, "OP-1234")
	s.Require().NoError(err)
	s.Equal(3, loaded.Version())
	s.Require().NotNil(loaded.EligibilitySubmission())
	s.True(loaded.EligibilitySubmission().StartTimeSet)
	s.Require().NotNil(loaded.EligibilitySubmission().EndDate)
	s.True(loaded.EligibilitySubmission().EndDate.Equal(*sub.EndDate))

	doc, ok := loaded.FindPPDocument(operation.DocTypePublicPPPdf)
	s.Require().True(ok)
	s.Equal("pp.pdf", doc.FileName)
}

func (s *PostgresStoreSuite) TestGetUnknownStream() {
	_, err := s.store.Get(context.Background(), "OP-404")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestConcurrentSaveConflicts() {
	ctx := context.Background()

	op := operation.New("OP-9999", "u1", s.at)
	s.Require().NoError(s.store.Save(ctx, op))

	first, err := s.store.Get(ctx, "OP-9999")
	s.Require().NoError(err)
	second, err := s.store.Get(ctx, "OP-9999")
	s.Require().NoError(err)

	s.Require().NoError(first.SubmitEligibility(operation.EligibilitySubmission{}, "u1", s.at))
	s.Require().NoError(s.store.Save(ctx, first))

	s.Require().NoError(second.SubmitEligibility(operation.EligibilitySubmission{}, "u2", s.at))
	err = s.store.Save(ctx, second)
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	// The losing writer must not have produced a partial append.
	loaded, err := s.store.Get(ctx, "OP-9999")
	s.Require().NoError(err)
	s.Equal(2, loaded.Version())
}

func timePtr(t time.Time) *time.Time { return &t }
