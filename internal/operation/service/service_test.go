package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sgprep/internal/operation"
	"sgprep/internal/operation/store"
	dErrors "sgprep/pkg/domain-errors"
	"sgprep/pkg/platform/sentinel"
	"sgprep/pkg/requestcontext"
)

// =============================================================================
// Workflow Service Test Suite
// =============================================================================
// Justification for unit tests: the service owns the workflow ordering
// guarantees (validate before mutate, commit before milestone, exactly one
// milestone per disclosure). Those are cheapest to pin against an in-memory
// store with counting fakes for the collaborators.

type stubDiscloser struct {
	err   error
	calls int
}

func (d *stubDiscloser) Disclose(context.Context, string, operation.Document) error {
	d.calls++
	return d.err
}

type stubPublisher struct {
	err       error
	milestone int
	approval  int
	revision  int
}

func (p *stubPublisher) AdvancePPPDMilestone(context.Context, string) error {
	p.milestone++
	return p.err
}

func (p *stubPublisher) RequestApproval(context.Context, string) error {
	p.approval++
	return p.err
}

func (p *stubPublisher) RequestRevision(context.Context, string) error {
	p.revision++
	return p.err
}

type stubInfo struct {
	template string
	code     string
	roles    []string
	err      error
}

func (i *stubInfo) ProjectProfileTemplate(context.Context, string, string) (string, error) {
	return i.template, i.err
}

func (i *stubInfo) LoanModalityCode(context.Context, string) (string, error) {
	return i.code, i.err
}

func (i *stubInfo) UserRoles(context.Context, string, string) ([]string, error) {
	return i.roles, i.err
}

type alwaysWorkingOracle struct{ working bool }

func (o alwaysWorkingOracle) IsWorkingDay(context.Context, string, time.Time) (bool, error) {
	return o.working, nil
}

type ServiceSuite struct {
	suite.Suite
	store     *store.InMemoryStore
	discloser *stubDiscloser
	publisher *stubPublisher
	info      *stubInfo
	service   *Service
	at        time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemoryStore()
	s.discloser = &stubDiscloser{}
	s.publisher = &stubPublisher{}
	s.info = &stubInfo{code: "LON", roles: []string{"TeamLeader"}}
	s.at = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.store, alwaysWorkingOracle{working: true}, s.discloser, s.publisher, s.info, logger, nil)
}

// SetupSubTest gives each s.Run subtest the same fresh fixtures as SetupTest,
// so stub counters and injected errors don't leak between subtests.
func (s *ServiceSuite) SetupSubTest() {
	s.SetupTest()
}

// ctx returns a request context with a valid user and pinned clock.
func (s *ServiceSuite) ctx() context.Context {
	ctx := requestcontext.WithUser(context.Background(), requestcontext.UserContext{Name: "jdoe", UUID: "uuid-1"})
	return requestcontext.WithTime(ctx, s.at)
}

// seedOperation commits an initiated operation, optionally with a registered
// public project-profile PDF.
func (s *ServiceSuite) seedOperation(opNumber string, withPPDoc bool) {
	op := operation.New(opNumber, "seeder", s.at)
	if withPPDoc {
		op.RegisterPPDocument(operation.Document{DocumentType: operation.DocTypePublicPPPdf, FileName: "pp.pdf"}, "seeder", s.at)
	}
	s.Require().NoError(s.store.Save(context.Background(), op))
}

func minutesRequest() operation.EligibilityRequest {
	return operation.EligibilityRequest{
		DocType: operation.DocTypeMinutes,
		CirculationPeriod: &operation.CirculationPeriodRequest{
			EndDate: "2026-03-15",
			Meeting: &operation.MeetingRequest{Date: "2026-03-10", StartTime: "09:00"},
		},
	}
}

// =============================================================================
// Create Eligibility
// =============================================================================

func (s *ServiceSuite) TestCreateEligibility() {
	s.Run("creates and returns the submission", func() {
		s.seedOperation("OP-1", false)

		sub, err := s.service.CreateEligibility(s.ctx(), "OP-1", minutesRequest())
		s.Require().NoError(err)
		s.Require().NotNil(sub)
		s.Require().NotNil(sub.EndDate)
		s.True(sub.StartTimeSet)

		loaded, err := s.store.Get(context.Background(), "OP-1")
		s.Require().NoError(err)
		s.NotNil(loaded.EligibilitySubmission())
	})

	s.Run("unknown operation is not found", func() {
		_, err := s.service.CreateEligibility(s.ctx(), "OP-404", minutesRequest())
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("second create is an invariant violation and leaves state unchanged", func() {
		s.seedOperation("OP-2", false)
		first, err := s.service.CreateEligibility(s.ctx(), "OP-2", minutesRequest())
		s.Require().NoError(err)

		_, err = s.service.CreateEligibility(s.ctx(), "OP-2", minutesRequest())
		s.Require().Error(err)
		s.Equal(dErrors.CodeInvariant, dErrors.CodeOf(err))

		loaded, err := s.store.Get(context.Background(), "OP-2")
		s.Require().NoError(err)
		s.Equal(*first, *loaded.EligibilitySubmission())
	})

	s.Run("validation failure joins all violations", func() {
		s.seedOperation("OP-3", false)
		req := operation.EligibilityRequest{
			DocType:           operation.DocTypeMinutes,
			CirculationPeriod: &operation.CirculationPeriodRequest{},
		}

		_, err := s.service.CreateEligibility(s.ctx(), "OP-3", req)
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
		s.Contains(err.Error(), "there is no end date set for the circulation period in this operation")
		s.Contains(err.Error(), "the date of the meeting is needed")
	})

	s.Run("unknown doc type is a validation failure", func() {
		s.seedOperation("OP-4", false)
		_, err := s.service.CreateEligibility(s.ctx(), "OP-4", operation.EligibilityRequest{DocType: "Prospectus"})
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	s.Run("missing user context aborts before any write", func() {
		s.seedOperation("OP-5", false)
		_, err := s.service.CreateEligibility(context.Background(), "OP-5", minutesRequest())
		s.Require().Error(err)
		s.Equal(dErrors.CodeContextInvalid, dErrors.CodeOf(err))

		loaded, err := s.store.Get(context.Background(), "OP-5")
		s.Require().NoError(err)
		s.Nil(loaded.EligibilitySubmission())
	})

	s.Run("PP approval submission publishes the approval command after commit", func() {
		s.seedOperation("OP-6", false)
		req := minutesRequest()
		req.DocType = operation.DocTypePP
		req.DocVersion = operation.DocVersionApproval

		_, err := s.service.CreateEligibility(s.ctx(), "OP-6", req)
		s.Require().NoError(err)
		s.Equal(1, s.publisher.approval)
		s.Equal(0, s.publisher.revision)
	})

	s.Run("PP revision submission publishes the revision command", func() {
		s.seedOperation("OP-7", false)
		req := minutesRequest()
		req.DocType = operation.DocTypePP
		req.DocVersion = operation.DocVersionRevision

		_, err := s.service.CreateEligibility(s.ctx(), "OP-7", req)
		s.Require().NoError(err)
		s.Equal(1, s.publisher.revision)
	})

	s.Run("minutes submission publishes nothing", func() {
		s.seedOperation("OP-8", false)
		_, err := s.service.CreateEligibility(s.ctx(), "OP-8", minutesRequest())
		s.Require().NoError(err)
		s.Equal(0, s.publisher.approval)
		s.Equal(0, s.publisher.revision)
	})

	s.Run("failed PP notification surfaces but the submission stays committed", func() {
		s.seedOperation("OP-9", false)
		s.publisher.err = errors.New("broker down")
		req := minutesRequest()
		req.DocType = operation.DocTypePP
		req.DocVersion = operation.DocVersionApproval

		_, err := s.service.CreateEligibility(s.ctx(), "OP-9", req)
		s.Require().Error(err)

		loaded, err := s.store.Get(context.Background(), "OP-9")
		s.Require().NoError(err)
		s.NotNil(loaded.EligibilitySubmission())
	})
}

// =============================================================================
// Amend Eligibility
// =============================================================================

func (s *ServiceSuite) TestAmendEligibility() {
	s.Run("amend replaces the submission", func() {
		s.seedOperation("OP-10", false)
		_, err := s.service.CreateEligibility(s.ctx(), "OP-10", minutesRequest())
		s.Require().NoError(err)

		amended := minutesRequest()
		amended.CirculationPeriod.Meeting.MeetingLink = "https://meet/op-10"
		s.Require().NoError(s.service.AmendEligibility(s.ctx(), "OP-10", amended))

		view, err := s.service.GetEligibility(s.ctx(), "OP-10")
		s.Require().NoError(err)
		s.Equal("https://meet/op-10", view.CirculationPeriod.Meeting.MeetingLink)
	})

	s.Run("amend without an existing submission is not found", func() {
		s.seedOperation("OP-11", false)
		err := s.service.AmendEligibility(s.ctx(), "OP-11", minutesRequest())
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("amend validates but skips the per-type rules", func() {
		s.seedOperation("OP-12", false)
		_, err := s.service.CreateEligibility(s.ctx(), "OP-12", minutesRequest())
		s.Require().NoError(err)

		// No doc version: fine on amend even for PP.
		req := minutesRequest()
		req.DocType = operation.DocTypePP
		req.DocVersion = ""
		s.NoError(s.service.AmendEligibility(s.ctx(), "OP-12", req))
	})

	s.Run("amend without an end date leans on the stored one", func() {
		s.seedOperation("OP-13", false)
		_, err := s.service.CreateEligibility(s.ctx(), "OP-13", minutesRequest())
		s.Require().NoError(err)

		req := minutesRequest()
		req.CirculationPeriod.EndDate = ""
		s.NoError(s.service.AmendEligibility(s.ctx(), "OP-13", req))
	})
}

// =============================================================================
// Get Eligibility
// =============================================================================

func (s *ServiceSuite) TestGetEligibility() {
	s.Run("missing submission is not found", func() {
		s.seedOperation("OP-20", false)
		_, err := s.service.GetEligibility(s.ctx(), "OP-20")
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("returns the formatted view", func() {
		s.seedOperation("OP-21", false)
		_, err := s.service.CreateEligibility(s.ctx(), "OP-21", minutesRequest())
		s.Require().NoError(err)

		view, err := s.service.GetEligibility(s.ctx(), "OP-21")
		s.Require().NoError(err)
		s.Equal("2026-03-15", view.CirculationPeriod.EndDate)
		s.Equal("9:00 AM", view.CirculationPeriod.Meeting.StartTime)
		s.Empty(view.CirculationPeriod.Meeting.EndTime)
	})
}

// =============================================================================
// Disclose Project Profile
// =============================================================================

func (s *ServiceSuite) TestDiscloseProjectProfile() {
	s.Run("blank operation number is a bad request", func() {
		err := s.service.DiscloseProjectProfile(s.ctx(), "   ")
		s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))
		s.Equal(0, s.discloser.calls)
	})

	s.Run("no public project profile is not found", func() {
		s.seedOperation("OP-30", false)
		err := s.service.DiscloseProjectProfile(s.ctx(), "OP-30")
		s.Require().Error(err)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
		s.Contains(err.Error(), "could not find a public project profile for OP-30")
		s.Equal(0, s.publisher.milestone)
	})

	s.Run("successful disclosure dispatches exactly one milestone", func() {
		s.seedOperation("OP-31", true)
		s.Require().NoError(s.service.DiscloseProjectProfile(s.ctx(), "OP-31"))
		s.Equal(1, s.discloser.calls)
		s.Equal(1, s.publisher.milestone)
	})

	s.Run("second disclosure is an invariant violation with no extra milestone", func() {
		s.seedOperation("OP-32", true)
		s.Require().NoError(s.service.DiscloseProjectProfile(s.ctx(), "OP-32"))

		err := s.service.DiscloseProjectProfile(s.ctx(), "OP-32")
		s.Require().Error(err)
		s.Equal(dErrors.CodeInvariant, dErrors.CodeOf(err))
		s.Equal(1, s.publisher.milestone)
	})

	s.Run("failed disclosure call means no record and no milestone", func() {
		s.seedOperation("OP-33", true)
		s.discloser.err = errors.New("document service down")

		err := s.service.DiscloseProjectProfile(s.ctx(), "OP-33")
		s.Require().Error(err)
		s.Equal(0, s.publisher.milestone)

		loaded, err := s.store.Get(context.Background(), "OP-33")
		s.Require().NoError(err)
		s.False(loaded.HasDisclosed(operation.DocTypePublicPPPdf))
	})

	s.Run("milestone failure propagates after the disclosure is committed", func() {
		s.seedOperation("OP-34", true)
		s.publisher.err = errors.New("broker down")

		err := s.service.DiscloseProjectProfile(s.ctx(), "OP-34")
		s.Require().Error(err)

		loaded, err := s.store.Get(context.Background(), "OP-34")
		s.Require().NoError(err)
		s.True(loaded.HasDisclosed(operation.DocTypePublicPPPdf))
	})
}

// =============================================================================
// Reference Data
// =============================================================================

func (s *ServiceSuite) TestReferenceData() {
	s.Run("user roles require a valid user context", func() {
		_, err := s.service.UserRoles(context.Background(), "OP-40")
		s.Equal(dErrors.CodeContextInvalid, dErrors.CodeOf(err))
	})

	s.Run("overview gathers modality code and roles", func() {
		s.seedOperation("OP-41", false)
		overview, err := s.service.GetOverview(s.ctx(), "OP-41")
		s.Require().NoError(err)
		s.Equal("OP-41", overview.Operation.OperationNumber)
		s.Equal("LON", overview.LoanModalityCode)
		s.Equal([]string{"TeamLeader"}, overview.UserRoles)
	})

	s.Run("downstream unavailability maps to the unavailable code", func() {
		s.info.err = sentinel.ErrUnavailable
		_, err := s.service.LoanModalityCode(s.ctx(), "OP-42")
		s.Equal(dErrors.CodeUnavailable, dErrors.CodeOf(err))
	})
}
