// Package service orchestrates the eligibility and disclosure workflows. Each
// method is one unit of work against one aggregate: load fresh, validate,
// mutate through the aggregate's own recording methods, commit once. Nothing
// is retried here; collaborator failures propagate to the boundary untouched.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"sgprep/internal/operation"
	"sgprep/internal/operation/metrics"
	dErrors "sgprep/pkg/domain-errors"
	"sgprep/pkg/platform/sentinel"
	stringutil "sgprep/pkg/platform/strings"
	"sgprep/pkg/requestcontext"
)

var tracer = otel.Tracer("sgprep/operation")

// Store loads and commits operation aggregates.
type Store interface {
	Get(ctx context.Context, opNumber string) (*operation.Operation, error)
	Save(ctx context.Context, op *operation.Operation) error
}

// DocumentDiscloser makes a document publicly available.
type DocumentDiscloser interface {
	Disclose(ctx context.Context, opNumber string, doc operation.Document) error
}

// CommandPublisher dispatches downstream commands after successful workflows.
type CommandPublisher interface {
	AdvancePPPDMilestone(ctx context.Context, opNumber string) error
	RequestApproval(ctx context.Context, opNumber string) error
	RequestRevision(ctx context.Context, opNumber string) error
}

// InfoProvider serves read-only reference data about an operation.
type InfoProvider interface {
	ProjectProfileTemplate(ctx context.Context, opNumber, lang string) (string, error)
	LoanModalityCode(ctx context.Context, opNumber string) (string, error)
	UserRoles(ctx context.Context, userName, opNumber string) ([]string, error)
}

// Service is the workflow core behind the operation endpoints.
type Service struct {
	store     Store
	pipeline  *operation.ValidationPipeline
	documents DocumentDiscloser
	commands  CommandPublisher
	info      InfoProvider
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func New(
	store Store,
	oracle operation.WorkingDayOracle,
	documents DocumentDiscloser,
	commands CommandPublisher,
	info InfoProvider,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		store:     store,
		pipeline:  operation.NewValidationPipeline(oracle),
		documents: documents,
		commands:  commands,
		info:      info,
		logger:    logger,
		metrics:   m,
	}
}

// GetOperation returns the full operation view.
func (s *Service) GetOperation(ctx context.Context, opNumber string) (operation.OperationView, error) {
	op, err := s.load(ctx, opNumber)
	if err != nil {
		return operation.OperationView{}, err
	}
	return operation.NewOperationView(op), nil
}

// GetEligibility returns the formatted eligibility submission, or not-found
// when the operation or the submission is absent.
func (s *Service) GetEligibility(ctx context.Context, opNumber string) (operation.EligibilityView, error) {
	if err := requestcontext.User(ctx).Validate(); err != nil {
		return operation.EligibilityView{}, err
	}

	op, err := s.load(ctx, opNumber)
	if err != nil {
		return operation.EligibilityView{}, err
	}
	sub := op.EligibilitySubmission()
	if sub == nil {
		s.logger.WarnContext(ctx, "no eligibility submission on operation",
			"operation_number", opNumber,
			"request_id", requestcontext.RequestID(ctx),
		)
		return operation.EligibilityView{}, dErrors.New(dErrors.CodeNotFound, "the eligibility submission doesn't exist")
	}
	return operation.NewEligibilityView(*sub), nil
}

// CreateEligibility runs the create path: user context guard, load, per-type
// validation, mutation, single commit, then the PP approval/revision
// notification when the commit succeeded. A second create on an operation
// that already has a submission is an invariant violation.
func (s *Service) CreateEligibility(ctx context.Context, opNumber string, req operation.EligibilityRequest) (*operation.EligibilitySubmission, error) {
	ctx, span := tracer.Start(ctx, "operation.create_eligibility")
	defer span.End()
	span.SetAttributes(attribute.String("operation.number", opNumber))
	start := time.Now()
	defer func() { s.metrics.ObserveWorkflow("create", time.Since(start)) }()

	user := requestcontext.User(ctx)
	if err := user.Validate(); err != nil {
		s.logger.ErrorContext(ctx, "could not determine user context",
			"operation_number", opNumber,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, err
	}

	op, err := s.load(ctx, opNumber)
	if err != nil {
		s.metrics.IncrementEligibility("create", "not_found")
		return nil, err
	}
	if op.EligibilitySubmission() != nil {
		s.metrics.IncrementEligibility("create", "invariant")
		return nil, dErrors.New(dErrors.CodeInvariant, "an eligibility submission already exists for this operation")
	}

	violations, err := s.pipeline.ValidateCreate(ctx, req, op)
	if err != nil {
		s.metrics.IncrementEligibility("create", "error")
		return nil, err
	}
	if len(violations) > 0 {
		s.metrics.IncrementEligibility("create", "validation_failed")
		return nil, dErrors.New(dErrors.CodeValidation, strings.Join(violations, "; "))
	}

	sub, err := operation.BuildEligibilitySubmission(req)
	if err != nil {
		s.metrics.IncrementEligibility("create", "validation_failed")
		return nil, err
	}
	if err := op.SubmitEligibility(sub, user.UUID, requestcontext.Now(ctx)); err != nil {
		s.metrics.IncrementEligibility("create", "invariant")
		return nil, err
	}
	if err := s.store.Save(ctx, op); err != nil {
		s.metrics.IncrementEligibility("create", "error")
		return nil, s.translateStoreErr(err)
	}

	if req.DocType == operation.DocTypePP {
		if err := s.notifyPPVersion(ctx, opNumber, req.DocVersion); err != nil {
			// Submission is committed; the notification gap propagates so the
			// caller knows the downstream command did not go out.
			s.metrics.IncrementEligibility("create", "error")
			return nil, err
		}
	}

	s.metrics.IncrementEligibility("create", "ok")
	s.logger.InfoContext(ctx, "eligibility submission created",
		"operation_number", opNumber,
		"doc_type", string(req.DocType),
		"request_id", requestcontext.RequestID(ctx),
	)
	created := *op.EligibilitySubmission()
	return &created, nil
}

// AmendEligibility runs the amend path. Amending an operation with no
// submission is not-found; no silent create.
func (s *Service) AmendEligibility(ctx context.Context, opNumber string, req operation.EligibilityRequest) error {
	ctx, span := tracer.Start(ctx, "operation.amend_eligibility")
	defer span.End()
	span.SetAttributes(attribute.String("operation.number", opNumber))
	start := time.Now()
	defer func() { s.metrics.ObserveWorkflow("amend", time.Since(start)) }()

	user := requestcontext.User(ctx)
	if err := user.Validate(); err != nil {
		return err
	}

	op, err := s.load(ctx, opNumber)
	if err != nil {
		s.metrics.IncrementEligibility("amend", "not_found")
		return err
	}
	if op.EligibilitySubmission() == nil {
		s.metrics.IncrementEligibility("amend", "not_found")
		return dErrors.New(dErrors.CodeNotFound, "the eligibility submission doesn't exist")
	}

	violations, err := s.pipeline.ValidateAmend(ctx, req, op)
	if err != nil {
		s.metrics.IncrementEligibility("amend", "error")
		return err
	}
	if len(violations) > 0 {
		s.metrics.IncrementEligibility("amend", "validation_failed")
		return dErrors.New(dErrors.CodeValidation, strings.Join(violations, "; "))
	}

	sub, err := operation.BuildEligibilitySubmission(req)
	if err != nil {
		s.metrics.IncrementEligibility("amend", "validation_failed")
		return err
	}
	if err := op.AmendEligibility(sub, user.UUID, requestcontext.Now(ctx)); err != nil {
		s.metrics.IncrementEligibility("amend", "error")
		return err
	}
	if err := s.store.Save(ctx, op); err != nil {
		s.metrics.IncrementEligibility("amend", "error")
		return s.translateStoreErr(err)
	}

	s.metrics.IncrementEligibility("amend", "ok")
	s.logger.InfoContext(ctx, "eligibility submission amended",
		"operation_number", opNumber,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// DiscloseProjectProfile runs the disclosure workflow in strict order: blank
// check, load, already-disclosed check, candidate lookup, external disclosure
// call, commit of the disclosure record, then exactly one milestone command.
// The milestone is dispatched only after the disclosure call succeeded; there
// is no compensating action if the dispatch itself fails.
func (s *Service) DiscloseProjectProfile(ctx context.Context, opNumber string) error {
	ctx, span := tracer.Start(ctx, "operation.disclose_project_profile")
	defer span.End()
	span.SetAttributes(attribute.String("operation.number", opNumber))

	if strings.TrimSpace(opNumber) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "operation number has not been provided")
	}

	user := requestcontext.User(ctx)
	if err := user.Validate(); err != nil {
		return err
	}

	op, err := s.load(ctx, opNumber)
	if err != nil {
		s.metrics.IncrementDisclosure("not_found")
		return err
	}

	if op.HasDisclosed(operation.DocTypePublicPPPdf) {
		s.metrics.IncrementDisclosure("invariant")
		return dErrors.New(dErrors.CodeInvariant, "public project profile has already been disclosed")
	}

	doc, ok := op.FindPPDocument(operation.DocTypePublicPPPdf)
	if !ok {
		s.metrics.IncrementDisclosure("not_found")
		return dErrors.New(dErrors.CodeNotFound, "could not find a public project profile for "+opNumber)
	}

	if err := s.documents.Disclose(ctx, opNumber, doc); err != nil {
		s.metrics.IncrementDisclosure("error")
		return err
	}

	if err := op.RecordDisclosure(doc, user.UUID, requestcontext.Now(ctx)); err != nil {
		s.metrics.IncrementDisclosure("invariant")
		return err
	}
	if err := s.store.Save(ctx, op); err != nil {
		s.metrics.IncrementDisclosure("error")
		return s.translateStoreErr(err)
	}

	if err := s.commands.AdvancePPPDMilestone(ctx, opNumber); err != nil {
		s.metrics.IncrementDisclosure("error")
		s.logger.ErrorContext(ctx, "milestone command failed after successful disclosure",
			"operation_number", opNumber,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return err
	}

	s.metrics.IncrementDisclosure("ok")
	s.logger.InfoContext(ctx, "public project profile disclosed",
		"operation_number", opNumber,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// ProjectProfileTemplate proxies the template preview lookup.
func (s *Service) ProjectProfileTemplate(ctx context.Context, opNumber, lang string) (string, error) {
	template, err := s.info.ProjectProfileTemplate(ctx, opNumber, lang)
	if err != nil {
		return "", s.translateStoreErr(err)
	}
	return template, nil
}

// LoanModalityCode proxies the modality code lookup.
func (s *Service) LoanModalityCode(ctx context.Context, opNumber string) (string, error) {
	code, err := s.info.LoanModalityCode(ctx, opNumber)
	if err != nil {
		return "", s.translateStoreErr(err)
	}
	return code, nil
}

// UserRoles returns the acting user's roles for the operation.
func (s *Service) UserRoles(ctx context.Context, opNumber string) ([]string, error) {
	user := requestcontext.User(ctx)
	if err := user.Validate(); err != nil {
		return nil, err
	}
	roles, err := s.info.UserRoles(ctx, user.Name, opNumber)
	if err != nil {
		return nil, s.translateStoreErr(err)
	}
	// The roles service reports one entry per assignment; the same role can
	// appear through several assignments.
	return stringutil.DedupeAndTrim(roles), nil
}

// Overview composes the operation view with its modality code and the acting
// user's roles, fetched in parallel with shared cancellation.
type Overview struct {
	Operation        operation.OperationView `json:"operation"`
	LoanModalityCode string                  `json:"loanModalityCode"`
	UserRoles        []string                `json:"userRoles"`
}

func (s *Service) GetOverview(ctx context.Context, opNumber string) (Overview, error) {
	user := requestcontext.User(ctx)
	if err := user.Validate(); err != nil {
		return Overview{}, err
	}

	op, err := s.load(ctx, opNumber)
	if err != nil {
		return Overview{}, err
	}

	overview := Overview{Operation: operation.NewOperationView(op)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		code, err := s.info.LoanModalityCode(gctx, opNumber)
		if err != nil {
			return err
		}
		overview.LoanModalityCode = code
		return nil
	})
	g.Go(func() error {
		roles, err := s.info.UserRoles(gctx, user.Name, opNumber)
		if err != nil {
			return err
		}
		overview.UserRoles = stringutil.DedupeAndTrim(roles)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, s.translateStoreErr(err)
	}
	return overview, nil
}

// notifyPPVersion publishes the command matching the PP document version. The
// pipeline already rejected anything outside the closed set.
func (s *Service) notifyPPVersion(ctx context.Context, opNumber string, version operation.DocVersion) error {
	switch version {
	case operation.DocVersionApproval:
		return s.commands.RequestApproval(ctx, opNumber)
	case operation.DocVersionRevision:
		return s.commands.RequestRevision(ctx, opNumber)
	default:
		return nil
	}
}

// load fetches the aggregate, translating the store's not-found fact into the
// domain error the boundary maps to 404.
func (s *Service) load(ctx context.Context, opNumber string) (*operation.Operation, error) {
	op, err := s.store.Get(ctx, opNumber)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "operation not found in event store",
				"operation_number", opNumber,
				"stream_id", operation.StreamID(opNumber),
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, dErrors.New(dErrors.CodeNotFound, "operation "+opNumber+" has not been initiated")
		}
		return nil, err
	}
	return op, nil
}

// translateStoreErr maps sentinel facts to domain errors; anything else
// propagates unchanged.
func (s *Service) translateStoreErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeUnavailable, "the operation was modified concurrently, retry the request")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.New(dErrors.CodeUnavailable, "a downstream service is unavailable")
	default:
		return err
	}
}
