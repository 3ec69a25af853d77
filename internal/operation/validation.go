package operation

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// WorkingDayOracle answers whether a date is a business working day for an
// operation. Implemented by the working-day service client; failures propagate
// untouched, they are never folded into the validation result.
type WorkingDayOracle interface {
	IsWorkingDay(ctx context.Context, opNumber string, date time.Time) (bool, error)
}

// ValidationPipeline selects and runs the validator set for an eligibility
// request based on its DocType discriminator. The returned slice holds
// human-readable rule violations; empty means valid. The error return is
// reserved for collaborator failures (working-day oracle).
type ValidationPipeline struct {
	oracle WorkingDayOracle
}

func NewValidationPipeline(oracle WorkingDayOracle) *ValidationPipeline {
	return &ValidationPipeline{oracle: oracle}
}

// ValidateCreate dispatches on DocType. Unknown document types are rejected
// outright rather than passing through unvalidated.
func (p *ValidationPipeline) ValidateCreate(ctx context.Context, req EligibilityRequest, op *Operation) ([]string, error) {
	switch req.DocType {
	case DocTypePP:
		return p.validatePP(ctx, req, op)
	case DocTypeMinutes, DocTypeAnnex:
		return p.validateCirculationPeriod(ctx, req, op)
	default:
		return []string{fmt.Sprintf("unsupported document type %q", string(req.DocType))}, nil
	}
}

// ValidateAmend runs the circulation-period rules only; the per-type rules
// apply to the initial submission.
func (p *ValidationPipeline) ValidateAmend(ctx context.Context, req EligibilityRequest, op *Operation) ([]string, error) {
	return p.validateCirculationPeriod(ctx, req, op)
}

// validatePP adds the DocVersion rule on top of the circulation-period checks.
// The version decides which post-save notification runs, so a PP request
// without a recognized version cannot proceed.
func (p *ValidationPipeline) validatePP(ctx context.Context, req EligibilityRequest, op *Operation) ([]string, error) {
	var errs []string
	if !req.DocVersion.Known() {
		errs = append(errs, fmt.Sprintf("docVersion must be %q or %q for a PP submission", DocVersionApproval, DocVersionRevision))
	}
	cpErrs, err := p.validateCirculationPeriod(ctx, req, op)
	if err != nil {
		return nil, err
	}
	return append(errs, cpErrs...), nil
}

// validateCirculationPeriod runs the ordered circulation checks when the
// request carries a circulation period:
//
//	(a) an effective end date exists (request, falling back to the current
//	    submission),
//	(b) a meeting date is present,
//	(c) the meeting date is a working day for the operation.
//
// Violations aggregate; the working-day check is skipped when there is no
// parseable meeting date to check.
func (p *ValidationPipeline) validateCirculationPeriod(ctx context.Context, req EligibilityRequest, op *Operation) ([]string, error) {
	cp := req.CirculationPeriod
	if cp == nil {
		return nil, nil
	}

	var errs []string

	if !p.hasEffectiveEndDate(cp, op) {
		errs = append(errs, "there is no end date set for the circulation period in this operation")
	}

	meetingDate := ""
	if cp.Meeting != nil {
		meetingDate = strings.TrimSpace(cp.Meeting.Date)
	}
	if meetingDate == "" {
		errs = append(errs, "the date of the meeting is needed")
		return errs, nil
	}

	date, err := time.Parse(dateLayout, meetingDate)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid meeting date %q, expected yyyy-mm-dd", meetingDate))
		return errs, nil
	}

	working, err := p.oracle.IsWorkingDay(ctx, op.OperationNumber(), date)
	if err != nil {
		return nil, err
	}
	if !working {
		errs = append(errs, "the date selected is not a working day")
	}

	return errs, nil
}

func (p *ValidationPipeline) hasEffectiveEndDate(cp *CirculationPeriodRequest, op *Operation) bool {
	if strings.TrimSpace(cp.EndDate) != "" {
		return true
	}
	if sub := op.EligibilitySubmission(); sub != nil && sub.EndDate != nil {
		return true
	}
	return false
}
