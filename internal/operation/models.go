// Package operation holds the Operation aggregate and its eligibility
// submission workflow rules. The aggregate is event-sourced: state is replayed
// from its event history and every mutation is recorded as an event that the
// store persists on commit.
package operation

import (
	"time"

	dErrors "sgprep/pkg/domain-errors"
)

// StreamID derives the event stream identifier for an operation number.
func StreamID(opNumber string) string {
	return "operation-" + opNumber
}

// DocumentType classifies preparation documents. Closed set; wire values match
// the document service's classification descriptions.
type DocumentType string

const (
	DocTypePublicPPPdf        DocumentType = "PublicPPPdf"
	DocTypeProjectProfileWord DocumentType = "ProjectProfileWord"
	DocTypeMinutesPdf         DocumentType = "MinutesPdf"
	DocTypeAnnexPdf           DocumentType = "AnnexPdf"
)

// Document identifies a preparation document attached to an operation.
type Document struct {
	OperationNumber string       `json:"operation_number"`
	DocumentType    DocumentType `json:"document_type"`
	FileName        string       `json:"file_name,omitempty"`
}

// EligibilitySubmission is the eligibility sub-resource of an operation. All
// fields are optional; pointer fields distinguish unset from zero, and the two
// *TimeSet flags distinguish "no time given" from "set to midnight".
type EligibilitySubmission struct {
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	MeetingJustification *string    `json:"meeting_justification,omitempty"`
	StartTimeSet         bool       `json:"start_time_set"`
	EndTimeSet           bool       `json:"end_time_set"`
	MeetingStartTime     *time.Time `json:"meeting_start_time,omitempty"`
	MeetingEndTime       *time.Time `json:"meeting_end_time,omitempty"`
	MeetingLink          *string    `json:"meeting_link,omitempty"`
	IsIcapPaciRequired   *bool      `json:"is_icap_paci_required,omitempty"`
	ProcessingTrack      *string    `json:"processing_track,omitempty"`
}

// Operation is the aggregate root and consistency boundary. It is loaded fresh
// per request, mutated through its own recording methods, and committed once.
// The store owns it between load and commit; nothing here is safe for
// concurrent use.
type Operation struct {
	operationNumber       string
	eligibilitySubmission *EligibilitySubmission
	ppDocuments           []Document
	ppDisclosedDocuments  []Document

	version int
	pending []Event
}

// New starts a fresh operation stream. The initiation event is recorded so the
// stream replays to a valid aggregate.
func New(opNumber string, actorUUID string, at time.Time) *Operation {
	op := &Operation{operationNumber: opNumber}
	op.record(OperationInitiated{OperationNumber: opNumber, ActorUUID: actorUUID, At: at})
	return op
}

// Replay rebuilds an operation from its committed event history.
func Replay(events []Event) *Operation {
	op := &Operation{}
	for _, e := range events {
		op.apply(e)
		op.version++
	}
	return op
}

func (o *Operation) OperationNumber() string { return o.operationNumber }

// EligibilitySubmission returns the current submission, nil when none has been
// created yet.
func (o *Operation) EligibilitySubmission() *EligibilitySubmission {
	return o.eligibilitySubmission
}

func (o *Operation) PPDocuments() []Document          { return o.ppDocuments }
func (o *Operation) PPDisclosedDocuments() []Document { return o.ppDisclosedDocuments }

// Version is the number of committed events; the store uses it for optimistic
// concurrency on append.
func (o *Operation) Version() int { return o.version }

// PendingEvents returns the uncommitted events recorded since load.
func (o *Operation) PendingEvents() []Event { return o.pending }

// MarkCommitted advances the version past the pending events. The store calls
// this after a successful append.
func (o *Operation) MarkCommitted() {
	o.version += len(o.pending)
	o.pending = nil
}

// SubmitEligibility creates the eligibility submission. The create-once
// invariant lives here: a second create on an operation that already carries a
// submission is a fatal invariant violation, not a validation failure.
func (o *Operation) SubmitEligibility(sub EligibilitySubmission, actorUUID string, at time.Time) error {
	if o.eligibilitySubmission != nil {
		return dErrors.New(dErrors.CodeInvariant, "an eligibility submission already exists for this operation")
	}
	o.record(EligibilitySubmissionChanged{
		OperationNumber: o.operationNumber,
		Submission:      sub,
		Created:         true,
		ActorUUID:       actorUUID,
		At:              at,
	})
	return nil
}

// AmendEligibility replaces an existing submission. Amending an operation with
// no submission is a not-found condition, never a silent create.
func (o *Operation) AmendEligibility(sub EligibilitySubmission, actorUUID string, at time.Time) error {
	if o.eligibilitySubmission == nil {
		return dErrors.New(dErrors.CodeNotFound, "the eligibility submission doesn't exist")
	}
	o.record(EligibilitySubmissionChanged{
		OperationNumber: o.operationNumber,
		Submission:      sub,
		Created:         false,
		ActorUUID:       actorUUID,
		At:              at,
	})
	return nil
}

// RegisterPPDocument attaches a preparation document to the operation.
func (o *Operation) RegisterPPDocument(doc Document, actorUUID string, at time.Time) {
	doc.OperationNumber = o.operationNumber
	o.record(PPDocumentRegistered{
		OperationNumber: o.operationNumber,
		Document:        doc,
		ActorUUID:       actorUUID,
		At:              at,
	})
}

// RecordDisclosure marks a document as disclosed. Disclosure is monotone per
// document type; recording a second public project-profile disclosure trips
// the invariant because re-disclosure signals a caller or state bug.
func (o *Operation) RecordDisclosure(doc Document, actorUUID string, at time.Time) error {
	for _, d := range o.ppDisclosedDocuments {
		if d.DocumentType == doc.DocumentType {
			return dErrors.New(dErrors.CodeInvariant, "public project profile has already been disclosed")
		}
	}
	o.record(DocumentDisclosed{
		OperationNumber: o.operationNumber,
		Document:        doc,
		ActorUUID:       actorUUID,
		At:              at,
	})
	return nil
}

// HasDisclosed reports whether a document of the given type has been disclosed.
func (o *Operation) HasDisclosed(dt DocumentType) bool {
	for _, d := range o.ppDisclosedDocuments {
		if d.DocumentType == dt {
			return true
		}
	}
	return false
}

// FindPPDocument returns the first candidate document of the given type.
func (o *Operation) FindPPDocument(dt DocumentType) (Document, bool) {
	for _, d := range o.ppDocuments {
		if d.DocumentType == dt {
			return d, true
		}
	}
	return Document{}, false
}

func (o *Operation) record(e Event) {
	o.apply(e)
	o.pending = append(o.pending, e)
}

func (o *Operation) apply(e Event) {
	switch ev := e.(type) {
	case OperationInitiated:
		o.operationNumber = ev.OperationNumber
	case EligibilitySubmissionChanged:
		sub := ev.Submission
		o.eligibilitySubmission = &sub
	case PPDocumentRegistered:
		o.ppDocuments = append(o.ppDocuments, ev.Document)
	case DocumentDisclosed:
		o.ppDisclosedDocuments = append(o.ppDisclosedDocuments, ev.Document)
	}
}
