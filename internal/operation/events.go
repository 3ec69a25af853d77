package operation

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is a recorded aggregate change. Events are append-only; stores persist
// them as (type, payload) rows and Replay rebuilds state from them.
type Event interface {
	EventType() string
	OccurredAt() time.Time
}

// Event type discriminators as persisted in the store.
const (
	EventTypeOperationInitiated           = "operation_initiated"
	EventTypeEligibilitySubmissionChanged = "eligibility_submission_changed"
	EventTypePPDocumentRegistered         = "pp_document_registered"
	EventTypeDocumentDisclosed            = "document_disclosed"
)

// OperationInitiated opens the stream for an operation number.
type OperationInitiated struct {
	OperationNumber string    `json:"operation_number"`
	ActorUUID       string    `json:"actor_uuid"`
	At              time.Time `json:"at"`
}

func (e OperationInitiated) EventType() string     { return EventTypeOperationInitiated }
func (e OperationInitiated) OccurredAt() time.Time { return e.At }

// EligibilitySubmissionChanged carries the full submission state after a create
// or amend. Created distinguishes the two for auditing; replay semantics are
// identical (last write wins).
type EligibilitySubmissionChanged struct {
	OperationNumber string                `json:"operation_number"`
	Submission      EligibilitySubmission `json:"submission"`
	Created         bool                  `json:"created"`
	ActorUUID       string                `json:"actor_uuid"`
	At              time.Time             `json:"at"`
}

func (e EligibilitySubmissionChanged) EventType() string {
	return EventTypeEligibilitySubmissionChanged
}
func (e EligibilitySubmissionChanged) OccurredAt() time.Time { return e.At }

// PPDocumentRegistered attaches a preparation document to the operation.
type PPDocumentRegistered struct {
	OperationNumber string    `json:"operation_number"`
	Document        Document  `json:"document"`
	ActorUUID       string    `json:"actor_uuid"`
	At              time.Time `json:"at"`
}

func (e PPDocumentRegistered) EventType() string     { return EventTypePPDocumentRegistered }
func (e PPDocumentRegistered) OccurredAt() time.Time { return e.At }

// DocumentDisclosed records the one-way disclosure of a document.
type DocumentDisclosed struct {
	OperationNumber string    `json:"operation_number"`
	Document        Document  `json:"document"`
	ActorUUID       string    `json:"actor_uuid"`
	At              time.Time `json:"at"`
}

func (e DocumentDisclosed) EventType() string     { return EventTypeDocumentDisclosed }
func (e DocumentDisclosed) OccurredAt() time.Time { return e.At }

// EncodeEvent marshals an event payload for persistence.
func EncodeEvent(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent unmarshals a persisted payload back into its typed event.
// Unknown types fail loudly: a stream with unreadable history must not be
// silently truncated.
func DecodeEvent(eventType string, payload []byte) (Event, error) {
	switch eventType {
	case EventTypeOperationInitiated:
		var e OperationInitiated
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		return e, nil
	case EventTypeEligibilitySubmissionChanged:
		var e EligibilitySubmissionChanged
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		return e, nil
	case EventTypePPDocumentRegistered:
		var e PPDocumentRegistered
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		return e, nil
	case EventTypeDocumentDisclosed:
		var e DocumentDisclosed
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}
