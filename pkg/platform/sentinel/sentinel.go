package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and collaborator clients
// return these (optionally wrapped) so services can translate them into domain
// errors at the workflow edge.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: stream or record does not exist in the store
// - ErrConflict: optimistic concurrency check failed on append
// - ErrUnavailable: collaborator temporarily unreachable
//
// For business rule failures, use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
