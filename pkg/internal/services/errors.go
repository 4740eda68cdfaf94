package services

import "errors"

// Error taxonomy shared by the engine. Handlers map these onto HTTP status
// codes; duplicate-membership and duplicate-notification conflicts are
// resolved internally and never reach this list.
var (
	// ErrSelfFollow rejects a follow request where source == target.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrEdgeExists rejects a follow request when any edge already exists
	// for the ordered pair, including a persisted rejected one.
	ErrEdgeExists = errors.New("relationship already exists")
	// ErrEdgeNotFound reports a missing edge on operations that require one.
	ErrEdgeNotFound = errors.New("relationship does not exist")
	// ErrNotPending rejects a respond action on a non-pending edge.
	ErrNotPending = errors.New("relationship is not pending")
	// ErrForbidden rejects a state transition attempted by the wrong actor.
	ErrForbidden = errors.New("not allowed to perform this action")
	// ErrUnsupportedKind rejects an engagement kind outside like/save.
	ErrUnsupportedKind = errors.New("unsupported engagement kind")
)
