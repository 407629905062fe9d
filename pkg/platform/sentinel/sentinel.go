package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Snapshot backends and other
// infrastructure return these (optionally wrapped) so services can translate
// them into domain errors.
//
//   - ErrNotFound: the slot or record does not exist
//   - ErrConflict: the operation collides with one already in progress
//   - ErrUnavailable: the backend is temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
