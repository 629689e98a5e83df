package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into coded domain errors:
//   - ErrNotFound: the entity does not exist in the store
//   - ErrConflict: a uniqueness or version check rejected the write
//   - ErrUnavailable: the backing resource is temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
