// Package store persists beneficiaries and their survivor benefits.
//
// Stores are pure I/O: they enforce uniqueness and the optimistic version
// check, and report facts through sentinel errors. Decision logic stays in the
// eligibility service.
package store

import (
	"cnr/pkg/platform/sentinel"
)

var (
	// ErrNotFound is returned when a beneficiary or reversion does not exist.
	ErrNotFound = sentinel.ErrNotFound

	// ErrConflict is returned when a write loses the version check, reuses an
	// external identifier, or would add a second reversion.
	ErrConflict = sentinel.ErrConflict
)
