package verification

import (
	"errors"
	"fmt"
)

// Category is the normalized failure taxonomy for authority calls.
type Category string

const (
	// CategoryTimeout indicates the authority did not answer within the call bound
	CategoryTimeout Category = "timeout"

	// CategoryOutage indicates a transport failure or a 5xx answer
	CategoryOutage Category = "provider_outage"

	// CategoryBadData indicates a malformed, incomplete, or mismatched payload
	CategoryBadData Category = "bad_data"

	// CategoryNotFound indicates the authority has no record for the identifier
	CategoryNotFound Category = "not_found"

	// CategoryRateLimited indicates the authority throttled the call
	CategoryRateLimited Category = "rate_limited"

	// CategoryContractMismatch indicates any other non-success answer
	CategoryContractMismatch Category = "contract_mismatch"

	// CategoryCanceled indicates the caller gave up before the authority answered
	CategoryCanceled Category = "canceled"
)

// AuthorityError describes why a verification call fell back to its
// degraded default. It never leaves the client as a returned error; it rides
// on the result for logging, metrics, and the audit trail.
type AuthorityError struct {
	Category   Category
	Authority  Authority
	StatusCode int
	Message    string
	Underlying error
}

func (e *AuthorityError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("authority %s [%s]: %s: %v", e.Authority, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("authority %s [%s]: %s", e.Authority, e.Category, e.Message)
}

func (e *AuthorityError) Unwrap() error {
	return e.Underlying
}

func newAuthorityError(category Category, authority Authority, message string, underlying error) *AuthorityError {
	return &AuthorityError{
		Category:   category,
		Authority:  authority,
		Message:    message,
		Underlying: underlying,
	}
}

// CategoryOf extracts the failure category, or "" for nil or foreign errors.
func CategoryOf(err error) Category {
	var ae *AuthorityError
	if errors.As(err, &ae) {
		return ae.Category
	}
	return ""
}
