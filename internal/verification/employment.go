package verification

import (
	"context"
	"time"

	"cnr/internal/platform/config"
	id "cnr/pkg/domain"
)

// employmentPayload mirrors GET /employment/{id}.
type employmentPayload struct {
	Identifier *string `json:"identifier"`
	Employed   *bool   `json:"employed"`
	Employer   *string `json:"employer"`
}

// EmploymentClient asks the social-insurance registry whether a person holds
// salaried employment.
type EmploymentClient struct {
	c *caller
}

func NewEmploymentClient(cfg config.AuthorityConfig, opts ...Option) *EmploymentClient {
	return &EmploymentClient{c: newCaller(AuthorityEmployment, "/employment/", cfg, opts)}
}

// Verify never fails. On any authority failure it returns employed=false
// tagged as degraded.
func (cl *EmploymentClient) Verify(ctx context.Context, externalID id.ExternalID) EmploymentResult {
	started := time.Now()

	var payload employmentPayload
	failure := cl.c.get(ctx, externalID, &payload)
	if failure == nil {
		failure = checkIdentifier(AuthorityEmployment, externalID, payload.Identifier)
	}
	if failure == nil && payload.Employed == nil {
		failure = newAuthorityError(CategoryBadData, AuthorityEmployment, "employed missing from response", nil)
	}
	if failure != nil {
		cl.c.degrade(ctx, externalID, failure, started)
		return degradedEmployment(externalID, failure)
	}

	cl.c.succeed(started)
	employment := Employment{Identifier: externalID, Employed: *payload.Employed}
	if employment.Employed {
		employment.Employer = payload.Employer
	}
	return EmploymentResult{Employment: employment, Source: SourceAuthority}
}
