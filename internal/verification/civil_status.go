package verification

import (
	"context"
	"time"

	"cnr/internal/platform/config"
	id "cnr/pkg/domain"
)

// civilStatusPayload mirrors GET /verify/{id}. Pointer fields detect
// missing keys, which count as bad data rather than a zero value.
type civilStatusPayload struct {
	Identifier  *string    `json:"identifier"`
	Alive       *bool      `json:"alive"`
	DateOfDeath *time.Time `json:"date_of_death"`
}

// CivilStatusClient asks the civil-status registry whether a person is alive.
type CivilStatusClient struct {
	c *caller
}

func NewCivilStatusClient(cfg config.AuthorityConfig, opts ...Option) *CivilStatusClient {
	return &CivilStatusClient{c: newCaller(AuthorityCivilStatus, "/verify/", cfg, opts)}
}

// Verify never fails. On any authority failure it returns alive=true tagged
// as degraded.
func (cl *CivilStatusClient) Verify(ctx context.Context, externalID id.ExternalID) CivilStatusResult {
	started := time.Now()

	var payload civilStatusPayload
	failure := cl.c.get(ctx, externalID, &payload)
	if failure == nil {
		failure = checkIdentifier(AuthorityCivilStatus, externalID, payload.Identifier)
	}
	if failure == nil && payload.Alive == nil {
		failure = newAuthorityError(CategoryBadData, AuthorityCivilStatus, "alive missing from response", nil)
	}
	if failure != nil {
		cl.c.degrade(ctx, externalID, failure, started)
		return degradedCivilStatus(externalID, failure)
	}

	cl.c.succeed(started)
	status := CivilStatus{Identifier: externalID, Alive: *payload.Alive}
	if !status.Alive {
		status.DateOfDeath = payload.DateOfDeath
	}
	return CivilStatusResult{CivilStatus: status, Source: SourceAuthority}
}
