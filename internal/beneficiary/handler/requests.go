package handler

import (
	"strings"

	"cnr/internal/nss"
	dErrors "cnr/pkg/domain-errors"
)

// CreateBeneficiaryRequest is the body of POST /beneficiaries.
type CreateBeneficiaryRequest struct {
	FullName   string   `json:"full_name"`
	Pension    *float64 `json:"pension,omitempty"`
	Simulation string   `json:"simulation,omitempty"`

	simulation nss.Simulation
}

func (r *CreateBeneficiaryRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Simulation = strings.ToLower(strings.TrimSpace(r.Simulation))
}

func (r *CreateBeneficiaryRequest) Validate() error {
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	if r.Pension != nil && *r.Pension <= 0 {
		return dErrors.New(dErrors.CodeValidation, "pension must be positive")
	}
	sim, err := nss.ParseSimulation(r.Simulation)
	if err != nil {
		return err
	}
	r.simulation = sim
	return nil
}

// PensionOrZero returns the requested amount, or zero to take the default.
func (r *CreateBeneficiaryRequest) PensionOrZero() float64 {
	if r.Pension == nil {
		return 0
	}
	return *r.Pension
}
