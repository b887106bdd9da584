package domain

import (
	"github.com/go-playground/validator/v10"
)

// CableDesign holds cost and lifetime parameters for a cable class.
type CableDesign struct {
	Lifetime  int     `json:"lifetime" yaml:"lifetime" validate:"required,gt=0"`
	Capex     float64 `json:"capex" yaml:"capex" validate:"gte=0"`
	MaxLength float64 `json:"max_length" yaml:"max_length" validate:"gte=0"`
	EPC       float64 `json:"epc" yaml:"epc" validate:"gte=0"`
}

// PoleDesign holds cost and structural parameters for poles.
type PoleDesign struct {
	Lifetime        int     `json:"lifetime" yaml:"lifetime" validate:"required,gt=0"`
	Capex           float64 `json:"capex" yaml:"capex" validate:"gte=0"`
	MaxNConnections int     `json:"max_n_connections" yaml:"max_n_connections" validate:"required,gt=0"`
	EPC             float64 `json:"epc" yaml:"epc" validate:"gte=0"`
}

// MGDesign holds cost parameters for the microgrid connection itself.
type MGDesign struct {
	Lifetime       int     `json:"lifetime" yaml:"lifetime" validate:"required,gt=0"`
	Capex          float64 `json:"capex" yaml:"capex" validate:"gte=0"`
	ConnectionCost float64 `json:"connection_cost" yaml:"connection_cost" validate:"gte=0"`
	EPC            float64 `json:"epc" yaml:"epc" validate:"gte=0"`
}

// SHSDesign configures the standalone solar-home-system fallback for
// consumers the grid cannot reach economically.
type SHSDesign struct {
	Include     bool     `json:"include" yaml:"include"`
	MaxGridCost *float64 `json:"max_grid_cost,omitempty" yaml:"max_grid_cost,omitempty"`
}

// GridDesign is the per-request cost/lifetime configuration for each asset
// class of the network. Immutable for the duration of one optimization
// request.
type GridDesign struct {
	DistributionCable CableDesign `json:"distribution_cable" yaml:"distribution_cable"`
	ConnectionCable   CableDesign `json:"connection_cable" yaml:"connection_cable"`
	Pole              PoleDesign  `json:"pole" yaml:"pole"`
	MG                MGDesign    `json:"mg" yaml:"mg"`
	SHS               *SHSDesign  `json:"shs,omitempty" yaml:"shs,omitempty"`
}

var designValidator = validator.New()

// Validate checks that all numeric parameters are in domain and that the
// SHS configuration is internally consistent.
func (d *GridDesign) Validate() error {
	if err := designValidator.Struct(d); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return validationErrorf(fe.Namespace(), "failed %q constraint (value %v)", fe.Tag(), fe.Value())
		}
		return &ValidationError{Field: "grid_design", Reason: err.Error()}
	}
	if d.SHS != nil && d.SHS.Include {
		if d.SHS.MaxGridCost == nil {
			return validationErrorf("shs.max_grid_cost", "required when shs.include is true")
		}
		if *d.SHS.MaxGridCost < 0 {
			return validationErrorf("shs.max_grid_cost", "negative cost %v", *d.SHS.MaxGridCost)
		}
	}
	return nil
}
