package translate

import (
	"math"

	"gridbridge/internal/domain"
)

// CostModel holds the project-level financial assumptions used to derive
// the equivalent periodical cost (EPC) of each asset class from its capex
// and lifetime.
type CostModel struct {
	ProjectLifetime int     // years
	WACC            float64 // weighted average cost of capital, fraction
	Tax             float64 // fraction applied to the first investment
}

// CRF is the capital recovery factor for the project lifetime.
func (m CostModel) CRF() float64 {
	n := float64(m.ProjectLifetime)
	if m.WACC == 0 {
		return 1 / n
	}
	q := math.Pow(1+m.WACC, n)
	return m.WACC * q / (q - 1)
}

// EPC annualizes a component's capital and operating cost over the
// project lifetime, accounting for replacements of components that live
// shorter than the project.
func (m CostModel) EPC(capex, opex float64, lifetime int) float64 {
	return m.CRF()*m.capexMultiInvestment(capex, lifetime) + opex
}

// capexMultiInvestment spreads re-investments of a short-lived component
// over the project lifetime and subtracts the salvage value of the last
// replacement.
func (m CostModel) capexMultiInvestment(capex0 float64, componentLifetime int) float64 {
	project := float64(m.ProjectLifetime)
	life := float64(componentLifetime)

	// Ceiling, so a component whose lifetime divides the project exactly
	// is bought exactly project/life times, with no salvage remainder.
	investments := int(math.Ceil(project / life))
	if investments < 1 {
		investments = 1
	}

	firstInvestment := capex0 * (1 + m.Tax)
	capex := firstInvestment
	for r := 1; r < investments; r++ {
		capex += firstInvestment / math.Pow(1+m.WACC, float64(r)*life)
	}

	if total := float64(investments) * life; total > project {
		lastInvestment := firstInvestment / math.Pow(1+m.WACC, float64(investments-1)*life)
		depreciation := lastInvestment / life
		capex -= depreciation * (total - project) / math.Pow(1+m.WACC, project)
	}
	return capex
}

// ApplyEPC fills the EPC field of every asset class in the design from
// its capex and lifetime under this cost model.
func (m CostModel) ApplyEPC(design *domain.GridDesign) {
	design.DistributionCable.EPC = m.EPC(design.DistributionCable.Capex, 0, design.DistributionCable.Lifetime)
	design.ConnectionCable.EPC = m.EPC(design.ConnectionCable.Capex, 0, design.ConnectionCable.Lifetime)
	design.Pole.EPC = m.EPC(design.Pole.Capex, 0, design.Pole.Lifetime)
	design.MG.EPC = m.EPC(design.MG.Capex, 0, design.MG.Lifetime)
}
