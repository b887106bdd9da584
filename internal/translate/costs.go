package translate

import (
	"math"

	"gridbridge/internal/domain"
)

// Summary aggregates the merged grid into the figures reported per
// optimization: asset counts, cable lengths by class, and the derived
// costs.
type Summary struct {
	NConsumers              int     `json:"n_consumers"`
	NShsConsumers           int     `json:"n_shs_consumers"`
	NPoles                  int     `json:"n_poles"`
	NDistributionLinks      int     `json:"n_distribution_links"`
	NConnectionLinks        int     `json:"n_connection_links"`
	LengthDistributionCable float64 `json:"length_distribution_cable"`
	LengthConnectionCable   float64 `json:"length_connection_cable"`
	CostGrid                float64 `json:"cost_grid"`
	UpfrontInvestment       float64 `json:"upfront_invest_grid"`
}

// Summarize derives the cost summary for a grid under the given design.
// Poles and the power house both count as pole assets; consumers left
// disconnected fall to the standalone-system count.
func Summarize(g *domain.Grid, design *domain.GridDesign) *Summary {
	s := &Summary{}

	nHouseholdConnected := 0
	for _, n := range g.Nodes() {
		switch n.Type {
		case domain.NodeTypeConsumer:
			s.NConsumers++
			if !n.IsConnected {
				s.NShsConsumers++
			} else if n.ConsumerType == domain.ConsumerTypeHousehold {
				nHouseholdConnected++
			}
		case domain.NodeTypePole, domain.NodeTypePowerHouse:
			s.NPoles++
		}
	}

	for _, l := range g.Links() {
		switch l.Type {
		case domain.LinkTypeDistribution:
			s.NDistributionLinks++
			s.LengthDistributionCable += l.Length
		case domain.LinkTypeConnection:
			s.NConnectionLinks++
			s.LengthConnectionCable += l.Length
		}
	}

	nMGConsumers := s.NConsumers - s.NShsConsumers
	if totalLinks := s.NDistributionLinks + s.NConnectionLinks; totalLinks > 0 && s.NPoles > 0 {
		cost := float64(s.NPoles)*design.Pole.EPC +
			float64(nMGConsumers)*design.MG.EPC +
			s.LengthConnectionCable*design.ConnectionCable.EPC +
			s.LengthDistributionCable*design.DistributionCable.EPC
		s.CostGrid = math.Round(cost*100) / 100
	}

	s.UpfrontInvestment = float64(s.NPoles)*design.Pole.Capex +
		s.LengthDistributionCable*design.DistributionCable.Capex +
		s.LengthConnectionCable*design.ConnectionCable.Capex +
		float64(nHouseholdConnected)*design.MG.ConnectionCost

	return s
}
