package translate

import (
	"math"
	"testing"

	"gridbridge/internal/domain"
)

func TestSummarize(t *testing.T) {
	g := domain.NewGrid()

	power := domain.NewPosition(-13.95, 38.80)
	pole := domain.NewPosition(-13.955, 38.80)
	if err := g.AddNode(domain.NewNode(power, domain.NodeTypePowerHouse, domain.HowAddedManual)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.AddNode(domain.NewNode(pole, domain.NodeTypePole, domain.HowAddedOptimized)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addConsumer(t, g, -13.96, 38.80, true)
	addConsumer(t, g, -13.97, 38.81, false) // standalone fallback

	distLen := 556.0
	connLen := 556.0
	if _, err := g.AddLink(power, pole, domain.LinkTypeDistribution, &distLen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.AddLink(pole, domain.NewPosition(-13.96, 38.80), domain.LinkTypeConnection, &connLen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	design := testDesign()
	s := Summarize(g, design)

	if s.NConsumers != 2 {
		t.Errorf("expected 2 consumers, got %d", s.NConsumers)
	}
	if s.NShsConsumers != 1 {
		t.Errorf("expected 1 standalone consumer, got %d", s.NShsConsumers)
	}
	if s.NPoles != 2 {
		t.Errorf("expected 2 pole assets (pole + power house), got %d", s.NPoles)
	}
	if s.NDistributionLinks != 1 || s.NConnectionLinks != 1 {
		t.Errorf("expected 1 link of each type, got %d/%d", s.NDistributionLinks, s.NConnectionLinks)
	}
	if s.LengthDistributionCable != 556 {
		t.Errorf("expected distribution length 556, got %v", s.LengthDistributionCable)
	}

	// 2 poles * 95 + 1 mg consumer * 120 + 556 * 0.8 + 556 * 1.2
	wantCost := math.Round((2*95+1*120+556*0.8+556*1.2)*100) / 100
	if s.CostGrid != wantCost {
		t.Errorf("expected grid cost %v, got %v", wantCost, s.CostGrid)
	}

	// 2 poles * 800 + 556 * 10 + 556 * 4 + 1 connected household * 140
	wantUpfront := 2*800.0 + 556*10 + 556*4 + 140
	if s.UpfrontInvestment != wantUpfront {
		t.Errorf("expected upfront investment %v, got %v", wantUpfront, s.UpfrontInvestment)
	}
}

func TestSummarizeEmptyGrid(t *testing.T) {
	s := Summarize(domain.NewGrid(), testDesign())
	if s.CostGrid != 0 {
		t.Errorf("expected zero cost for empty grid, got %v", s.CostGrid)
	}
	if s.UpfrontInvestment != 0 {
		t.Errorf("expected zero upfront investment, got %v", s.UpfrontInvestment)
	}
}

func TestCostModel(t *testing.T) {
	m := CostModel{ProjectLifetime: 25, WACC: 0.1, Tax: 0}

	t.Run("crf matches the annuity formula", func(t *testing.T) {
		q := math.Pow(1.1, 25)
		want := 0.1 * q / (q - 1)
		if got := m.CRF(); math.Abs(got-want) > 1e-12 {
			t.Errorf("expected CRF %v, got %v", want, got)
		}
	})

	t.Run("component living as long as the project needs one investment", func(t *testing.T) {
		epc := m.EPC(1000, 0, 25)
		want := m.CRF() * 1000
		if math.Abs(epc-want) > 1e-9 {
			t.Errorf("expected EPC %v, got %v", want, epc)
		}
	})

	t.Run("short-lived component costs more than a single investment", func(t *testing.T) {
		single := m.EPC(1000, 0, 25)
		short := m.EPC(1000, 0, 10)
		if short <= single {
			t.Errorf("expected replacements to raise EPC: %v <= %v", short, single)
		}
	})

	t.Run("opex adds linearly", func(t *testing.T) {
		base := m.EPC(1000, 0, 25)
		withOpex := m.EPC(1000, 50, 25)
		if math.Abs(withOpex-base-50) > 1e-9 {
			t.Errorf("expected opex to add 50, got %v", withOpex-base)
		}
	})

	t.Run("lifetime dividing the project exactly buys exactly that many", func(t *testing.T) {
		even := CostModel{ProjectLifetime: 20, WACC: 0.05, Tax: 0.18}
		// Two investments: the initial one plus one replacement at year
		// 10, discounted; no salvage since nothing outlives the project.
		first := 1000 * 1.18
		want := first + first/math.Pow(1.05, 10)
		if got := even.capexMultiInvestment(1000, 10); math.Abs(got-want) > 1e-9 {
			t.Errorf("expected multi-investment capex %v, got %v", want, got)
		}
	})

	t.Run("remainder lifetime subtracts salvage of the last purchase", func(t *testing.T) {
		odd := CostModel{ProjectLifetime: 25, WACC: 0.05, Tax: 0.18}
		// Three investments (years 0, 10, 20); the last one has 5 unused
		// years whose straight-line value is recovered at project end.
		first := 1000 * 1.18
		last := first / math.Pow(1.05, 20)
		want := first + first/math.Pow(1.05, 10) + last
		want -= last / 10 * 5 / math.Pow(1.05, 25)
		if got := odd.capexMultiInvestment(1000, 10); math.Abs(got-want) > 1e-9 {
			t.Errorf("expected multi-investment capex %v, got %v", want, got)
		}
	})

	t.Run("zero wacc falls back to straight-line recovery", func(t *testing.T) {
		flat := CostModel{ProjectLifetime: 20, WACC: 0, Tax: 0}
		if got := flat.CRF(); math.Abs(got-0.05) > 1e-12 {
			t.Errorf("expected CRF 0.05, got %v", got)
		}
	})

	t.Run("apply epc fills every asset class", func(t *testing.T) {
		design := testDesign()
		design.DistributionCable.EPC = 0
		design.Pole.EPC = 0
		m.ApplyEPC(design)
		if design.DistributionCable.EPC <= 0 {
			t.Error("expected distribution cable EPC to be filled")
		}
		if design.Pole.EPC <= 0 {
			t.Error("expected pole EPC to be filled")
		}
	})
}
