package translate

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gridbridge/internal/codec"
	"gridbridge/internal/domain"
	"gridbridge/internal/schema"
)

// BuildRequest projects the grid into an optimizer request.
//
// Consumers that cannot reach a power source are either dropped or, when
// the design enables the standalone solar fallback, exported disconnected
// so the optimizer can weigh them against shs.max_grid_cost. Poles and
// power houses are always exported. The returned payload is guaranteed to
// pass the grid input schema validator.
func BuildRequest(g *domain.Grid, design *domain.GridDesign, yearlyDemand float64) (*codec.GridInput, error) {
	if err := design.Validate(); err != nil {
		return nil, fmt.Errorf("grid design: %w", err)
	}
	if yearlyDemand < 0 {
		return nil, translateErrorf("node", 0, "negative yearly demand %v", yearlyDemand)
	}

	shsFallback := design.SHS != nil && design.SHS.Include
	input := codec.EmptyGridInput(*design, yearlyDemand)

	// Select nodes first and remember each exported index, so parent
	// references can be re-keyed to request row indices.
	exported := make(map[string]int)
	var selected []*domain.Node
	for i, n := range g.Nodes() {
		if n.Type == domain.NodeTypeConsumer && !n.IsConnected && !shsFallback {
			continue
		}
		if n.Type == domain.NodeTypeConsumer && !n.ConsumerType.Valid() {
			return nil, translateErrorf("node", i, "consumer without a consumer type")
		}
		selected = append(selected, n)
		exported[n.ID] = len(selected) - 1
	}

	for i, n := range selected {
		parent := domain.ParentUnknown
		if n.Parent != "" && n.Parent != domain.ParentUnknown {
			idx, ok := exported[n.Parent]
			if !ok {
				return nil, translateErrorf("node", i, "parent of %s was not exported", n.Position)
			}
			parent = strconv.Itoa(idx)
		}
		input.AppendNode(n, parent)
	}

	for i, l := range g.Links() {
		if l.Length <= 0 {
			return nil, translateErrorf("link", i, "zero-length link %s -> %s", l.From, l.To)
		}
		input.AppendLink(l)
	}

	// The wire-shape guarantee: a payload this function emits always
	// passes the grid input validator.
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal grid input: %w", err)
	}
	if err := schema.ValidateGridInput(raw); err != nil {
		return nil, fmt.Errorf("translated request failed schema check: %w", err)
	}
	return input, nil
}
