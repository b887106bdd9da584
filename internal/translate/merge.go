package translate

import (
	"gridbridge/internal/codec"
	"gridbridge/internal/domain"
)

// Merge reconciles an optimizer result into the grid and returns the
// updated copy. The input grid is never mutated: the merge works on a
// clone and the caller swaps it in only when Merge succeeds, so a failed
// or abandoned optimization leaves the owning grid untouched.
//
// The optimizer does not echo node identities, so result rows are matched
// to existing nodes by rounded coordinate equality. Rows at a coordinate
// the grid does not know become new nodes tagged HowAddedOptimized;
// matching rows update only the fields the optimizer owns (parent,
// distribution cost, distance to load center, connection flag). Two rows
// resolving to one coordinate are a conflict, never last-write-wins.
func Merge(g *domain.Grid, res *codec.GridResult) (*domain.Grid, error) {
	merged := g.Clone()

	n := res.NodeCount()
	seen := make(map[domain.PositionKey]int, n)
	rowNodes := make([]*domain.Node, n)

	// First pass: match or insert every result row.
	for i := 0; i < n; i++ {
		pos, err := res.NodePosition(i)
		if err != nil {
			return nil, translateErrorf("node", i, "unparseable coordinates: %v", err)
		}
		key := pos.Key()
		if prev, dup := seen[key]; dup {
			return nil, translateErrorf("node", i, "conflicts with result node %d at %s", prev, pos)
		}
		seen[key] = i

		if existing, ok := merged.FindNode(pos); ok {
			applyNodeUpdate(existing, res, i)
			rowNodes[i] = existing
			continue
		}

		node := newOptimizedNode(res, i, pos)
		if err := merged.AddNode(node); err != nil {
			return nil, translateErrorf("node", i, "cannot insert optimized node: %v", err)
		}
		rowNodes[i] = node
	}

	// Second pass: parent references are row indices in the result.
	for i := 0; i < n; i++ {
		ref := res.Nodes.Parent[i]
		if ref == "" || ref == domain.ParentUnknown {
			continue
		}
		idx, ok := codec.ParentIndex(ref, n)
		if !ok {
			return nil, translateErrorf("node", i, "parent %q does not reference a result node", ref)
		}
		rowNodes[i].Parent = rowNodes[idx].ID
	}

	// Links absent from the grid are inserted; known segments stay as
	// they are (links are immutable once created).
	for i := range res.Links.LinkType {
		from, err := domain.ParsePosition(res.Links.LatFrom[i], res.Links.LonFrom[i])
		if err != nil {
			return nil, translateErrorf("link", i, "unparseable from coordinates: %v", err)
		}
		to, err := domain.ParsePosition(res.Links.LatTo[i], res.Links.LonTo[i])
		if err != nil {
			return nil, translateErrorf("link", i, "unparseable to coordinates: %v", err)
		}
		if hasLink(merged, from, to, domain.LinkType(res.Links.LinkType[i])) {
			continue
		}
		length := res.Links.Length[i]
		if _, err := merged.AddLink(from, to, domain.LinkType(res.Links.LinkType[i]), &length); err != nil {
			return nil, translateErrorf("link", i, "cannot insert optimized link: %v", err)
		}
	}

	return merged, nil
}

// applyNodeUpdate overwrites only the optimizer-owned fields of an
// existing node. Everything else (how_added, custom specification,
// consumer category) keeps its pre-merge value.
func applyNodeUpdate(node *domain.Node, res *codec.GridResult, i int) {
	node.IsConnected = res.Nodes.IsConnected[i]
	node.DistanceToLoadCenter = res.Nodes.DistanceToLoadCenter[i]
	node.DistributionCost = res.Nodes.DistributionCost[i]
	node.Parent = domain.ParentUnknown // resolved in the second pass
}

func newOptimizedNode(res *codec.GridResult, i int, pos domain.Position) *domain.Node {
	node := domain.NewNode(pos, domain.NodeType(res.Nodes.NodeType[i]), domain.HowAddedOptimized)
	node.ConsumerType = domain.ConsumerType(res.Nodes.ConsumerType[i])
	if res.Nodes.CustomSpecification[i] != nil {
		node.CustomSpecification = *res.Nodes.CustomSpecification[i]
	}
	node.ShsOptions = res.Nodes.ShsOptions[i]
	node.ConsumerDetail = domain.ConsumerDetail(res.Nodes.ConsumerDetail[i])
	node.IsConnected = res.Nodes.IsConnected[i]
	node.DistanceToLoadCenter = res.Nodes.DistanceToLoadCenter[i]
	node.DistributionCost = res.Nodes.DistributionCost[i]
	return node
}

func hasLink(g *domain.Grid, from, to domain.Position, linkType domain.LinkType) bool {
	fromKey, toKey := from.Key(), to.Key()
	for _, l := range g.Links() {
		if l.Type != linkType {
			continue
		}
		a, b := l.From.Key(), l.To.Key()
		if (a == fromKey && b == toKey) || (a == toKey && b == fromKey) {
			return true
		}
	}
	return false
}
