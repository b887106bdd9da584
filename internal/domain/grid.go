package domain

// Grid is the canonical in-process representation of a settlement's
// electrification graph. A Grid instance is exclusively owned by the
// request that constructed it; nothing here is safe for concurrent use.
//
// Nodes and links are ordered record sequences. The parallel-array layout
// of the external schemas is a wire-format concern handled by the codec
// package; inside the domain, per-record consistency is a construction
// time guarantee.
type Grid struct {
	nodes []*Node
	links []*Link

	byKey map[PositionKey]*Node
	byID  map[string]*Node

	// adjacency is built lazily on the first reachability query and
	// dropped on any mutation.
	adjacency map[PositionKey][]PositionKey
}

// NewGrid creates an empty grid.
func NewGrid() *Grid {
	return &Grid{
		byKey: make(map[PositionKey]*Node),
		byID:  make(map[string]*Node),
	}
}

// AddNode validates the node and inserts it. Two nodes within the
// coordinate tolerance are the same point, so a duplicate key is rejected,
// as is a parent reference to a node that does not exist.
func (g *Grid) AddNode(n *Node) error {
	if err := n.Validate(); err != nil {
		return err
	}
	key := n.Position.Key()
	if _, exists := g.byKey[key]; exists {
		return validationErrorf("position", "duplicate node at %s", n.Position)
	}
	if _, exists := g.byID[n.ID]; exists {
		return validationErrorf("id", "duplicate node id %q", n.ID)
	}
	if n.Parent != ParentUnknown {
		if _, exists := g.byID[n.Parent]; !exists {
			return validationErrorf("parent", "parent %q does not reference an existing node", n.Parent)
		}
	}

	g.nodes = append(g.nodes, n)
	g.byKey[key] = n
	g.byID[n.ID] = n
	g.adjacency = nil
	return nil
}

// AddLink creates and inserts a link between two positions. Length is
// computed from the endpoints when nil. A second link with the same
// endpoints and type is rejected.
func (g *Grid) AddLink(from, to Position, linkType LinkType, length *float64) (*Link, error) {
	link, err := NewLink(from, to, linkType, length)
	if err != nil {
		return nil, err
	}
	for _, existing := range g.links {
		if existing.ID == link.ID {
			return nil, validationErrorf("link", "duplicate link %s -> %s", from, to)
		}
	}
	g.links = append(g.links, link)
	g.adjacency = nil
	return link, nil
}

// Nodes returns the node sequence in insertion order. The slice is shared;
// callers must not mutate it.
func (g *Grid) Nodes() []*Node { return g.nodes }

// Links returns the link sequence in insertion order. The slice is shared;
// callers must not mutate it.
func (g *Grid) Links() []*Link { return g.links }

// NodeCount returns the number of nodes.
func (g *Grid) NodeCount() int { return len(g.nodes) }

// LinkCount returns the number of links.
func (g *Grid) LinkCount() int { return len(g.links) }

// FindNode resolves a position to a node through the coordinate tolerance.
func (g *Grid) FindNode(pos Position) (*Node, bool) {
	n, ok := g.byKey[pos.Key()]
	return n, ok
}

// NodeByID resolves a node identity.
func (g *Grid) NodeByID(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Consumers returns all consumer nodes.
func (g *Grid) Consumers() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Type == NodeTypeConsumer {
			out = append(out, n)
		}
	}
	return out
}

// LinksAt returns all links with an endpoint at the node's coordinate.
func (g *Grid) LinksAt(pos Position) []*Link {
	key := pos.Key()
	var out []*Link
	for _, l := range g.links {
		if l.Touches(key) {
			out = append(out, l)
		}
	}
	return out
}

// IsConnected reports whether the node can reach any power source over the
// link graph. Used to flag stranded consumers before export.
func (g *Grid) IsConnected(n *Node) bool {
	if n.IsPowerSource() {
		return true
	}
	g.ensureAdjacency()

	start := n.Position.Key()
	visited := map[PositionKey]bool{start: true}
	queue := []PositionKey{start}
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		if node, ok := g.byKey[key]; ok && node.IsPowerSource() {
			return true
		}
		for _, next := range g.adjacency[key] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

func (g *Grid) ensureAdjacency() {
	if g.adjacency != nil {
		return
	}
	adj := make(map[PositionKey][]PositionKey, len(g.byKey))
	for _, l := range g.links {
		from, to := l.From.Key(), l.To.Key()
		adj[from] = append(adj[from], to)
		adj[to] = append(adj[to], from)
	}
	g.adjacency = adj
}

// Clone returns a deep copy. The optimizer merge mutates a clone and only
// replaces the original on full success, so a failed merge leaves the
// owning grid untouched.
func (g *Grid) Clone() *Grid {
	c := NewGrid()
	c.nodes = make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		cn := n.clone()
		c.nodes = append(c.nodes, cn)
		c.byKey[cn.Position.Key()] = cn
		c.byID[cn.ID] = cn
	}
	c.links = make([]*Link, 0, len(g.links))
	for _, l := range g.links {
		cl := *l
		c.links = append(c.links, &cl)
	}
	return c
}
