package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gridbridge/internal/domain"
)

// ExplorationNodes is the parallel-array node collection of the
// exploration schema. Coordinates are numeric-encoded strings.
type ExplorationNodes struct {
	Latitude             []string   `json:"latitude"`
	Longitude            []string   `json:"longitude"`
	HowAdded             []string   `json:"how_added"`
	NodeType             []string   `json:"node_type"`
	ConsumerType         []string   `json:"consumer_type"`
	CustomSpecification  []*string  `json:"custom_specification"`
	ShsOptions           []*int     `json:"shs_options"`
	ConsumerDetail       []string   `json:"consumer_detail"`
	IsConnected          []bool     `json:"is_connected"`
	DistanceToLoadCenter []*float64 `json:"distance_to_load_center"`
	Parent               []string   `json:"parent"`
	DistributionCost     []*float64 `json:"distribution_cost"`
}

// ExplorationLinks is the parallel-array link collection of the
// exploration schema.
type ExplorationLinks struct {
	LatFrom  []string  `json:"lat_from"`
	LonFrom  []string  `json:"lon_from"`
	LatTo    []string  `json:"lat_to"`
	LonTo    []string  `json:"lon_to"`
	LinkType []string  `json:"link_type"`
	Length   []float64 `json:"length"`
}

// Exploration is the wire shape of an exploration dataset.
type Exploration struct {
	Nodes ExplorationNodes `json:"nodes"`
	Links ExplorationLinks `json:"links"`
}

// checkLengths guards the row-wise walk against ragged arrays. The schema
// validator reports parallelism violations with full field paths; this is
// only the codec's own refusal to index past an array end.
func (doc *Exploration) checkLengths() error {
	n := len(doc.Nodes.Latitude)
	nodeLens := []int{
		len(doc.Nodes.Longitude), len(doc.Nodes.HowAdded), len(doc.Nodes.NodeType),
		len(doc.Nodes.ConsumerType), len(doc.Nodes.CustomSpecification), len(doc.Nodes.ShsOptions),
		len(doc.Nodes.ConsumerDetail), len(doc.Nodes.IsConnected), len(doc.Nodes.DistanceToLoadCenter),
		len(doc.Nodes.Parent), len(doc.Nodes.DistributionCost),
	}
	for _, l := range nodeLens {
		if l != n {
			return &domain.ValidationError{Field: "nodes", Reason: "attribute arrays have unequal lengths"}
		}
	}
	m := len(doc.Links.LinkType)
	linkLens := []int{
		len(doc.Links.LatFrom), len(doc.Links.LonFrom), len(doc.Links.LatTo),
		len(doc.Links.LonTo), len(doc.Links.Length),
	}
	for _, l := range linkLens {
		if l != m {
			return &domain.ValidationError{Field: "links", Reason: "attribute arrays have unequal lengths"}
		}
	}
	return nil
}

// DecodeExploration parses an exploration document and constructs the
// domain grid from it. Structural schema checking belongs to the schema
// package and should run first; everything here still fails loudly on
// inputs the grid cannot represent.
func DecodeExploration(r io.Reader) (*domain.Grid, error) {
	var doc Exploration
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode exploration: %w", err)
	}
	return buildGrid(&doc)
}

func buildGrid(doc *Exploration) (*domain.Grid, error) {
	if err := doc.checkLengths(); err != nil {
		return nil, err
	}
	n := len(doc.Nodes.Latitude)
	g := domain.NewGrid()

	// First pass: create every node with the parent sentinel. Wire
	// parents are array indices and may point forward.
	rows := make([]*domain.Node, 0, n)
	for i := 0; i < n; i++ {
		node, err := decodeNodeRow(&doc.Nodes, i)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		rows = append(rows, node)
	}

	// Second pass: resolve parent indices to node identities.
	for i := 0; i < n; i++ {
		ref := doc.Nodes.Parent[i]
		if ref == "" || ref == domain.ParentUnknown {
			continue
		}
		idx, err := strconv.Atoi(ref)
		if err != nil || idx < 0 || idx >= n {
			return nil, &domain.ValidationError{
				Field:  "parent",
				Reason: fmt.Sprintf("node %d: parent %q does not reference an existing node", i, ref),
			}
		}
		rows[i].Parent = rows[idx].ID
	}

	for i := range doc.Links.LinkType {
		if err := decodeLinkRow(g, &doc.Links, i); err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
	}
	return g, nil
}

func decodeNodeRow(nodes *ExplorationNodes, i int) (*domain.Node, error) {
	pos, err := domain.ParsePosition(nodes.Latitude[i], nodes.Longitude[i])
	if err != nil {
		return nil, err
	}
	node := domain.NewNode(pos, domain.NodeType(nodes.NodeType[i]), decodeHowAdded(nodes.HowAdded[i]))
	node.ConsumerType = domain.ConsumerType(nodes.ConsumerType[i])
	if nodes.CustomSpecification[i] != nil {
		node.CustomSpecification = *nodes.CustomSpecification[i]
	}
	node.ShsOptions = nodes.ShsOptions[i]
	node.ConsumerDetail = domain.ConsumerDetail(nodes.ConsumerDetail[i])
	node.IsConnected = nodes.IsConnected[i]
	node.DistanceToLoadCenter = nodes.DistanceToLoadCenter[i]
	node.DistributionCost = nodes.DistributionCost[i]
	return node, nil
}

func decodeLinkRow(g *domain.Grid, links *ExplorationLinks, i int) error {
	from, err := domain.ParsePosition(links.LatFrom[i], links.LonFrom[i])
	if err != nil {
		return err
	}
	to, err := domain.ParsePosition(links.LatTo[i], links.LonTo[i])
	if err != nil {
		return err
	}
	length := links.Length[i]
	_, err = g.AddLink(from, to, domain.LinkType(links.LinkType[i]), &length)
	return err
}

// decodeHowAdded normalizes the exploration vocabulary. The clustering
// step historically labels its nodes "k-means".
func decodeHowAdded(v string) domain.HowAdded {
	if v == "k-means" {
		return domain.HowAddedAutomatic
	}
	return domain.HowAdded(v)
}

// EncodeExploration renders the grid back into the exploration wire shape.
func EncodeExploration(g *domain.Grid, w io.Writer) error {
	doc := explorationFromGrid(g)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func explorationFromGrid(g *domain.Grid) *Exploration {
	nodes := g.Nodes()
	indexByID := make(map[string]int, len(nodes))
	for i, n := range nodes {
		indexByID[n.ID] = i
	}

	doc := &Exploration{
		Nodes: ExplorationNodes{
			Latitude:             make([]string, 0, len(nodes)),
			Longitude:            make([]string, 0, len(nodes)),
			HowAdded:             make([]string, 0, len(nodes)),
			NodeType:             make([]string, 0, len(nodes)),
			ConsumerType:         make([]string, 0, len(nodes)),
			CustomSpecification:  make([]*string, 0, len(nodes)),
			ShsOptions:           make([]*int, 0, len(nodes)),
			ConsumerDetail:       make([]string, 0, len(nodes)),
			IsConnected:          make([]bool, 0, len(nodes)),
			DistanceToLoadCenter: make([]*float64, 0, len(nodes)),
			Parent:               make([]string, 0, len(nodes)),
			DistributionCost:     make([]*float64, 0, len(nodes)),
		},
	}
	for _, n := range nodes {
		doc.Nodes.Latitude = append(doc.Nodes.Latitude, domain.EncodeCoord(n.Position.Lat()))
		doc.Nodes.Longitude = append(doc.Nodes.Longitude, domain.EncodeCoord(n.Position.Lon()))
		doc.Nodes.HowAdded = append(doc.Nodes.HowAdded, string(n.HowAdded))
		doc.Nodes.NodeType = append(doc.Nodes.NodeType, string(n.Type))
		doc.Nodes.ConsumerType = append(doc.Nodes.ConsumerType, string(n.ConsumerType))
		doc.Nodes.CustomSpecification = append(doc.Nodes.CustomSpecification, optString(n.CustomSpecification))
		doc.Nodes.ShsOptions = append(doc.Nodes.ShsOptions, n.ShsOptions)
		doc.Nodes.ConsumerDetail = append(doc.Nodes.ConsumerDetail, string(n.ConsumerDetail))
		doc.Nodes.IsConnected = append(doc.Nodes.IsConnected, n.IsConnected)
		doc.Nodes.DistanceToLoadCenter = append(doc.Nodes.DistanceToLoadCenter, n.DistanceToLoadCenter)
		doc.Nodes.Parent = append(doc.Nodes.Parent, encodeParent(n.Parent, indexByID))
		doc.Nodes.DistributionCost = append(doc.Nodes.DistributionCost, n.DistributionCost)
	}

	links := g.Links()
	doc.Links = ExplorationLinks{
		LatFrom:  make([]string, 0, len(links)),
		LonFrom:  make([]string, 0, len(links)),
		LatTo:    make([]string, 0, len(links)),
		LonTo:    make([]string, 0, len(links)),
		LinkType: make([]string, 0, len(links)),
		Length:   make([]float64, 0, len(links)),
	}
	for _, l := range links {
		doc.Links.LatFrom = append(doc.Links.LatFrom, domain.EncodeCoord(l.From.Lat()))
		doc.Links.LonFrom = append(doc.Links.LonFrom, domain.EncodeCoord(l.From.Lon()))
		doc.Links.LatTo = append(doc.Links.LatTo, domain.EncodeCoord(l.To.Lat()))
		doc.Links.LonTo = append(doc.Links.LonTo, domain.EncodeCoord(l.To.Lon()))
		doc.Links.LinkType = append(doc.Links.LinkType, string(l.Type))
		doc.Links.Length = append(doc.Links.Length, l.Length)
	}
	return doc
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func encodeParent(parent string, indexByID map[string]int) string {
	if parent == "" || parent == domain.ParentUnknown {
		return domain.ParentUnknown
	}
	if idx, ok := indexByID[parent]; ok {
		return strconv.Itoa(idx)
	}
	return domain.ParentUnknown
}
