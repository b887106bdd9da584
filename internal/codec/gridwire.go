package codec

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gridbridge/internal/domain"
)

// GridInputNodes is the node collection of the optimizer's grid input
// schema. Unlike the exploration shape, coordinates are numeric arrays.
type GridInputNodes struct {
	Latitude             []float64  `json:"latitude"`
	Longitude            []float64  `json:"longitude"`
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

// GridWireLinks is the link collection shared by the grid input and grid
// result shapes. Coordinates are numeric-encoded strings, as the optimizer
// emits them.
type GridWireLinks struct {
	LatFrom  []string  `json:"lat_from"`
	LonFrom  []string  `json:"lon_from"`
	LatTo    []string  `json:"lat_to"`
	LonTo    []string  `json:"lon_to"`
	LinkType []string  `json:"link_type"`
	Length   []float64 `json:"length"`
}

// GridInput is the optimizer's request payload: the tuple of node
// collection, link collection, design parameters and yearly demand.
type GridInput struct {
	Nodes        GridInputNodes    `json:"nodes"`
	Links        GridWireLinks     `json:"links"`
	GridDesign   domain.GridDesign `json:"grid_design"`
	YearlyDemand float64           `json:"yearly_demand"`
}

// GridResultNodes is the node collection of the optimizer's result shape.
// Coordinates come back as numeric-encoded strings.
type GridResultNodes struct {
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

// GridResult is the optimizer's response payload.
type GridResult struct {
	Nodes GridResultNodes `json:"nodes"`
	Links GridWireLinks   `json:"links"`
}

// DecodeGridResult parses a grid result document.
func DecodeGridResult(data []byte) (*GridResult, error) {
	var res GridResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode grid result: %w", err)
	}
	if err := res.checkLengths(); err != nil {
		return nil, err
	}
	return &res, nil
}

// checkLengths guards row-wise walks over the result against ragged
// arrays, mirroring the exploration codec's own guard.
func (r *GridResult) checkLengths() error {
	n := len(r.Nodes.Latitude)
	nodeLens := []int{
		len(r.Nodes.Longitude), len(r.Nodes.HowAdded), len(r.Nodes.NodeType),
		len(r.Nodes.ConsumerType), len(r.Nodes.CustomSpecification), len(r.Nodes.ShsOptions),
		len(r.Nodes.ConsumerDetail), len(r.Nodes.IsConnected), len(r.Nodes.DistanceToLoadCenter),
		len(r.Nodes.Parent), len(r.Nodes.DistributionCost),
	}
	for _, l := range nodeLens {
		if l != n {
			return &domain.ValidationError{Field: "nodes", Reason: "attribute arrays have unequal lengths"}
		}
	}
	m := len(r.Links.LinkType)
	linkLens := []int{
		len(r.Links.LatFrom), len(r.Links.LonFrom), len(r.Links.LatTo),
		len(r.Links.LonTo), len(r.Links.Length),
	}
	for _, l := range linkLens {
		if l != m {
			return &domain.ValidationError{Field: "links", Reason: "attribute arrays have unequal lengths"}
		}
	}
	return nil
}

// NodeCount returns the number of node rows in the result.
func (r *GridResult) NodeCount() int { return len(r.Nodes.Latitude) }

// NodePosition parses the coordinate pair of result row i.
func (r *GridResult) NodePosition(i int) (domain.Position, error) {
	return domain.ParsePosition(r.Nodes.Latitude[i], r.Nodes.Longitude[i])
}

// AppendNode appends a node row to the grid input, returning its index.
func (in *GridInput) AppendNode(n *domain.Node, parent string) int {
	nodes := &in.Nodes
	nodes.Latitude = append(nodes.Latitude, n.Position.Lat())
	nodes.Longitude = append(nodes.Longitude, n.Position.Lon())
	nodes.HowAdded = append(nodes.HowAdded, string(n.HowAdded))
	nodes.NodeType = append(nodes.NodeType, string(n.Type))
	nodes.ConsumerType = append(nodes.ConsumerType, string(n.ConsumerType))
	nodes.CustomSpecification = append(nodes.CustomSpecification, optString(n.CustomSpecification))
	nodes.ShsOptions = append(nodes.ShsOptions, n.ShsOptions)
	nodes.ConsumerDetail = append(nodes.ConsumerDetail, string(n.ConsumerDetail))
	nodes.IsConnected = append(nodes.IsConnected, n.IsConnected)
	nodes.DistanceToLoadCenter = append(nodes.DistanceToLoadCenter, n.DistanceToLoadCenter)
	nodes.Parent = append(nodes.Parent, parent)
	nodes.DistributionCost = append(nodes.DistributionCost, n.DistributionCost)
	return len(nodes.Latitude) - 1
}

// AppendLink appends a link row to the grid input.
func (in *GridInput) AppendLink(l *domain.Link) {
	links := &in.Links
	links.LatFrom = append(links.LatFrom, domain.EncodeCoord(l.From.Lat()))
	links.LonFrom = append(links.LonFrom, domain.EncodeCoord(l.From.Lon()))
	links.LatTo = append(links.LatTo, domain.EncodeCoord(l.To.Lat()))
	links.LonTo = append(links.LonTo, domain.EncodeCoord(l.To.Lon()))
	links.LinkType = append(links.LinkType, string(l.Type))
	links.Length = append(links.Length, l.Length)
}

// EmptyGridInput returns a grid input with every attribute array allocated
// empty, so the marshalled payload carries [] rather than null.
func EmptyGridInput(design domain.GridDesign, yearlyDemand float64) *GridInput {
	return &GridInput{
		Nodes: GridInputNodes{
			Latitude:             []float64{},
			Longitude:            []float64{},
			HowAdded:             []string{},
			NodeType:             []string{},
			ConsumerType:         []string{},
			CustomSpecification:  []*string{},
			ShsOptions:           []*int{},
			ConsumerDetail:       []string{},
			IsConnected:          []bool{},
			DistanceToLoadCenter: []*float64{},
			Parent:               []string{},
			DistributionCost:     []*float64{},
		},
		Links: GridWireLinks{
			LatFrom:  []string{},
			LonFrom:  []string{},
			LatTo:    []string{},
			LonTo:    []string{},
			LinkType: []string{},
			Length:   []float64{},
		},
		GridDesign:   design,
		YearlyDemand: yearlyDemand,
	}
}

// ParentIndex interprets a wire parent reference as an array index.
func ParentIndex(ref string, rows int) (int, bool) {
	if ref == "" || ref == domain.ParentUnknown {
		return 0, false
	}
	idx, err := strconv.Atoi(ref)
	if err != nil || idx < 0 || idx >= rows {
		return 0, false
	}
	return idx, true
}
