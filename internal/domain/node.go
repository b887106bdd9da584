package domain

import (
	"github.com/google/uuid"
)

// HowAdded records how a node entered the graph.
type HowAdded string

const (
	HowAddedManual    HowAdded = "manual"    // placed by an operator
	HowAddedAutomatic HowAdded = "automatic" // placed by the clustering step
	HowAddedOptimized HowAdded = "optimized" // returned by the optimizer
)

// Valid reports whether the value is one of the enumerated HowAdded values.
func (h HowAdded) Valid() bool {
	switch h {
	case HowAddedManual, HowAddedAutomatic, HowAddedOptimized:
		return true
	}
	return false
}

// NodeType classifies a node in the electrification graph.
type NodeType string

const (
	NodeTypeConsumer   NodeType = "consumer"
	NodeTypePole       NodeType = "pole"
	NodeTypePowerHouse NodeType = "power-house"
)

// Valid reports whether the value is one of the enumerated node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypeConsumer, NodeTypePole, NodeTypePowerHouse:
		return true
	}
	return false
}

// ConsumerType classifies the demand category of a consumer node. It is
// empty for non-consumer nodes.
type ConsumerType string

const (
	ConsumerTypeHousehold     ConsumerType = "household"
	ConsumerTypeEnterprise    ConsumerType = "enterprise"
	ConsumerTypePublicService ConsumerType = "public_service"
	ConsumerTypeNA            ConsumerType = "n.a."
)

// Valid reports whether the value is one of the enumerated consumer types.
func (t ConsumerType) Valid() bool {
	switch t {
	case ConsumerTypeHousehold, ConsumerTypeEnterprise, ConsumerTypePublicService, ConsumerTypeNA:
		return true
	}
	return false
}

// ConsumerDetail is the free-form category label carried through to the
// optimizer unchanged.
type ConsumerDetail string

const (
	ConsumerDetailDefault ConsumerDetail = "default"
	ConsumerDetailNA      ConsumerDetail = "n.a."
)

// ParentUnknown is the sentinel parent value for nodes without an assigned
// upstream pole. It is what the optimizer emits for root nodes.
const ParentUnknown = "unknown"

// Node is a point in the electrification graph: a consumer, a candidate
// pole, or the power house. Cost and topology fields are filled in by the
// optimizer merge.
type Node struct {
	ID                   string
	Position             Position
	HowAdded             HowAdded
	Type                 NodeType
	ConsumerType         ConsumerType
	CustomSpecification  string
	ShsOptions           *int
	ConsumerDetail       ConsumerDetail
	IsConnected          bool
	DistanceToLoadCenter *float64
	Parent               string
	DistributionCost     *float64
}

// NewNode creates a node with a fresh identity and the parent sentinel set.
func NewNode(pos Position, nodeType NodeType, howAdded HowAdded) *Node {
	return &Node{
		ID:       uuid.NewString(),
		Position: pos,
		HowAdded: howAdded,
		Type:     nodeType,
		Parent:   ParentUnknown,
	}
}

// Validate checks the node's own invariants. Cross-node invariants (parent
// references, coordinate uniqueness) are checked by Grid.AddNode.
func (n *Node) Validate() error {
	if err := n.Position.Validate(); err != nil {
		return err
	}
	if !n.Type.Valid() {
		return validationErrorf("node_type", "unknown value %q", n.Type)
	}
	if !n.HowAdded.Valid() {
		return validationErrorf("how_added", "unknown value %q", n.HowAdded)
	}
	if n.Type == NodeTypeConsumer {
		if !n.ConsumerType.Valid() {
			return validationErrorf("consumer_type", "unknown value %q for consumer node", n.ConsumerType)
		}
	} else {
		if n.ShsOptions != nil {
			return validationErrorf("shs_options", "only consumer nodes can carry a standalone-system option")
		}
	}
	if n.ShsOptions != nil && *n.ShsOptions < 0 {
		return validationErrorf("shs_options", "negative option id %d", *n.ShsOptions)
	}
	if n.DistanceToLoadCenter != nil && *n.DistanceToLoadCenter < 0 {
		return validationErrorf("distance_to_load_center", "negative distance %v", *n.DistanceToLoadCenter)
	}
	if n.DistributionCost != nil && *n.DistributionCost < 0 {
		return validationErrorf("distribution_cost", "negative cost %v", *n.DistributionCost)
	}
	return nil
}

// IsPowerSource reports whether the node can feed the network.
func (n *Node) IsPowerSource() bool {
	return n.Type == NodeTypePowerHouse
}

func (n *Node) clone() *Node {
	c := *n
	if n.ShsOptions != nil {
		v := *n.ShsOptions
		c.ShsOptions = &v
	}
	if n.DistanceToLoadCenter != nil {
		v := *n.DistanceToLoadCenter
		c.DistanceToLoadCenter = &v
	}
	if n.DistributionCost != nil {
		v := *n.DistributionCost
		c.DistributionCost = &v
	}
	return &c
}
