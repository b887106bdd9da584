package schema

var explorationNodeFields = []fieldSpec{
	{name: "latitude", kind: kindString},
	{name: "longitude", kind: kindString},
	{name: "how_added", kind: kindString},
	{name: "node_type", kind: kindString},
	{name: "consumer_type", kind: kindString},
	{name: "custom_specification", kind: kindString, nullable: true},
	{name: "shs_options", kind: kindInteger, nullable: true},
	{name: "consumer_detail", kind: kindString},
	{name: "is_connected", kind: kindBool},
	{name: "distance_to_load_center", kind: kindNumber, nullable: true},
	{name: "parent", kind: kindString},
	{name: "distribution_cost", kind: kindNumber, nullable: true},
}

var explorationLinkFields = []fieldSpec{
	{name: "lat_from", kind: kindString},
	{name: "lon_from", kind: kindString},
	{name: "lat_to", kind: kindString},
	{name: "lon_to", kind: kindString},
	{name: "link_type", kind: kindString},
	{name: "length", kind: kindNumber},
}

// ValidateExploration checks a raw exploration document against the
// internal exploration shape.
func ValidateExploration(raw []byte) error {
	doc, err := decodeDocument(raw)
	if err != nil {
		return err
	}
	if err := requireKeys("$", doc, "nodes", "links"); err != nil {
		return err
	}
	if err := rejectUnknownKeys("$", doc, "nodes", "links"); err != nil {
		return err
	}

	nodes, err := asObject("$.nodes", doc["nodes"])
	if err != nil {
		return err
	}
	if err := checkParallel("$.nodes", nodes, explorationNodeFields); err != nil {
		return err
	}

	links, err := asObject("$.links", doc["links"])
	if err != nil {
		return err
	}
	return checkParallel("$.links", links, explorationLinkFields)
}
