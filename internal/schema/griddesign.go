package schema

var gridInputNodeFields = []fieldSpec{
	{name: "latitude", kind: kindNumber},
	{name: "longitude", kind: kindNumber},
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

var gridResultNodeFields = []fieldSpec{
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

var gridLinkFields = []fieldSpec{
	{name: "lat_from", kind: kindString},
	{name: "lon_from", kind: kindString},
	{name: "lat_to", kind: kindString},
	{name: "lon_to", kind: kindString},
	{name: "link_type", kind: kindString},
	{name: "length", kind: kindNumber},
}

var gridInputNodeKeys = func() []string {
	keys := make([]string, 0, len(gridInputNodeFields))
	for _, f := range gridInputNodeFields {
		keys = append(keys, f.name)
	}
	return keys
}()

// ValidateGridInput checks a raw optimizer request against the grid input
// schema: required top-level keys, numeric coordinate arrays with no
// additional properties on nodes, parallel-array parallelism, and the
// nested grid_design component objects.
func ValidateGridInput(raw []byte) error {
	doc, err := decodeDocument(raw)
	if err != nil {
		return err
	}
	if err := requireKeys("$", doc, "nodes", "grid_design", "yearly_demand"); err != nil {
		return err
	}
	if err := rejectUnknownKeys("$", doc, "nodes", "links", "grid_design", "yearly_demand"); err != nil {
		return err
	}

	nodes, err := asObject("$.nodes", doc["nodes"])
	if err != nil {
		return err
	}
	if err := rejectUnknownKeys("$.nodes", nodes, gridInputNodeKeys...); err != nil {
		return err
	}
	if err := checkParallel("$.nodes", nodes, gridInputNodeFields); err != nil {
		return err
	}

	if v, ok := doc["links"]; ok {
		links, err := asObject("$.links", v)
		if err != nil {
			return err
		}
		if err := checkParallel("$.links", links, gridLinkFields); err != nil {
			return err
		}
	}

	if err := checkNonNegativeNumber("$", doc, "yearly_demand"); err != nil {
		return err
	}

	design, err := asObject("$.grid_design", doc["grid_design"])
	if err != nil {
		return err
	}
	return validateGridDesign("$.grid_design", design)
}

// ValidateGridOutput checks a raw optimizer result against the grid result
// shape (string-encoded coordinates, parallel arrays).
func ValidateGridOutput(raw []byte) error {
	doc, err := decodeDocument(raw)
	if err != nil {
		return err
	}
	if err := requireKeys("$", doc, "nodes", "links"); err != nil {
		return err
	}

	nodes, err := asObject("$.nodes", doc["nodes"])
	if err != nil {
		return err
	}
	if err := checkParallel("$.nodes", nodes, gridResultNodeFields); err != nil {
		return err
	}

	links, err := asObject("$.links", doc["links"])
	if err != nil {
		return err
	}
	return checkParallel("$.links", links, gridLinkFields)
}

func validateGridDesign(path string, design map[string]any) error {
	if err := requireKeys(path, design, "distribution_cable", "connection_cable", "pole", "mg"); err != nil {
		return err
	}

	for _, cable := range []string{"distribution_cable", "connection_cable"} {
		obj, err := asObject(joinPath(path, cable), design[cable])
		if err != nil {
			return err
		}
		if err := validateComponent(joinPath(path, cable), obj, "max_length"); err != nil {
			return err
		}
	}

	pole, err := asObject(joinPath(path, "pole"), design["pole"])
	if err != nil {
		return err
	}
	if err := validateComponent(joinPath(path, "pole"), pole, "max_n_connections"); err != nil {
		return err
	}

	mg, err := asObject(joinPath(path, "mg"), design["mg"])
	if err != nil {
		return err
	}
	if err := validateComponent(joinPath(path, "mg"), mg, ""); err != nil {
		return err
	}

	if v, ok := design["shs"]; ok {
		return validateSHS(joinPath(path, "shs"), v)
	}
	return nil
}

// validateComponent checks the shared lifetime/capex/epc fields of one
// asset class, plus its class-specific structural limit when named.
func validateComponent(path string, obj map[string]any, limit string) error {
	if err := checkPositiveInteger(path, obj, "lifetime"); err != nil {
		return err
	}
	if err := checkNonNegativeNumber(path, obj, "capex"); err != nil {
		return err
	}
	if err := checkNonNegativeNumber(path, obj, "epc"); err != nil {
		return err
	}
	switch limit {
	case "max_length":
		return checkNonNegativeNumber(path, obj, "max_length")
	case "max_n_connections":
		return checkPositiveInteger(path, obj, "max_n_connections")
	}
	return nil
}

func validateSHS(path string, v any) error {
	obj, err := asObject(path, v)
	if err != nil {
		return err
	}
	inc, ok := obj["include"]
	if !ok {
		return violation(joinPath(path, "include"), "present", "missing")
	}
	include, ok := inc.(bool)
	if !ok {
		return violation(joinPath(path, "include"), "boolean", describe(inc))
	}
	if include {
		return checkNonNegativeNumber(path, obj, "max_grid_cost")
	}
	return nil
}
