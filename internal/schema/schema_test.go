package schema

import (
	"errors"
	"strings"
	"testing"
)

const validExploration = `{
  "nodes": {
    "latitude": ["-13.96", "-13.95"],
    "longitude": ["38.8", "38.81"],
    "how_added": ["automatic", "manual"],
    "node_type": ["consumer", "power-house"],
    "consumer_type": ["household", "n.a."],
    "custom_specification": [null, null],
    "shs_options": [0, null],
    "consumer_detail": ["default", "n.a."],
    "is_connected": [true, true],
    "distance_to_load_center": [120.5, null],
    "parent": ["1", "unknown"],
    "distribution_cost": [14.2, null]
  },
  "links": {
    "lat_from": ["-13.95"],
    "lon_from": ["38.81"],
    "lat_to": ["-13.96"],
    "lon_to": ["38.8"],
    "link_type": ["connection"],
    "length": [1530.2]
  }
}`

const validGridInput = `{
  "nodes": {
    "latitude": [-13.96],
    "longitude": [38.8],
    "how_added": ["automatic"],
    "node_type": ["consumer"],
    "consumer_type": ["household"],
    "custom_specification": [null],
    "shs_options": [0],
    "consumer_detail": ["default"],
    "is_connected": [true],
    "distance_to_load_center": [null],
    "parent": ["unknown"],
    "distribution_cost": [null]
  },
  "links": {
    "lat_from": [], "lon_from": [], "lat_to": [], "lon_to": [],
    "link_type": [], "length": []
  },
  "grid_design": {
    "distribution_cable": {"lifetime": 25, "capex": 10, "max_length": 50, "epc": 1.2},
    "connection_cable": {"lifetime": 25, "capex": 4, "max_length": 20, "epc": 0.8},
    "pole": {"lifetime": 25, "capex": 800, "max_n_connections": 5, "epc": 95},
    "mg": {"lifetime": 25, "capex": 1000, "connection_cost": 140, "epc": 120},
    "shs": {"include": true, "max_grid_cost": 450}
  },
  "yearly_demand": 18600
}`

func expectViolation(t *testing.T, err error, pathFragment string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a schema violation")
	}
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected Violation, got %T: %v", err, err)
	}
	if !strings.Contains(v.Path, pathFragment) {
		t.Errorf("expected path containing %q, got %q", pathFragment, v.Path)
	}
}

func TestValidateExploration(t *testing.T) {
	t.Run("accepts a valid document", func(t *testing.T) {
		if err := ValidateExploration([]byte(validExploration)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects missing top-level key", func(t *testing.T) {
		raw := strings.Replace(validExploration, `"links"`, `"edges"`, 1)
		expectViolation(t, ValidateExploration([]byte(raw)), "links")
	})

	t.Run("rejects unknown top-level key", func(t *testing.T) {
		raw := strings.Replace(validExploration, `"nodes": {`, `"surprise": 1, "nodes": {`, 1)
		expectViolation(t, ValidateExploration([]byte(raw)), "surprise")
	})

	t.Run("rejects mismatched array lengths", func(t *testing.T) {
		raw := strings.Replace(validExploration,
			`"how_added": ["automatic", "manual"]`, `"how_added": ["automatic"]`, 1)
		err := ValidateExploration([]byte(raw))
		expectViolation(t, err, "$.nodes")
		var v *Violation
		errors.As(err, &v)
		if !strings.Contains(v.Actual, "how_added=1") {
			t.Errorf("expected actual lengths in violation, got %q", v.Actual)
		}
	})

	t.Run("rejects numeric latitude", func(t *testing.T) {
		raw := strings.Replace(validExploration,
			`"latitude": ["-13.96", "-13.95"]`, `"latitude": [-13.96, -13.95]`, 1)
		expectViolation(t, ValidateExploration([]byte(raw)), "latitude")
	})

	t.Run("rejects null in non-nullable array", func(t *testing.T) {
		raw := strings.Replace(validExploration,
			`"is_connected": [true, true]`, `"is_connected": [true, null]`, 1)
		expectViolation(t, ValidateExploration([]byte(raw)), "is_connected[1]")
	})

	t.Run("accepts null in nullable arrays", func(t *testing.T) {
		raw := strings.Replace(validExploration,
			`"distribution_cost": [14.2, null]`, `"distribution_cost": [null, null]`, 1)
		if err := ValidateExploration([]byte(raw)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects non-object payload", func(t *testing.T) {
		expectViolation(t, ValidateExploration([]byte(`[1, 2]`)), "$")
	})
}

func TestValidateGridInput(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		if err := ValidateGridInput([]byte(validGridInput)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects string latitude", func(t *testing.T) {
		raw := strings.Replace(validGridInput, `"latitude": [-13.96]`, `"latitude": ["-13.96"]`, 1)
		expectViolation(t, ValidateGridInput([]byte(raw)), "latitude")
	})

	t.Run("rejects unknown top-level key", func(t *testing.T) {
		raw := strings.Replace(validGridInput, `"yearly_demand": 18600`, `"yearly_demand": 18600, "surprise": 1`, 1)
		expectViolation(t, ValidateGridInput([]byte(raw)), "surprise")
	})

	t.Run("rejects additional properties on nodes", func(t *testing.T) {
		raw := strings.Replace(validGridInput,
			`"distribution_cost": [null]`, `"distribution_cost": [null], "label": ["a"]`, 1)
		expectViolation(t, ValidateGridInput([]byte(raw)), "label")
	})

	t.Run("rejects missing grid_design component", func(t *testing.T) {
		raw := strings.Replace(validGridInput, `"pole"`, `"mast"`, 1)
		expectViolation(t, ValidateGridInput([]byte(raw)), "pole")
	})

	t.Run("rejects zero lifetime", func(t *testing.T) {
		raw := strings.Replace(validGridInput,
			`"pole": {"lifetime": 25`, `"pole": {"lifetime": 0`, 1)
		expectViolation(t, ValidateGridInput([]byte(raw)), "pole.lifetime")
	})

	t.Run("rejects negative capex", func(t *testing.T) {
		raw := strings.Replace(validGridInput, `"capex": 800`, `"capex": -800`, 1)
		expectViolation(t, ValidateGridInput([]byte(raw)), "capex")
	})

	t.Run("rejects shs include without max_grid_cost", func(t *testing.T) {
		raw := strings.Replace(validGridInput,
			`"shs": {"include": true, "max_grid_cost": 450}`, `"shs": {"include": true}`, 1)
		expectViolation(t, ValidateGridInput([]byte(raw)), "shs")
	})

	t.Run("accepts shs disabled without max_grid_cost", func(t *testing.T) {
		raw := strings.Replace(validGridInput,
			`"shs": {"include": true, "max_grid_cost": 450}`, `"shs": {"include": false}`, 1)
		if err := ValidateGridInput([]byte(raw)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects missing yearly_demand", func(t *testing.T) {
		raw := strings.Replace(validGridInput, `"yearly_demand"`, `"annual_demand"`, 1)
		expectViolation(t, ValidateGridInput([]byte(raw)), "yearly_demand")
	})
}

func TestValidateGridOutput(t *testing.T) {
	validOutput := `{
	  "nodes": {
	    "latitude": ["-13.96"],
	    "longitude": ["38.8"],
	    "how_added": ["optimized"],
	    "node_type": ["pole"],
	    "consumer_type": ["n.a."],
	    "custom_specification": [null],
	    "shs_options": [null],
	    "consumer_detail": ["n.a."],
	    "is_connected": [true],
	    "distance_to_load_center": [null],
	    "parent": ["unknown"],
	    "distribution_cost": [12.4]
	  },
	  "links": {
	    "lat_from": [], "lon_from": [], "lat_to": [], "lon_to": [],
	    "link_type": [], "length": []
	  }
	}`

	t.Run("accepts a valid result", func(t *testing.T) {
		if err := ValidateGridOutput([]byte(validOutput)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects numeric latitude in result", func(t *testing.T) {
		raw := strings.Replace(validOutput, `"latitude": ["-13.96"]`, `"latitude": [-13.96]`, 1)
		expectViolation(t, ValidateGridOutput([]byte(raw)), "latitude")
	})

	t.Run("rejects ragged link arrays", func(t *testing.T) {
		raw := strings.Replace(validOutput, `"length": []`, `"length": [10]`, 1)
		expectViolation(t, ValidateGridOutput([]byte(raw)), "links")
	})

	t.Run("rejects missing links", func(t *testing.T) {
		raw := strings.Replace(validOutput, `"links"`, `"cables"`, 1)
		expectViolation(t, ValidateGridOutput([]byte(raw)), "links")
	})
}
