// Package schema implements structural validation for the two external
// payload shapes: the application's exploration representation and the
// optimizer's grid_design contract.
//
// Both shapes carry node and link collections as parallel arrays, so the
// validators enforce a cross-field invariant ordinary per-field checking
// misses: every attribute array of a collection must have the same length.
// A violation is always reported to the caller with its field path; the
// validators never coerce or repair (truncating to the shortest array
// would silently drop data).
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Violation reports a payload that fails a structural schema check.
type Violation struct {
	Path     string
	Expected string
	Actual   string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("schema: %s: expected %s, got %s", v.Path, v.Expected, v.Actual)
}

func violation(path, expected, actual string) *Violation {
	return &Violation{Path: path, Expected: expected, Actual: actual}
}

// fieldKind describes the element type of an attribute array.
type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindInteger
	kindBool
)

func (k fieldKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindNumber:
		return "number"
	case kindInteger:
		return "integer"
	case kindBool:
		return "boolean"
	}
	return "unknown"
}

// fieldSpec declares one attribute array of a parallel-array collection.
type fieldSpec struct {
	name     string
	kind     fieldKind
	nullable bool
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

func asObject(path string, v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, violation(path, "object", describe(v))
	}
	return obj, nil
}

func decodeDocument(raw []byte) (map[string]any, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, violation("$", "valid JSON document", err.Error())
	}
	return asObject("$", doc)
}

func requireKeys(path string, obj map[string]any, keys ...string) error {
	for _, key := range keys {
		if _, ok := obj[key]; !ok {
			return violation(joinPath(path, key), "present", "missing")
		}
	}
	return nil
}

func rejectUnknownKeys(path string, obj map[string]any, known ...string) error {
	allowed := make(map[string]bool, len(known))
	for _, k := range known {
		allowed[k] = true
	}
	for key := range obj {
		if !allowed[key] {
			return violation(joinPath(path, key), "no additional properties", "unknown key")
		}
	}
	return nil
}

func joinPath(path, key string) string {
	return path + "." + key
}

// checkArray validates one attribute array against its spec and returns
// the array length for the parallelism check.
func checkArray(path string, v any, spec fieldSpec) (int, error) {
	arr, ok := v.([]any)
	if !ok {
		return 0, violation(path, "array of "+spec.kind.String(), describe(v))
	}
	for i, elem := range arr {
		if elem == nil {
			if spec.nullable {
				continue
			}
			return 0, violation(fmt.Sprintf("%s[%d]", path, i), spec.kind.String(), "null")
		}
		if err := checkScalar(fmt.Sprintf("%s[%d]", path, i), elem, spec.kind); err != nil {
			return 0, err
		}
	}
	return len(arr), nil
}

func checkScalar(path string, v any, kind fieldKind) error {
	switch kind {
	case kindString:
		if _, ok := v.(string); !ok {
			return violation(path, "string", describe(v))
		}
	case kindNumber:
		if _, ok := v.(float64); !ok {
			return violation(path, "number", describe(v))
		}
	case kindInteger:
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return violation(path, "integer", describe(v))
		}
	case kindBool:
		if _, ok := v.(bool); !ok {
			return violation(path, "boolean", describe(v))
		}
	}
	return nil
}

// checkParallel validates a parallel-array collection: every declared
// attribute present, correctly typed, and all arrays of equal length.
func checkParallel(path string, obj map[string]any, specs []fieldSpec) error {
	lengths := make(map[string]int, len(specs))
	for _, spec := range specs {
		v, ok := obj[spec.name]
		if !ok {
			return violation(joinPath(path, spec.name), "present", "missing")
		}
		n, err := checkArray(joinPath(path, spec.name), v, spec)
		if err != nil {
			return err
		}
		lengths[spec.name] = n
	}

	want := lengths[specs[0].name]
	for _, spec := range specs {
		if lengths[spec.name] != want {
			return violation(path, "attribute arrays of equal length", lengthSummary(lengths))
		}
	}
	return nil
}

func lengthSummary(lengths map[string]int) string {
	names := make([]string, 0, len(lengths))
	for name := range lengths {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, lengths[name]))
	}
	return strings.Join(parts, " ")
}

func checkNonNegativeNumber(path string, obj map[string]any, key string) error {
	v, ok := obj[key]
	if !ok {
		return violation(joinPath(path, key), "present", "missing")
	}
	f, ok := v.(float64)
	if !ok {
		return violation(joinPath(path, key), "number", describe(v))
	}
	if f < 0 {
		return violation(joinPath(path, key), "non-negative number", fmt.Sprintf("%v", f))
	}
	return nil
}

func checkPositiveInteger(path string, obj map[string]any, key string) error {
	v, ok := obj[key]
	if !ok {
		return violation(joinPath(path, key), "present", "missing")
	}
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return violation(joinPath(path, key), "integer", describe(v))
	}
	if f <= 0 {
		return violation(joinPath(path, key), "positive integer", fmt.Sprintf("%v", f))
	}
	return nil
}
