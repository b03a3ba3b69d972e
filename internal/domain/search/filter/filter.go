// Package filter translates client facet selections into a structured
// filter expression. Clauses are kept as an AST and rendered by the
// storage adapter, so selected values are never spliced into a query
// string at this layer.
package filter

// SingleSelectMode controls how multiple selections on a single-valued
// facet (projectTypes, codeComplexities) are interpreted.
type SingleSelectMode int

const (
	// SingleSelectFirst uses only the first selected value.
	SingleSelectFirst SingleSelectMode = iota
	// SingleSelectAny matches any of the selected values.
	SingleSelectAny
)

// ParseSingleSelectMode maps the config value to a mode, defaulting to first.
func ParseSingleSelectMode(s string) SingleSelectMode {
	if s == "any" {
		return SingleSelectAny
	}
	return SingleSelectFirst
}

// Selection maps a client facet key to its selected values. A missing key
// or an empty value list means "no constraint on this facet".
type Selection map[string][]string

// facetSpec binds a client facet key to its backend field.
type facetSpec struct {
	field       string
	multiValued bool
}

// Facet keys accepted from clients mapped to search index field names.
// Every filterable index field must appear here under its exact backend
// spelling, or filters on it silently no-op.
var facets = map[string]facetSpec{
	"programmingLanguages": {field: "programming_languages", multiValued: true},
	"frameworks":           {field: "frameworks", multiValued: true},
	"azureServices":        {field: "azure_services", multiValued: true},
	"designPatterns":       {field: "design_patterns", multiValued: true},
	"industries":           {field: "industries", multiValued: true},
	"customers":            {field: "customers", multiValued: true},
	"projectTypes":         {field: "project_type", multiValued: false},
	"codeComplexities":     {field: "code_complexity", multiValued: false},
}

// FacetField returns the backend field name for a client facet key.
func FacetField(key string) (string, bool) {
	spec, ok := facets[key]
	return spec.field, ok
}

// Clause is a single tag-equality condition on a backend field.
type Clause struct {
	field string
	value string
}

// Field returns the backend field name.
func (c Clause) Field() string { return c.field }

// Value returns the raw selected value. Escaping is the renderer's job.
func (c Clause) Value() string { return c.value }

// Expression is a conjunction of groups; clauses inside a group are
// disjunctive. Multi-valued facets contribute one single-clause group per
// selected value, so selecting N values requires all N tags.
type Expression struct {
	groups [][]Clause
}

// Groups returns the AND-ed clause groups.
func (e Expression) Groups() [][]Clause { return e.groups }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.groups) == 0 }

// Build translates a facet selection into an Expression. Unknown facet
// keys and empty value lists are ignored, so stale clients fail open.
func Build(sel Selection, mode SingleSelectMode) Expression {
	var expr Expression

	// Deterministic clause order: walk the known facets, not the map input.
	for _, key := range facetOrder {
		values := sel[key]
		if len(values) == 0 {
			continue
		}
		spec := facets[key]

		if spec.multiValued {
			// One group per value: the document must carry every selected tag.
			for _, v := range values {
				if v == "" {
					continue
				}
				expr.groups = append(expr.groups, []Clause{{field: spec.field, value: v}})
			}
			continue
		}

		switch mode {
		case SingleSelectAny:
			group := make([]Clause, 0, len(values))
			for _, v := range values {
				if v == "" {
					continue
				}
				group = append(group, Clause{field: spec.field, value: v})
			}
			if len(group) > 0 {
				expr.groups = append(expr.groups, group)
			}
		default:
			if values[0] != "" {
				expr.groups = append(expr.groups, []Clause{{field: spec.field, value: values[0]}})
			}
		}
	}

	return expr
}

var facetOrder = []string{
	"programmingLanguages",
	"frameworks",
	"azureServices",
	"designPatterns",
	"industries",
	"customers",
	"projectTypes",
	"codeComplexities",
}
