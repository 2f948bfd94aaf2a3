package compute

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// Graph orders computed fields so every formula runs after the computed
// fields it reads. Build it once per definition and reuse it for every
// record change.
type Graph struct {
	known    map[string]struct{}
	formulas map[string]*Formula
	order    []string
	blocked  []string
	invalid  map[string]error
}

// Build parses every calculation in def and sorts them topologically.
// Formulas that fail to parse are kept out of the order and reported through
// Invalid. When keys repeat, the first field with the key wins.
func Build(def model.FormDefinition) *Graph {
	g := &Graph{
		known:    make(map[string]struct{}, len(def.Fields)),
		formulas: make(map[string]*Formula),
		invalid:  make(map[string]error),
	}

	var computed []string
	for _, field := range def.Fields {
		if field.Key == "" {
			continue
		}
		if _, dup := g.known[field.Key]; dup {
			continue
		}
		g.known[field.Key] = struct{}{}

		calc := field.Calculation()
		if calc == "" {
			continue
		}
		formula, err := Parse(calc)
		if err != nil {
			g.invalid[field.Key] = err
			continue
		}
		g.formulas[field.Key] = formula
		computed = append(computed, field.Key)
	}

	g.order, g.blocked = sortComputed(computed, g.formulas)
	return g
}

// Order returns computed keys in evaluation order.
func (g *Graph) Order() []string {
	return append([]string(nil), g.order...)
}

// DependsOn returns the keys a computed field reads.
func (g *Graph) DependsOn(key string) []string {
	formula, ok := g.formulas[key]
	if !ok {
		return nil
	}
	return formula.References()
}

// Cycle returns a CycleError when any formula depends on itself, or nil.
func (g *Graph) Cycle() error {
	if len(g.blocked) == 0 {
		return nil
	}
	return &CycleError{Keys: append([]string(nil), g.blocked...)}
}

// Invalid returns parse failures keyed by field key.
func (g *Graph) Invalid() map[string]error {
	out := make(map[string]error, len(g.invalid))
	for k, v := range g.invalid {
		out[k] = v
	}
	return out
}

// Result is the outcome of one evaluation pass. Updates holds the values the
// caller should merge into its record; Failures explains formulas that were
// skipped and is meant for diagnostics, not end users.
type Result struct {
	Updates  model.Record
	Failures map[string]error
}

// Changed reports whether the pass produced any write-back.
func (r Result) Changed() bool {
	return len(r.Updates) > 0
}

// Recompute evaluates every acyclic formula against record in dependency
// order. record is not modified. Placeholders resolve to the numeric value of
// the referenced key, with non-numeric or missing values counting as 0, as
// long as the key belongs to a field or appears in the record.
func (g *Graph) Recompute(record model.Record) Result {
	result := Result{Updates: model.Record{}, Failures: map[string]error{}}
	for key, err := range g.invalid {
		result.Failures[key] = err
	}
	if len(g.blocked) > 0 {
		cycle := g.Cycle()
		for _, key := range g.blocked {
			result.Failures[key] = cycle
		}
	}

	working := make(model.Record, len(record))
	for k, v := range record {
		working[k] = v
	}

	resolve := func(key string) (float64, bool) {
		value, present := working[key]
		if _, field := g.known[key]; !field && !present {
			return 0, false
		}
		n, ok := visibility.Number(value)
		if !ok {
			return 0, true
		}
		return n, true
	}

	for _, key := range g.order {
		value, err := g.formulas[key].Eval(resolve)
		if err != nil {
			result.Failures[key] = err
			continue
		}
		if sameNumber(working[key], value) {
			continue
		}
		working[key] = value
		result.Updates[key] = value
	}
	return result
}

// Recompute builds a graph for def and evaluates it once.
func Recompute(def model.FormDefinition, record model.Record) Result {
	return Build(def).Recompute(record)
}

// DetectCycles reports formula cycles in def without evaluating anything.
func DetectCycles(def model.FormDefinition) error {
	return Build(def).Cycle()
}

// sortComputed runs Kahn's algorithm over computed keys, picking ready keys
// in field order so the result is deterministic. Keys left over sit on a
// cycle or downstream of one.
func sortComputed(keys []string, formulas map[string]*Formula) (order, blocked []string) {
	pending := make(map[string]int, len(keys))
	dependents := make(map[string][]string, len(keys))
	for _, key := range keys {
		pending[key] = 0
	}
	for _, key := range keys {
		for _, ref := range formulas[key].References() {
			if _, computed := pending[ref]; !computed {
				continue
			}
			pending[key]++
			dependents[ref] = append(dependents[ref], key)
		}
	}

	done := make(map[string]bool, len(keys))
	for progressed := true; progressed; {
		progressed = false
		for _, key := range keys {
			if done[key] || pending[key] > 0 {
				continue
			}
			done[key] = true
			order = append(order, key)
			for _, dependent := range dependents[key] {
				pending[dependent]--
			}
			progressed = true
		}
	}

	for _, key := range keys {
		if !done[key] {
			blocked = append(blocked, key)
		}
	}
	return order, blocked
}

func sameNumber(current any, value float64) bool {
	switch v := current.(type) {
	case float64:
		return v == value
	case float32:
		return float64(v) == value
	case int:
		return float64(v) == value
	case int64:
		return float64(v) == value
	case int32:
		return float64(v) == value
	default:
		return false
	}
}
