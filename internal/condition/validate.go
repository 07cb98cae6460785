package condition

import (
	"fmt"
	"math"
	"strings"
)

// ValidationResult lists every problem found in a rule list.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

func (v ValidationResult) Error() string {
	return strings.Join(v.Errors, "; ")
}

func (v *ValidationResult) add(index int, format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf("Rule %d: ", index+1)+fmt.Sprintf(format, args...))
}

// ValidateConditionRules checks rules before they are saved. It reports
// every violation, each prefixed with the 1-based rule index. Evaluation
// never calls it; malformed stored rules go through EvaluateRule's
// soft-failure path instead.
func ValidateConditionRules(rules []Rule) ValidationResult {
	var res ValidationResult
	for i, r := range rules {
		kind := r.Metric.Kind()
		if kind == KindUnknown {
			res.add(i, "unknown metric %q (want one of %s)", r.Metric, joinMetrics())
		}

		switch {
		case !r.Comparator.Valid():
			res.add(i, "unknown comparator %q (want one of %s)", r.Comparator, joinComparators())
		case kind != KindUnknown && !r.Comparator.AllowedFor(kind):
			res.add(i, "comparator %q cannot be used with boolean metric %s", r.Comparator, r.Metric)
		}

		switch kind {
		case KindBoolean:
			if !r.Value.IsBool() {
				res.add(i, "%s requires a boolean value, got %s", r.Metric, r.Value)
			}
		case KindNumeric:
			if !r.Value.IsNumber() {
				res.add(i, "%s requires a numeric value, got %s", r.Metric, r.Value)
			} else if f := r.Value.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
				res.add(i, "%s requires a finite value, got %s", r.Metric, r.Value)
			}
		}

		if r.LogicOperator != "" {
			if i == 0 {
				res.add(i, "logic operator %q is only allowed from the second rule on", r.LogicOperator)
			} else if !r.LogicOperator.Valid() {
				res.add(i, "unknown logic operator %q (want AND or OR)", r.LogicOperator)
			}
		}
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

func joinMetrics() string {
	names := make([]string, len(AllMetrics))
	for i, m := range AllMetrics {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func joinComparators() string {
	names := make([]string, len(AllComparators))
	for i, c := range AllComparators {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
