package condition

import "strings"

// DescribeConditionRules renders rules as text, e.g. "energy < 5 OR mood < 5".
// A missing operator on a later rule is shown without a prefix even though it
// evaluates as AND.
func DescribeConditionRules(rules []Rule) string {
	if len(rules) == 0 {
		return "No conditions"
	}
	parts := make([]string, 0, len(rules)*2)
	for i, r := range rules {
		if i > 0 && r.LogicOperator != "" {
			parts = append(parts, string(r.LogicOperator))
		}
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " ")
}
