package condition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	valueNone valueKind = iota
	valueNumber
	valueBool
)

// Value is a rule threshold: either a number or a boolean. The zero Value
// holds neither and stands in for a missing or undecodable threshold.
type Value struct {
	kind valueKind
	num  float64
	b    bool
}

func Number(f float64) Value { return Value{kind: valueNumber, num: f} }
func Bool(b bool) Value      { return Value{kind: valueBool, b: b} }

func (v Value) IsNumber() bool { return v.kind == valueNumber }
func (v Value) IsBool() bool   { return v.kind == valueBool }
func (v Value) IsZero() bool   { return v.kind == valueNone }

// Float projects v onto the number line. Booleans map to 0 and 1 so that
// ordering comparisons on them stay deterministic.
func (v Value) Float() float64 {
	switch v.kind {
	case valueNumber:
		return v.num
	case valueBool:
		if v.b {
			return 1
		}
	}
	return 0
}

// Truth returns the boolean held by v, or whether a number is non-zero.
func (v Value) Truth() bool {
	if v.kind == valueBool {
		return v.b
	}
	return v.Float() != 0
}

func (v Value) Equal(o Value) bool {
	if v.kind == valueBool && o.kind == valueBool {
		return v.b == o.b
	}
	return v.Float() == o.Float()
}

func (v Value) String() string {
	switch v.kind {
	case valueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case valueBool:
		return strconv.FormatBool(v.b)
	}
	return "null"
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case valueNumber:
		return json.Marshal(v.num)
	case valueBool:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts numbers and booleans. Anything else decodes to the
// zero Value instead of failing, so one bad rule does not make a whole task
// unreadable.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode rule value: %w", err)
	}
	switch x := raw.(type) {
	case float64:
		*v = Number(x)
	case bool:
		*v = Bool(x)
	default:
		*v = Value{}
	}
	return nil
}

// ParseValue reads "true"/"false" as booleans and anything else as a finite
// number.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("parse value %q: not a number or boolean", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("parse value %q: not a finite number", s)
	}
	return Number(f), nil
}

// Rule compares one metric of the daily snapshot against Value.
type Rule struct {
	Metric        Metric        `json:"metric"`
	Comparator    Comparator    `json:"comparator"`
	Value         Value         `json:"value"`
	LogicOperator LogicOperator `json:"logicOperator,omitempty"`
}

// Operator returns the effective logic operator, AND when none is set.
func (r Rule) Operator() LogicOperator {
	if r.LogicOperator == LogicOr {
		return LogicOr
	}
	return LogicAnd
}

func (r Rule) String() string {
	return fmt.Sprintf("%s %s %s", r.Metric, r.Comparator, r.Value)
}

// ParseRule reads the text form "[AND|OR] <metric> <comparator> <value>",
// e.g. "OR mood < 5". It only checks the shape; use ValidateConditionRules
// for the semantic checks.
func ParseRule(s string) (Rule, error) {
	fields := strings.Fields(s)
	var r Rule
	if len(fields) == 4 {
		r.LogicOperator = LogicOperator(strings.ToUpper(fields[0]))
		fields = fields[1:]
	}
	if len(fields) != 3 {
		return Rule{}, fmt.Errorf("parse rule %q: want \"[AND|OR] <metric> <comparator> <value>\"", s)
	}
	v, err := ParseValue(fields[2])
	if err != nil {
		return Rule{}, fmt.Errorf("parse rule %q: %w", s, err)
	}
	r.Metric = Metric(strings.ToLower(fields[0]))
	r.Comparator = Comparator(fields[1])
	r.Value = v
	return r, nil
}

func ParseRules(lines []string) ([]Rule, error) {
	var rules []Rule
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := ParseRule(line)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// EncodeRules serializes rules for storage. A nil or empty list encodes as "[]".
func EncodeRules(rules []Rule) (string, error) {
	if len(rules) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(rules)
	if err != nil {
		return "", fmt.Errorf("encode rules: %w", err)
	}
	return string(data), nil
}

func DecodeRules(s string) ([]Rule, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var rules []Rule
	if err := json.Unmarshal([]byte(s), &rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, nil
	}
	return rules, nil
}
