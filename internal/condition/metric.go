// Package condition decides whether a recurring task is due on a given day.
//
// Rules compare one daily metric against a threshold and are folded left to
// right into a single verdict. The task state helpers merge that verdict into
// persisted task flags while honoring manual overrides. Everything here is
// pure: callers own the task slices and snapshots and do their own I/O.
package condition

// Metric names a field of the daily snapshot.
type Metric string

const (
	MetricMood         Metric = "mood"
	MetricEnergy       Metric = "energy"
	MetricProductivity Metric = "productivity"
	MetricSleep        Metric = "sleep"
	MetricExercise     Metric = "exercise"
)

// AllMetrics lists the recognized metrics in display order.
var AllMetrics = []Metric{MetricMood, MetricEnergy, MetricProductivity, MetricSleep, MetricExercise}

// MetricKind splits metrics by the type of value they hold.
type MetricKind int

const (
	KindUnknown MetricKind = iota
	KindNumeric
	KindBoolean
)

// Kind reports whether m holds a number or a boolean. Unrecognized names,
// which can only come from malformed stored rules, report KindUnknown.
func (m Metric) Kind() MetricKind {
	switch m {
	case MetricMood, MetricEnergy, MetricProductivity, MetricSleep:
		return KindNumeric
	case MetricExercise:
		return KindBoolean
	}
	return KindUnknown
}

func (m Metric) Valid() bool { return m.Kind() != KindUnknown }

// Comparator is the relational operator of a rule.
type Comparator string

const (
	CompLess         Comparator = "<"
	CompGreater      Comparator = ">"
	CompEqual        Comparator = "="
	CompLessEqual    Comparator = "<="
	CompGreaterEqual Comparator = ">="
	CompNotEqual     Comparator = "!="
)

var AllComparators = []Comparator{CompLess, CompGreater, CompEqual, CompLessEqual, CompGreaterEqual, CompNotEqual}

func (c Comparator) Valid() bool {
	switch c {
	case CompLess, CompGreater, CompEqual, CompLessEqual, CompGreaterEqual, CompNotEqual:
		return true
	}
	return false
}

// Ordering reports whether c only makes sense for numeric metrics.
func (c Comparator) Ordering() bool {
	switch c {
	case CompLess, CompGreater, CompLessEqual, CompGreaterEqual:
		return true
	}
	return false
}

// AllowedFor reports whether c is meaningful for a metric of kind k.
// Boolean metrics only support equality.
func (c Comparator) AllowedFor(k MetricKind) bool {
	if !c.Valid() {
		return false
	}
	if k == KindBoolean {
		return !c.Ordering()
	}
	return k == KindNumeric
}

// LogicOperator chains a rule to the running result of the rules before it.
// The zero value means AND.
type LogicOperator string

const (
	LogicAnd LogicOperator = "AND"
	LogicOr  LogicOperator = "OR"
)

func (o LogicOperator) Valid() bool { return o == LogicAnd || o == LogicOr }
