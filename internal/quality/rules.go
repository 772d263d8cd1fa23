package quality

import (
	"fmt"
	"regexp"

	"dqcli/pkg/contracts/domain"
)

// Predicate decides whether a cell violates a rule
type Predicate func(domain.Value) bool

// Rule is one predicate → label pair. Rules of a column are evaluated in
// order and the first match labels the cell.
type Rule struct {
	Name      string
	Label     string
	Predicate Predicate
}

// RuleSet is the ordered rule list applied to one column
type RuleSet struct {
	Column string
	Rules  []Rule
}

// RuleOp names a declarative comparison
type RuleOp string

const (
	OpLessThan     RuleOp = "lt"
	OpLessEqual    RuleOp = "le"
	OpGreaterThan  RuleOp = "gt"
	OpGreaterEqual RuleOp = "ge"
	OpEqual        RuleOp = "eq"
	OpNotEqual     RuleOp = "ne"
	OpBetween      RuleOp = "between"
	OpMatches      RuleOp = "matches"
	OpNotMatches   RuleOp = "not_matches"
	OpOneOf        RuleOp = "one_of"
	OpNotOneOf     RuleOp = "not_one_of"
)

// RuleSpec is the declarative, serializable form of a Rule
type RuleSpec struct {
	Name    string   `yaml:"name" json:"name,omitempty"`
	Label   string   `yaml:"label" json:"label" validate:"required"`
	Op      RuleOp   `yaml:"op" json:"op" validate:"required,oneof=lt le gt ge eq ne between matches not_matches one_of not_one_of"`
	Value   *float64 `yaml:"value" json:"value,omitempty"`
	Upper   *float64 `yaml:"upper" json:"upper,omitempty"`
	Pattern string   `yaml:"pattern" json:"pattern,omitempty"`
	Values  []string `yaml:"values" json:"values,omitempty"`
}

// Compile turns the spec into a Rule
func (s RuleSpec) Compile() (Rule, error) {
	pred, err := s.predicate()
	if err != nil {
		return Rule{}, err
	}
	name := s.Name
	if name == "" {
		name = s.describe()
	}
	return Rule{Name: name, Label: s.Label, Predicate: pred}, nil
}

func (s RuleSpec) predicate() (Predicate, error) {
	switch s.Op {
	case OpLessThan, OpLessEqual, OpGreaterThan, OpGreaterEqual, OpEqual, OpNotEqual:
		if s.Value == nil {
			return nil, fmt.Errorf("op %q requires value", s.Op)
		}
		return numeric(compare(s.Op, *s.Value)), nil

	case OpBetween:
		if s.Value == nil || s.Upper == nil {
			return nil, fmt.Errorf("op %q requires value and upper", s.Op)
		}
		lo, hi := *s.Value, *s.Upper
		if lo >= hi {
			return nil, fmt.Errorf("op %q requires value < upper", s.Op)
		}
		return numeric(func(x float64) bool { return x > lo && x <= hi }), nil

	case OpMatches, OpNotMatches:
		if s.Pattern == "" {
			return nil, fmt.Errorf("op %q requires pattern", s.Op)
		}
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		want := s.Op == OpMatches
		return textual(func(v string) bool { return re.MatchString(v) == want }), nil

	case OpOneOf, OpNotOneOf:
		if len(s.Values) == 0 {
			return nil, fmt.Errorf("op %q requires values", s.Op)
		}
		set := make(map[string]struct{}, len(s.Values))
		for _, v := range s.Values {
			set[v] = struct{}{}
		}
		want := s.Op == OpOneOf
		return textual(func(v string) bool {
			_, ok := set[v]
			return ok == want
		}), nil

	default:
		return nil, fmt.Errorf("unknown rule op %q", s.Op)
	}
}

func (s RuleSpec) describe() string {
	switch s.Op {
	case OpBetween:
		return fmt.Sprintf("%g < value <= %g", *s.Value, *s.Upper)
	case OpMatches, OpNotMatches:
		return fmt.Sprintf("%s %s", s.Op, s.Pattern)
	case OpOneOf, OpNotOneOf:
		return fmt.Sprintf("%s %v", s.Op, s.Values)
	default:
		return fmt.Sprintf("%s %g", s.Op, *s.Value)
	}
}

func compare(op RuleOp, bound float64) func(float64) bool {
	switch op {
	case OpLessThan:
		return func(x float64) bool { return x < bound }
	case OpLessEqual:
		return func(x float64) bool { return x <= bound }
	case OpGreaterThan:
		return func(x float64) bool { return x > bound }
	case OpGreaterEqual:
		return func(x float64) bool { return x >= bound }
	case OpEqual:
		return func(x float64) bool { return x == bound }
	default:
		return func(x float64) bool { return x != bound }
	}
}

// numeric lifts a number test to a predicate that never matches other kinds
func numeric(test func(float64) bool) Predicate {
	return func(v domain.Value) bool {
		n, ok := v.Number()
		return ok && test(n)
	}
}

// textual lifts a string test to a predicate that never matches other kinds
func textual(test func(string) bool) Predicate {
	return func(v domain.Value) bool {
		s, ok := v.Str()
		return ok && test(s)
	}
}

// Threshold builds a numeric comparison spec
func Threshold(op RuleOp, value float64, label string) RuleSpec {
	v := value
	return RuleSpec{Op: op, Value: &v, Label: label}
}

// Range builds a half-open (lo, hi] spec
func Range(lo, hi float64, label string) RuleSpec {
	l, h := lo, hi
	return RuleSpec{Op: OpBetween, Value: &l, Upper: &h, Label: label}
}

// AgeRules returns the human-age checks: negative and beyond impossible are
// impossible, beyond suspicious is suspicious. Impossible is checked first so
// it wins over the overlapping suspicious range.
func AgeRules(column string, suspicious, impossible float64) ColumnRuleSpec {
	return ColumnRuleSpec{
		Column: column,
		Rules: []RuleSpec{
			Threshold(OpLessThan, 0, "impossible"),
			Threshold(OpGreaterThan, impossible, "impossible"),
			Threshold(OpGreaterThan, suspicious, "suspicious"),
		},
	}
}

// EmailPattern is a deliberately loose address shape: something@domain.tld
const EmailPattern = `^[^@\s]+@[^@\s]+\.[^@\s]+$`

// EmailRules flags text values that do not look like an e-mail address
func EmailRules(column string) ColumnRuleSpec {
	return ColumnRuleSpec{
		Column: column,
		Rules: []RuleSpec{
			{Name: "email format", Op: OpNotMatches, Pattern: EmailPattern, Label: "invalid_format"},
		},
	}
}
