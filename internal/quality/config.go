package quality

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	apperrors "dqcli/internal/errors"
	"dqcli/pkg/contracts/domain"
)

// DefaultZScoreThreshold is the |z| above which a value is an outlier
const DefaultZScoreThreshold = 3.0

// Config selects which columns each scan looks at and how
type Config struct {
	// KeyColumns form the identifier tuple for the duplicate-key scan
	KeyColumns []string `yaml:"key_columns" json:"key_columns,omitempty" envconfig:"KEY_COLUMNS" validate:"dive,required"`

	// ExpectedColumns is the expected schema in order
	ExpectedColumns []string `yaml:"expected_columns" json:"expected_columns,omitempty" envconfig:"EXPECTED_COLUMNS" validate:"dive,required"`

	// ExpectedTypes maps column name to "numeric" or "text"
	ExpectedTypes map[string]string `yaml:"expected_types" json:"expected_types,omitempty" envconfig:"EXPECTED_TYPES" validate:"dive,keys,required,endkeys,required"`

	// FormatColumns are the text columns checked for whitespace and casing.
	// Empty means every column holding text.
	FormatColumns []string `yaml:"format_columns" json:"format_columns,omitempty" envconfig:"FORMAT_COLUMNS" validate:"dive,required"`

	// OutlierColumns are scored with z-scores. Empty means every numeric column.
	OutlierColumns []string `yaml:"outlier_columns" json:"outlier_columns,omitempty" envconfig:"OUTLIER_COLUMNS" validate:"dive,required"`

	// OutlierMethod is "zscore" (mean and sample standard deviation) or
	// "modified_zscore" (median and MAD). Empty means zscore.
	OutlierMethod OutlierMethod `yaml:"outlier_method" json:"outlier_method,omitempty" envconfig:"OUTLIER_METHOD" validate:"omitempty,oneof=zscore modified_zscore"`

	ZScoreThreshold float64 `yaml:"zscore_threshold" json:"zscore_threshold,omitempty" envconfig:"ZSCORE_THRESHOLD" validate:"gte=0"`

	Rules []ColumnRuleSpec `yaml:"rules" json:"rules,omitempty" ignored:"true" validate:"dive"`

	// Parallel runs the scans concurrently
	Parallel bool `yaml:"parallel" json:"parallel,omitempty" envconfig:"PARALLEL"`
}

// ColumnRuleSpec is the ordered rule list of one column
type ColumnRuleSpec struct {
	Column string     `yaml:"column" json:"column" validate:"required"`
	Rules  []RuleSpec `yaml:"rules" json:"rules" validate:"required,min=1,dive"`
}

// DefaultConfig returns the configuration used when nothing is specified
func DefaultConfig() Config {
	return Config{OutlierMethod: MethodZScore, ZScoreThreshold: DefaultZScoreThreshold}
}

// threshold returns the effective z-score threshold
func (c Config) threshold() float64 {
	if c.ZScoreThreshold == 0 {
		return DefaultZScoreThreshold
	}
	return c.ZScoreThreshold
}

// plan is a configuration resolved against a concrete table
type plan struct {
	keyColumns      []string
	expectedColumns []string
	expectedTypes   map[string]domain.Class
	typeColumns     []string
	formatColumns   []string
	outlierColumns  []string
	method          OutlierMethod
	threshold       float64
	rules           []RuleSet
	parallel        bool
}

var validate = validator.New()

// resolve checks cfg against the table and returns the scan plan. Every
// problem is collected so a single error lists all of them.
func resolve(cfg Config, t *domain.Table) (*plan, error) {
	var problems []string

	if err := validate.Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed %q validation", fe.Namespace(), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	requireColumn := func(role, name string) {
		if name != "" && !t.HasColumn(name) {
			problems = append(problems, fmt.Sprintf("%s column %q not found in table", role, name))
		}
	}

	p := &plan{
		keyColumns:      append([]string(nil), cfg.KeyColumns...),
		expectedColumns: append([]string(nil), cfg.ExpectedColumns...),
		expectedTypes:   make(map[string]domain.Class, len(cfg.ExpectedTypes)),
		method:          cfg.OutlierMethod,
		threshold:       cfg.threshold(),
		parallel:        cfg.Parallel,
	}

	for _, c := range cfg.KeyColumns {
		requireColumn("key", c)
	}

	if len(cfg.ExpectedColumns) > 0 {
		shared := false
		for _, c := range cfg.ExpectedColumns {
			if t.HasColumn(c) {
				shared = true
				break
			}
		}
		if !shared {
			problems = append(problems, "expected columns share no column with the table")
		}
	}

	typeNames := make([]string, 0, len(cfg.ExpectedTypes))
	for name := range cfg.ExpectedTypes {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)
	for _, name := range typeNames {
		requireColumn("typed", name)
		class, err := domain.ParseClass(cfg.ExpectedTypes[name])
		if err != nil {
			problems = append(problems, fmt.Sprintf("column %q: %v", name, err))
			continue
		}
		p.expectedTypes[name] = class
	}

	for _, c := range cfg.FormatColumns {
		requireColumn("format", c)
	}
	for _, c := range cfg.OutlierColumns {
		requireColumn("outlier", c)
	}

	for _, spec := range cfg.Rules {
		requireColumn("rule", spec.Column)
		compiled := RuleSet{Column: spec.Column}
		for i, rs := range spec.Rules {
			rule, err := rs.Compile()
			if err != nil {
				problems = append(problems, fmt.Sprintf("rule %d of column %q: %v", i, spec.Column, err))
				continue
			}
			compiled.Rules = append(compiled.Rules, rule)
		}
		p.rules = append(p.rules, compiled)
	}

	if len(problems) > 0 {
		return nil, apperrors.NewConfigError("invalid inspection configuration", problems...)
	}

	if p.method == "" {
		p.method = MethodZScore
	}
	p.typeColumns = typeColumns(t, p.expectedTypes)
	p.formatColumns = cfg.FormatColumns
	if len(p.formatColumns) == 0 {
		p.formatColumns = columnsWithClass(t, domain.ClassText, false)
	}
	p.outlierColumns = cfg.OutlierColumns
	if len(p.outlierColumns) == 0 {
		p.outlierColumns = columnsWithClass(t, domain.ClassNumeric, true)
	}
	return p, nil
}

// typeColumns returns the declared columns in table order, or every column
// when nothing is declared
func typeColumns(t *domain.Table, declared map[string]domain.Class) []string {
	if len(declared) == 0 {
		return t.Columns()
	}
	var out []string
	for _, c := range t.Columns() {
		if _, ok := declared[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// columnsWithClass lists columns holding the class. When dominant is true the
// class must be held by a strict majority of non-missing cells.
func columnsWithClass(t *domain.Table, class domain.Class, dominant bool) []string {
	var out []string
	for _, name := range t.Columns() {
		values, _ := t.Column(name)
		counts := classCounts(values)
		if dominant {
			if d, ok := dominantClass(counts); ok && d == class {
				out = append(out, name)
			}
			continue
		}
		if counts[class] > 0 {
			out = append(out, name)
		}
	}
	return out
}
