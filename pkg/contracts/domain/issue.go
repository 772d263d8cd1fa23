package domain

// ScanName identifies one detection pass
type ScanName string

const (
	ScanMissing       ScanName = "missing_values"
	ScanTypes         ScanName = "type_consistency"
	ScanDuplicateRows ScanName = "duplicate_rows"
	ScanDuplicateKeys ScanName = "duplicate_keys"
	ScanFormat        ScanName = "format_consistency"
	ScanColumns       ScanName = "constant_empty_columns"
	ScanOutliers      ScanName = "outliers"
	ScanRules         ScanName = "domain_rules"
	ScanStructure     ScanName = "structure"
)

// ScanOrder is the presentation order of scans in a report
var ScanOrder = []ScanName{
	ScanMissing,
	ScanTypes,
	ScanDuplicateRows,
	ScanDuplicateKeys,
	ScanFormat,
	ScanColumns,
	ScanOutliers,
	ScanRules,
	ScanStructure,
}

// IssueKind classifies a finding
type IssueKind string

const (
	IssueMissingValues    IssueKind = "missing_values"
	IssueTypeMismatch     IssueKind = "type_mismatch"
	IssueMixedTypes       IssueKind = "mixed_types"
	IssueDuplicateRow     IssueKind = "duplicate_row"
	IssueDuplicateKey     IssueKind = "duplicate_key"
	IssueWhitespace       IssueKind = "whitespace"
	IssueCaseVariant      IssueKind = "case_variant"
	IssueEmptyColumn      IssueKind = "empty_column"
	IssueConstantColumn   IssueKind = "constant_column"
	IssueNotComputable    IssueKind = "not_computable"
	IssueOutlier          IssueKind = "outlier"
	IssueRuleViolation    IssueKind = "rule_violation"
	IssueMissingColumn    IssueKind = "missing_column"
	IssueUnexpectedColumn IssueKind = "unexpected_column"
	IssueColumnOrder      IssueKind = "column_order"
)

// Issue is one finding produced by a scan. Column and Row describe its scope:
// a column-level issue has no Row, a row-level issue has no Column.
type Issue struct {
	Scan        ScanName  `json:"scan"`
	Kind        IssueKind `json:"kind"`
	Column      string    `json:"column,omitempty"`
	Row         *int      `json:"row,omitempty"`
	Value       *Value    `json:"value,omitempty"`
	Description string    `json:"description"`
}

// ColumnIssue creates an issue scoped to a column
func ColumnIssue(scan ScanName, kind IssueKind, column, description string) Issue {
	return Issue{Scan: scan, Kind: kind, Column: column, Description: description}
}

// CellIssue creates an issue scoped to a single cell
func CellIssue(scan ScanName, kind IssueKind, column string, row int, value Value, description string) Issue {
	r := row
	v := value
	return Issue{Scan: scan, Kind: kind, Column: column, Row: &r, Value: &v, Description: description}
}

// RowIssue creates an issue scoped to a whole row
func RowIssue(scan ScanName, kind IssueKind, row int, description string) Issue {
	r := row
	return Issue{Scan: scan, Kind: kind, Row: &r, Description: description}
}
