package domain

// Report is the aggregated result of one inspection run. It holds no
// timestamps or generated identifiers so that two runs over the same table
// serialize to identical bytes.
type Report struct {
	Summary       ReportSummary        `json:"summary"`
	Missing       MissingSection       `json:"missing_values"`
	Types         TypeSection          `json:"type_consistency"`
	DuplicateRows DuplicateRowSection  `json:"duplicate_rows"`
	DuplicateKeys DuplicateKeySection  `json:"duplicate_keys"`
	Format        FormatSection        `json:"format_consistency"`
	Columns       ColumnProfileSection `json:"constant_empty_columns"`
	Outliers      OutlierSection       `json:"outliers"`
	Rules         RuleSection          `json:"domain_rules"`
	Structure     StructureSection     `json:"structure"`
	Issues        []Issue              `json:"issues"`
}

// ReportSummary holds headline counts
type ReportSummary struct {
	Rows          int               `json:"rows"`
	Columns       int               `json:"columns"`
	MissingCells  int               `json:"missing_cells"`
	DuplicateRows int               `json:"duplicate_rows"`
	TotalIssues   int               `json:"total_issues"`
	IssuesByKind  map[IssueKind]int `json:"issues_by_kind"`
	IssuesByScan  map[ScanName]int  `json:"issues_by_scan"`
}

// IssuesFor returns the issues produced by one scan, in report order
func (r *Report) IssuesFor(scan ScanName) []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Scan == scan {
			out = append(out, is)
		}
	}
	return out
}

// MissingSection reports missing-value counts per column
type MissingSection struct {
	Columns      []ColumnMissing `json:"columns"`
	TotalMissing int             `json:"total_missing"`
}

// ColumnMissing is the missing-value count of a single column
type ColumnMissing struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// TypeSection reports value-kind consistency per scanned column
type TypeSection struct {
	Columns []ColumnTypes `json:"columns"`
}

// ColumnTypes describes the kinds found in one column
type ColumnTypes struct {
	Column     string       `json:"column"`
	Declared   Class        `json:"declared,omitempty"`
	Dominant   Class        `json:"dominant,omitempty"`
	Mixed      bool         `json:"mixed"`
	KindCounts map[Kind]int `json:"kind_counts"`
	Mismatched []int        `json:"mismatched_rows"`
}

// DuplicateRowSection reports fully identical rows
type DuplicateRowSection struct {
	Rows  []int `json:"rows"`
	Count int   `json:"count"`
}

// DuplicateKeySection reports key tuples shared by more than one row.
// UniqueKeys counts distinct key tuples among TotalRows rows; the key is
// unique when the two are equal.
type DuplicateKeySection struct {
	Key        []string   `json:"key"`
	Skipped    bool       `json:"skipped"`
	UniqueKeys int        `json:"unique_keys"`
	TotalRows  int        `json:"total_rows"`
	Groups     []KeyGroup `json:"groups"`
}

// KeyGroup is one duplicated key tuple and every row carrying it
type KeyGroup struct {
	Values []Value `json:"values"`
	Rows   []int   `json:"rows"`
}

// FormatSection reports whitespace and casing inconsistencies
type FormatSection struct {
	Columns []ColumnFormat `json:"columns"`
}

// ColumnFormat holds the format findings of one text column
type ColumnFormat struct {
	Column         string        `json:"column"`
	WhitespaceRows []int         `json:"whitespace_rows"`
	CaseVariants   []CaseVariant `json:"case_variants"`
}

// CaseVariant groups distinct spellings sharing a normalized form
type CaseVariant struct {
	Normalized string   `json:"normalized"`
	Spellings  []string `json:"spellings"`
}

// ColumnProfileSection lists empty and constant columns and the value
// diversity of every column
type ColumnProfileSection struct {
	Empty     []string         `json:"empty"`
	Constant  []ConstantColumn `json:"constant"`
	Diversity []ColumnDistinct `json:"diversity"`
}

// ColumnDistinct is the number of distinct values in a column, missing
// counted as one value, out of Rows
type ColumnDistinct struct {
	Column   string `json:"column"`
	Distinct int    `json:"distinct"`
	Rows     int    `json:"rows"`
}

// ConstantColumn is a column holding a single distinct non-missing value
type ConstantColumn struct {
	Column string `json:"column"`
	Value  Value  `json:"value"`
}

// OutlierSection holds z-score results per numeric column
type OutlierSection struct {
	Method    string          `json:"method"`
	Threshold float64         `json:"threshold"`
	Columns   []ColumnOutlier `json:"columns"`
}

// ColumnOutlier holds the statistics and scored cells of one column
type ColumnOutlier struct {
	Column     string   `json:"column"`
	Computable bool     `json:"computable"`
	Reason     string   `json:"reason,omitempty"`
	Count      int      `json:"count"`
	Mean       float64  `json:"mean"`
	Median     float64  `json:"median"`
	StdDev     float64  `json:"std_dev"`
	MAD        float64  `json:"mad,omitempty"`
	Cells      []ZScore `json:"cells,omitempty"`
}

// ZScore is the score of a single numeric cell
type ZScore struct {
	Row     int     `json:"row"`
	Value   float64 `json:"value"`
	Z       float64 `json:"z"`
	Outlier bool    `json:"outlier"`
}

// RuleSection holds domain-rule violations per column
type RuleSection struct {
	Columns []ColumnRules `json:"columns"`
}

// ColumnRules holds the rule results of one column
type ColumnRules struct {
	Column     string    `json:"column"`
	Checked    int       `json:"checked"`
	Violations []RuleHit `json:"violations"`
}

// RuleHit is the first rule matched by a cell
type RuleHit struct {
	Row   int    `json:"row"`
	Value Value  `json:"value"`
	Rule  string `json:"rule"`
	Label string `json:"label"`
}

// StructureSection compares actual and expected schemas
type StructureSection struct {
	Expected      []string `json:"expected,omitempty"`
	Actual        []string `json:"actual"`
	Missing       []string `json:"missing"`
	Unexpected    []string `json:"unexpected"`
	OrderMismatch bool     `json:"order_mismatch"`
	Rows          int      `json:"rows"`
	Columns       int      `json:"columns"`
}
