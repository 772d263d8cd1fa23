package testutil

import (
	"dqcli/pkg/contracts/domain"
)

// CustomerColumns is the column order of CustomerTable
var CustomerColumns = []string{
	"customer_id", "customer_name", "age", "email", "purchase_amount", "region", "status",
}

// CustomerExpectedColumns is a schema that disagrees with CustomerTable: one
// misspelled column, two columns the table lacks and three it adds.
var CustomerExpectedColumns = []string{
	"customer_id", "customer_name", "age", "email", "purchase_amoutn", "country", "signup_date",
}

// CustomerTable returns a ten-row customer dataset seeded with every kind of
// problem the inspector detects:
//
//   - customer_id 1005 appears at rows 4 and 9
//   - customer_name row 2 is padded with spaces
//   - age has a missing cell (row 1), a negative age (row 3), text "30"
//     (row 5) and 150 (row 7)
//   - email rows 1 and 4 are malformed, rows 2 and 6 missing
//   - purchase_amount holds 1,000,000 at row 2 and two missing cells
//   - region is entirely missing and status is always "active"
func CustomerTable() *domain.Table {
	i, f, s, m := domain.Int, domain.Float, domain.Text, domain.Missing()
	return domain.MustTable(CustomerColumns, [][]domain.Value{
		{i(1001), s("John Doe"), i(25), s("john@email.com"), f(50.00), m, s("active")},
		{i(1002), s("jane smith"), m, s("jane.email.com"), f(75.50), m, s("active")},
		{i(1003), s("  Bob Wilson  "), i(45), m, f(1000000.00), m, s("active")},
		{i(1004), s("Alice Brown"), i(-5), s("alice@email.com"), m, m, s("active")},
		{i(1005), s("CHARLIE DAVIS"), i(67), s("charlie@email"), f(120.00), m, s("active")},
		{i(1006), s("Emma Watson"), s("30"), s("emma@email.com"), f(85.30), m, s("active")},
		{i(1007), s("Frank Miller"), i(22), m, f(45.00), m, s("active")},
		{i(1008), s("Grace Lee"), i(150), s("grace@email.com"), m, m, s("active")},
		{i(1009), s("Henry Ford"), i(33), s("henry@email.com"), f(95.00), m, s("active")},
		{i(1005), s("Alice Brown"), i(28), s("alice@email.com"), f(120.00), m, s("active")},
	})
}

// Column builds a single-column table, handy for scanner tests
func Column(name string, values ...domain.Value) *domain.Table {
	rows := make([][]domain.Value, len(values))
	for r, v := range values {
		rows[r] = []domain.Value{v}
	}
	return domain.MustTable([]string{name}, rows)
}

// Ints converts integers to Integer values
func Ints(xs ...int64) []domain.Value {
	out := make([]domain.Value, len(xs))
	for i, x := range xs {
		out[i] = domain.Int(x)
	}
	return out
}

// Floats converts floats to Float values
func Floats(xs ...float64) []domain.Value {
	out := make([]domain.Value, len(xs))
	for i, x := range xs {
		out[i] = domain.Float(x)
	}
	return out
}
