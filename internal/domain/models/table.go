package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// TableName identifies one of the precomputed source tables.
type TableName string

const (
	TableIV    TableName = "iv"
	TableCrash TableName = "crash"
	TableRND   TableName = "rnd"
	TableMND   TableName = "mnd"
	TableOpt   TableName = "opt"
)

// AllTables lists every table in load order.
var AllTables = []TableName{TableIV, TableCrash, TableRND, TableMND, TableOpt}

// ParseTableName converts raw input to a known table name.
func ParseTableName(s string) (TableName, error) {
	n := TableName(strings.ToLower(s))
	for _, t := range AllTables {
		if t == n {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTable, s)
}

// Column names used by the dashboard.
const (
	ColTicker    = "Ticker"
	ColExpiry    = "Expiry"
	ColData      = "Data"
	ColMoneyness = "Moneyness"
	ColIV        = "IV"
	ColModello   = "Modello"
	ColPCrashQ   = "P_crash_Q"
	ColPCrashP   = "P_crash_P"
)

// RequiredColumns returns the header columns a table must carry to be usable.
func RequiredColumns(name TableName) []string {
	switch name {
	case TableIV:
		return []string{ColTicker, ColExpiry, ColData, ColMoneyness, ColIV}
	case TableCrash:
		return []string{ColTicker, ColData, ColModello, ColPCrashQ, ColPCrashP}
	default:
		return nil
	}
}

// Record is one row of a source table: the literal header to value mapping.
type Record map[string]string

// isAlias reports whether header k is an annotated form of col, as in
// "P_crash_Q (RND)" for "P_crash_Q".
func isAlias(k, col string) bool {
	return strings.HasPrefix(k, col+" (")
}

// Get returns the raw value of col, or a MissingColumnError. An exact
// header wins over annotated ones; among several annotated headers the
// lexically smallest is used.
func (r Record) Get(col string) (string, error) {
	if v, ok := r[col]; ok {
		return v, nil
	}
	var key string
	found := false
	for k := range r {
		if isAlias(k, col) && (!found || k < key) {
			key, found = k, true
		}
	}
	if !found {
		return "", &MissingColumnError{Column: col}
	}
	return r[key], nil
}

// Value returns the raw value of col or "" when the column is absent.
func (r Record) Value(col string) string {
	v, _ := r.Get(col)
	return v
}

// Float parses col as a float64.
func (r Record) Float(col string) (float64, error) {
	raw, err := r.Get(col)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &MalformedRowError{Column: col, Value: raw, Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &MalformedRowError{Column: col, Value: raw, Err: ErrNotFinite}
	}
	return f, nil
}

// Table is an ordered sequence of records sharing one source file's columns.
type Table struct {
	Name     TableName
	Path     string
	Checksum string
	Columns  []string
	Rows     []Record
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// AmbiguousColumns maps each column of cols that the header does not carry
// exactly, but matches through more than one annotated form such as
// "IV (raw)" and "IV (annualised)", to its sorted matching headers.
func AmbiguousColumns(header, cols []string) map[string][]string {
	out := make(map[string][]string)
	for _, col := range cols {
		exact := false
		var aliases []string
		for _, h := range header {
			if h == col {
				exact = true
				break
			}
			if isAlias(h, col) {
				aliases = append(aliases, h)
			}
		}
		if !exact && len(aliases) > 1 {
			sort.Strings(aliases)
			out[col] = aliases
		}
	}
	return out
}

// HasColumn reports whether the header carries col (aliases included).
func (t *Table) HasColumn(col string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == col || isAlias(c, col) {
			return true
		}
	}
	return false
}

// Tables holds every loaded table. It is built once at startup and never
// mutated afterwards, so it can be shared by concurrent requests.
type Tables struct {
	byName map[TableName]*Table
}

// NewTables assembles an immutable table set. Missing names resolve to an
// empty table of that name.
func NewTables(tables ...*Table) *Tables {
	m := make(map[TableName]*Table, len(AllTables))
	for _, t := range tables {
		if t != nil {
			m[t.Name] = t
		}
	}
	for _, n := range AllTables {
		if _, ok := m[n]; !ok {
			m[n] = &Table{Name: n}
		}
	}
	return &Tables{byName: m}
}

// Get returns the named table.
func (ts *Tables) Get(name TableName) (*Table, error) {
	t, ok := ts.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

// Fingerprint identifies the loaded content of every table. Two loads of
// identical files give the same value; tables built in memory without a
// checksum contribute their name and row count.
func (ts *Tables) Fingerprint() string {
	h := sha256.New()
	for _, n := range AllTables {
		t := ts.byName[n]
		sum := t.Checksum
		if sum == "" {
			sum = strconv.Itoa(t.Len())
		}
		fmt.Fprintf(h, "%s=%s\n", n, sum)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// IV returns the implied volatility table.
func (ts *Tables) IV() *Table { return ts.byName[TableIV] }

// Crash returns the crash probabilities table.
func (ts *Tables) Crash() *Table { return ts.byName[TableCrash] }
