package usecase

import (
	"sort"
	"strings"

	"VolDash/internal/domain/models"
)

// FilterIndex derives selection domains from the IV table. Every call is a
// fresh scan; nothing is cached and the table is never modified.
type FilterIndex struct {
	tables *models.Tables
}

func NewFilterIndex(tables *models.Tables) *FilterIndex {
	return &FilterIndex{tables: tables}
}

// Tickers returns the distinct non-empty tickers, sorted.
func (f *FilterIndex) Tickers() []string {
	return f.distinct(models.ColTicker, nil)
}

// Expiries returns the distinct non-empty expiries for ticker, sorted.
func (f *FilterIndex) Expiries(ticker string) []string {
	return f.distinct(models.ColExpiry, func(r models.Record) bool {
		return r.Value(models.ColTicker) == ticker
	})
}

// Dates returns the distinct non-empty observation dates for ticker and
// expiry, sorted.
func (f *FilterIndex) Dates(ticker, expiry string) []string {
	return f.distinct(models.ColData, func(r models.Record) bool {
		return r.Value(models.ColTicker) == ticker && r.Value(models.ColExpiry) == expiry
	})
}

func (f *FilterIndex) distinct(col string, keep func(models.Record) bool) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range f.tables.IV().Rows {
		if keep != nil && !keep(r) {
			continue
		}
		v := r.Value(col)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
