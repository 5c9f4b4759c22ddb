package usecase

import (
	"VolDash/internal/domain/models"
)

// SelectionResolver filters tables down to the rows of one selection.
// Results keep the original table order. An empty result is not an error.
type SelectionResolver struct {
	tables *models.Tables
}

func NewSelectionResolver(tables *models.Tables) *SelectionResolver {
	return &SelectionResolver{tables: tables}
}

// ResolveSmile returns the IV rows matching ticker, expiry and date.
func (s *SelectionResolver) ResolveSmile(sel models.Selection) []models.Record {
	return filterRows(s.tables.IV(), func(r models.Record) bool {
		return r.Value(models.ColTicker) == sel.Ticker &&
			r.Value(models.ColExpiry) == sel.Expiry &&
			r.Value(models.ColData) == sel.Data
	})
}

// ResolveCrash returns the crash rows matching ticker and date. Expiry is
// not a key of the crash table.
func (s *SelectionResolver) ResolveCrash(sel models.Selection) []models.Record {
	return filterRows(s.tables.Crash(), func(r models.Record) bool {
		return r.Value(models.ColTicker) == sel.Ticker &&
			r.Value(models.ColData) == sel.Data
	})
}

// ResolveTable filters any table on the key columns it carries. Empty
// selection components and key columns missing from the header are not
// filtered on.
func (s *SelectionResolver) ResolveTable(name models.TableName, sel models.Selection) (*models.Table, []models.Record, error) {
	t, err := s.tables.Get(name)
	if err != nil {
		return nil, nil, err
	}
	type key struct{ col, want string }
	var keys []key
	for _, k := range []key{
		{models.ColTicker, sel.Ticker},
		{models.ColExpiry, sel.Expiry},
		{models.ColData, sel.Data},
	} {
		if k.want != "" && t.HasColumn(k.col) {
			keys = append(keys, k)
		}
	}
	rows := filterRows(t, func(r models.Record) bool {
		for _, k := range keys {
			if r.Value(k.col) != k.want {
				return false
			}
		}
		return true
	})
	return t, rows, nil
}

func filterRows(t *models.Table, match func(models.Record) bool) []models.Record {
	out := make([]models.Record, 0)
	if t == nil {
		return out
	}
	for _, r := range t.Rows {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}
