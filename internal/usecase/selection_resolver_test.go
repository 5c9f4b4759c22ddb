package usecase

import (
	"testing"

	"VolDash/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSmile(t *testing.T) {
	r := NewSelectionResolver(sampleTables())

	rows := r.ResolveSmile(models.Selection{Ticker: "SPX", Expiry: "2024-03-15", Data: "2024-01-02"})
	require.Len(t, rows, 2)
	assert.Equal(t, "0.9", rows[0][models.ColMoneyness])
	assert.Equal(t, "1.0", rows[1][models.ColMoneyness])
}

func TestResolveSmileNoMatch(t *testing.T) {
	r := NewSelectionResolver(sampleTables())

	rows := r.ResolveSmile(models.Selection{Ticker: "SPX", Expiry: "2024-03-15", Data: "2099-01-01"})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestResolveCrashIgnoresExpiry(t *testing.T) {
	r := NewSelectionResolver(sampleTables())

	rows := r.ResolveCrash(models.Selection{Ticker: "SPX", Expiry: "whatever", Data: "2024-01-02"})
	require.Len(t, rows, 2)
	assert.Equal(t, "BS", rows[0][models.ColModello])
	assert.Equal(t, "Heston", rows[1][models.ColModello])
}

func TestResolveTable(t *testing.T) {
	r := NewSelectionResolver(sampleTables())

	t.Run("all keys", func(t *testing.T) {
		tbl, rows, err := r.ResolveTable(models.TableOpt, models.Selection{Ticker: "SPX", Expiry: "2024-06-21", Data: "2024-01-02"})
		require.NoError(t, err)
		assert.Equal(t, models.TableOpt, tbl.Name)
		require.Len(t, rows, 1)
		assert.Equal(t, "180", rows[0]["Price"])
	})

	t.Run("expiry absent from header", func(t *testing.T) {
		_, rows, err := r.ResolveTable(models.TableRND, models.Selection{Ticker: "SPX", Expiry: "2024-03-15", Data: "2024-01-02"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "4800", rows[0]["Mode"])
	})

	t.Run("empty selection keeps every row", func(t *testing.T) {
		_, rows, err := r.ResolveTable(models.TableRND, models.Selection{})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("empty table", func(t *testing.T) {
		_, rows, err := r.ResolveTable(models.TableMND, models.Selection{Ticker: "SPX"})
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("unknown table", func(t *testing.T) {
		_, _, err := r.ResolveTable("surface", models.Selection{})
		assert.ErrorIs(t, err, models.ErrUnknownTable)
	})
}
