package usecase

import (
	"testing"

	"VolDash/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSmile(t *testing.T) {
	rows := []models.Record{
		ivRow("SPX", "2024-03-15", "2024-01-02", "0.9", "0.25"),
		ivRow("SPX", "2024-03-15", "2024-01-02", "1.0", "0.22"),
	}

	spec, err := NewChartBuilder().BuildSmile(rows)
	require.NoError(t, err)

	assert.Equal(t, SmileTitle, spec.Title)
	assert.Equal(t, models.ModeLinesMarkers, spec.Mode)
	assert.Equal(t, models.AxisNumeric, spec.XAxis.Kind)
	require.Len(t, spec.Series, 1)
	assert.Equal(t, []float64{0.9, 1.0}, spec.Series[0].X)
	assert.Equal(t, []float64{0.25, 0.22}, spec.Series[0].Y)
}

func TestBuildSmileEmpty(t *testing.T) {
	spec, err := NewChartBuilder().BuildSmile(nil)
	require.NoError(t, err)
	require.Len(t, spec.Series, 1)
	assert.Empty(t, spec.Series[0].X)
	assert.Empty(t, spec.Series[0].Y)
	assert.True(t, spec.Empty())
	assert.Equal(t, SmileTitle, spec.Title)
}

func TestBuildSmileKeepsTableOrder(t *testing.T) {
	rows := []models.Record{
		ivRow("SPX", "e", "d", "1.1", "0.3"),
		ivRow("SPX", "e", "d", "0.9", "0.25"),
		ivRow("SPX", "e", "d", "1.0", "0.22"),
	}

	spec, err := NewChartBuilder().BuildSmile(rows)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.1, 0.9, 1.0}, spec.Series[0].X)

	sorted, err := NewChartBuilder(WithMoneynessSort(true)).BuildSmile(rows)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 1.0, 1.1}, sorted.Series[0].X)
	assert.Equal(t, []float64{0.25, 0.22, 0.3}, sorted.Series[0].Y)
}

func TestBuildSmileMalformed(t *testing.T) {
	rows := []models.Record{
		ivRow("SPX", "e", "d", "0.9", "0.25"),
		ivRow("SPX", "e", "d", "abc", "0.22"),
	}

	spec, err := NewChartBuilder().BuildSmile(rows)
	assert.Nil(t, spec)
	var mre *models.MalformedRowError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, models.TableIV, mre.Table)
	assert.Equal(t, 1, mre.Row)
	assert.Equal(t, models.ColMoneyness, mre.Column)
	assert.Equal(t, "abc", mre.Value)
}

func TestBuildSmileMissingColumn(t *testing.T) {
	rows := []models.Record{{models.ColMoneyness: "1.0"}}

	_, err := NewChartBuilder().BuildSmile(rows)
	var mce *models.MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, models.ColIV, mce.Column)
	assert.Equal(t, models.TableIV, mce.Table)
}

func TestBuildCrash(t *testing.T) {
	rows := []models.Record{
		crashRow("SPX", "2024-01-02", "BS", "0.1", "0.12"),
		crashRow("SPX", "2024-01-02", "Heston", "0.15", "0.18"),
	}

	spec, err := NewChartBuilder().BuildCrash(rows)
	require.NoError(t, err)

	assert.Equal(t, CrashTitle, spec.Title)
	assert.Equal(t, models.ModeGroupedBars, spec.Mode)
	assert.Equal(t, models.AxisCategory, spec.XAxis.Kind)
	require.Len(t, spec.Series, 2)

	rnd, mnd := spec.Series[0], spec.Series[1]
	assert.Equal(t, CrashRNDSeries, rnd.Name)
	assert.Equal(t, CrashMNDSeries, mnd.Name)
	assert.Equal(t, []string{"BS", "Heston"}, rnd.Categories)
	assert.Equal(t, []string{"BS", "Heston"}, mnd.Categories)
	assert.Equal(t, []float64{0.1, 0.15}, rnd.Y)
	assert.Equal(t, []float64{0.12, 0.18}, mnd.Y)
}

func TestBuildCrashMalformed(t *testing.T) {
	rows := []models.Record{
		crashRow("SPX", "2024-01-02", "BS", "0.1", "n/a"),
	}

	spec, err := NewChartBuilder().BuildCrash(rows)
	assert.Nil(t, spec)
	var mre *models.MalformedRowError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, models.TableCrash, mre.Table)
	assert.Equal(t, models.ColPCrashP, mre.Column)
}

func TestBuildCrashEmpty(t *testing.T) {
	spec, err := NewChartBuilder().BuildCrash([]models.Record{})
	require.NoError(t, err)
	require.Len(t, spec.Series, 2)
	assert.True(t, spec.Empty())
}
