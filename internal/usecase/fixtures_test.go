package usecase

import "VolDash/internal/domain/models"

func ivRow(ticker, expiry, data, moneyness, iv string) models.Record {
	return models.Record{
		models.ColTicker:    ticker,
		models.ColExpiry:    expiry,
		models.ColData:      data,
		models.ColMoneyness: moneyness,
		models.ColIV:        iv,
	}
}

func crashRow(ticker, data, modello, q, p string) models.Record {
	return models.Record{
		models.ColTicker:  ticker,
		models.ColData:    data,
		models.ColModello: modello,
		"P_crash_Q (RND)": q,
		"P_crash_P (MND)": p,
	}
}

// sampleTables mirrors a small slice of the real data set.
func sampleTables() *models.Tables {
	iv := &models.Table{
		Name:    models.TableIV,
		Columns: []string{"Ticker", "Expiry", "Data", "Moneyness", "IV"},
		Rows: []models.Record{
			ivRow("SPX", "2024-03-15", "2024-01-02", "0.9", "0.25"),
			ivRow("SPX", "2024-03-15", "2024-01-02", "1.0", "0.22"),
			ivRow("SPX", "2024-06-21", "2024-01-02", "1.0", "0.20"),
			ivRow("NDX", "2024-03-15", "2024-01-03", "0.95", "0.30"),
			ivRow("", "2024-03-15", "2024-01-03", "1.0", "0.31"),
			ivRow("   ", "2024-03-15", "2024-01-03", "1.0", "0.31"),
		},
	}
	crash := &models.Table{
		Name:    models.TableCrash,
		Columns: []string{"Ticker", "Data", "Modello", "P_crash_Q (RND)", "P_crash_P (MND)"},
		Rows: []models.Record{
			crashRow("SPX", "2024-01-02", "BS", "0.1", "0.12"),
			crashRow("SPX", "2024-01-02", "Heston", "0.15", "0.18"),
			crashRow("SPX", "2024-01-03", "BS", "0.2", "0.22"),
		},
	}
	opt := &models.Table{
		Name:    models.TableOpt,
		Columns: []string{"Ticker", "Expiry", "Data", "Strike", "Price"},
		Rows: []models.Record{
			{"Ticker": "SPX", "Expiry": "2024-03-15", "Data": "2024-01-02", "Strike": "4700", "Price": "120.5"},
			{"Ticker": "SPX", "Expiry": "2024-06-21", "Data": "2024-01-02", "Strike": "4700", "Price": "180"},
		},
	}
	rnd := &models.Table{
		Name:    models.TableRND,
		Columns: []string{"Ticker", "Data", "Mode"},
		Rows: []models.Record{
			{"Ticker": "SPX", "Data": "2024-01-02", "Mode": "4800"},
			{"Ticker": "NDX", "Data": "2024-01-02", "Mode": "16000"},
		},
	}
	return models.NewTables(iv, crash, opt, rnd)
}
