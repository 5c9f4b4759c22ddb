package models

// Selection is the (ticker, expiry, date) triple chosen by the caller.
// Components are compared with exact string equality.
type Selection struct {
	Ticker string `json:"ticker"`
	Expiry string `json:"expiry"`
	Data   string `json:"data"`
}

// Domains holds the filter domains that populate the selection widgets.
type Domains struct {
	Tickers  []string `json:"tickers"`
	Expiries []string `json:"expiries"`
	Dates    []string `json:"dates"`
}

// SmileRequest selects an IV smile.
type SmileRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required"`
	Expiry string `query:"expiry" json:"expiry" validate:"required"`
	Data   string `query:"data" json:"data" validate:"required"`
}

// Selection returns the request as a Selection.
func (r *SmileRequest) Selection() Selection {
	return Selection{Ticker: r.Ticker, Expiry: r.Expiry, Data: r.Data}
}

// CrashRequest selects crash probabilities. Expiry is not part of the key.
type CrashRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required"`
	Data   string `query:"data" json:"data" validate:"required"`
}

// Selection returns the request as a Selection with no expiry.
func (r *CrashRequest) Selection() Selection {
	return Selection{Ticker: r.Ticker, Data: r.Data}
}

// DomainsRequest scopes the expiry and date domains.
type DomainsRequest struct {
	Ticker string `query:"ticker" json:"ticker"`
	Expiry string `query:"expiry" json:"expiry"`
}

// RowsRequest filters any table by whichever key columns it carries.
type RowsRequest struct {
	Table  string `param:"name" json:"table" validate:"required"`
	Ticker string `query:"ticker" json:"ticker"`
	Expiry string `query:"expiry" json:"expiry"`
	Data   string `query:"data" json:"data"`
	Limit  int    `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=100000"`
}

// PNGRequest selects a chart image and its size.
type PNGRequest struct {
	Kind   string `param:"kind" json:"kind" validate:"oneof=smile crash"`
	Ticker string `query:"ticker" json:"ticker" validate:"required"`
	Expiry string `query:"expiry" json:"expiry"`
	Data   string `query:"data" json:"data" validate:"required"`
	Width  int    `query:"w" json:"w" default:"900" validate:"gte=200,lte=4000"`
	Height int    `query:"h" json:"h" default:"500" validate:"gte=150,lte=4000"`
}

// Selection returns the request as a Selection.
func (r *RowsRequest) Selection() Selection {
	return Selection{Ticker: r.Ticker, Expiry: r.Expiry, Data: r.Data}
}

// Selection returns the request as a Selection.
func (r *PNGRequest) Selection() Selection {
	return Selection{Ticker: r.Ticker, Expiry: r.Expiry, Data: r.Data}
}

// ExportRequest selects the rows written to a workbook. Tables lacking a key
// column are filtered on the remaining ones.
type ExportRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required"`
	Expiry string `query:"expiry" json:"expiry"`
	Data   string `query:"data" json:"data" validate:"required"`
}

// Selection returns the request as a Selection.
func (r *ExportRequest) Selection() Selection {
	return Selection{Ticker: r.Ticker, Expiry: r.Expiry, Data: r.Data}
}
