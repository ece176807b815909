package model

import "time"

// PairPoint is one date shared by both legs of a comparison.
type PairPoint struct {
	Date   time.Time `json:"date"`
	CloseA float64   `json:"close_a"`
	CloseB float64   `json:"close_b"`
}

// RatioPoint is the price ratio A/B on one shared date.
type RatioPoint struct {
	Date  time.Time `json:"date"`
	Ratio float64   `json:"ratio"`
}

// ComparePoint is one fully-derived row of the aligned comparison series.
// ChangeA/ChangeB are day-over-day absolute changes (nil on the first
// observation of the joined history). The MA fields are trailing means of
// the ratio; each is nil until its window is filled.
type ComparePoint struct {
	Date    time.Time `json:"date"`
	CloseA  float64   `json:"close_a"`
	CloseB  float64   `json:"close_b"`
	ChangeA *float64  `json:"change_a,omitempty"`
	ChangeB *float64  `json:"change_b,omitempty"`
	Ratio   float64   `json:"ratio"`
	MA20    *float64  `json:"ma_20,omitempty"`
	MA60    *float64  `json:"ma_60,omitempty"`
	MA120   *float64  `json:"ma_120,omitempty"`
}

// DetailRow is one semantic row of the detail table; Values line up with
// the table's date columns.
type DetailRow struct {
	Label  string     `json:"label"`
	Values []*float64 `json:"values"`
}

// DetailTable is the transposed tabular view of a comparison: columns are
// MM/DD date labels in reverse chronological order; rows follow the fixed
// order price A, price B, change A, change B, ratio, then each available
// moving average.
type DetailTable struct {
	Dates []string    `json:"dates"`
	Rows  []DetailRow `json:"rows"`
}

// Comparison is the full output of a two-instrument comparison.
type Comparison struct {
	CodeA   string         `json:"code_a"`
	CodeB   string         `json:"code_b"`
	NameA   string         `json:"name_a"`
	NameB   string         `json:"name_b"`
	Horizon int            `json:"horizon"`
	Prices  []PairPoint    `json:"prices"`
	Ratios  []RatioPoint   `json:"ratios"`
	Merged  []ComparePoint `json:"merged"`
	Detail  DetailTable    `json:"detail"`
}
