package model

// CorrelationRecord is one row of the ranking table: a candidate's Pearson
// correlation with the target over the trailing 20/60/120 observations of
// their aligned series. A horizon's value is nil when the aligned series is
// too short for it, never zero.
type CorrelationRecord struct {
	Rank    int      `json:"rank"`
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Group   string   `json:"group"`
	Corr20  *float64 `json:"corr_20,omitempty"`
	Corr60  *float64 `json:"corr_60,omitempty"`
	Corr120 *float64 `json:"corr_120,omitempty"`
}
