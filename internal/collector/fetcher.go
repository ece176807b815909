package collector

import "github.com/photon00/twstock-correlation/internal/model"

// Fetcher retrieves daily closing-price history from a price provider.
// The whole ticker set is covered by a single provider round-trip; tickers
// the provider has no data for are absent from the result map.
type Fetcher interface {
	FetchDailyCloses(tickers []string, lookbackDays int) (map[string]model.Series, error)
	Name() string
}
