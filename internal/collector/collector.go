package collector

import (
	"log"

	"github.com/photon00/twstock-correlation/internal/catalog"
	"github.com/photon00/twstock-correlation/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string]model.Series
	Err    error
	// Calls counts provider round-trips, to assert batching.
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(tickers []string, _ int) (map[string]model.Series, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[string]model.Series, len(tickers))
	for _, t := range tickers {
		if s, ok := m.Series[t]; ok {
			out[t] = s
		}
	}
	return out, nil
}

// ToProviderTicker maps a bare stock code to Yahoo ticker syntax: OTC
// instruments trade as .TWO, everything else (including catalog misses)
// defaults to the listed-board .TW suffix.
func ToProviderTicker(c catalog.Catalog, sid string) string {
	if ins, ok := c.Lookup(sid); ok && ins.Market == catalog.MarketOTC {
		return sid + ".TWO"
	}
	return sid + ".TW"
}

// BatchFetcher retrieves price history for a whole identifier set in one
// provider round-trip and returns per-identifier series. Identifiers the
// provider has no data for are absent from the result; a failed round-trip
// degrades to an empty map.
type BatchFetcher struct {
	Fetcher Fetcher
	Catalog catalog.Catalog
}

// NewBatchFetcher creates a new BatchFetcher.
func NewBatchFetcher(fetcher Fetcher, cat catalog.Catalog) *BatchFetcher {
	return &BatchFetcher{Fetcher: fetcher, Catalog: cat}
}

// Fetch retrieves daily closing prices for all identifiers over the last
// lookbackDays calendar days.
func (b *BatchFetcher) Fetch(sids []string, lookbackDays int) map[string]model.Series {
	result := make(map[string]model.Series, len(sids))
	if len(sids) == 0 {
		return result
	}

	seen := make(map[string]bool, len(sids))
	tickerToSid := make(map[string]string, len(sids))
	tickers := make([]string, 0, len(sids))
	for _, sid := range sids {
		if sid == "" || seen[sid] {
			continue
		}
		seen[sid] = true
		ticker := ToProviderTicker(b.Catalog, sid)
		tickerToSid[ticker] = sid
		tickers = append(tickers, ticker)
	}

	fetched, err := b.Fetcher.FetchDailyCloses(tickers, lookbackDays)
	if err != nil {
		log.Printf("[WARN] batch fetch (%s, %d tickers): %v", b.Fetcher.Name(), len(tickers), err)
		return result
	}

	for ticker, series := range fetched {
		sid, ok := tickerToSid[ticker]
		if !ok || len(series) == 0 {
			continue
		}
		result[sid] = series
	}
	return result
}
