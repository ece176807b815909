package analysis

import (
	"sort"

	"github.com/photon00/twstock-correlation/internal/catalog"
	"github.com/photon00/twstock-correlation/internal/collector"
	"github.com/photon00/twstock-correlation/internal/model"
)

const (
	// rankLookbackDays covers the 120-observation ranking window with
	// margin for non-trading days.
	rankLookbackDays = 210
	// rankWindow caps the joined series used for ranking.
	rankWindow = 120
	// minRankObs is the shortest horizon; anything below it cannot be ranked.
	minRankObs = 20
	// minCompareObs is the minimum viable sample for the pair comparison.
	minCompareObs = 10
)

// Engine derives correlation rankings and pair comparisons from batched
// price history. It is stateless; concurrent calls are independent.
type Engine struct {
	Fetcher *collector.BatchFetcher
	Catalog catalog.Catalog
}

// NewEngine creates a new Engine.
func NewEngine(fetcher *collector.BatchFetcher, cat catalog.Catalog) *Engine {
	return &Engine{Fetcher: fetcher, Catalog: cat}
}

// RankCorrelations ranks a universe of candidates by their rolling-window
// Pearson correlation with the target. Candidates without enough aligned
// history are silently excluded; a target with fewer than 20 observations
// yields an empty result. The fetch covers the whole universe in one
// provider round-trip.
func (e *Engine) RankCorrelations(target string, universe []string, limit int) []model.CorrelationRecord {
	seen := map[string]bool{target: true}
	others := make([]string, 0, len(universe))
	for _, sid := range universe {
		if sid == "" || seen[sid] {
			continue
		}
		seen[sid] = true
		others = append(others, sid)
	}
	if limit > 0 && len(others) > limit {
		others = others[:limit]
	}
	if len(others) == 0 {
		return nil
	}

	prices := e.Fetcher.Fetch(append([]string{target}, others...), rankLookbackDays)
	targetSeries := prices[target]
	if len(targetSeries) < minRankObs {
		return nil
	}

	var records []model.CorrelationRecord
	for _, sid := range others {
		series := prices[sid]
		if len(series) < minRankObs {
			continue
		}
		joined := alignPair(targetSeries, series)
		if len(joined) > rankWindow {
			joined = joined[len(joined)-rankWindow:]
		}
		if len(joined) < minRankObs {
			continue
		}

		x := make([]float64, len(joined))
		y := make([]float64, len(joined))
		for i, p := range joined {
			x[i] = p.CloseA
			y[i] = p.CloseB
		}

		rec := model.CorrelationRecord{
			Code:  sid,
			Name:  catalog.Name(e.Catalog, sid),
			Group: catalog.Group(e.Catalog, sid),
		}
		rec.Corr20 = corrTail(x, y, 20)
		if len(joined) >= 60 {
			rec.Corr60 = corrTail(x, y, 60)
		}
		if len(joined) >= 120 {
			rec.Corr120 = corrTail(x, y, 120)
		}
		records = append(records, rec)
	}

	// Descending by 120d correlation; records without one sort last.
	// The stable sort keeps universe order on ties.
	sort.SliceStable(records, func(i, j int) bool {
		ci, cj := records[i].Corr120, records[j].Corr120
		if ci == nil {
			return false
		}
		if cj == nil {
			return true
		}
		return *ci > *cj
	})
	for i := range records {
		records[i].Rank = i + 1
	}
	return records
}

// ComparePair produces the aligned comparison of two instruments over the
// most recent `days` shared trading days. Ratio, day-over-day changes and
// the 20/60/120-day means of the ratio are derived over the full joined
// history before the display window is truncated. A joined series shorter
// than 10 observations yields nil.
func (e *Engine) ComparePair(sidA, sidB string, days int) *model.Comparison {
	lookback := days + 60
	if lookback < 180 {
		lookback = 180
	}
	prices := e.Fetcher.Fetch([]string{sidA, sidB}, lookback)

	seriesA, seriesB := prices[sidA], prices[sidB]
	if len(seriesA) == 0 || len(seriesB) == 0 {
		return nil
	}
	joined := alignPair(seriesA, seriesB)
	if len(joined) < minCompareObs {
		return nil
	}

	points := make([]model.ComparePoint, len(joined))
	ratios := make([]float64, len(joined))
	for i, p := range joined {
		ratios[i] = p.CloseA / p.CloseB
		points[i] = model.ComparePoint{
			Date:   p.Date,
			CloseA: p.CloseA,
			CloseB: p.CloseB,
			Ratio:  ratios[i],
		}
		if i > 0 {
			points[i].ChangeA = fptr(p.CloseA - joined[i-1].CloseA)
			points[i].ChangeB = fptr(p.CloseB - joined[i-1].CloseB)
		}
	}
	for i, ma := range RollingMean(ratios, 20) {
		points[i].MA20 = ma
	}
	for i, ma := range RollingMean(ratios, 60) {
		points[i].MA60 = ma
	}
	for i, ma := range RollingMean(ratios, 120) {
		points[i].MA120 = ma
	}

	if len(points) > days {
		points = points[len(points)-days:]
	}

	comp := &model.Comparison{
		CodeA:   sidA,
		CodeB:   sidB,
		NameA:   catalog.Name(e.Catalog, sidA),
		NameB:   catalog.Name(e.Catalog, sidB),
		Horizon: days,
		Merged:  points,
	}
	comp.Prices = make([]model.PairPoint, len(points))
	comp.Ratios = make([]model.RatioPoint, len(points))
	for i, p := range points {
		comp.Prices[i] = model.PairPoint{Date: p.Date, CloseA: p.CloseA, CloseB: p.CloseB}
		comp.Ratios[i] = model.RatioPoint{Date: p.Date, Ratio: p.Ratio}
	}
	comp.Detail = buildDetailTable(comp.NameA, comp.NameB, points)
	return comp
}

// alignPair inner-joins two series by date. Only dates present in both
// survive; the result is ascending and no longer than the shorter input.
func alignPair(a, b model.Series) []model.PairPoint {
	closesB := make(map[int64]float64, len(b))
	for _, p := range b {
		closesB[p.Date.Unix()] = p.Close
	}
	joined := make([]model.PairPoint, 0, len(a))
	for _, p := range a {
		if cb, ok := closesB[p.Date.Unix()]; ok {
			joined = append(joined, model.PairPoint{Date: p.Date, CloseA: p.Close, CloseB: cb})
		}
	}
	return joined
}

// corrTail computes the Pearson correlation over the trailing n
// observations, rounded to 4 decimals; nil when it cannot be computed.
func corrTail(x, y []float64, n int) *float64 {
	if len(x) > n {
		x = x[len(x)-n:]
		y = y[len(y)-n:]
	}
	corr, err := Pearson(x, y)
	if err != nil {
		return nil
	}
	return fptr(round4(corr))
}

func fptr(v float64) *float64 { return &v }
