package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/photon00/twstock-correlation/internal/model"
)

// taipeiTZ is the exchange calendar's time zone; provider timestamps are
// collapsed to Taipei trading days.
var taipeiTZ = loadTaipei()

func loadTaipei() *time.Location {
	if loc, err := time.LoadLocation("Asia/Taipei"); err == nil {
		return loc
	}
	return time.FixedZone("CST", 8*3600)
}

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
// Multi-ticker batches go through the spark endpoint in one request; a
// single ticker uses the chart endpoint, whose response shape is flat.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy
// support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: "https://query1.finance.yahoo.com",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooQuote carries the close column of one bar set.
type yahooQuote struct {
	Close []interface{} `json:"close"`
}

// yahooBars is the timestamp/indicator block shared by the chart and spark
// response shapes.
type yahooBars struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []yahooQuote `json:"quote"`
	} `json:"indicators"`
}

// yahooChart is the single-symbol chart API response.
type yahooChart struct {
	Chart struct {
		Result []yahooBars `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooSpark is the multi-symbol spark API response.
type yahooSpark struct {
	Spark struct {
		Result []struct {
			Symbol   string      `json:"symbol"`
			Response []yahooBars `json:"response"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"spark"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// rangeFor picks the smallest Yahoo range parameter covering the lookback.
func rangeFor(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

func (f *YahooFetcher) FetchDailyCloses(tickers []string, lookbackDays int) (map[string]model.Series, error) {
	if len(tickers) == 0 {
		return map[string]model.Series{}, nil
	}
	cutoff := time.Now().In(taipeiTZ).AddDate(0, 0, -lookbackDays)
	cutoff = time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)

	if len(tickers) == 1 {
		return f.fetchChart(tickers[0], lookbackDays, cutoff)
	}
	return f.fetchSpark(tickers, lookbackDays, cutoff)
}

func (f *YahooFetcher) fetchChart(ticker string, lookbackDays int, cutoff time.Time) (map[string]model.Series, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(ticker), rangeFor(lookbackDays))

	body, err := f.get(u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}

	out := make(map[string]model.Series, 1)
	if len(chart.Chart.Result) == 0 {
		return out, nil
	}
	if series := normalizeBars(&chart.Chart.Result[0], cutoff); len(series) > 0 {
		out[ticker] = series
	}
	return out, nil
}

func (f *YahooFetcher) fetchSpark(tickers []string, lookbackDays int, cutoff time.Time) (map[string]model.Series, error) {
	u := fmt.Sprintf("%s/v8/finance/spark?symbols=%s&interval=1d&range=%s",
		f.BaseURL, url.QueryEscape(strings.Join(tickers, ",")), rangeFor(lookbackDays))

	body, err := f.get(u)
	if err != nil {
		return nil, err
	}

	var spark yahooSpark
	if err := json.Unmarshal(body, &spark); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if spark.Spark.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", spark.Spark.Error.Description)
	}

	out := make(map[string]model.Series, len(spark.Spark.Result))
	for _, r := range spark.Spark.Result {
		if len(r.Response) == 0 {
			continue
		}
		if series := normalizeBars(&r.Response[0], cutoff); len(series) > 0 {
			out[r.Symbol] = series
		}
	}
	return out, nil
}

func (f *YahooFetcher) get(u string) ([]byte, error) {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// normalizeBars converts one bar set into a Series: null closes dropped,
// timestamps collapsed to Taipei trading days, deduplicated by date (last
// wins), sorted ascending, trimmed to the calendar cutoff.
func normalizeBars(bars *yahooBars, cutoff time.Time) model.Series {
	if len(bars.Indicators.Quote) == 0 {
		return nil
	}
	closes := bars.Indicators.Quote[0].Close

	byDate := make(map[time.Time]float64, len(bars.Timestamp))
	for i, ts := range bars.Timestamp {
		if i >= len(closes) {
			break
		}
		c := toFloat(closes[i])
		if c <= 0 {
			continue // null or placeholder bar (holiday, halted day)
		}
		day := time.Unix(ts, 0).In(taipeiTZ)
		date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		if date.Before(cutoff) {
			continue
		}
		byDate[date] = c
	}

	series := make(model.Series, 0, len(byDate))
	for date, c := range byDate {
		series = append(series, model.PricePoint{Date: date, Close: c})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series
}
