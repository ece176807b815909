package collector

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func unixDaysAgo(n int) int64 {
	return time.Now().AddDate(0, 0, -n).Unix()
}

func chartBody(timestamps []int64, closes []string) string {
	ts := make([]string, len(timestamps))
	for i, v := range timestamps {
		ts[i] = fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`,
		strings.Join(ts, ","), strings.Join(closes, ","))
}

func newChartServer(t *testing.T, body string) (*httptest.Server, *YahooFetcher) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	return srv, f
}

func TestYahooFetcher_SingleTickerChartShape(t *testing.T) {
	dup := unixDaysAgo(3)
	body := chartBody(
		[]int64{unixDaysAgo(5), unixDaysAgo(4), dup, dup + 60, unixDaysAgo(2)},
		[]string{"101.5", "null", "102.0", "102.5", "103.0"},
	)
	_, f := newChartServer(t, body)

	result, err := f.FetchDailyCloses([]string{"2330.TW"}, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	series := result["2330.TW"]
	// 5 bars: one null close dropped, two timestamps collapse to one day.
	if len(series) != 3 {
		t.Fatalf("expected 3 points, got %d", len(series))
	}
	for i := 1; i < len(series); i++ {
		if !series[i-1].Date.Before(series[i].Date) {
			t.Fatal("expected strictly ascending dates")
		}
	}
	// Duplicate day: last write wins.
	if series[1].Close != 102.5 {
		t.Errorf("expected deduplicated close 102.5, got %f", series[1].Close)
	}
}

func TestYahooFetcher_LookbackTrim(t *testing.T) {
	body := chartBody(
		[]int64{unixDaysAgo(400), unixDaysAgo(2)},
		[]string{"90.0", "103.0"},
	)
	_, f := newChartServer(t, body)

	result, err := f.FetchDailyCloses([]string{"2330.TW"}, 180)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result["2330.TW"]) != 1 {
		t.Fatalf("expected bars outside the lookback dropped, got %d points", len(result["2330.TW"]))
	}
}

func TestYahooFetcher_MultiTickerSparkShape(t *testing.T) {
	bars := func() string {
		return fmt.Sprintf(`{"timestamp":[%d,%d],"indicators":{"quote":[{"close":[10.0,11.0]}]}}`,
			unixDaysAgo(3), unixDaysAgo(2))
	}
	body := fmt.Sprintf(`{"spark":{"result":[{"symbol":"2330.TW","response":[%s]},{"symbol":"2317.TW","response":[%s]}],"error":null}}`,
		bars(), bars())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "spark") {
			t.Errorf("expected spark endpoint for multi-ticker batch, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbols"); got != "2330.TW,2317.TW" {
			t.Errorf("expected batched symbols parameter, got %q", got)
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	result, err := f.FetchDailyCloses([]string{"2330.TW", "2317.TW", "4444.TW"}, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 series, got %d", len(result))
	}
	if _, ok := result["4444.TW"]; ok {
		t.Error("expected symbol absent from response to be absent from result")
	}
	if len(result["2330.TW"]) != 2 || len(result["2317.TW"]) != 2 {
		t.Error("expected both returned symbols normalized")
	}
}

func TestYahooFetcher_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	if _, err := f.FetchDailyCloses([]string{"2330.TW", "2317.TW"}, 30); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestRangeFor(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{20, "1mo"},
		{90, "3mo"},
		{180, "6mo"},
		{210, "1y"},
		{400, "2y"},
	}
	for _, tt := range tests {
		if got := rangeFor(tt.days); got != tt.want {
			t.Errorf("%d days: expected %s, got %s", tt.days, tt.want, got)
		}
	}
}
