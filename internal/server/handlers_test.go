package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/photon00/twstock-correlation/internal/analysis"
	"github.com/photon00/twstock-correlation/internal/catalog"
	"github.com/photon00/twstock-correlation/internal/collector"
	"github.com/photon00/twstock-correlation/internal/model"
)

func linearSeries(count int, close func(n int) float64) model.Series {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(model.Series, count)
	for i := range s {
		s[i] = model.PricePoint{Date: base.AddDate(0, 0, i), Close: close(i)}
	}
	return s
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat := catalog.NewMemoryStore()
	if err := cat.ReplaceAll([]catalog.Instrument{
		{Code: "2330", Name: "台積電", Group: "半導體業", Market: catalog.MarketListed, Kind: catalog.KindStock},
		{Code: "2317", Name: "鴻海", Group: "其他電子業", Market: catalog.MarketListed, Kind: catalog.KindStock},
		{Code: "3008", Name: "大立光", Group: "光電業", Market: catalog.MarketListed, Kind: catalog.KindStock},
	}); err != nil {
		t.Fatal(err)
	}

	mock := &collector.MockFetcher{Series: map[string]model.Series{
		"2330.TW": linearSeries(150, func(n int) float64 { return 600 + float64(n) }),
		"2317.TW": linearSeries(150, func(n int) float64 { return 100 + 2*float64(n) }),
		"3008.TW": linearSeries(150, func(n int) float64 { return 2000 - float64(n) }),
	}}
	engine := analysis.NewEngine(collector.NewBatchFetcher(mock, cat), cat)
	return NewServer(engine, cat, 50)
}

func doGET(t *testing.T, s *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", url, nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHandleCompare_Validation(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		url  string
	}{
		{"missing b", "/api/v1/compare?a=2330"},
		{"same instrument", "/api/v1/compare?a=2330&b=2330"},
		{"bad days", "/api/v1/compare?a=2330&b=2317&days=0"},
		{"non-numeric days", "/api/v1/compare?a=2330&b=2317&days=abc"},
	}
	for _, tt := range tests {
		if rec := doGET(t, s, tt.url); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.name, rec.Code)
		}
	}
}

func TestHandleCompare_OK(t *testing.T) {
	s := newTestServer(t)
	rec := doGET(t, s, "/api/v1/compare?a=2330&b=2317&days=60")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Available  bool              `json:"available"`
		Comparison *model.Comparison `json:"comparison"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Available || resp.Comparison == nil {
		t.Fatal("expected available comparison")
	}
	if resp.Comparison.NameA != "台積電" || resp.Comparison.NameB != "鴻海" {
		t.Errorf("expected catalog names, got %s/%s", resp.Comparison.NameA, resp.Comparison.NameB)
	}
	if len(resp.Comparison.Merged) != 60 {
		t.Errorf("expected 60 observations, got %d", len(resp.Comparison.Merged))
	}
}

func TestHandleCompare_Unavailable(t *testing.T) {
	s := newTestServer(t)
	// 4444 has no price data; the engine degrades to an absent result.
	rec := doGET(t, s, "/api/v1/compare?a=2330&b=4444")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Available bool `json:"available"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Available {
		t.Error("expected available=false for missing data")
	}
}

func TestHandleCorrelations_Validation(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		url  string
	}{
		{"missing target", "/api/v1/correlations"},
		{"unknown group", "/api/v1/correlations?target=2330&group=水泥工業"},
		{"negative limit", "/api/v1/correlations?target=2330&limit=-1"},
	}
	for _, tt := range tests {
		if rec := doGET(t, s, tt.url); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.name, rec.Code)
		}
	}
}

func TestHandleCorrelations_OK(t *testing.T) {
	s := newTestServer(t)
	rec := doGET(t, s, "/api/v1/correlations?target=2330")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Target  string                    `json:"target"`
		Name    string                    `json:"name"`
		Records []model.CorrelationRecord `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Name != "台積電" {
		t.Errorf("expected target name 台積電, got %s", resp.Name)
	}
	if len(resp.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp.Records))
	}
	// 2317 correlates perfectly, 3008 inversely.
	if resp.Records[0].Code != "2317" || resp.Records[1].Code != "3008" {
		t.Errorf("unexpected order: %s, %s", resp.Records[0].Code, resp.Records[1].Code)
	}
}

func TestHandleInstrumentsAndGroups(t *testing.T) {
	s := newTestServer(t)

	rec := doGET(t, s, "/api/v1/groups")
	if rec.Code != http.StatusOK {
		t.Fatalf("groups: expected 200, got %d", rec.Code)
	}
	var groups struct {
		Groups []string `json:"groups"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &groups); err != nil {
		t.Fatal(err)
	}
	if len(groups.Groups) != 9 {
		t.Errorf("expected 9 groups, got %d", len(groups.Groups))
	}

	rec = doGET(t, s, "/api/v1/instruments?group=半導體業")
	if rec.Code != http.StatusOK {
		t.Fatalf("instruments: expected 200, got %d", rec.Code)
	}
	var instruments struct {
		Instruments []catalog.Instrument `json:"instruments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &instruments); err != nil {
		t.Fatal(err)
	}
	if len(instruments.Instruments) != 1 || instruments.Instruments[0].Code != "2330" {
		t.Errorf("unexpected instruments: %+v", instruments.Instruments)
	}

	if rec := doGET(t, s, "/api/v1/instruments?group=nope"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown group, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	if rec := doGET(t, s, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
