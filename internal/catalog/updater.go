package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultListedURL = "https://openapi.twse.com.tw/v1/opendata/t187ap03_L"
	defaultOTCURL    = "https://www.tpex.org.tw/openapi/v1/mopsfin_t187ap03_O"
)

// industryGroups maps exchange industry codes to group names. Codes not
// listed here belong to traditional industries and resolve to "".
var industryGroups = map[string]string{
	"24":  "半導體業",
	"25":  "電腦及週邊設備業",
	"26":  "光電業",
	"27":  "通信網路業",
	"28":  "電子零組件業",
	"29":  "電子通路業",
	"30":  "資訊服務業",
	"31":  "其他電子業",
	"121": "數位雲端",
}

// Store is the write side of a catalog, satisfied by SQLiteStore and
// MemoryStore.
type Store interface {
	Catalog
	ReplaceAll(instruments []Instrument) error
	Close() error
}

// Updater refreshes the catalog from the TWSE and TPEx open-data company
// registries.
type Updater struct {
	ListedURL string
	OTCURL    string
	Client    *http.Client
	Store     Store
}

// NewUpdater creates an updater with optional proxy support.
func NewUpdater(store Store, proxyURL string) *Updater {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Updater{
		ListedURL: defaultListedURL,
		OTCURL:    defaultOTCURL,
		Client: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
		Store: store,
	}
}

// twseCompany is one record of the TWSE listed-company registry.
type twseCompany struct {
	Code     string `json:"公司代號"`
	Name     string `json:"公司簡稱"`
	FullName string `json:"公司名稱"`
	Industry string `json:"產業別"`
}

// tpexCompany is one record of the TPEx OTC-company registry.
type tpexCompany struct {
	Code     string `json:"SecuritiesCompanyCode"`
	Name     string `json:"CompanyAbbreviation"`
	FullName string `json:"CompanyName"`
	Industry string `json:"SecuritiesIndustryCode"`
}

// Refresh fetches both registries and atomically replaces the stored
// catalog. An error leaves the previous contents in place.
func (u *Updater) Refresh(ctx context.Context) error {
	var instruments []Instrument

	var listed []twseCompany
	if err := u.fetchJSON(ctx, u.ListedURL, &listed); err != nil {
		return fmt.Errorf("fetch listed registry: %w", err)
	}
	for _, c := range listed {
		if c.Code == "" {
			continue
		}
		name := c.Name
		if name == "" {
			name = c.FullName
		}
		instruments = append(instruments, Instrument{
			Code:   c.Code,
			Name:   name,
			Group:  industryGroups[c.Industry],
			Market: MarketListed,
			Kind:   KindStock,
		})
	}

	var otc []tpexCompany
	if err := u.fetchJSON(ctx, u.OTCURL, &otc); err != nil {
		return fmt.Errorf("fetch OTC registry: %w", err)
	}
	for _, c := range otc {
		if c.Code == "" {
			continue
		}
		name := c.Name
		if name == "" {
			name = c.FullName
		}
		instruments = append(instruments, Instrument{
			Code:   c.Code,
			Name:   name,
			Group:  industryGroups[c.Industry],
			Market: MarketOTC,
			Kind:   KindStock,
		})
	}

	if len(instruments) == 0 {
		return fmt.Errorf("registries returned no instruments")
	}
	if err := u.Store.ReplaceAll(instruments); err != nil {
		return fmt.Errorf("store catalog: %w", err)
	}
	log.Printf("[INFO] catalog refreshed: %d instruments", len(instruments))
	return nil
}

func (u *Updater) fetchJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	resp, err := u.Client.Do(req)
	if err != nil {
		return fmt.Errorf("registry fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("registry read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry: status %d, body: %s", resp.StatusCode, string(body[:min(len(body), 200)]))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("registry decode: %w", err)
	}
	return nil
}
