package catalog

import "sort"

// Market labels as used by the exchanges.
const (
	MarketListed = "上市" // TWSE main board
	MarketOTC    = "上櫃" // TPEx
)

// KindStock marks common shares; the registries also carry ETFs, warrants
// and special shares which the universe excludes.
const KindStock = "股票"

// electronicsGroups is the industry universe served by this system.
// Traditional industries are deliberately excluded.
var electronicsGroups = map[string]bool{
	"半導體業":     true,
	"電腦及週邊設備業": true,
	"電子零組件業":   true,
	"光電業":      true,
	"通信網路業":    true,
	"電子通路業":    true,
	"資訊服務業":    true,
	"其他電子業":    true,
	"數位雲端":     true,
}

// Groups returns the electronics industry groups in sorted order.
func Groups() []string {
	groups := make([]string, 0, len(electronicsGroups))
	for g := range electronicsGroups {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// IsElectronics reports whether a group belongs to the served universe.
func IsElectronics(group string) bool { return electronicsGroups[group] }

// Instrument is one entry of the reference catalog.
type Instrument struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Group  string `json:"group"`
	Market string `json:"market"`
	Kind   string `json:"kind"`
}

// Catalog resolves instrument metadata. Implementations must tolerate
// lookup misses; callers use the fallbacks in Name and Group.
type Catalog interface {
	// Lookup returns the catalog entry for a stock code.
	Lookup(code string) (Instrument, bool)
	// Codes returns the sorted electronics universe, optionally narrowed
	// to one industry group. Only common shares are included.
	Codes(group string) []string
}

// Name returns the instrument's short name, or the code itself when the
// catalog has no entry.
func Name(c Catalog, code string) string {
	if ins, ok := c.Lookup(code); ok && ins.Name != "" {
		return ins.Name
	}
	return code
}

// Group returns the instrument's industry group, or "" on a miss.
func Group(c Catalog, code string) string {
	if ins, ok := c.Lookup(code); ok {
		return ins.Group
	}
	return ""
}
