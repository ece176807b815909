package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/photon00/twstock-correlation/internal/catalog"
	"github.com/photon00/twstock-correlation/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string][]string{"groups": catalog.Groups()})
}

func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	if group != "" && !catalog.IsElectronics(group) {
		badRequest(w, r, "unknown industry group: "+group)
		return
	}

	codes := s.Catalog.Codes(group)
	instruments := make([]catalog.Instrument, 0, len(codes))
	for _, code := range codes {
		ins, _ := s.Catalog.Lookup(code)
		ins.Code = code
		if ins.Name == "" {
			ins.Name = code
		}
		instruments = append(instruments, ins)
	}
	render.JSON(w, r, map[string]interface{}{"instruments": instruments})
}

// handleCorrelations serves the ranking table:
// GET /api/v1/correlations?target=2330&group=半導體業&limit=50
func (s *Server) handleCorrelations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target := q.Get("target")
	if target == "" {
		badRequest(w, r, "target is required")
		return
	}
	group := q.Get("group")
	if group != "" && !catalog.IsElectronics(group) {
		badRequest(w, r, "unknown industry group: "+group)
		return
	}

	limit := s.DefaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, r, "limit must be a non-negative integer")
			return
		}
		limit = n // 0 means unlimited
	}

	records := s.Engine.RankCorrelations(target, s.Catalog.Codes(group), limit)
	if records == nil {
		records = []model.CorrelationRecord{}
	}
	render.JSON(w, r, map[string]interface{}{
		"target":  target,
		"name":    catalog.Name(s.Catalog, target),
		"records": records,
	})
}

// handleCompare serves the two-instrument comparison:
// GET /api/v1/compare?a=2330&b=2317&days=60
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, b := q.Get("a"), q.Get("b")
	if a == "" || b == "" {
		badRequest(w, r, "a and b are required")
		return
	}
	if a == b {
		badRequest(w, r, "a and b must be distinct")
		return
	}

	days := 120
	if v := q.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(w, r, "days must be a positive integer")
			return
		}
		days = n
	}

	comp := s.Engine.ComparePair(a, b, days)
	if comp == nil {
		render.JSON(w, r, map[string]interface{}{"available": false})
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"available":  true,
		"comparison": comp,
	})
}
