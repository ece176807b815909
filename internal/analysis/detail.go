package analysis

import "github.com/photon00/twstock-correlation/internal/model"

// buildDetailTable transposes comparison points into the tabular view
// consumed by the front end: columns are MM/DD labels newest-first, rows
// follow the fixed order price A, price B, change A, change B, ratio, then
// each moving-average row that has values in the window. Pure formatting,
// no statistics.
func buildDetailTable(nameA, nameB string, points []model.ComparePoint) model.DetailTable {
	n := len(points)
	table := model.DetailTable{Dates: make([]string, n)}
	if n == 0 {
		return table
	}

	// The newest point carries every moving average that exists for the
	// joined history, so it decides which MA rows appear.
	last := points[n-1]

	priceA := make([]*float64, n)
	priceB := make([]*float64, n)
	changeA := make([]*float64, n)
	changeB := make([]*float64, n)
	ratio := make([]*float64, n)
	var ma20, ma60, ma120 []*float64
	if last.MA20 != nil {
		ma20 = make([]*float64, n)
	}
	if last.MA60 != nil {
		ma60 = make([]*float64, n)
	}
	if last.MA120 != nil {
		ma120 = make([]*float64, n)
	}

	for i := range points {
		p := points[n-1-i] // newest first
		table.Dates[i] = p.Date.Format("01/02")
		priceA[i] = fptr(p.CloseA)
		priceB[i] = fptr(p.CloseB)
		changeA[i] = p.ChangeA
		changeB[i] = p.ChangeB
		ratio[i] = fptr(p.Ratio)
		if ma20 != nil {
			ma20[i] = p.MA20
		}
		if ma60 != nil {
			ma60[i] = p.MA60
		}
		if ma120 != nil {
			ma120[i] = p.MA120
		}
	}

	table.Rows = []model.DetailRow{
		{Label: "股價 " + nameA, Values: priceA},
		{Label: "股價 " + nameB, Values: priceB},
		{Label: "股價變動 " + nameA, Values: changeA},
		{Label: "股價變動 " + nameB, Values: changeB},
		{Label: "股價相除", Values: ratio},
	}
	if ma20 != nil {
		table.Rows = append(table.Rows, model.DetailRow{Label: "20日均比", Values: ma20})
	}
	if ma60 != nil {
		table.Rows = append(table.Rows, model.DetailRow{Label: "60日均比", Values: ma60})
	}
	if ma120 != nil {
		table.Rows = append(table.Rows, model.DetailRow{Label: "120日均比", Values: ma120})
	}
	return table
}
