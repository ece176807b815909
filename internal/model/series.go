package model

import "time"

// PricePoint is a single trading day's closing price.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Series holds one instrument's daily closing prices, strictly increasing
// by date and deduplicated. Non-trading days and provider gaps are simply
// absent, never filled.
type Series []PricePoint
