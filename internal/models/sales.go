package models

import "github.com/shopspring/decimal"

// SalesPoint is one bucket of the hourly sales series
type SalesPoint struct {
	Time   string          `json:"time"`
	Amount decimal.Decimal `json:"amount"`
	Orders int             `json:"orders"`
}

// StatusBucket is one bar of the dashboard pipeline
type StatusBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
