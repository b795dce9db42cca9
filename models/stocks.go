package models

import "time"

// Stock is a best-effort price cache keyed by ticker symbol. It is upserted
// whenever a fresh quote comes back from the upstream API and is never treated
// as a source of truth.
type Stock struct {
	Symbol      string    `gorm:"primaryKey;size:10" json:"symbol"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Sector      string    `gorm:"size:50" json:"sector"`
	LastPrice   float64   `json:"last_price"`
	LastUpdated time.Time `json:"last_updated"`
}

// StockPrice is one persisted daily bar of price history.
type StockPrice struct {
	ID     uint      `gorm:"primaryKey" json:"-"`
	Symbol string    `gorm:"size:10;index" json:"symbol"`
	Date   time.Time `gorm:"index" json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}
