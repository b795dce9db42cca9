package models

import "time"

// Transaction is one buy or sell in a user's ledger. Rows are append-only:
// there is no update endpoint, and portfolio state is always recomputed from
// the full history rather than materialized.
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	Symbol    string    `gorm:"size:10;not null" json:"symbol"`
	Type      string    `gorm:"size:4;not null" json:"type"` // buy/sell
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

type Watchlist struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"not null;uniqueIndex:unique_user_stock" json:"-"`
	Symbol  string    `gorm:"size:10;not null;uniqueIndex:unique_user_stock" json:"symbol"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`
}
