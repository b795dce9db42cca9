package database

import (
	"errors"
	"fmt"

	"stock-analyzer/config"
	"stock-analyzer/models"

	"gorm.io/gorm"
)

var ErrInvalidBatchSize = errors.New("batch size must be positive")

// GetStock looks up the cached record for a symbol. Returns nil without error
// when the symbol has never been quoted.
func GetStock(symbol string) (*models.Stock, error) {
	var stock models.Stock
	err := config.DB.First(&stock, "symbol = ?", symbol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// UpsertStock creates or replaces the cached record for a symbol.
func UpsertStock(stock *models.Stock) error {
	return config.DB.Save(stock).Error
}

// SaveDailyBars replaces the stored price history for a symbol with freshly
// fetched bars, inserting in chunks so a full-size series (20+ years of daily
// data) doesn't become one giant statement.
func SaveDailyBars(symbol string, bars []models.StockPrice, batchSize int) error {
	if batchSize <= 0 {
		return ErrInvalidBatchSize
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Where("symbol = ?", symbol).Delete(&models.StockPrice{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	for i := 0; i < len(bars); i += batchSize {
		end := i + batchSize
		if end > len(bars) {
			end = len(bars)
		}
		chunk := bars[i:end]
		if err := tx.Create(&chunk).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("batch insert failed: %w", err)
		}
	}

	return tx.Commit().Error
}
