package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"stock-analyzer/config"
	"stock-analyzer/database"
	"stock-analyzer/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetWatchlist lists the caller's watched symbols, joined with whatever stock
// data the cache has for them.
func GetWatchlist(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var items []models.Watchlist
	if err := config.DB.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch watchlist"})
		return
	}

	watchlist := make([]gin.H, 0, len(items))
	for _, item := range items {
		stock, _ := database.GetStock(item.Symbol)
		var stockData gin.H
		if stock != nil {
			stockData = gin.H{
				"symbol":       stock.Symbol,
				"name":         stock.Name,
				"sector":       stock.Sector,
				"last_price":   stock.LastPrice,
				"last_updated": stock.LastUpdated,
			}
		} else {
			stockData = gin.H{"symbol": item.Symbol, "name": "Unknown"}
		}

		watchlist = append(watchlist, gin.H{
			"id":         item.ID,
			"symbol":     item.Symbol,
			"added_at":   item.AddedAt,
			"stock_data": stockData,
		})
	}

	c.JSON(http.StatusOK, gin.H{"watchlist": watchlist, "count": len(watchlist)})
}

// AddToWatchlist watches a symbol for the caller; duplicates are rejected.
func AddToWatchlist(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var input struct {
		Symbol string `json:"symbol"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock symbol required"})
		return
	}

	var existing models.Watchlist
	err := config.DB.Where("user_id = ? AND symbol = ?", userID, symbol).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock already in watchlist"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	item := models.Watchlist{UserID: userID, Symbol: symbol}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to watchlist"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("%s added to watchlist", symbol),
		"item":    item,
	})
}

// RemoveFromWatchlist stops watching a symbol.
func RemoveFromWatchlist(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	symbol := strings.ToUpper(c.Param("symbol"))

	var item models.Watchlist
	err := config.DB.Where("user_id = ? AND symbol = ?", userID, symbol).First(&item).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found in watchlist"})
		return
	}

	if err := config.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from watchlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s removed from watchlist", symbol)})
}
