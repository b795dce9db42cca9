package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stock-analyzer/alphavantage"
	"stock-analyzer/config"
	"stock-analyzer/database"
	"stock-analyzer/models"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	quoteCacheExpiration   = 5 * time.Minute
	historyCacheExpiration = 24 * time.Hour
	historyBatchSize       = 100
)

var apiClient *alphavantage.Client

// Init wires the shared Alpha Vantage client. A single instance must be
// shared by all handlers so the rate limiter sees every outbound request.
func Init(client *alphavantage.Client) {
	apiClient = client
}

// GetStockQuote returns the current quote and the cached company record,
// refreshing the record with the fetched price. Quotes are cached in redis
// for a few minutes to spare the upstream quota.
func GetStockQuote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	cacheKey := fmt.Sprintf("stock:%s:quote", symbol)

	// Demo quotes are static and never touch the upstream quota, so there is
	// nothing worth caching for them.
	isDemo := alphavantage.IsDemoSymbol(symbol)

	if !isDemo {
		if cached, err := config.Rdb.Get(config.Ctx, cacheKey).Result(); err == nil {
			var quote alphavantage.Quote
			if json.Unmarshal([]byte(cached), &quote) == nil {
				stock, _ := database.GetStock(symbol)
				c.JSON(http.StatusOK, gin.H{"quote": quote, "company": stock})
				return
			}
		}
	}

	quote := apiClient.GetStockQuote(symbol)
	if quote == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found or API limit reached"})
		return
	}

	stock, err := database.GetStock(symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if stock != nil {
		stock.LastPrice = quote.Price
		stock.LastUpdated = time.Now().UTC()
	} else {
		// First time we see this symbol: pull company identity too.
		name, sector := "Unknown", ""
		if overview := apiClient.GetCompanyOverview(symbol); overview != nil {
			name = overview.Name
			sector = overview.Sector
		}
		stock = &models.Stock{
			Symbol:      symbol,
			Name:        name,
			Sector:      sector,
			LastPrice:   quote.Price,
			LastUpdated: time.Now().UTC(),
		}
	}

	if err := database.UpsertStock(stock); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock record"})
		return
	}

	if !isDemo {
		if data, err := json.Marshal(quote); err == nil {
			config.Rdb.Set(config.Ctx, cacheKey, data, quoteCacheExpiration)
		}
	}

	c.JSON(http.StatusOK, gin.H{"quote": quote, "company": stock})
}

// GetStockChart returns daily bars, most recent first. Fetched series are
// persisted as price history and cached in redis for a day.
func GetStockChart(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	outputsize := c.DefaultQuery("outputsize", "compact")
	cacheKey := fmt.Sprintf("stock:%s:history:%s", symbol, outputsize)

	if cached, err := config.Rdb.Get(config.Ctx, cacheKey).Result(); err == nil {
		var bars []alphavantage.DailyBar
		if json.Unmarshal([]byte(cached), &bars) == nil {
			c.JSON(http.StatusOK, gin.H{"symbol": symbol, "data": bars, "count": len(bars)})
			return
		}
	}

	bars := apiClient.GetDailyData(symbol, outputsize)
	if bars == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chart data not found or API limit reached"})
		return
	}

	history := make([]models.StockPrice, 0, len(bars))
	for _, bar := range bars {
		date, err := time.Parse("2006-01-02", bar.Date)
		if err != nil {
			continue
		}
		history = append(history, models.StockPrice{
			Symbol: symbol,
			Date:   date,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		})
	}
	if err := database.SaveDailyBars(symbol, history, historyBatchSize); err != nil {
		log.WithError(err).WithFields(log.Fields{"symbol": symbol}).Errorln("failed to persist price history")
	}

	if data, err := json.Marshal(bars); err == nil {
		config.Rdb.Set(config.Ctx, cacheKey, data, historyCacheExpiration)
	}

	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "data": bars, "count": len(bars)})
}

// GetCompanyOverview returns company fundamentals.
func GetCompanyOverview(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	overview := apiClient.GetCompanyOverview(symbol)
	if overview == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company information not found or API limit reached"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"overview": overview})
}

// SearchStocks searches symbols by keyword.
func SearchStocks(c *gin.Context) {
	query := c.Param("query")

	results := apiClient.SearchStocks(query)
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}
