package handlers

import (
	"fmt"
	"net/http"

	"stock-analyzer/database"
	"stock-analyzer/models"
	"stock-analyzer/portfolio"

	"github.com/gin-gonic/gin"
)

// GetPortfolio recomputes the caller's holdings and valuation from their full
// transaction history, priced against the cached stock records.
func GetPortfolio(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	transactions, err := database.ListTransactions(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch portfolio"})
		return
	}

	// Memoized lookup so each symbol hits the stock cache once, for both the
	// price and the stock_info attached to its summary row.
	stocks := make(map[string]*models.Stock)
	lookupStock := func(symbol string) *models.Stock {
		if stock, ok := stocks[symbol]; ok {
			return stock
		}
		stock, _ := database.GetStock(symbol)
		stocks[symbol] = stock
		return stock
	}

	valuation := portfolio.Compute(transactions, func(symbol string) (float64, bool) {
		stock := lookupStock(symbol)
		if stock == nil || stock.LastPrice == 0 {
			return 0, false
		}
		return stock.LastPrice, true
	})

	for i := range valuation.Holdings {
		valuation.Holdings[i].StockInfo = lookupStock(valuation.Holdings[i].Symbol)
	}

	c.JSON(http.StatusOK, valuation)
}

// AddTransaction validates and appends one buy/sell to the caller's ledger.
func AddTransaction(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var input TransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := input.Validate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction.UserID = userID
	if err := database.AppendTransaction(&transaction); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Transaction added successfully",
		"transaction": transaction,
	})
}

// ClearPortfolio deletes every transaction owned by the caller and reports
// the count.
func ClearPortfolio(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	deleted, err := database.DeleteAllTransactions(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear portfolio"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":              fmt.Sprintf("Portfolio cleared completely. %d transactions deleted.", deleted),
		"transactions_deleted": deleted,
	})
}
