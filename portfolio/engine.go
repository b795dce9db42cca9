// Package portfolio computes a user's holdings and valuation from their raw
// transaction ledger. The computation is pure: it is re-run from scratch on
// every request and keeps no state between calls.
package portfolio

import (
	"math"

	"stock-analyzer/models"
)

// PriceLookup returns the last known price for a symbol, or false when no
// price is available. A missing price values the position at zero rather than
// failing.
type PriceLookup func(symbol string) (float64, bool)

// Holding is the running position in one symbol: signed share count, signed
// cumulative cost, and the transactions that produced them. Sells subtract
// their full quantity×price from TotalCost rather than a pro-rated share of
// the basis; a position sold below (or down to) zero net quantity therefore
// drops out of the summary with whatever cost it had accumulated. That
// matches the average-cost model this tracker uses and is a documented
// limitation, not something to correct here.
type Holding struct {
	Symbol       string
	Quantity     int
	TotalCost    float64
	Transactions []models.Transaction
}

// HoldingSummary is one row of the valuation output. StockInfo is left nil by
// Compute; the HTTP layer attaches the cached stock record when it has one.
type HoldingSummary struct {
	Symbol          string        `json:"symbol"`
	Quantity        int           `json:"quantity"`
	AvgCost         float64       `json:"avg_cost"`
	CurrentPrice    float64       `json:"current_price"`
	CurrentValue    float64       `json:"current_value"`
	TotalCost       float64       `json:"total_cost"`
	GainLoss        float64       `json:"gain_loss"`
	GainLossPercent float64       `json:"gain_loss_percent"`
	StockInfo       *models.Stock `json:"stock_info"`
}

// Summary aggregates the whole portfolio.
type Summary struct {
	TotalValue           float64 `json:"total_value"`
	TotalCost            float64 `json:"total_cost"`
	TotalGainLoss        float64 `json:"total_gain_loss"`
	TotalGainLossPercent float64 `json:"total_gain_loss_percent"`
	PositionsCount       int     `json:"positions_count"`
}

// Valuation is the full portfolio view returned to the client.
type Valuation struct {
	Holdings           []HoldingSummary     `json:"holdings"`
	Summary            Summary              `json:"summary"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
}

// FoldHoldings accumulates transactions into per-symbol holdings. Input order
// (date descending, as the ledger store returns it) is preserved in each
// holding's transaction history; the arithmetic itself is order-independent.
// Holdings come back in order of each symbol's first appearance.
func FoldHoldings(transactions []models.Transaction) []Holding {
	bySymbol := make(map[string]*Holding)
	var order []string

	for _, t := range transactions {
		h, ok := bySymbol[t.Symbol]
		if !ok {
			h = &Holding{Symbol: t.Symbol}
			bySymbol[t.Symbol] = h
			order = append(order, t.Symbol)
		}

		if t.Type == "buy" {
			h.Quantity += t.Quantity
			h.TotalCost += float64(t.Quantity) * t.Price
		} else {
			h.Quantity -= t.Quantity
			h.TotalCost -= float64(t.Quantity) * t.Price
		}
		h.Transactions = append(h.Transactions, t)
	}

	holdings := make([]Holding, 0, len(order))
	for _, symbol := range order {
		holdings = append(holdings, *bySymbol[symbol])
	}
	return holdings
}

// Compute folds the transaction history into active holdings and values them
// against the supplied price snapshot. Holdings with net quantity <= 0 are
// excluded entirely. All monetary outputs are rounded to 2 decimal places;
// accumulation happens at full precision.
func Compute(transactions []models.Transaction, currentPrice PriceLookup) Valuation {
	// Non-nil so an empty portfolio marshals as [] rather than null.
	rows := []HoldingSummary{}
	var (
		totalValue     float64
		totalCostBasis float64
	)

	for _, h := range FoldHoldings(transactions) {
		if h.Quantity <= 0 {
			continue
		}

		avgCost := h.TotalCost / float64(h.Quantity)

		price, ok := currentPrice(h.Symbol)
		if !ok {
			price = 0
		}
		currentValue := float64(h.Quantity) * price
		gainLoss := currentValue - h.TotalCost

		var gainLossPercent float64
		if h.TotalCost > 0 {
			gainLossPercent = gainLoss / h.TotalCost * 100
		}

		rows = append(rows, HoldingSummary{
			Symbol:          h.Symbol,
			Quantity:        h.Quantity,
			AvgCost:         round2(avgCost),
			CurrentPrice:    price,
			CurrentValue:    round2(currentValue),
			TotalCost:       round2(h.TotalCost),
			GainLoss:        round2(gainLoss),
			GainLossPercent: round2(gainLossPercent),
		})

		totalValue += currentValue
		totalCostBasis += h.TotalCost
	}

	totalGainLoss := totalValue - totalCostBasis
	var totalGainLossPercent float64
	if totalCostBasis > 0 {
		totalGainLossPercent = totalGainLoss / totalCostBasis * 100
	}

	recent := transactions
	if recent == nil {
		recent = []models.Transaction{}
	}
	if len(recent) > 10 {
		recent = recent[:10]
	}

	return Valuation{
		Holdings: rows,
		Summary: Summary{
			TotalValue:           round2(totalValue),
			TotalCost:            round2(totalCostBasis),
			TotalGainLoss:        round2(totalGainLoss),
			TotalGainLossPercent: round2(totalGainLossPercent),
			PositionsCount:       len(rows),
		},
		RecentTransactions: recent,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
