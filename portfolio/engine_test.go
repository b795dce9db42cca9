package portfolio

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"stock-analyzer/models"
)

// tx builds a ledger entry; ids and dates only matter for ordering, so they
// are derived from the call sequence by the caller.
func tx(id uint, symbol, txType string, quantity int, price float64) models.Transaction {
	return models.Transaction{
		ID:       id,
		UserID:   1,
		Symbol:   symbol,
		Type:     txType,
		Quantity: quantity,
		Price:    price,
		Date:     time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC).Add(-time.Duration(id) * 24 * time.Hour),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func noPrices(string) (float64, bool) { return 0, false }

func fixedPrices(prices map[string]float64) PriceLookup {
	return func(symbol string) (float64, bool) {
		p, ok := prices[symbol]
		return p, ok
	}
}

func TestFoldHoldings_NonProportionalSell(t *testing.T) {
	// One buy of 10 @ $100 then one sell of 4 @ $120. The sell subtracts its
	// full 4×120 from the cost basis, not a pro-rated share: cost ends at
	// 1000 - 480 = 520, not 600.
	holdings := FoldHoldings([]models.Transaction{
		tx(2, "AAPL", "sell", 4, 120),
		tx(1, "AAPL", "buy", 10, 100),
	})

	if len(holdings) != 1 {
		t.Fatalf("FoldHoldings() returned %d holdings, want 1", len(holdings))
	}
	h := holdings[0]
	if h.Quantity != 6 {
		t.Errorf("Quantity = %d, want 6", h.Quantity)
	}
	if !almostEqual(h.TotalCost, 520) {
		t.Errorf("TotalCost = %v, want 520", h.TotalCost)
	}
	if len(h.Transactions) != 2 {
		t.Errorf("transaction history has %d entries, want 2", len(h.Transactions))
	}

	v := Compute([]models.Transaction{
		tx(2, "AAPL", "sell", 4, 120),
		tx(1, "AAPL", "buy", 10, 100),
	}, noPrices)
	if got := v.Holdings[0].AvgCost; !almostEqual(got, 86.67) {
		t.Errorf("AvgCost = %v, want 86.67", got)
	}
}

func TestFoldHoldings_PreservesInputOrder(t *testing.T) {
	holdings := FoldHoldings([]models.Transaction{
		tx(3, "MSFT", "buy", 1, 400),
		tx(2, "AAPL", "buy", 1, 170),
		tx(1, "MSFT", "buy", 2, 390),
	})

	if len(holdings) != 2 {
		t.Fatalf("FoldHoldings() returned %d holdings, want 2", len(holdings))
	}
	if holdings[0].Symbol != "MSFT" || holdings[1].Symbol != "AAPL" {
		t.Errorf("holding order = [%s %s], want [MSFT AAPL]", holdings[0].Symbol, holdings[1].Symbol)
	}
	if holdings[0].Quantity != 3 {
		t.Errorf("MSFT quantity = %d, want 3", holdings[0].Quantity)
	}
}

func TestCompute_OversoldPositionExcluded(t *testing.T) {
	testCases := []struct {
		name         string
		transactions []models.Transaction
	}{
		{
			name: "fully sold down",
			transactions: []models.Transaction{
				tx(2, "TSLA", "sell", 10, 250),
				tx(1, "TSLA", "buy", 10, 200),
			},
		},
		{
			name: "oversold below zero",
			transactions: []models.Transaction{
				tx(2, "TSLA", "sell", 15, 250),
				tx(1, "TSLA", "buy", 10, 200),
			},
		},
		{
			name: "large historical activity netting to zero",
			transactions: []models.Transaction{
				tx(4, "TSLA", "sell", 500, 260),
				tx(3, "TSLA", "buy", 300, 240),
				tx(2, "TSLA", "sell", 300, 220),
				tx(1, "TSLA", "buy", 500, 210),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := Compute(tc.transactions, fixedPrices(map[string]float64{"TSLA": 248.92}))
			if len(v.Holdings) != 0 {
				t.Errorf("Holdings has %d rows, want 0", len(v.Holdings))
			}
			if v.Summary.PositionsCount != 0 {
				t.Errorf("PositionsCount = %d, want 0", v.Summary.PositionsCount)
			}
			// The dropped position's cost basis is discarded, not carried
			// into the summary.
			if v.Summary.TotalCost != 0 {
				t.Errorf("TotalCost = %v, want 0", v.Summary.TotalCost)
			}
		})
	}
}

func TestCompute_GainLossPercentZeroGuard(t *testing.T) {
	// Sells exceeding the buy cost leave a positive quantity with a negative
	// cost basis. gain_loss_percent must be 0, never a division blow-up.
	v := Compute([]models.Transaction{
		tx(2, "NVDA", "sell", 5, 900),
		tx(1, "NVDA", "buy", 10, 400),
	}, fixedPrices(map[string]float64{"NVDA": 891.23}))

	if len(v.Holdings) != 1 {
		t.Fatalf("Holdings has %d rows, want 1", len(v.Holdings))
	}
	h := v.Holdings[0]
	if h.TotalCost >= 0 {
		t.Fatalf("TotalCost = %v, expected negative for this scenario", h.TotalCost)
	}
	if h.GainLossPercent != 0 {
		t.Errorf("GainLossPercent = %v, want 0 for non-positive cost basis", h.GainLossPercent)
	}
	if v.Summary.TotalGainLossPercent != 0 {
		t.Errorf("Summary.TotalGainLossPercent = %v, want 0", v.Summary.TotalGainLossPercent)
	}
}

func TestCompute_MissingPriceValuesAtZero(t *testing.T) {
	v := Compute([]models.Transaction{
		tx(1, "OBSCURE", "buy", 5, 10),
	}, noPrices)

	h := v.Holdings[0]
	if h.CurrentPrice != 0 || h.CurrentValue != 0 {
		t.Errorf("CurrentPrice/CurrentValue = %v/%v, want 0/0", h.CurrentPrice, h.CurrentValue)
	}
	if !almostEqual(h.GainLoss, -50) {
		t.Errorf("GainLoss = %v, want -50", h.GainLoss)
	}
}

func TestCompute_CostBasisIdentity(t *testing.T) {
	// For any transaction set, the summary's total cost must equal the sum
	// over active holdings of (buys - sells) in quantity×price terms.
	transactions := []models.Transaction{
		tx(7, "AAPL", "buy", 3, 180),
		tx(6, "MSFT", "sell", 2, 420),
		tx(5, "AAPL", "sell", 1, 175),
		tx(4, "MSFT", "buy", 5, 400),
		tx(3, "DIS", "sell", 4, 99),
		tx(2, "DIS", "buy", 4, 95),
		tx(1, "AAPL", "buy", 2, 160),
	}

	byHand := map[string]float64{}
	net := map[string]int{}
	for _, tr := range transactions {
		if tr.Type == "buy" {
			byHand[tr.Symbol] += float64(tr.Quantity) * tr.Price
			net[tr.Symbol] += tr.Quantity
		} else {
			byHand[tr.Symbol] -= float64(tr.Quantity) * tr.Price
			net[tr.Symbol] -= tr.Quantity
		}
	}
	var want float64
	for symbol, cost := range byHand {
		if net[symbol] > 0 {
			want += cost
		}
	}

	v := Compute(transactions, noPrices)
	if !almostEqual(v.Summary.TotalCost, math.Round(want*100)/100) {
		t.Errorf("Summary.TotalCost = %v, want %v", v.Summary.TotalCost, want)
	}
	// DIS netted to zero and must not appear.
	for _, h := range v.Holdings {
		if h.Symbol == "DIS" {
			t.Errorf("DIS appears in holdings despite net quantity 0")
		}
	}
}

func TestCompute_SummaryAggregation(t *testing.T) {
	prices := map[string]float64{"AAPL": 175.43, "MSFT": 412.84}
	v := Compute([]models.Transaction{
		tx(2, "MSFT", "buy", 2, 400),
		tx(1, "AAPL", "buy", 10, 150),
	}, fixedPrices(prices))

	wantValue := 10*175.43 + 2*412.84
	wantCost := 10*150.0 + 2*400.0
	wantGain := wantValue - wantCost

	if !almostEqual(v.Summary.TotalValue, math.Round(wantValue*100)/100) {
		t.Errorf("TotalValue = %v, want %v", v.Summary.TotalValue, wantValue)
	}
	if !almostEqual(v.Summary.TotalCost, wantCost) {
		t.Errorf("TotalCost = %v, want %v", v.Summary.TotalCost, wantCost)
	}
	if !almostEqual(v.Summary.TotalGainLoss, math.Round(wantGain*100)/100) {
		t.Errorf("TotalGainLoss = %v, want %v", v.Summary.TotalGainLoss, wantGain)
	}
	wantPercent := math.Round(wantGain/wantCost*100*100) / 100
	if !almostEqual(v.Summary.TotalGainLossPercent, wantPercent) {
		t.Errorf("TotalGainLossPercent = %v, want %v", v.Summary.TotalGainLossPercent, wantPercent)
	}
	if v.Summary.PositionsCount != 2 {
		t.Errorf("PositionsCount = %d, want 2", v.Summary.PositionsCount)
	}
}

func TestCompute_RecentTransactionsCapped(t *testing.T) {
	var transactions []models.Transaction
	for i := 0; i < 12; i++ {
		transactions = append(transactions, tx(uint(i+1), fmt.Sprintf("S%d", i%3), "buy", 1, 10))
	}

	v := Compute(transactions, noPrices)
	if len(v.RecentTransactions) != 10 {
		t.Fatalf("RecentTransactions has %d entries, want 10", len(v.RecentTransactions))
	}
	// Input order (most recent first) is preserved, independent of grouping.
	for i, tr := range v.RecentTransactions {
		if tr.ID != transactions[i].ID {
			t.Errorf("RecentTransactions[%d].ID = %d, want %d", i, tr.ID, transactions[i].ID)
		}
	}
}

func TestCompute_EmptyPortfolioMarshalsEmptyLists(t *testing.T) {
	// Clients iterate holdings and recent_transactions directly, so an empty
	// portfolio must serialize them as [] rather than null.
	for _, transactions := range [][]models.Transaction{
		nil,
		{},
		{
			// Every position sold down leaves no active holdings either.
			tx(2, "AAPL", "sell", 10, 170),
			tx(1, "AAPL", "buy", 10, 150),
		},
	} {
		v := Compute(transactions, noPrices)
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal() failed: %v", err)
		}
		if !strings.Contains(string(data), `"holdings":[]`) {
			t.Errorf("marshaled valuation = %s, want \"holdings\":[]", data)
		}
		if strings.Contains(string(data), `"recent_transactions":null`) {
			t.Errorf("marshaled valuation = %s, recent_transactions must not be null", data)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	transactions := []models.Transaction{
		tx(3, "AAPL", "buy", 3, 180),
		tx(2, "MSFT", "buy", 5, 400),
		tx(1, "AAPL", "buy", 2, 160),
	}
	lookup := fixedPrices(map[string]float64{"AAPL": 175.43, "MSFT": 412.84})

	first := Compute(transactions, lookup)
	for i := 0; i < 20; i++ {
		again := Compute(transactions, lookup)
		if len(again.Holdings) != len(first.Holdings) {
			t.Fatalf("holding count changed between runs")
		}
		for j := range again.Holdings {
			if again.Holdings[j] != first.Holdings[j] {
				t.Fatalf("Holdings[%d] differs between runs: %+v vs %+v", j, again.Holdings[j], first.Holdings[j])
			}
		}
	}
}
