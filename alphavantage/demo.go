package alphavantage

// demoQuotes keeps the most-watched tickers usable after the free-tier quota
// runs out. Lookups here never touch the network or the rate limiter. The set
// is a plain map so it can be swapped without touching any call site.
var demoQuotes = map[string]Quote{
	"AAPL":  {Symbol: "AAPL", Price: 175.43, Change: 2.15, ChangePercent: "1.24", Volume: 45678900, LatestTradingDay: "2025-06-11", PreviousClose: 173.28},
	"MSFT":  {Symbol: "MSFT", Price: 412.84, Change: -3.21, ChangePercent: "-0.77", Volume: 28934567, LatestTradingDay: "2025-06-11", PreviousClose: 416.05},
	"GOOGL": {Symbol: "GOOGL", Price: 2734.56, Change: 45.32, ChangePercent: "1.69", Volume: 12456789, LatestTradingDay: "2025-06-11", PreviousClose: 2689.24},
	"AMZN":  {Symbol: "AMZN", Price: 3124.78, Change: -12.45, ChangePercent: "-0.40", Volume: 23456789, LatestTradingDay: "2025-06-11", PreviousClose: 3137.23},
	"TSLA":  {Symbol: "TSLA", Price: 248.92, Change: 8.76, ChangePercent: "3.65", Volume: 67890123, LatestTradingDay: "2025-06-11", PreviousClose: 240.16},
	"META":  {Symbol: "META", Price: 489.67, Change: -7.33, ChangePercent: "-1.47", Volume: 19876543, LatestTradingDay: "2025-06-11", PreviousClose: 497.00},
	"NVDA":  {Symbol: "NVDA", Price: 891.23, Change: 23.45, ChangePercent: "2.70", Volume: 34567890, LatestTradingDay: "2025-06-11", PreviousClose: 867.78},
	"NFLX":  {Symbol: "NFLX", Price: 512.34, Change: 5.67, ChangePercent: "1.12", Volume: 8765432, LatestTradingDay: "2025-06-11", PreviousClose: 506.67},
	"DIS":   {Symbol: "DIS", Price: 98.76, Change: 1.23, ChangePercent: "1.26", Volume: 15432109, LatestTradingDay: "2025-06-11", PreviousClose: 97.53},
	"PYPL":  {Symbol: "PYPL", Price: 67.89, Change: -0.54, ChangePercent: "-0.79", Volume: 12098765, LatestTradingDay: "2025-06-11", PreviousClose: 68.43},
}

// IsDemoSymbol reports whether a symbol is served from the demo dataset.
func IsDemoSymbol(symbol string) bool {
	_, ok := demoQuotes[symbol]
	return ok
}
