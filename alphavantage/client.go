// Package alphavantage wraps the Alpha Vantage HTTP API behind a client that
// enforces the free-tier rate limit (5 requests per minute) and falls back to
// a static demo dataset for a fixed set of well-known symbols.
package alphavantage

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	baseURL = "https://www.alphavantage.co/query"

	// 12 seconds between requests keeps us under 5 requests/minute.
	rateLimitDelay = 12 * time.Second
)

// Quote is a normalized real-time quote.
type Quote struct {
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	Change           float64 `json:"change"`
	ChangePercent    string  `json:"change_percent"`
	Volume           int64   `json:"volume"`
	LatestTradingDay string  `json:"latest_trading_day"`
	PreviousClose    float64 `json:"previous_close"`
}

// DailyBar is one day of OHLCV data. Date is the upstream YYYY-MM-DD string.
type DailyBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// CompanyOverview carries company fundamentals. Numeric-looking fields stay
// strings because the upstream sends them that way ("None" included).
type CompanyOverview struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Sector        string `json:"sector"`
	Industry      string `json:"industry"`
	MarketCap     string `json:"market_cap"`
	PERatio       string `json:"pe_ratio"`
	DividendYield string `json:"dividend_yield"`
	Description   string `json:"description"`
}

// SearchMatch is one symbol-search result.
type SearchMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Region   string `json:"region"`
	Currency string `json:"currency"`
}

// Client is the single point of contact with Alpha Vantage. The mutex is held
// for the whole of each request, wait included, so concurrent callers are
// strictly serialized at >= rateLimitDelay spacing instead of racing on the
// last-request timestamp.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client

	mu          sync.Mutex
	lastRequest time.Time
	delay       time.Duration

	// Injectable clock for tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient builds a client using the ALPHA_VANTAGE_API_KEY environment
// variable.
func NewClient() *Client {
	return &Client{
		apiKey:  os.Getenv("ALPHA_VANTAGE_API_KEY"),
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		delay:   rateLimitDelay,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// makeRequest performs one rate-limited GET and returns the raw body, or nil
// on any transport or status failure. Quota errors and genuine outages are
// indistinguishable here; both collapse to nil for the caller.
func (c *Client) makeRequest(params url.Values) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elapsed := c.now().Sub(c.lastRequest); elapsed < c.delay {
		c.sleep(c.delay - elapsed)
	}

	params.Set("apikey", c.apiKey)
	resp, err := c.httpc.Get(c.baseURL + "?" + params.Encode())
	c.lastRequest = c.now()
	if err != nil {
		log.WithError(err).Errorln("alphavantage request failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithFields(log.Fields{
			"status": resp.StatusCode,
		}).Errorln("alphavantage returned non-200 status")
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Errorln("failed to read alphavantage response")
		return nil
	}
	return body
}

type globalQuoteEnvelope struct {
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
		Change           string `json:"09. change"`
		ChangePercent    string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// GetStockQuote fetches a real-time quote. Symbols in the demo set return
// static data without touching the network or the throttle; for everything
// else a missing envelope means "not found or API limit reached" and yields
// nil.
func (c *Client) GetStockQuote(symbol string) *Quote {
	symbol = strings.ToUpper(symbol)

	if quote, ok := demoQuotes[symbol]; ok {
		log.WithFields(log.Fields{"symbol": symbol}).Debugln("serving demo quote")
		q := quote
		return &q
	}

	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)

	body := c.makeRequest(params)
	if body == nil {
		return nil
	}

	var envelope globalQuoteEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.WithError(err).Errorln("failed to parse quote response")
		return nil
	}
	quote := envelope.GlobalQuote
	if quote.Price == "" {
		log.WithFields(log.Fields{"symbol": symbol}).Warnln("no quote data returned")
		return nil
	}

	return &Quote{
		Symbol:           quote.Symbol,
		Price:            parseFloat(quote.Price),
		Change:           parseFloat(quote.Change),
		ChangePercent:    strings.TrimSuffix(quote.ChangePercent, "%"),
		Volume:           parseInt(quote.Volume),
		LatestTradingDay: quote.LatestTradingDay,
		PreviousClose:    parseFloat(quote.PreviousClose),
	}
}

type timeSeriesEnvelope struct {
	TimeSeriesDaily map[string]struct {
		Open   string `json:"1. open"`
		High   string `json:"2. high"`
		Low    string `json:"3. low"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
}

// GetDailyData fetches daily bars, most recent first. outputsize is "compact"
// (last 100 days) or "full" (20+ years).
func (c *Client) GetDailyData(symbol, outputsize string) []DailyBar {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", outputsize)

	body := c.makeRequest(params)
	if body == nil {
		return nil
	}

	var envelope timeSeriesEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.WithError(err).Errorln("failed to parse time series response")
		return nil
	}
	if len(envelope.TimeSeriesDaily) == 0 {
		log.WithFields(log.Fields{"symbol": symbol}).Warnln("no time series data returned")
		return nil
	}

	bars := make([]DailyBar, 0, len(envelope.TimeSeriesDaily))
	for date, values := range envelope.TimeSeriesDaily {
		bars = append(bars, DailyBar{
			Date:   date,
			Open:   parseFloat(values.Open),
			High:   parseFloat(values.High),
			Low:    parseFloat(values.Low),
			Close:  parseFloat(values.Close),
			Volume: parseInt(values.Volume),
		})
	}

	// ISO dates, so a plain string sort is date-correct.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date > bars[j].Date })

	return bars
}

type overviewEnvelope struct {
	Symbol        string `json:"Symbol"`
	Name          string `json:"Name"`
	Sector        string `json:"Sector"`
	Industry      string `json:"Industry"`
	MarketCap     string `json:"MarketCapitalization"`
	PERatio       string `json:"PERatio"`
	DividendYield string `json:"DividendYield"`
	Description   string `json:"Description"`
}

// GetCompanyOverview fetches company fundamentals, or nil when the upstream
// doesn't know the symbol.
func (c *Client) GetCompanyOverview(symbol string) *CompanyOverview {
	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", symbol)

	body := c.makeRequest(params)
	if body == nil {
		return nil
	}

	var envelope overviewEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.WithError(err).Errorln("failed to parse overview response")
		return nil
	}
	if envelope.Symbol == "" {
		log.WithFields(log.Fields{"symbol": symbol}).Warnln("no overview data returned")
		return nil
	}

	return &CompanyOverview{
		Symbol:        envelope.Symbol,
		Name:          envelope.Name,
		Sector:        envelope.Sector,
		Industry:      envelope.Industry,
		MarketCap:     envelope.MarketCap,
		PERatio:       envelope.PERatio,
		DividendYield: envelope.DividendYield,
		Description:   envelope.Description,
	}
}

type searchEnvelope struct {
	BestMatches []struct {
		Symbol   string `json:"1. symbol"`
		Name     string `json:"2. name"`
		Type     string `json:"3. type"`
		Region   string `json:"4. region"`
		Currency string `json:"8. currency"`
	} `json:"bestMatches"`
}

// SearchStocks searches symbols by keywords, capped at the top 10 matches.
func (c *Client) SearchStocks(keywords string) []SearchMatch {
	params := url.Values{}
	params.Set("function", "SYMBOL_SEARCH")
	params.Set("keywords", keywords)

	body := c.makeRequest(params)
	if body == nil {
		return []SearchMatch{}
	}

	var envelope searchEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.WithError(err).Errorln("failed to parse search response")
		return []SearchMatch{}
	}

	matches := envelope.BestMatches
	if len(matches) > 10 {
		matches = matches[:10]
	}

	results := make([]SearchMatch, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchMatch{
			Symbol:   m.Symbol,
			Name:     m.Name,
			Type:     m.Type,
			Region:   m.Region,
			Currency: m.Currency,
		})
	}
	return results
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
