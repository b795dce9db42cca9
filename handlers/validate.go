package handlers

import (
	"errors"
	"strings"
	"time"

	"stock-analyzer/models"
)

// TransactionInput is the raw ingestion payload. Quantity and Price are
// pointers so "field absent" and "field zero" are distinguishable.
type TransactionInput struct {
	Symbol   string   `json:"symbol"`
	Type     string   `json:"type"`
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
	Date     string   `json:"date"`
}

var (
	errMissingFields = errors.New("All fields required: symbol, type, quantity, price, date")
	errBadType       = errors.New(`Transaction type must be "buy" or "sell"`)
	errNotPositive   = errors.New("Quantity and price must be positive numbers")
	errBadDate       = errors.New("Invalid date format. Use ISO format (YYYY-MM-DDTHH:MM:SS)")
)

// dateLayouts accepts ISO-8601 timestamps with an explicit offset or a
// trailing Z, without any offset, or as a bare date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Validate normalizes and checks the payload, returning the transaction ready
// for the ledger (UserID unset). Nothing is written on failure.
func (in TransactionInput) Validate() (models.Transaction, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	txType := strings.ToLower(in.Type)

	if symbol == "" || txType == "" || in.Quantity == nil || in.Price == nil || in.Date == "" {
		return models.Transaction{}, errMissingFields
	}
	if txType != "buy" && txType != "sell" {
		return models.Transaction{}, errBadType
	}
	if *in.Quantity <= 0 || *in.Price <= 0 {
		return models.Transaction{}, errNotPositive
	}

	date, err := parseTransactionDate(in.Date)
	if err != nil {
		return models.Transaction{}, errBadDate
	}

	return models.Transaction{
		Symbol:   symbol,
		Type:     txType,
		Quantity: *in.Quantity,
		Price:    *in.Price,
		Date:     date,
	}, nil
}

func parseTransactionDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errBadDate
}
