package database

import (
	"stock-analyzer/config"
	"stock-analyzer/models"
)

// ListTransactions returns every transaction belonging to the user, most
// recent transaction date first. The portfolio valuation depends on this
// ordering for its recent-transactions list.
func ListTransactions(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := config.DB.
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&transactions).Error
	return transactions, err
}

// AppendTransaction inserts a validated transaction and assigns its ID.
func AppendTransaction(t *models.Transaction) error {
	return config.DB.Create(t).Error
}

// DeleteAllTransactions removes every transaction owned by the user and
// reports how many rows were deleted. Other users' ledgers are untouched.
func DeleteAllTransactions(userID uint) (int64, error) {
	result := config.DB.Where("user_id = ?", userID).Delete(&models.Transaction{})
	return result.RowsAffected, result.Error
}
