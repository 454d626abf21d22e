package storage

import "fmt"

// ListTransactions returns transactions, optionally filtered by account.
func (d *Database) ListTransactions(accountID *uint) ([]Transaction, error) {
	var txns []Transaction
	q := d.db.Order("id")
	if accountID != nil {
		q = q.Where("account_id = ?", *accountID)
	}
	if err := q.Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}
