package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kaymanhq/kayman/internal/storage"
)

// UpdateBalances applies each signed delta to the corresponding account's
// balance in its own transaction and returns the updated accounts. Used
// for direct balance corrections; payment creation folds the same step
// into its larger transaction.
func (s *Service) UpdateBalances(deltas map[uint]decimal.Decimal) ([]storage.Account, error) {
	var accounts []storage.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		accounts, err = applyBalanceDeltas(tx, deltas)
		return err
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// applyBalanceDeltas runs inside an open transaction. Accounts are read
// with a row-level write lock in ascending id order, so concurrent
// updates against the same accounts serialize instead of losing writes.
func applyBalanceDeltas(tx *gorm.DB, deltas map[uint]decimal.Decimal) ([]storage.Account, error) {
	if len(deltas) == 0 {
		return []storage.Account{}, nil
	}

	ids := make([]uint, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	q := tx
	// SQLite has a single writer and rejects FOR UPDATE.
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var accounts []storage.Account
	if err := q.Where("id IN ?", ids).Order("id").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to read accounts for update: %w", err)
	}

	if len(accounts) != len(ids) {
		found := map[uint]struct{}{}
		for _, account := range accounts {
			found[account.ID] = struct{}{}
		}
		var missing []uint
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, &AccountsNotFoundError{IDs: missing}
	}

	for i := range accounts {
		accounts[i].Balance = accounts[i].Balance.Add(deltas[accounts[i].ID])
	}
	if err := tx.Save(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to update account balances: %w", err)
	}
	return accounts, nil
}

// aggregateDeltas folds a payment's transactions into one net delta per
// account, so each touched account takes one lock and one write.
func aggregateDeltas(txns []TransactionInput) map[uint]decimal.Decimal {
	deltas := make(map[uint]decimal.Decimal, len(txns))
	for _, txn := range txns {
		deltas[txn.AccountID] = deltas[txn.AccountID].Add(txn.Amount)
	}
	return deltas
}
