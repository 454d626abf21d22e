package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// AccountUpdate carries the fields a client may change on an account. The
// currency is fixed at creation and the balance only moves through the
// ledger, so neither appears here.
type AccountUpdate struct {
	Name *string `json:"name"`
}

func (d *Database) CreateAccount(account *Account) error {
	if err := d.db.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (d *Database) GetAccount(id uint) (*Account, error) {
	var account Account
	if err := d.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read account: %w", err)
	}
	return &account, nil
}

// ListAccounts returns all accounts, or only the given ids when provided.
func (d *Database) ListAccounts(ids []uint) ([]Account, error) {
	var accounts []Account
	q := d.db.Order("id")
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	if err := q.Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccounts applies updates pairwise to the accounts named by ids.
// The two slices must have the same length; a mismatch is a programming
// error and fails before touching the database.
func (d *Database) UpdateAccounts(ids []uint, updates []AccountUpdate) ([]Account, error) {
	if len(ids) != len(updates) {
		return nil, fmt.Errorf("ids and updates must have the same length: %d != %d", len(ids), len(updates))
	}

	accounts := make([]Account, 0, len(ids))
	err := d.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			var account Account
			if err := tx.First(&account, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("account with id %d not found: %w", id, err)
				}
				return err
			}
			if updates[i].Name != nil {
				account.Name = *updates[i].Name
			}
			if err := tx.Save(&account).Error; err != nil {
				return err
			}
			accounts = append(accounts, account)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}
