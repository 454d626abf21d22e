package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentUpdate carries direct field overwrites for a payment header.
// Applying it does not re-run total validation or balance logic.
type PaymentUpdate struct {
	Type        *PaymentType     `json:"type"`
	Timestamp   *time.Time       `json:"timestamp"`
	Timezone    *string          `json:"timezone"`
	Description *string          `json:"description"`
	Total       *decimal.Decimal `json:"total"`
}

func composed(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"index"`)
		}).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"index"`)
		})
}

// GetPayment returns the payment with its entries and transactions
// ordered by their sibling index, or nil when it does not exist.
func (d *Database) GetPayment(id uint) (*Payment, error) {
	var payment Payment
	err := composed(d.db).First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read payment: %w", err)
	}
	return &payment, nil
}

// ListPayments returns composed payments, optionally restricted to a
// calendar date or to payments with at least one entry in the given
// category.
func (d *Database) ListPayments(date *time.Time, categoryID *uint) ([]Payment, error) {
	q := composed(d.db).Order("payment.id").Distinct("payment.*")
	if date != nil {
		day := date.Truncate(24 * time.Hour)
		q = q.Where("payment.timestamp >= ? AND payment.timestamp < ?", day, day.Add(24*time.Hour))
	}
	if categoryID != nil {
		q = q.Joins("JOIN payment_entry ON payment_entry.payment_id = payment.id").
			Where("payment_entry.category_id = ?", *categoryID)
	}
	var payments []Payment
	if err := q.Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (d *Database) UpdatePayment(id uint, update PaymentUpdate) (*Payment, error) {
	var payment Payment
	if err := d.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to read payment: %w", err)
	}
	if update.Type != nil {
		if !update.Type.Valid() {
			return nil, fmt.Errorf("unknown payment type %q", *update.Type)
		}
		payment.Type = *update.Type
	}
	if update.Timestamp != nil {
		payment.Timestamp = *update.Timestamp
	}
	if update.Timezone != nil {
		payment.Timezone = *update.Timezone
	}
	if update.Description != nil {
		payment.Description = *update.Description
	}
	if update.Total != nil {
		payment.Total = update.Total
	}
	if err := d.db.Save(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	return &payment, nil
}

// DeletePayment removes the payment header. Entries, transactions and
// balances are left as they are, matching the historical endpoint.
func (d *Database) DeletePayment(id uint) error {
	res := d.db.Delete(&Payment{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment with id %d not found", id)
	}
	return nil
}
