package ledger

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kaymanhq/kayman/internal/storage"
)

// Service implements the bookkeeping operations that span multiple rows:
// payment creation and balance updates.
type Service struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewService(db *storage.Database, log zerolog.Logger) *Service {
	return &Service{
		db:  db.Gorm(),
		log: log.With().Str("component", "ledger").Logger(),
	}
}

// CreatePayment atomically persists a payment header, its entries and
// transactions in submission order, and applies the net balance deltas to
// every referenced account. Any failure rolls the whole unit back; no
// partial payment or balance mutation is ever observable.
func (s *Service) CreatePayment(input CreatePaymentInput) (*storage.Payment, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	payment := storage.Payment{
		Type:        input.Payment.Type,
		Timestamp:   input.Payment.Timestamp,
		Timezone:    input.Payment.Timezone,
		Description: input.Payment.Description,
		Total:       input.Payment.Total,
	}
	if payment.Total == nil {
		switch payment.Type {
		case storage.PaymentTypeExpense, storage.PaymentTypeIncome:
			total := entriesTotal(input.Entries)
			payment.Total = &total
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		if len(input.Entries) > 0 {
			entries := make([]storage.PaymentEntry, len(input.Entries))
			for i, entry := range input.Entries {
				entries[i] = storage.PaymentEntry{
					PaymentID:    payment.ID,
					CategoryID:   entry.CategoryID,
					Amount:       entry.Amount,
					Quantity:     entry.Quantity,
					CurrencyCode: entry.CurrencyCode,
					Description:  entry.Description,
					Index:        i,
				}
			}
			if err := tx.Create(&entries).Error; err != nil {
				return fmt.Errorf("failed to create payment entries: %w", err)
			}
		}

		if len(input.Transactions) > 0 {
			txns := make([]storage.Transaction, len(input.Transactions))
			for i, txn := range input.Transactions {
				record := storage.Transaction{
					PaymentID:    payment.ID,
					AccountID:    txn.AccountID,
					Amount:       txn.Amount,
					Timestamp:    input.Payment.Timestamp,
					Timezone:     input.Payment.Timezone,
					Description:  txn.Description,
					Reconcile:    txn.Reconcile,
					PSPID:        txn.PSPID,
					PSPReconcile: txn.PSPReconcile,
					Index:        i,
				}
				if txn.Timestamp != nil {
					record.Timestamp = *txn.Timestamp
				}
				if txn.Timezone != nil {
					record.Timezone = *txn.Timezone
				}
				txns[i] = record
			}
			if err := tx.Create(&txns).Error; err != nil {
				return fmt.Errorf("failed to create transactions: %w", err)
			}
		}

		if _, err := applyBalanceDeltas(tx, aggregateDeltas(input.Transactions)); err != nil {
			return err
		}

		var full storage.Payment
		err := tx.
			Preload("Entries", func(db *gorm.DB) *gorm.DB {
				return db.Order(`"index"`)
			}).
			Preload("Transactions", func(db *gorm.DB) *gorm.DB {
				return db.Order(`"index"`)
			}).
			First(&full, payment.ID).Error
		if err != nil {
			return fmt.Errorf("failed to read back payment: %w", err)
		}
		payment = full
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("payment_id", payment.ID).
		Str("type", string(payment.Type)).
		Int("entries", len(payment.Entries)).
		Int("transactions", len(payment.Transactions)).
		Msg("payment created")
	return &payment, nil
}

// IsConstraintViolation reports whether err came back from the database
// as an integrity failure: an unknown foreign key (e.g. a category id) or
// a duplicated primary key. Both drivers translate their native errors to
// gorm's sentinels.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey)
}
