package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaymanhq/kayman/internal/storage"
)

// PaymentInput is the header of a payment to be created.
type PaymentInput struct {
	Type        storage.PaymentType `json:"type"`
	Timestamp   time.Time           `json:"timestamp"`
	Timezone    string              `json:"timezone"`
	Description string              `json:"description"`
	Total       *decimal.Decimal    `json:"total"`
}

// EntryInput is one line item of a payment to be created. Its position in
// the input slice becomes its sibling index.
type EntryInput struct {
	CategoryID   uint            `json:"category_id"`
	Amount       decimal.Decimal `json:"amount"`
	Quantity     int             `json:"quantity"`
	CurrencyCode string          `json:"currency_code"`
	Description  string          `json:"description"`
}

// TransactionInput is one account-affecting part of a payment to be
// created. Timestamp and timezone default to the payment's when unset.
type TransactionInput struct {
	AccountID    uint            `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Timestamp    *time.Time      `json:"timestamp"`
	Timezone     *string         `json:"timezone"`
	Description  *string         `json:"description"`
	Reconcile    bool            `json:"reconcile"`
	PSPID        *uint           `json:"psp_id"`
	PSPReconcile *bool           `json:"psp_reconcile"`
}

// CreatePaymentInput is the composite request for payment creation.
type CreatePaymentInput struct {
	Payment      PaymentInput       `json:"payment"`
	Entries      []EntryInput       `json:"entries"`
	Transactions []TransactionInput `json:"transactions"`
}

func entriesTotal(entries []EntryInput) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Amount.Mul(decimal.NewFromInt(int64(entry.Quantity))))
	}
	return total
}

func transactionsTotal(txns []TransactionInput) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		total = total.Add(txn.Amount)
	}
	return total
}

// ValidateTotal decides whether the entry and transaction totals of a
// candidate payment are mutually consistent. Pure; nothing is written.
//
// The check is skipped for multi-currency payments and for Transfer and
// Exchange payments, which are manually totaled. Expense requires the
// entries total to equal the negated transactions total; Income requires
// plain equality. All comparisons are exact decimal equality.
func ValidateTotal(input CreatePaymentInput) error {
	currencies := map[string]struct{}{}
	for _, entry := range input.Entries {
		currencies[entry.CurrencyCode] = struct{}{}
	}
	if len(currencies) > 1 {
		return nil
	}

	switch input.Payment.Type {
	case storage.PaymentTypeTransfer, storage.PaymentTypeExchange:
		return nil
	case storage.PaymentTypeExpense:
		et := entriesTotal(input.Entries)
		tt := transactionsTotal(input.Transactions).Neg()
		if !et.Equal(tt) {
			return &TotalMismatchError{EntriesTotal: et, TransactionsTotal: tt}
		}
		return nil
	case storage.PaymentTypeIncome:
		et := entriesTotal(input.Entries)
		tt := transactionsTotal(input.Transactions)
		if !et.Equal(tt) {
			return &TotalMismatchError{EntriesTotal: et, TransactionsTotal: tt}
		}
		return nil
	default:
		return &ValidationError{
			Loc: []any{"body", "payment", "type"},
			Msg: "unknown payment type " + string(input.Payment.Type),
		}
	}
}

// validateInput runs the structural checks that precede any write.
func validateInput(input CreatePaymentInput) error {
	if !input.Payment.Type.Valid() {
		return &ValidationError{
			Loc: []any{"body", "payment", "type"},
			Msg: "unknown payment type " + string(input.Payment.Type),
		}
	}
	if input.Payment.Timestamp.IsZero() {
		return &ValidationError{
			Loc: []any{"body", "payment", "timestamp"},
			Msg: "timestamp is required",
		}
	}
	if _, err := time.LoadLocation(input.Payment.Timezone); err != nil {
		return &ValidationError{
			Loc: []any{"body", "payment", "timezone"},
			Msg: "unknown timezone " + input.Payment.Timezone,
		}
	}
	for i, entry := range input.Entries {
		if entry.Quantity < 1 {
			return &ValidationError{
				Loc: []any{"body", "entries", i, "quantity"},
				Msg: "quantity must be at least 1",
			}
		}
	}
	for i, txn := range input.Transactions {
		if txn.Timezone != nil {
			if _, err := time.LoadLocation(*txn.Timezone); err != nil {
				return &ValidationError{
					Loc: []any{"body", "transactions", i, "timezone"},
					Msg: "unknown timezone " + *txn.Timezone,
				}
			}
		}
	}
	return ValidateTotal(input)
}
