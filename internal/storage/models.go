package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType is the closed set of payment kinds. Validation rules in the
// ledger package dispatch on it.
type PaymentType string

const (
	PaymentTypeExpense  PaymentType = "Expense"
	PaymentTypeIncome   PaymentType = "Income"
	PaymentTypeTransfer PaymentType = "Transfer"
	PaymentTypeExchange PaymentType = "Exchange"
)

// Valid reports whether t is one of the known payment types.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeExpense, PaymentTypeIncome, PaymentTypeTransfer, PaymentTypeExchange:
		return true
	}
	return false
}

// Currency is immutable reference data keyed by its ISO-style code.
type Currency struct {
	Code   string `gorm:"primaryKey;type:varchar(8)" json:"code"`
	Name   string `gorm:"not null" json:"name"`
	Symbol string `gorm:"not null" json:"symbol"`
}

func (Currency) TableName() string { return "currency" }

// Account holds a balance in a single currency. The balance is only ever
// mutated through the ledger balance update, never recomputed from
// transaction history.
type Account struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	CurrencyCode string          `gorm:"type:varchar(8);not null" json:"currency_code"`
	Balance      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"balance"`

	Currency *Currency `gorm:"foreignKey:CurrencyCode;references:Code" json:"-"`
}

func (Account) TableName() string { return "account" }

// Category is a self-referential tree. Children are resolved by querying
// parent_id, not by walking object references.
type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	ParentID    *uint  `gorm:"index" json:"parent_id"`
	Disabled    bool   `gorm:"not null;default:false" json:"disabled"`

	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (Category) TableName() string { return "category" }

// Payment is a single financial event. Entries describe what it was for,
// transactions describe which account balances it moved. The three row
// sets are created together in one database transaction.
type Payment struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Type        PaymentType      `gorm:"type:varchar(16);not null" json:"type"`
	Timestamp   time.Time        `gorm:"not null" json:"timestamp"`
	Timezone    string           `gorm:"not null" json:"timezone"`
	Description string           `json:"description"`
	Total       *decimal.Decimal `gorm:"type:decimal(20,4)" json:"total"`

	Entries      []PaymentEntry `gorm:"foreignKey:PaymentID" json:"entries,omitempty"`
	Transactions []Transaction  `gorm:"foreignKey:PaymentID" json:"transactions,omitempty"`
}

func (Payment) TableName() string { return "payment" }

// PaymentEntry is a line item of a payment. Index is the zero-based
// position within the owning payment, unique among siblings.
type PaymentEntry struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID    uint            `gorm:"not null;uniqueIndex:uq_payment_entry_index" json:"payment_id"`
	CategoryID   uint            `gorm:"not null" json:"category_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	CurrencyCode string          `gorm:"type:varchar(8);not null" json:"currency_code"`
	Description  string          `json:"description"`
	Index        int             `gorm:"column:index;not null;uniqueIndex:uq_payment_entry_index" json:"index"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
	Currency *Currency `gorm:"foreignKey:CurrencyCode;references:Code" json:"-"`
}

func (PaymentEntry) TableName() string { return "payment_entry" }

// Transaction is the ledger-affecting component of a payment: a signed
// delta applied to one account's balance.
type Transaction struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID    uint            `gorm:"not null;uniqueIndex:uq_transaction_index" json:"payment_id"`
	AccountID    uint            `gorm:"not null;index" json:"account_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Timestamp    time.Time       `gorm:"not null" json:"timestamp"`
	Timezone     string          `gorm:"not null" json:"timezone"`
	Description  *string         `json:"description"`
	Reconcile    bool            `gorm:"not null;default:false" json:"reconcile"`
	PSPID        *uint           `gorm:"column:psp_id" json:"psp_id"`
	PSPReconcile *bool           `gorm:"column:psp_reconcile" json:"psp_reconcile"`
	Index        int             `gorm:"column:index;not null;uniqueIndex:uq_transaction_index" json:"index"`

	Account *Account `gorm:"foreignKey:AccountID" json:"-"`
	PSP     *PSP     `gorm:"foreignKey:PSPID" json:"-"`
}

func (Transaction) TableName() string { return "transaction" }

// PSP is a payment service provider, attachable to transactions for
// reconciliation against external statements.
type PSP struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

func (PSP) TableName() string { return "payment_service_providers" }

// Invoice is a replica of a Taiwan e-invoice record from the MOF
// platform, keyed by the invoice number.
type Invoice struct {
	Number        string    `gorm:"primaryKey" json:"number"`
	CardType      string    `gorm:"not null" json:"card_type"`
	CardNumber    string    `gorm:"not null" json:"card_number"`
	SellerName    string    `gorm:"not null" json:"seller_name"`
	Status        string    `gorm:"not null" json:"status"`
	Donatable     bool      `gorm:"not null" json:"donatable"`
	Amount        string    `gorm:"not null" json:"amount"`
	Period        string    `gorm:"not null" json:"period"`
	DonateMark    int       `gorm:"not null" json:"donate_mark"`
	SellerTaxID   string    `gorm:"not null" json:"seller_tax_id"`
	SellerAddress *string   `json:"seller_address"`
	BuyerTaxID    *string   `json:"buyer_tax_id"`
	Currency      *string   `json:"currency"`
	Timestamp     time.Time `gorm:"not null" json:"timestamp"`

	Details []InvoiceDetail `gorm:"foreignKey:InvoiceNumber" json:"details,omitempty"`
}

func (Invoice) TableName() string { return "invoice" }

// InvoiceDetail is one row of an invoice.
type InvoiceDetail struct {
	InvoiceNumber string `gorm:"primaryKey" json:"invoice_number"`
	RowNumber     int    `gorm:"primaryKey;autoIncrement:false" json:"row_number"`
	Description   string `gorm:"not null" json:"description"`
	Quantity      string `gorm:"not null" json:"quantity"`
	UnitPrice     string `gorm:"not null" json:"unit_price"`
	Amount        string `gorm:"not null" json:"amount"`
}

func (InvoiceDetail) TableName() string { return "invoice_detail" }

// InvoiceCarrier identifies an e-invoice carrier (card or mobile barcode)
// registered with the MOF platform.
type InvoiceCarrier struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Type   string `gorm:"not null" json:"type"`
	Name   string `gorm:"not null" json:"name"`
	Number string `gorm:"not null" json:"number"`
}

func (InvoiceCarrier) TableName() string { return "invoice_carrier" }
