package storage

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedPayment writes a payment with one entry and one transaction
// directly, bypassing the ledger's validation and balance logic.
func seedPayment(t *testing.T, db *Database, ts time.Time, categoryID, accountID uint, amount string) Payment {
	t.Helper()
	total := decimal.RequireFromString(amount)
	payment := Payment{
		Type:      PaymentTypeExpense,
		Timestamp: ts,
		Timezone:  "UTC",
		Total:     &total,
	}
	require.NoError(t, db.Gorm().Create(&payment).Error)
	require.NoError(t, db.Gorm().Create(&PaymentEntry{
		PaymentID:    payment.ID,
		CategoryID:   categoryID,
		Amount:       total,
		Quantity:     1,
		CurrencyCode: "USD",
		Index:        0,
	}).Error)
	require.NoError(t, db.Gorm().Create(&Transaction{
		PaymentID: payment.ID,
		AccountID: accountID,
		Amount:    total.Neg(),
		Timestamp: ts,
		Timezone:  "UTC",
		Index:     0,
	}).Error)
	return payment
}

func paymentFixtures(t *testing.T, db *Database) (Category, Category, Account) {
	t.Helper()
	seedCurrency(t, db, "USD")
	food := Category{Name: "Food"}
	require.NoError(t, db.CreateCategory(&food))
	transport := Category{Name: "Transport"}
	require.NoError(t, db.CreateCategory(&transport))
	account := Account{Name: "Checking", CurrencyCode: "USD", Balance: decimal.Zero}
	require.NoError(t, db.CreateAccount(&account))
	return food, transport, account
}

func TestGetPayment(t *testing.T) {
	db := newTestDB(t)
	food, _, account := paymentFixtures(t, db)

	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	seeded := seedPayment(t, db, ts, food.ID, account.ID, "42")

	got, err := db.GetPayment(seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, PaymentTypeExpense, got.Type)
	require.Len(t, got.Entries, 1)
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, "42", got.Entries[0].Amount.String())

	missing, err := db.GetPayment(999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListPayments_Filters(t *testing.T) {
	db := newTestDB(t)
	food, transport, account := paymentFixtures(t, db)

	day1 := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)
	p1 := seedPayment(t, db, day1, food.ID, account.ID, "10")
	p2 := seedPayment(t, db, day1, transport.ID, account.ID, "20")
	p3 := seedPayment(t, db, day2, food.ID, account.ID, "30")

	all, err := db.ListPayments(nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, p1.ID, all[0].ID)
	require.Len(t, all[0].Entries, 1)

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	onDay, err := db.ListPayments(&date, nil)
	require.NoError(t, err)
	require.Len(t, onDay, 2)
	assert.Equal(t, p1.ID, onDay[0].ID)
	assert.Equal(t, p2.ID, onDay[1].ID)

	byCategory, err := db.ListPayments(nil, &food.ID)
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	assert.Equal(t, p1.ID, byCategory[0].ID)
	assert.Equal(t, p3.ID, byCategory[1].ID)

	both, err := db.ListPayments(&date, &transport.ID)
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, p2.ID, both[0].ID)
}

func TestUpdatePayment(t *testing.T) {
	db := newTestDB(t)
	food, _, account := paymentFixtures(t, db)

	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	seeded := seedPayment(t, db, ts, food.ID, account.ID, "42")

	desc := "groceries"
	total := decimal.RequireFromString("45")
	updated, err := db.UpdatePayment(seeded.ID, PaymentUpdate{
		Description: &desc,
		Total:       &total,
	})
	require.NoError(t, err)
	assert.Equal(t, "groceries", updated.Description)
	require.NotNil(t, updated.Total)
	assert.Equal(t, "45", updated.Total.String())
	assert.Equal(t, PaymentTypeExpense, updated.Type)

	bad := PaymentType("Refund")
	_, err = db.UpdatePayment(seeded.ID, PaymentUpdate{Type: &bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown payment type")

	_, err = db.UpdatePayment(999, PaymentUpdate{Description: &desc})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDeletePayment(t *testing.T) {
	db := newTestDB(t)
	food, _, account := paymentFixtures(t, db)

	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	bare := Payment{Type: PaymentTypeExpense, Timestamp: ts, Timezone: "UTC"}
	require.NoError(t, db.Gorm().Create(&bare).Error)
	require.NoError(t, db.DeletePayment(bare.ID))

	err := db.DeletePayment(bare.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// A payment still referenced by entries and transactions cannot go.
	referenced := seedPayment(t, db, ts, food.ID, account.ID, "42")
	assert.Error(t, db.DeletePayment(referenced.ID))
}

func TestListTransactions(t *testing.T) {
	db := newTestDB(t)
	food, _, account := paymentFixtures(t, db)
	other := Account{Name: "Savings", CurrencyCode: "USD", Balance: decimal.Zero}
	require.NoError(t, db.CreateAccount(&other))

	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	seedPayment(t, db, ts, food.ID, account.ID, "10")
	seedPayment(t, db, ts, food.ID, other.ID, "20")

	all, err := db.ListTransactions(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := db.ListTransactions(&account.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, account.ID, mine[0].AccountID)
	assert.Equal(t, "-10", mine[0].Amount.String())
}
