package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }
func intptr(n int) *int       { return &n }

func fullInvoiceWrite(number string) InvoiceWrite {
	ts := time.Date(2024, 2, 10, 18, 30, 0, 0, time.UTC)
	return InvoiceWrite{
		Number:      number,
		CardType:    strptr("3J0002"),
		CardNumber:  strptr("/ABC1234"),
		SellerName:  strptr("全聯實業股份有限公司"),
		Status:      strptr("開立"),
		Donatable:   boolptr(false),
		Amount:      strptr("356"),
		Period:      strptr("11302"),
		DonateMark:  intptr(0),
		SellerTaxID: strptr("22555003"),
		Timestamp:   &ts,
	}
}

func TestUpsertInvoices_Create(t *testing.T) {
	db := newTestDB(t)

	result, err := db.UpsertInvoices([]InvoiceWrite{
		fullInvoiceWrite("AB12345678"),
		fullInvoiceWrite("AB12345679"),
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 2)
	assert.Empty(t, result.Updated)
	assert.Equal(t, "AB12345678", result.Created[0].Number)
	assert.Equal(t, "356", result.Created[0].Amount)

	invoices, err := db.ListInvoices()
	require.NoError(t, err)
	assert.Len(t, invoices, 2)
}

func TestUpsertInvoices_CreateRequiresAllFields(t *testing.T) {
	db := newTestDB(t)

	partial := fullInvoiceWrite("AB12345678")
	partial.Status = nil
	_, err := db.UpsertInvoices([]InvoiceWrite{partial})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required fields")
}

func TestUpsertInvoices_UpdateReportsChangedFieldsOnly(t *testing.T) {
	db := newTestDB(t)

	_, err := db.UpsertInvoices([]InvoiceWrite{fullInvoiceWrite("AB12345678")})
	require.NoError(t, err)

	patch := InvoiceWrite{
		Number: "AB12345678",
		Status: strptr("作廢"),
		Amount: strptr("356"), // unchanged, must not be reported
	}
	result, err := db.UpsertInvoices([]InvoiceWrite{patch})
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, map[string]any{
		"number": "AB12345678",
		"status": "作廢",
	}, result.Updated[0])

	invoices, err := db.ListInvoices()
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "作廢", invoices[0].Status)
}

func TestUpsertInvoices_NoChangeNoReport(t *testing.T) {
	db := newTestDB(t)

	write := fullInvoiceWrite("AB12345678")
	_, err := db.UpsertInvoices([]InvoiceWrite{write})
	require.NoError(t, err)

	result, err := db.UpsertInvoices([]InvoiceWrite{write})
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Empty(t, result.Updated)
}

func TestUpsertInvoiceDetails(t *testing.T) {
	db := newTestDB(t)

	_, err := db.UpsertInvoices([]InvoiceWrite{fullInvoiceWrite("AB12345678")})
	require.NoError(t, err)

	result, err := db.UpsertInvoiceDetails("AB12345678", []InvoiceDetailWrite{
		{RowNumber: 1, Description: strptr("牛奶"), Quantity: strptr("2"), UnitPrice: strptr("89"), Amount: strptr("178")},
		{RowNumber: 2, Description: strptr("麵包"), Quantity: strptr("1"), UnitPrice: strptr("178"), Amount: strptr("178")},
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 2)
	assert.Empty(t, result.Updated)

	patched, err := db.UpsertInvoiceDetails("AB12345678", []InvoiceDetailWrite{
		{RowNumber: 2, Amount: strptr("180")},
	})
	require.NoError(t, err)
	assert.Empty(t, patched.Created)
	require.Len(t, patched.Updated, 1)
	assert.Equal(t, map[string]any{
		"invoice_number": "AB12345678",
		"row_number":     2,
		"amount":         "180",
	}, patched.Updated[0])

	details, err := db.ListInvoiceDetails("AB12345678")
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, 1, details[0].RowNumber)
	assert.Equal(t, "180", details[1].Amount)
}

func TestUpsertInvoiceDetails_InvoiceMustExist(t *testing.T) {
	db := newTestDB(t)

	_, err := db.UpsertInvoiceDetails("ZZ00000000", []InvoiceDetailWrite{
		{RowNumber: 1, Description: strptr("牛奶"), Quantity: strptr("1"), UnitPrice: strptr("89"), Amount: strptr("89")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUpsertInvoiceDetails_CreateRequiresAllFields(t *testing.T) {
	db := newTestDB(t)

	_, err := db.UpsertInvoices([]InvoiceWrite{fullInvoiceWrite("AB12345678")})
	require.NoError(t, err)

	_, err = db.UpsertInvoiceDetails("AB12345678", []InvoiceDetailWrite{
		{RowNumber: 1, Description: strptr("牛奶")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required fields")
}

func TestInvoiceCarriers(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.CreateInvoiceCarrier(&InvoiceCarrier{
		Type: "3J0002", Name: "手機條碼", Number: "/ABC1234",
	}))
	require.NoError(t, db.CreateInvoiceCarrier(&InvoiceCarrier{
		Type: "1K0001", Name: "悠遊卡", Number: "1001001000100010",
	}))

	carriers, err := db.ListInvoiceCarriers()
	require.NoError(t, err)
	require.Len(t, carriers, 2)
	assert.Equal(t, "手機條碼", carriers[0].Name)
}
