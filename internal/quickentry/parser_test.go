package quickentry

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaymanhq/kayman/internal/storage"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		line string
		want Draft
	}{
		{
			name: "expense",
			line: "spent 120 TWD on lunch from account 2 category 5",
			want: Draft{
				Type:         storage.PaymentTypeExpense,
				Amount:       mustDecimal(t, "120"),
				Quantity:     1,
				CurrencyCode: "TWD",
				Description:  "lunch",
				AccountID:    2,
				CategoryID:   5,
			},
		},
		{
			name: "expense with quantity",
			line: "spent 35.50 USD on coffee x2 from account 1 category 3",
			want: Draft{
				Type:         storage.PaymentTypeExpense,
				Amount:       mustDecimal(t, "35.50"),
				Quantity:     2,
				CurrencyCode: "USD",
				Description:  "coffee",
				AccountID:    1,
				CategoryID:   3,
			},
		},
		{
			name: "income",
			line: "received 1000 TWD for salary into account 2 category 7",
			want: Draft{
				Type:         storage.PaymentTypeIncome,
				Amount:       mustDecimal(t, "1000"),
				Quantity:     1,
				CurrencyCode: "TWD",
				Description:  "salary",
				AccountID:    2,
				CategoryID:   7,
			},
		},
		{
			name: "thousands separator",
			line: "spent 1,200.50 JPY on flights from account 4 category 9",
			want: Draft{
				Type:         storage.PaymentTypeExpense,
				Amount:       mustDecimal(t, "1200.50"),
				Quantity:     1,
				CurrencyCode: "JPY",
				Description:  "flights",
				AccountID:    4,
				CategoryID:   9,
			},
		},
		{
			name: "mixed case and padding",
			line: "  Spent 10 usd on  late night  snacks from account 1 category 2  ",
			want: Draft{
				Type:         storage.PaymentTypeExpense,
				Amount:       mustDecimal(t, "10"),
				Quantity:     1,
				CurrencyCode: "USD",
				Description:  "late night snacks",
				AccountID:    1,
				CategoryID:   2,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft, err := Parse(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want.Type, draft.Type)
			assert.True(t, tc.want.Amount.Equal(draft.Amount), "amount %s", draft.Amount)
			assert.Equal(t, tc.want.Quantity, draft.Quantity)
			assert.Equal(t, tc.want.CurrencyCode, draft.CurrencyCode)
			assert.Equal(t, tc.want.Description, draft.Description)
			assert.Equal(t, tc.want.AccountID, draft.AccountID)
			assert.Equal(t, tc.want.CategoryID, draft.CategoryID)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	lines := []string{
		"",
		"!balances",
		"hello there",
		"spent lots TWD on lunch from account 2 category 5",
		"spent 120 TWD on lunch from account two category 5",
		"spent 120 TWD on lunch from account 2",
	}
	for _, line := range lines {
		_, err := Parse(line)
		assert.Error(t, err, "line %q", line)
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
