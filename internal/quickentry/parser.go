package quickentry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kaymanhq/kayman/internal/storage"
)

// Draft is a payment extracted from a one-line quick-entry message.
type Draft struct {
	Type         storage.PaymentType
	Amount       decimal.Decimal
	Quantity     int
	CurrencyCode string
	Description  string
	AccountID    uint
	CategoryID   uint
}

// Supported forms:
//
//	spent 120 TWD on lunch from account 2 category 5
//	spent 35.50 USD on coffee x2 from account 1 category 3
//	received 1000 TWD for salary into account 2 category 7
//
// Amounts may carry thousands separators ("1,200.50").
var linePattern = regexp.MustCompile(
	`(?i)^(spent|received)\s+([\d,]+(?:\.\d+)?)\s+([A-Za-z]{3})\s+(?:on|for)\s+(.+?)(?:\s+x(\d+))?\s+(?:from|into)\s+account\s+(\d+)\s+category\s+(\d+)\s*$`)

// Parse extracts a payment draft from a quick-entry line.
func Parse(line string) (*Draft, error) {
	matches := linePattern.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return nil, fmt.Errorf("not a valid quick-entry line")
	}

	amountStr := strings.ReplaceAll(matches[2], ",", "")
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}

	quantity := 1
	if matches[5] != "" {
		quantity, err = strconv.Atoi(matches[5])
		if err != nil || quantity < 1 {
			return nil, fmt.Errorf("invalid quantity %q", matches[5])
		}
	}

	accountID, err := strconv.ParseUint(matches[6], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account id: %w", err)
	}
	categoryID, err := strconv.ParseUint(matches[7], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to parse category id: %w", err)
	}

	paymentType := storage.PaymentTypeExpense
	if strings.EqualFold(matches[1], "received") {
		paymentType = storage.PaymentTypeIncome
	}

	return &Draft{
		Type:         paymentType,
		Amount:       amount,
		Quantity:     quantity,
		CurrencyCode: strings.ToUpper(matches[3]),
		Description:  strings.Join(strings.Fields(matches[4]), " "),
		AccountID:    uint(accountID),
		CategoryID:   uint(categoryID),
	}, nil
}
