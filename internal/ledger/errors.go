package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError is a recoverable input error, reported with the path of
// the offending field.
type ValidationError struct {
	Loc []any
	Msg string
}

func (e *ValidationError) Error() string {
	if len(e.Loc) == 0 {
		return e.Msg
	}
	parts := make([]string, len(e.Loc))
	for i, p := range e.Loc {
		parts[i] = fmt.Sprint(p)
	}
	return fmt.Sprintf("%s: %s", strings.Join(parts, "."), e.Msg)
}

// TotalMismatchError reports a failed accounting-balance check. Both
// computed totals are carried so the caller can see exactly what was
// compared.
type TotalMismatchError struct {
	EntriesTotal      decimal.Decimal
	TransactionsTotal decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("entries total (%s) and transactions total (%s) do not match",
		e.EntriesTotal, e.TransactionsTotal)
}

// AccountsNotFoundError reports exactly which account ids of a balance
// update do not exist. No deltas are applied when it is returned.
type AccountsNotFoundError struct {
	IDs []uint
}

func (e *AccountsNotFoundError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("account id(s) not found: %s", strings.Join(ids, ", "))
}
