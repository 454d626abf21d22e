package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// InvoiceWrite is an upsert request for one invoice. Nil fields are
// treated as unset: they do not overwrite stored values, and a new
// invoice cannot be created from a partial write.
type InvoiceWrite struct {
	Number        string     `json:"number"`
	CardType      *string    `json:"card_type"`
	CardNumber    *string    `json:"card_number"`
	SellerName    *string    `json:"seller_name"`
	Status        *string    `json:"status"`
	Donatable     *bool      `json:"donatable"`
	Amount        *string    `json:"amount"`
	Period        *string    `json:"period"`
	DonateMark    *int       `json:"donate_mark"`
	SellerTaxID   *string    `json:"seller_tax_id"`
	SellerAddress *string    `json:"seller_address"`
	BuyerTaxID    *string    `json:"buyer_tax_id"`
	Currency      *string    `json:"currency"`
	Timestamp     *time.Time `json:"timestamp"`
}

// InvoiceWriteResult reports the outcome of a batch upsert. Created
// invoices carry all fields; updated ones carry only the fields that
// actually changed, keyed by their JSON names plus the number.
type InvoiceWriteResult struct {
	Created []Invoice        `json:"created"`
	Updated []map[string]any `json:"updated"`
}

func (w *InvoiceWrite) toInvoice() (*Invoice, error) {
	if w.CardType == nil || w.CardNumber == nil || w.SellerName == nil ||
		w.Status == nil || w.Donatable == nil || w.Amount == nil ||
		w.Period == nil || w.DonateMark == nil || w.SellerTaxID == nil ||
		w.Timestamp == nil {
		return nil, fmt.Errorf("invoice %s is missing required fields for creation", w.Number)
	}
	return &Invoice{
		Number:        w.Number,
		CardType:      *w.CardType,
		CardNumber:    *w.CardNumber,
		SellerName:    *w.SellerName,
		Status:        *w.Status,
		Donatable:     *w.Donatable,
		Amount:        *w.Amount,
		Period:        *w.Period,
		DonateMark:    *w.DonateMark,
		SellerTaxID:   *w.SellerTaxID,
		SellerAddress: w.SellerAddress,
		BuyerTaxID:    w.BuyerTaxID,
		Currency:      w.Currency,
		Timestamp:     *w.Timestamp,
	}, nil
}

// diff applies set fields of w onto inv and returns the changed fields.
func (w *InvoiceWrite) diff(inv *Invoice) map[string]any {
	modified := map[string]any{}
	setString := func(key string, val *string, field *string) {
		if val != nil && *field != *val {
			*field = *val
			modified[key] = *val
		}
	}
	setOptString := func(key string, val *string, field **string) {
		if val != nil && (*field == nil || **field != *val) {
			*field = val
			modified[key] = *val
		}
	}
	setString("card_type", w.CardType, &inv.CardType)
	setString("card_number", w.CardNumber, &inv.CardNumber)
	setString("seller_name", w.SellerName, &inv.SellerName)
	setString("status", w.Status, &inv.Status)
	setString("amount", w.Amount, &inv.Amount)
	setString("period", w.Period, &inv.Period)
	setString("seller_tax_id", w.SellerTaxID, &inv.SellerTaxID)
	setOptString("seller_address", w.SellerAddress, &inv.SellerAddress)
	setOptString("buyer_tax_id", w.BuyerTaxID, &inv.BuyerTaxID)
	setOptString("currency", w.Currency, &inv.Currency)
	if w.Donatable != nil && inv.Donatable != *w.Donatable {
		inv.Donatable = *w.Donatable
		modified["donatable"] = *w.Donatable
	}
	if w.DonateMark != nil && inv.DonateMark != *w.DonateMark {
		inv.DonateMark = *w.DonateMark
		modified["donate_mark"] = *w.DonateMark
	}
	if w.Timestamp != nil && !inv.Timestamp.Equal(*w.Timestamp) {
		inv.Timestamp = *w.Timestamp
		modified["timestamp"] = *w.Timestamp
	}
	return modified
}

// UpsertInvoices creates missing invoices and patches existing ones,
// reporting which is which.
func (d *Database) UpsertInvoices(writes []InvoiceWrite) (*InvoiceWriteResult, error) {
	result := &InvoiceWriteResult{
		Created: []Invoice{},
		Updated: []map[string]any{},
	}
	for _, write := range writes {
		var existing Invoice
		err := d.db.First(&existing, "number = ?", write.Number).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			inv, convErr := write.toInvoice()
			if convErr != nil {
				return nil, convErr
			}
			if err := d.db.Create(inv).Error; err != nil {
				return nil, fmt.Errorf("failed to create invoice %s: %w", write.Number, err)
			}
			result.Created = append(result.Created, *inv)
		case err != nil:
			return nil, fmt.Errorf("failed to read invoice %s: %w", write.Number, err)
		default:
			modified := write.diff(&existing)
			if len(modified) == 0 {
				continue
			}
			if err := d.db.Save(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to update invoice %s: %w", write.Number, err)
			}
			modified["number"] = write.Number
			result.Updated = append(result.Updated, modified)
		}
	}
	return result, nil
}

func (d *Database) ListInvoices() ([]Invoice, error) {
	var invoices []Invoice
	if err := d.db.Order("number").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// InvoiceDetailWrite is an upsert request for one invoice detail row.
type InvoiceDetailWrite struct {
	RowNumber   int     `json:"row_number"`
	Description *string `json:"description"`
	Quantity    *string `json:"quantity"`
	UnitPrice   *string `json:"unit_price"`
	Amount      *string `json:"amount"`
}

// InvoiceDetailWriteResult mirrors InvoiceWriteResult for detail rows.
type InvoiceDetailWriteResult struct {
	Created []InvoiceDetail  `json:"created"`
	Updated []map[string]any `json:"updated"`
}

// UpsertInvoiceDetails creates or patches detail rows of one invoice.
// The invoice must exist.
func (d *Database) UpsertInvoiceDetails(number string, writes []InvoiceDetailWrite) (*InvoiceDetailWriteResult, error) {
	var invoice Invoice
	if err := d.db.First(&invoice, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invoice %s not found", number)
		}
		return nil, fmt.Errorf("failed to read invoice %s: %w", number, err)
	}

	result := &InvoiceDetailWriteResult{
		Created: []InvoiceDetail{},
		Updated: []map[string]any{},
	}
	for _, write := range writes {
		var existing InvoiceDetail
		err := d.db.First(&existing, "invoice_number = ? AND row_number = ?", number, write.RowNumber).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if write.Description == nil || write.Quantity == nil ||
				write.UnitPrice == nil || write.Amount == nil {
				return nil, fmt.Errorf("invoice detail %s/%d is missing required fields for creation", number, write.RowNumber)
			}
			detail := InvoiceDetail{
				InvoiceNumber: number,
				RowNumber:     write.RowNumber,
				Description:   *write.Description,
				Quantity:      *write.Quantity,
				UnitPrice:     *write.UnitPrice,
				Amount:        *write.Amount,
			}
			if err := d.db.Create(&detail).Error; err != nil {
				return nil, fmt.Errorf("failed to create invoice detail %s/%d: %w", number, write.RowNumber, err)
			}
			result.Created = append(result.Created, detail)
		case err != nil:
			return nil, fmt.Errorf("failed to read invoice detail %s/%d: %w", number, write.RowNumber, err)
		default:
			modified := map[string]any{}
			set := func(key string, val *string, field *string) {
				if val != nil && *field != *val {
					*field = *val
					modified[key] = *val
				}
			}
			set("description", write.Description, &existing.Description)
			set("quantity", write.Quantity, &existing.Quantity)
			set("unit_price", write.UnitPrice, &existing.UnitPrice)
			set("amount", write.Amount, &existing.Amount)
			if len(modified) == 0 {
				continue
			}
			if err := d.db.Save(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to update invoice detail %s/%d: %w", number, write.RowNumber, err)
			}
			modified["invoice_number"] = number
			modified["row_number"] = write.RowNumber
			result.Updated = append(result.Updated, modified)
		}
	}
	return result, nil
}

func (d *Database) ListInvoiceDetails(number string) ([]InvoiceDetail, error) {
	var details []InvoiceDetail
	err := d.db.Where("invoice_number = ?", number).Order("row_number").Find(&details).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice details: %w", err)
	}
	return details, nil
}

func (d *Database) CreateInvoiceCarrier(carrier *InvoiceCarrier) error {
	if err := d.db.Create(carrier).Error; err != nil {
		return fmt.Errorf("failed to create invoice carrier: %w", err)
	}
	return nil
}

func (d *Database) ListInvoiceCarriers() ([]InvoiceCarrier, error) {
	var carriers []InvoiceCarrier
	if err := d.db.Order("id").Find(&carriers).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoice carriers: %w", err)
	}
	return carriers, nil
}
