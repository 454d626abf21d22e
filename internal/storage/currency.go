package storage

import "fmt"

func (d *Database) CreateCurrency(currency *Currency) error {
	if err := d.db.Create(currency).Error; err != nil {
		return fmt.Errorf("failed to create currency: %w", err)
	}
	return nil
}

func (d *Database) ListCurrencies() ([]Currency, error) {
	var currencies []Currency
	if err := d.db.Order("code").Find(&currencies).Error; err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}
