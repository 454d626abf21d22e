package storage

import "fmt"

func (d *Database) CreatePSP(psp *PSP) error {
	if err := d.db.Create(psp).Error; err != nil {
		return fmt.Errorf("failed to create psp: %w", err)
	}
	return nil
}

func (d *Database) ListPSPs() ([]PSP, error) {
	var psps []PSP
	if err := d.db.Order("id").Find(&psps).Error; err != nil {
		return nil, fmt.Errorf("failed to list psps: %w", err)
	}
	return psps, nil
}
