package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// CategoryUpdate carries the fields a client may change on a category.
type CategoryUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ParentID    *uint   `json:"parent_id"`
	Disabled    *bool   `json:"disabled"`
}

func (d *Database) CreateCategory(category *Category) error {
	if err := d.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (d *Database) GetCategory(id uint) (*Category, error) {
	var category Category
	err := d.db.Preload("Children").First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read category: %w", err)
	}
	return &category, nil
}

// ListRootCategories returns top-level categories with their direct
// children nested. One level of nesting is what the tree uses in
// practice.
func (d *Database) ListRootCategories() ([]Category, error) {
	var categories []Category
	err := d.db.
		Where("parent_id IS NULL").
		Preload("Children").
		Order("id").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (d *Database) UpdateCategory(id uint, update CategoryUpdate) (*Category, error) {
	var category Category
	if err := d.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category with id %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to read category: %w", err)
	}
	if update.Name != nil {
		category.Name = *update.Name
	}
	if update.Description != nil {
		category.Description = *update.Description
	}
	if update.ParentID != nil {
		category.ParentID = update.ParentID
	}
	if update.Disabled != nil {
		category.Disabled = *update.Disabled
	}
	if err := d.db.Save(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &category, nil
}
