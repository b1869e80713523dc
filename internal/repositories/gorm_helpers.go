package repositories

import (
	"errors"
	"fmt"

	"realestatecrm/internal/common"

	"gorm.io/gorm"
)

// notFound maps gorm.ErrRecordNotFound onto common.ErrNotFound and wraps
// anything else as a lookup failure.
func notFound(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s with ID %s: %w", kind, id, common.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s by ID %s: %w", kind, id, err)
}

// writeColumns writes the selected columns of values to the row with the
// given id. A write that touches no row is followed by an existence check:
// if the row is gone it was deleted after the caller read it, which is
// reported as common.ErrConflict.
func writeColumns(tx *gorm.DB, model any, id string, values any, columns []string, kind string) error {
	res := tx.Model(model).Where("id = ?", id).Select(columns).Updates(values)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s %s: %w", kind, id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to recheck %s %s: %w", kind, id, err)
	}
	if count == 0 {
		return fmt.Errorf("%s with ID %s was deleted during update: %w", kind, id, common.ErrConflict)
	}
	return nil
}
