package repositories

import (
	"context"
	"fmt"
	"time"

	"realestatecrm/internal/common"
	"realestatecrm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMListingRepository is a GORM implementation of ListingRepository.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{
		db: db,
	}
}

// GetAll retrieves all listings, most recently created first.
func (r *GORMListingRepository) GetAll(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get all listings: %w", err)
	}
	return listings, nil
}

// GetByID retrieves a single listing by its ID.
func (r *GORMListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "listing", id)
	}
	return &listing, nil
}

// Create assigns the ID and creation timestamp, validates and inserts the listing.
func (r *GORMListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	listing.ID = uuid.New().String()
	listing.ApplyCreateDefaults(time.Now().UTC())
	if err := listing.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Update applies patch to the mutable columns of the listing. created_at is
// never part of the write.
func (r *GORMListingRepository) Update(ctx context.Context, id string, patch models.ListingPatch) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&listing, "id = ?", id).Error; err != nil {
			return notFound(err, "listing", id)
		}

		patch.Apply(&listing)
		listing.UpdatedAt = time.Now().UTC()
		if err := listing.Validate(); err != nil {
			return err
		}
		return writeColumns(tx, &models.Listing{}, id, &listing, models.ListingMutableColumns, "listing")
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// AppendImageURLs adds refs to the end of the listing's photo list.
func (r *GORMListingRepository) AppendImageURLs(ctx context.Context, id string, refs []string) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&listing, "id = ?", id).Error; err != nil {
			return notFound(err, "listing", id)
		}
		if len(refs) == 0 {
			return nil
		}

		listing.ImageURLs = append(listing.ImageURLs, refs...)
		listing.UpdatedAt = time.Now().UTC()
		return writeColumns(tx, &models.Listing{}, id, &listing, []string{"image_urls", "updated_at"}, "listing")
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Delete deletes a listing by its ID.
func (r *GORMListingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Listing{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("listing with ID %s: %w", id, common.ErrNotFound)
	}
	return nil
}
