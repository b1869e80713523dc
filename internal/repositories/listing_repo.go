package repositories

import (
	"context"

	"realestatecrm/internal/models"
)

// ListingRepository defines the interface for listing data access.
// GetAll returns listings newest first.
type ListingRepository interface {
	GetAll(ctx context.Context) ([]models.Listing, error)
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, id string, patch models.ListingPatch) (*models.Listing, error)
	AppendImageURLs(ctx context.Context, id string, refs []string) (*models.Listing, error)
	Delete(ctx context.Context, id string) error
}
