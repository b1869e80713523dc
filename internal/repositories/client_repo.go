package repositories

import (
	"context"

	"realestatecrm/internal/models"
)

// ClientRepository defines the interface for client data access.
// GetAll returns clients newest first.
type ClientRepository interface {
	GetAll(ctx context.Context) ([]models.Client, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, id string, patch models.ClientPatch) error
	Delete(ctx context.Context, id string) error
}
