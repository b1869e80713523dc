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

// GORMClientRepository is a GORM implementation of ClientRepository.
type GORMClientRepository struct {
	db *gorm.DB
}

// NewGORMClientRepository creates a new instance of GORMClientRepository.
func NewGORMClientRepository(db *gorm.DB) *GORMClientRepository {
	return &GORMClientRepository{
		db: db,
	}
}

func (r *GORMClientRepository) GetAll(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to get all clients: %w", err)
	}
	return clients, nil
}

func (r *GORMClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "client", id)
	}
	return &client, nil
}

func (r *GORMClientRepository) Create(ctx context.Context, client *models.Client) error {
	client.ID = uuid.New().String()
	client.ApplyCreateDefaults(time.Now().UTC())
	if err := client.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// Update writes the mutable fields of patch. The stored creation timestamp
// is kept even when the payload carries one.
func (r *GORMClientRepository) Update(ctx context.Context, id string, patch models.ClientPatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, "id = ?", id).Error; err != nil {
			return notFound(err, "client", id)
		}

		patch.Apply(&client)
		client.UpdatedAt = time.Now().UTC()
		if err := client.Validate(); err != nil {
			return err
		}
		return writeColumns(tx, &models.Client{}, id, &client, models.ClientMutableColumns, "client")
	})
}

func (r *GORMClientRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Client{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("client with ID %s: %w", id, common.ErrNotFound)
	}
	return nil
}
