package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"realestatecrm/internal/common"
	"realestatecrm/internal/models"

	"github.com/google/uuid"
)

// MockClientRepository is an in-memory implementation of ClientRepository.
type MockClientRepository struct {
	clients map[string]models.Client
	mu      sync.RWMutex
}

// NewMockClientRepository creates a new instance of MockClientRepository.
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		clients: make(map[string]models.Client),
	}
}

func (r *MockClientRepository) GetAll(ctx context.Context) ([]models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Client, 0, len(r.clients))
	for _, c := range r.clients {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *MockClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return nil, fmt.Errorf("client with ID %s: %w", id, common.ErrNotFound)
	}
	return &c, nil
}

func (r *MockClientRepository) Create(ctx context.Context, client *models.Client) error {
	client.ID = uuid.New().String()
	client.ApplyCreateDefaults(time.Now().UTC())
	if err := client.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[client.ID] = *client
	return nil
}

func (r *MockClientRepository) Update(ctx context.Context, id string, patch models.ClientPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[id]
	if !ok {
		return fmt.Errorf("client with ID %s: %w", id, common.ErrNotFound)
	}
	patch.Apply(&c)
	c.UpdatedAt = time.Now().UTC()
	if err := c.Validate(); err != nil {
		return err
	}
	r.clients[id] = c
	return nil
}

func (r *MockClientRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[id]; !ok {
		return fmt.Errorf("client with ID %s: %w", id, common.ErrNotFound)
	}
	delete(r.clients, id)
	return nil
}
