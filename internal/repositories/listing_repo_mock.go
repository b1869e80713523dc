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

// MockListingRepository is an in-memory implementation of ListingRepository.
type MockListingRepository struct {
	listings map[string]models.Listing
	mu       sync.RWMutex
}

// NewMockListingRepository creates a new instance of MockListingRepository.
func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{
		listings: make(map[string]models.Listing),
	}
}

// GetAll returns all listings, newest first.
func (r *MockListingRepository) GetAll(ctx context.Context) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		list = append(list, cloneListing(l))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *MockListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing with ID %s: %w", id, common.ErrNotFound)
	}
	c := cloneListing(l)
	return &c, nil
}

func (r *MockListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	listing.ID = uuid.New().String()
	listing.ApplyCreateDefaults(time.Now().UTC())
	if err := listing.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[listing.ID] = cloneListing(*listing)
	return nil
}

func (r *MockListingRepository) Update(ctx context.Context, id string, patch models.ListingPatch) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing with ID %s: %w", id, common.ErrNotFound)
	}
	updated := cloneListing(current)
	patch.Apply(&updated)
	updated.UpdatedAt = time.Now().UTC()
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	r.listings[id] = updated
	out := cloneListing(updated)
	return &out, nil
}

func (r *MockListingRepository) AppendImageURLs(ctx context.Context, id string, refs []string) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing with ID %s: %w", id, common.ErrNotFound)
	}
	updated := cloneListing(current)
	if len(refs) > 0 {
		updated.ImageURLs = append(updated.ImageURLs, refs...)
		updated.UpdatedAt = time.Now().UTC()
		r.listings[id] = updated
	}
	out := cloneListing(updated)
	return &out, nil
}

func (r *MockListingRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return fmt.Errorf("listing with ID %s: %w", id, common.ErrNotFound)
	}
	delete(r.listings, id)
	return nil
}

func cloneListing(l models.Listing) models.Listing {
	urls := make([]string, len(l.ImageURLs))
	copy(urls, l.ImageURLs)
	l.ImageURLs = urls
	return l
}
