package services

import (
	"context"
	"fmt"
	"time"

	"realestatecrm/internal/attachments"
	"realestatecrm/internal/filter"
	"realestatecrm/internal/logging"
	"realestatecrm/internal/models"
	"realestatecrm/internal/repositories"
)

// ListingService handles business logic related to listings and their photos.
type ListingService struct {
	repo   repositories.ListingRepository
	files  *attachments.Manager
	events EventPublisher
	log    logging.Logger
}

// NewListingService creates a new ListingService. events may be nil.
func NewListingService(repo repositories.ListingRepository, files *attachments.Manager, events EventPublisher, log logging.Logger) *ListingService {
	return &ListingService{
		repo:   repo,
		files:  files,
		events: events,
		log:    log.With("service", "listings"),
	}
}

// GetAllListings returns the listings matching spec, newest first.
func (s *ListingService) GetAllListings(ctx context.Context, spec filter.Spec) ([]models.Listing, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	listings, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(listings, spec), nil
}

func (s *ListingService) GetListingByID(ctx context.Context, id string) (*models.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateListing validates the input, stores the photos and inserts the
// listing. Photos written before a failed insert are removed again.
func (s *ListingService) CreateListing(ctx context.Context, in models.ListingInput, photos []attachments.File) (*models.Listing, error) {
	listing := in.ToListing()

	preview := *listing
	preview.ApplyCreateDefaults(time.Now().UTC())
	if err := preview.Validate(); err != nil {
		return nil, err
	}

	refs, err := s.files.StoreMany(ctx, attachments.KindPhoto, photos)
	if err != nil {
		return nil, err
	}
	listing.ImageURLs = refs

	if err := s.repo.Create(ctx, listing); err != nil {
		s.files.Delete(context.WithoutCancel(ctx), refs)
		return nil, err
	}

	s.log.Info(ctx, "listing created", "id", listing.ID, "photos", len(refs))
	publish(ctx, s.events, s.log, EventListingCreated, listing)
	return listing, nil
}

// UpdateListing applies patch and appends photos after the existing ones.
func (s *ListingService) UpdateListing(ctx context.Context, id string, patch models.ListingPatch, photos []attachments.File) (*models.Listing, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Reject a bad patch before any photo is written.
	patch.Apply(current)
	if err := current.Validate(); err != nil {
		return nil, err
	}

	if len(photos) > 0 {
		if _, err := s.files.AttachMany(ctx, id, photos); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "listing updated", "id", id, "new_photos", len(photos))
	publish(ctx, s.events, s.log, EventListingUpdated, updated)
	return updated, nil
}

// DeleteListing removes the listing, then its photos. Photo cleanup never
// fails the delete.
func (s *ListingService) DeleteListing(ctx context.Context, id string) error {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", id, err)
	}

	s.files.Delete(context.WithoutCancel(ctx), listing.ImageURLs)
	s.log.Info(ctx, "listing deleted", "id", id, "photos", len(listing.ImageURLs))
	publish(ctx, s.events, s.log, EventListingDeleted, idPayload{ID: id})
	return nil
}
