package services

import (
	"context"

	"realestatecrm/internal/logging"
	"realestatecrm/internal/models"
	"realestatecrm/internal/repositories"
)

// ClientService handles business logic related to clients.
type ClientService struct {
	repo   repositories.ClientRepository
	events EventPublisher
	log    logging.Logger
}

func NewClientService(repo repositories.ClientRepository, events EventPublisher, log logging.Logger) *ClientService {
	return &ClientService{
		repo:   repo,
		events: events,
		log:    log.With("service", "clients"),
	}
}

func (s *ClientService) GetAllClients(ctx context.Context) ([]models.Client, error) {
	return s.repo.GetAll(ctx)
}

func (s *ClientService) GetClientByID(ctx context.Context, id string) (*models.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ClientService) CreateClient(ctx context.Context, in models.ClientInput) (*models.Client, error) {
	client := in.ToClient()
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "client created", "id", client.ID)
	publish(ctx, s.events, s.log, EventClientCreated, client)
	return client, nil
}

// UpdateClient writes the patch. A client deleted concurrently reports
// common.ErrConflict.
func (s *ClientService) UpdateClient(ctx context.Context, id string, patch models.ClientPatch) error {
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return err
	}
	s.log.Info(ctx, "client updated", "id", id)
	publish(ctx, s.events, s.log, EventClientUpdated, idPayload{ID: id})
	return nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "client deleted", "id", id)
	publish(ctx, s.events, s.log, EventClientDeleted, idPayload{ID: id})
	return nil
}
