package services_test

import (
	"context"
	"testing"

	"realestatecrm/internal/common"
	"realestatecrm/internal/logging"
	"realestatecrm/internal/models"
	"realestatecrm/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClientService_CreateClient(t *testing.T) {
	mockRepo := new(MockClientRepository)
	pub := new(MockPublisher)
	service := services.NewClientService(mockRepo, pub, logging.Discard())

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Client) bool {
		return c.Name == "Olena" && c.Phone == "+380501112233"
	})).Return(nil).Once()
	pub.On("PublishEvent", services.EventClientCreated, mock.Anything).Return(nil).Once()

	client, err := service.CreateClient(context.Background(), models.ClientInput{Name: "Olena", Phone: "+380501112233"})
	require.NoError(t, err)
	assert.Equal(t, "Olena", client.Name)
	mockRepo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestClientService_UpdateClient_Errors(t *testing.T) {
	mockRepo := new(MockClientRepository)
	pub := new(MockPublisher)
	service := services.NewClientService(mockRepo, pub, logging.Discard())
	ctx := context.Background()

	mockRepo.On("Update", mock.Anything, "gone", mock.Anything).Return(common.ErrNotFound).Once()
	mockRepo.On("Update", mock.Anything, "raced", mock.Anything).Return(common.ErrConflict).Once()

	assert.ErrorIs(t, service.UpdateClient(ctx, "gone", models.ClientPatch{}), common.ErrNotFound)
	assert.ErrorIs(t, service.UpdateClient(ctx, "raced", models.ClientPatch{}), common.ErrConflict)
	pub.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything)
}

func TestClientService_DeleteClient(t *testing.T) {
	mockRepo := new(MockClientRepository)
	service := services.NewClientService(mockRepo, nil, logging.Discard())

	mockRepo.On("Delete", mock.Anything, "c1").Return(nil).Once()
	mockRepo.On("Delete", mock.Anything, "c2").Return(common.ErrNotFound).Once()

	assert.NoError(t, service.DeleteClient(context.Background(), "c1"))
	assert.ErrorIs(t, service.DeleteClient(context.Background(), "c2"), common.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
