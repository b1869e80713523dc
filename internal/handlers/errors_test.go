package handlers

import (
	"errors"
	"fmt"
	"testing"

	"realestatecrm/internal/common"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{common.NewValidationError("title", "is required"), fiber.StatusBadRequest},
		{fmt.Errorf("resolve: %w", common.ErrInvalidReference), fiber.StatusBadRequest},
		{common.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{fmt.Errorf("parse: %w", common.ErrInvalidToken), fiber.StatusUnauthorized},
		{fmt.Errorf("listing with ID x: %w", common.ErrNotFound), fiber.StatusNotFound},
		{common.ErrConflict, fiber.StatusConflict},
		{common.ErrDuplicate, fiber.StatusConflict},
		{&common.StorageError{Op: "store", Ref: "a.jpg", Err: errors.New("disk full")}, fiber.StatusInternalServerError},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}
