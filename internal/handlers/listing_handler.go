package handlers

import (
	"realestatecrm/internal/filter"
	"realestatecrm/internal/logging"
	"realestatecrm/internal/models"
	"realestatecrm/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ListingHandler handles HTTP requests for listings.
type ListingHandler struct {
	service *services.ListingService
	log     logging.Logger
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *services.ListingService, log logging.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the listing routes with the Fiber app.
func (h *ListingHandler) RegisterRoutes(router fiber.Router) {
	listingRoutes := router.Group("/listings")
	listingRoutes.Get("/", h.HandleGetListings)
	listingRoutes.Get("/:id", h.HandleGetListingByID)
	listingRoutes.Post("/", h.HandleCreateListing)
	listingRoutes.Put("/:id", h.HandleUpdateListing)
	listingRoutes.Delete("/:id", h.HandleDeleteListing)
}

// HandleGetListings returns listings newest first, narrowed by the query
// parameters search, city, minPrice, maxPrice, minArea, maxArea and status.
func (h *ListingHandler) HandleGetListings(c *fiber.Ctx) error {
	spec, err := filter.ParseSpec(func(key string) string { return c.Query(key) })
	if err != nil {
		return respondError(c, h.log, "Invalid filter", err)
	}

	listings, err := h.service.GetAllListings(c.UserContext(), spec)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve listings", err)
	}
	return c.JSON(listings)
}

func (h *ListingHandler) HandleGetListingByID(c *fiber.Ctx) error {
	listing, err := h.service.GetListingByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve listing", err)
	}
	return c.JSON(listing)
}

// HandleCreateListing accepts multipart fields plus "photos" files, or a
// JSON body without photos.
func (h *ListingHandler) HandleCreateListing(c *fiber.Ctx) error {
	var in models.ListingInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	photos, err := formFiles(c, "photos")
	if err != nil {
		return badRequest(c, "Invalid photo upload", err)
	}

	listing, err := h.service.CreateListing(c.UserContext(), in, photos)
	if err != nil {
		return respondError(c, h.log, "Could not create listing", err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// HandleUpdateListing applies the posted fields. New photos are appended to
// the existing ones.
func (h *ListingHandler) HandleUpdateListing(c *fiber.Ctx) error {
	var patch models.ListingPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	photos, err := formFiles(c, "photos")
	if err != nil {
		return badRequest(c, "Invalid photo upload", err)
	}

	listing, err := h.service.UpdateListing(c.UserContext(), c.Params("id"), patch, photos)
	if err != nil {
		return respondError(c, h.log, "Could not update listing", err)
	}
	return c.JSON(listing)
}

func (h *ListingHandler) HandleDeleteListing(c *fiber.Ctx) error {
	if err := h.service.DeleteListing(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, "Could not delete listing", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
