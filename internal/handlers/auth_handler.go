package handlers

import (
	"errors"
	"time"

	"realestatecrm/internal/common"
	"realestatecrm/internal/logging"
	"realestatecrm/internal/models"
	"realestatecrm/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	log         logging.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    models.Validator(),
		log:         log,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/upload-avatar", h.HandleUploadAvatar)
}

// RegisterRequest is the register body. Older clients send the raw password
// as "passwordHash".
type RegisterRequest struct {
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	PasswordHash string      `json:"passwordHash"`
	FullName     string      `json:"fullName"`
	Role         models.Role `json:"role"`
}

func (r RegisterRequest) input() models.RegisterInput {
	password := r.Password
	if password == "" {
		password = r.PasswordHash
	}
	return models.RegisterInput{
		Email:    r.Email,
		Password: password,
		FullName: r.FullName,
		Role:     r.Role,
	}
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	user, err := h.authService.RegisterUser(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, h.log, "Registration failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email        string `json:"email" validate:"required"`
	Password     string `json:"password" validate:"required_without=PasswordHash"`
	PasswordHash string `json:"passwordHash"`
}

// HandleLogin checks the credentials and returns the profile with a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		errorMessages := make(map[string]string)
		if errors.As(err, &fieldErrs) {
			for _, e := range fieldErrs {
				errorMessages[e.Field()] = "failed on the '" + e.Tag() + "' tag"
			}
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	password := req.Password
	if password == "" {
		password = req.PasswordHash
	}

	user, err := h.authService.LoginUser(c.UserContext(), req.Email, password)
	if err != nil {
		return respondError(c, h.log, "Authentication failed", err)
	}

	token, expires, err := h.authService.IssueToken(user)
	if err != nil {
		return respondError(c, h.log, "Could not issue token", err)
	}

	return c.JSON(fiber.Map{
		"message":   "Login successful",
		"user":      user,
		"token":     token,
		"expiresAt": expires.UTC().Format(time.RFC3339),
	})
}

// HandleUploadAvatar replaces the avatar of the user named by the "login"
// form field with the posted "file".
func (h *AuthHandler) HandleUploadAvatar(c *fiber.Ctx) error {
	login := c.FormValue("login")
	if login == "" {
		return respondError(c, h.log, "Invalid avatar upload", common.NewValidationError("login", "is required"))
	}

	files, err := formFiles(c, "file")
	if err != nil {
		return badRequest(c, "Invalid avatar upload", err)
	}
	if len(files) == 0 || len(files[0].Data) == 0 {
		return respondError(c, h.log, "Invalid avatar upload", common.NewValidationError("file", "is required"))
	}

	user, err := h.authService.SetAvatar(c.UserContext(), login, files[0])
	if err != nil {
		return respondError(c, h.log, "Could not update avatar", err)
	}
	return c.JSON(user)
}
