package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/flowbit/flowbit-api/internal/api/dto"
	"github.com/flowbit/flowbit-api/internal/auth"
	"github.com/flowbit/flowbit-api/internal/registry"
	"github.com/flowbit/flowbit-api/internal/service"
	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

// AuthHandler exposes registration, login and profile endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	screens *registry.ScreenRegistry
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, screens *registry.ScreenRegistry) *AuthHandler {
	return &AuthHandler{auth: authService, screens: screens}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" || req.CustomerID == "" {
		return apperrors.NewValidationError("email, password, customerId required", nil)
	}

	user, token, _, err := h.auth.Register(c.Context(), service.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		CustomerID: req.CustomerID,
		Role:       req.Role,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    dto.NewUserResponse(user),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    dto.NewUserResponse(user),
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("access token required")
	}
	user, err := h.auth.Profile(c.Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Screens handles GET /auth/me/screens. The list comes from a static
// registry keyed by the caller's tenant.
func (h *AuthHandler) Screens(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("access token required")
	}
	return c.JSON(dto.ScreensResponse{Screens: h.screens.ScreensFor(claims.CustomerID)})
}
