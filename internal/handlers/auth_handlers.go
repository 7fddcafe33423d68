package handlers

import (
	"net/http"

	"adsyclub/internal/common"
	"adsyclub/internal/models"
	"adsyclub/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
	userService services.UserService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, userService services.UserService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userService: userService,
	}
}

func (h *AuthHandlers) RegisterRoutes(g *echo.Group) {
	g.POST("/auth/signup", h.Signup)
	g.POST("/auth/login", h.Login)
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendClientError(c, "Email and password are required")
	}

	user, err := h.userService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "User")
	}
	return h.respondWithToken(c, http.StatusOK, user)
}

// Signup handles user registration. The free subscription is started by the
// user.created event handler.
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.userService.Register(c.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		return respondError(c, err, "User")
	}
	return h.respondWithToken(c, http.StatusCreated, user)
}

func (h *AuthHandlers) respondWithToken(c echo.Context, status int, user *models.User) error {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return respondError(c, err, "User")
	}
	return c.JSON(status, AuthResponse{TokenResponse: *token, User: user})
}
