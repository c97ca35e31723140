package api

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"xmail/models"
	"xmail/storage"
	"xmail/utils"
)

// AuthHandler serves the register/login backend. It is independent of the
// mail workspace.
type AuthHandler struct {
	users  *storage.UserStorage
	tokens *TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *storage.UserStorage, tokens *TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user and responds 201 with it
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	loc := localizer(c)

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError(utils.T(loc, "error_400"), err)
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return utils.BadRequestError(utils.T(loc, "auth_missing_fields"), nil)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return utils.BadRequestError(utils.T(loc, "error_400"), err)
	}

	user := &models.User{Name: req.Name, Email: req.Email}
	if err := h.users.CreateUser(user, req.Password); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return utils.ConflictError(utils.T(loc, "auth_email_taken"), err)
		}
		return utils.InternalServerError(utils.T(loc, "error_500"), err)
	}

	utils.Log.Info("User registered: %s", user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    publicUser(user),
	})
}

// Login verifies credentials and issues a token
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	loc := localizer(c)

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError(utils.T(loc, "error_400"), err)
	}
	if req.Email == "" || req.Password == "" {
		return utils.BadRequestError(utils.T(loc, "auth_missing_fields"), nil)
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCredentials) {
			return utils.UnauthorizedError(utils.T(loc, "auth_invalid_credentials"), err)
		}
		return utils.InternalServerError(utils.T(loc, "error_500"), err)
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		return utils.InternalServerError(utils.T(loc, "error_500"), err)
	}

	if err := h.users.UpdateLastLogin(user.ID); err != nil {
		utils.Log.Warn("Failed to update last login for %s: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    publicUser(user),
	})
}

// Me returns the user behind the bearer token
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(string)

	user, err := h.users.GetUser(userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return utils.UnauthorizedError(utils.T(localizer(c), "auth_token_required"), err)
		}
		return utils.InternalServerError(utils.T(localizer(c), "error_500"), err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    publicUser(user),
	})
}

// ListUsers returns every registered user without password hashes
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers()
	if err != nil {
		return utils.InternalServerError(utils.T(localizer(c), "error_500"), err)
	}

	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, publicUser(u))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"users":   out,
	})
}

// RequireToken rejects requests without a valid bearer token and stores the
// user id in c.Locals("userId")
func (h *AuthHandler) RequireToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := h.tokens.FromRequest(c)
		if err != nil {
			return utils.UnauthorizedError(utils.T(localizer(c), "auth_token_required"), err)
		}

		c.Locals("userId", claims.Subject)
		return c.Next()
	}
}

func publicUser(u *models.User) models.User {
	out := *u
	out.PasswordHash = ""
	return out
}
