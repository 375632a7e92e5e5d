package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/unisearch/api/model"
	"github.com/unisearch/api/utils/auth"
	"github.com/unisearch/api/utils/response"
	"gorm.io/gorm"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	db         *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		db:         db,
	}
}

// Required is middleware that requires a valid JWT token.
// On success the authenticated user and profile are stored on the request
// context; there is no process-wide session state.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := m.validateRequest(c)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, err.Error())
		}

		user, err := m.loadUser(c, claims)
		if err != nil {
			return err
		}

		storeUser(c, claims, user)
		return c.Next()
	}
}

// RequireAdmin is middleware that requires a valid token with the admin role
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := m.validateRequest(c)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, err.Error())
		}

		user, err := m.loadUser(c, claims)
		if err != nil {
			return err
		}

		if user.Role != "admin" {
			return response.Forbidden(c, "Admin access required")
		}

		storeUser(c, claims, user)
		return c.Next()
	}
}

func (m *AuthMiddleware) validateRequest(c *fiber.Ctx) (*auth.Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, errMissingToken
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errInvalidFormat
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		return nil, err
	}

	if claims.TokenType != "access" {
		return nil, errInvalidTokenType
	}

	return claims, nil
}

func (m *AuthMiddleware) loadUser(c *fiber.Ctx, claims *auth.Claims) (*model.User, error) {
	var user model.User
	if err := m.db.Preload("Profile").First(&user, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.Unauthorized(c, "User not found")
		}
		return nil, response.InternalServerError(c, "Failed to load user")
	}

	// Check if token version matches
	if user.TokenVersion != claims.TokenVersion {
		return nil, response.Unauthorized(c, "Token has been invalidated")
	}

	return &user, nil
}

func storeUser(c *fiber.Ctx, claims *auth.Claims, user *model.User) {
	c.Locals("user_id", claims.UserID)
	c.Locals("user_email", claims.Email)
	c.Locals("user_role", claims.Role)
	c.Locals("claims", claims)
	c.Locals("user", user)
}

var (
	errMissingToken     = errors.New("Missing authorization token")
	errInvalidFormat    = errors.New("Invalid authorization format")
	errInvalidTokenType = errors.New("Invalid token type")
)

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUser extracts full user object from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *fiber.Ctx) (string, bool) {
	email := c.Locals("user_email")
	if email == nil {
		return "", false
	}
	e, ok := email.(string)
	return e, ok
}
