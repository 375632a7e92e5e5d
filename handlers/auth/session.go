package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/unisearch/api/model"
	"github.com/unisearch/api/utils/middleware"
	"github.com/unisearch/api/utils/response"
)

// Me handles GET /auth/me: session restore on app load. The auth middleware
// has already loaded the user and profile into the request context.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	return response.Success(c, UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Profile:   user.Profile,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
}

// Logout invalidates all of the user's outstanding tokens by bumping the
// token version
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	if err := h.db.Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("token_version", user.TokenVersion+1).Error; err != nil {
		return response.InternalServerError(c, "Failed to log out")
	}

	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a valid refresh token for a new access token
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return response.BadRequest(c, "Refresh token is required")
	}

	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, "Invalid refresh token")
	}

	// The token version must still match the user's current one
	var user model.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		return response.Unauthorized(c, "User not found")
	}
	if user.TokenVersion != claims.TokenVersion {
		return response.Unauthorized(c, "Token has been invalidated")
	}

	accessToken, _, err := h.jwtManager.RefreshAccessToken(req.RefreshToken, user.TokenVersion)
	if err != nil {
		return response.Unauthorized(c, "Invalid refresh token")
	}

	return response.Success(c, fiber.Map{
		"access_token": accessToken,
		"expires_in":   24 * 60 * 60,
	})
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	FullName       string   `json:"full_name" validate:"omitempty,min=2,max=255"`
	EducationLevel string   `json:"education_level" validate:"omitempty,max=100"`
	CurrentGPA     *float64 `json:"current_gpa" validate:"omitempty,gte=0,lte=4"`
}

// UpdateProfile mutates the caller's profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var profile model.Profile
	if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return response.NotFound(c, "Profile not found")
	}

	if req.FullName != "" {
		profile.FullName = req.FullName
	}
	if req.EducationLevel != "" {
		profile.EducationLevel = req.EducationLevel
	}
	if req.CurrentGPA != nil {
		profile.CurrentGPA = *req.CurrentGPA
	}

	if err := h.db.Save(&profile).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.SuccessWithMessage(c, "Profile updated successfully", profile)
}
