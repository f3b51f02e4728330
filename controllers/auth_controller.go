package controller

import (
	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fieldpulse/config"
	"fieldpulse/models"
	"fieldpulse/utils"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=agent manager"`
	Region   string `json:"region" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	// Stricter format check than the struct tag; agents log in with
	// this address from the field app.
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", err)
	}

	var existingUser models.User
	if err := config.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Email already registered", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleAgent
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         optionalString(req.Name),
		Role:         role,
		Region:       req.Region,
		IsActive:     true,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create user", err)
	}

	accessToken, refreshToken, err := issueSession(c, &user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate tokens", err)
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         &user,
	})
}

// optionalString keeps omitted optional fields NULL instead of storing a
// pointer to the empty string.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return utils.Pointer(s)
}

// issueSession generates a token pair and records the refresh token so
// the session can be revoked later.
func issueSession(c *fiber.Ctx, user *models.User) (string, string, error) {
	accessToken, refreshToken, err := utils.GenerateJWTToken(user)
	if err != nil {
		return "", "", err
	}
	if err := utils.StoreRefreshToken(user, refreshToken, c.Get(fiber.HeaderUserAgent), c.IP()); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", nil)
	}

	if !user.IsActive {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Account is not active", nil)
	}

	accessToken, refreshToken, err := issueSession(c, &user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate tokens", err)
	}

	return c.JSON(AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         &user,
	})
}

func RefreshToken(c *fiber.Ctx) error {
	var req RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	accessToken, refreshToken, err := utils.RefreshTokens(req.RefreshToken, c.Get(fiber.HeaderUserAgent), c.IP())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", err)
	}

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Logout revokes every outstanding token for the account: stored refresh
// sessions are marked revoked and the token version is bumped.
func Logout(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if err := utils.RevokeRefreshTokens(user.ID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to log out", err)
	}
	if err := config.DB.Model(user).Update("token_version", user.TokenVersion+1).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to log out", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"message": "Logged out"}))
}

func ChangePassword(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Current password is incorrect", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password", err)
	}

	updates := map[string]interface{}{
		"password_hash": string(hashedPassword),
		"token_version": user.TokenVersion + 1, // force re-login everywhere
	}
	if err := config.DB.Model(user).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update password", err)
	}
	if err := utils.RevokeRefreshTokens(user.ID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update password", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"message": "Password updated"}))
}

func GetCurrentUser(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return c.JSON(utils.SuccessResponse(user))
}
