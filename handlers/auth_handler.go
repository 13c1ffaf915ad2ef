package handlers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"

	"github.com/boyuanitsm/fort/config"
	"github.com/boyuanitsm/fort/service"
	"github.com/boyuanitsm/fort/utils"
)

// AuthRequest is the app credential exchange body.
type AuthRequest struct {
	AppKey    string `json:"appKey"`
	AppSecret string `json:"appSecret"`
}

// AuthResponse carries the minted app token.
type AuthResponse struct {
	IDToken string `json:"id_token"`
}

// AuthHandler exchanges appKey/appSecret pairs for JWTs.
type AuthHandler struct {
	config     *config.Config
	appService *service.AppService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, appService *service.AppService) *AuthHandler {
	return &AuthHandler{config: cfg, appService: appService}
}

// Authenticate handles app token request
// POST /api/authenticate
func (h *AuthHandler) Authenticate(c *fiber.Ctx) error {
	var req AuthRequest
	if err := c.BodyParser(&req); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if req.AppKey == "" || req.AppSecret == "" {
		return goerrorkit.NewValidationError("appKey and appSecret are required", nil)
	}

	app, err := h.appService.FindByAppKey(req.AppKey)
	if err != nil {
		return err
	}
	if app == nil || subtle.ConstantTimeCompare([]byte(req.AppSecret), []byte(app.AppSecret)) != 1 {
		return goerrorkit.NewAuthError(401, "app credentials are not valid").WithData(map[string]interface{}{
			"appKey": req.AppKey,
		})
	}

	token, err := utils.GenerateAppToken(app.AppKey, h.config.JWT.Secret, h.config.JWT.Expiration)
	if err != nil {
		return goerrorkit.NewSystemError(err).WithData(map[string]interface{}{
			"appKey": app.AppKey,
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		HTTPOnly: true,
		SameSite: "Strict",
		MaxAge:   int(h.config.JWT.Expiration.Seconds()),
	})
	return c.JSON(AuthResponse{IDToken: token})
}
