package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"

	"github.com/boyuanitsm/fort/config"
	"github.com/boyuanitsm/fort/middleware"
	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/service"
)

// SDKAuthRequest is the end-user login body SDK clients send.
type SDKAuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// SDKAuthResponse carries the authenticated user and their surrogate token.
type SDKAuthResponse struct {
	User             *models.SecurityUser `json:"user"`
	St               string               `json:"st"`
	TokenOverdueTime time.Time            `json:"tokenOverdueTime"`
}

// SDKHandler serves the /api/sdk surface consumed by client SDKs embedded in
// tenant apps. Every route requires resolved app credentials.
type SDKHandler struct {
	config          *config.Config
	userService     *service.UserService
	roleService     *service.RoleService
	resourceService *service.ResourceService
}

// NewSDKHandler creates a new SDKHandler.
func NewSDKHandler(cfg *config.Config, userService *service.UserService, roleService *service.RoleService, resourceService *service.ResourceService) *SDKHandler {
	return &SDKHandler{
		config:          cfg,
		userService:     userService,
		roleService:     roleService,
		resourceService: resourceService,
	}
}

// Authenticate handles end-user login on behalf of the calling app
// POST /api/sdk/authentication
func (h *SDKHandler) Authenticate(c *fiber.Ctx) error {
	app, ok := middleware.CurrentApp(c)
	if !ok {
		return goerrorkit.NewAuthError(401, "app credentials were not provided")
	}

	var req SDKAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if req.Login == "" || req.Password == "" {
		return goerrorkit.NewValidationError("login and password are required", nil)
	}

	user, st, err := h.userService.Authenticate(app, req.Login, req.Password, c.IP(), c.Get("User-Agent"), h.config.JWT.Expiration)
	if err != nil {
		return err
	}

	return c.JSON(SDKAuthResponse{
		User:             user,
		St:               st,
		TokenOverdueTime: time.Now().Add(h.config.JWT.Expiration),
	})
}

// GetResources handles list resources of the calling app
// GET /api/sdk/resources
func (h *SDKHandler) GetResources(c *fiber.Ctx) error {
	app, ok := middleware.CurrentApp(c)
	if !ok {
		return goerrorkit.NewAuthError(401, "app credentials were not provided")
	}

	resources, err := h.resourceService.FindAllByAppKey(app.AppKey)
	if err != nil {
		return err
	}
	if resources == nil {
		resources = []models.SecurityResourceEntity{}
	}
	return c.JSON(resources)
}

// GetRoles handles list roles of the calling app
// GET /api/sdk/roles
func (h *SDKHandler) GetRoles(c *fiber.Ctx) error {
	app, ok := middleware.CurrentApp(c)
	if !ok {
		return goerrorkit.NewAuthError(401, "app credentials were not provided")
	}

	roles, err := h.roleService.FindAllByAppKey(app.AppKey)
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []models.SecurityRole{}
	}
	return c.JSON(roles)
}
