package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/service"
)

// AppHandler serves the /api/security-apps REST surface.
type AppHandler struct {
	appService *service.AppService
}

// NewAppHandler creates a new AppHandler.
func NewAppHandler(appService *service.AppService) *AppHandler {
	return &AppHandler{appService: appService}
}

// Create handles create app request. The appKey and appSecret of a new app
// are generated server-side; values in the body are ignored.
// POST /api/security-apps
func (h *AppHandler) Create(c *fiber.Ctx) error {
	var app models.SecurityApp
	if err := c.BodyParser(&app); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return h.create(c, &app)
}

func (h *AppHandler) create(c *fiber.Ctx, app *models.SecurityApp) error {
	if app.ID != 0 {
		setFailureAlert(c, "securityApp", "idexists")
		return goerrorkit.NewValidationError("a new securityApp cannot already have an ID", map[string]interface{}{
			"id": app.ID,
		})
	}
	if app.AppName == "" {
		setFailureAlert(c, "securityApp", "namerequired")
		return goerrorkit.NewValidationError("securityApp name is required", nil)
	}

	existing, err := h.appService.FindByAppName(app.AppName)
	if err != nil {
		return err
	}
	if existing != nil {
		setFailureAlert(c, "securityApp", "nameexists")
		return goerrorkit.NewValidationError("a securityApp with this name already exists", map[string]interface{}{
			"appName": app.AppName,
		})
	}

	// Credentials are always minted here, never taken from the caller.
	app.AppKey = ""
	app.AppSecret = ""
	app.St = ""

	result, err := h.appService.Save(app)
	if err != nil {
		return err
	}

	id := strconv.FormatInt(result.ID, 10)
	c.Set("Location", "/api/security-apps/"+id)
	setEntityCreationAlert(c, "securityApp", id)
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Update handles update app request; a body without an ID falls back to
// create.
// PUT /api/security-apps
func (h *AppHandler) Update(c *fiber.Ctx) error {
	var app models.SecurityApp
	if err := c.BodyParser(&app); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if app.ID == 0 {
		return h.create(c, &app)
	}

	result, err := h.appService.Save(&app)
	if err != nil {
		return err
	}

	setEntityUpdateAlert(c, "securityApp", strconv.FormatInt(result.ID, 10))
	return c.JSON(result)
}

// GetAll handles list apps request
// GET /api/security-apps?page=&size=
func (h *AppHandler) GetAll(c *fiber.Ctx) error {
	page := parsePageable(c)

	apps, total, err := h.appService.FindAll(page)
	if err != nil {
		return err
	}
	if apps == nil {
		apps = []models.SecurityApp{}
	}

	setPaginationHeaders(c, page, total, "/api/security-apps")
	return c.JSON(apps)
}

// GetOne handles get app request
// GET /api/security-apps/:id
func (h *AppHandler) GetOne(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return goerrorkit.NewValidationError("id is not valid", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	app, err := h.appService.FindOne(id)
	if err != nil {
		return err
	}
	if app == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(app)
}

// Delete handles delete app request
// DELETE /api/security-apps/:id
func (h *AppHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return goerrorkit.NewValidationError("id is not valid", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	if err := h.appService.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return err
	}

	setEntityDeletionAlert(c, "securityApp", strconv.FormatInt(id, 10))
	return c.SendStatus(fiber.StatusOK)
}

// Search handles app search request
// GET /api/_search/security-apps?query=
func (h *AppHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	page := parsePageable(c)

	apps, total, err := h.appService.Search(query, page)
	if err != nil {
		return err
	}
	if apps == nil {
		apps = []models.SecurityApp{}
	}

	setSearchPaginationHeaders(c, query, page, total, "/api/_search/security-apps")
	return c.JSON(apps)
}
