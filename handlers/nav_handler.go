package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/middleware"
	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/service"
)

// NavHandler serves the /api/security-navs REST surface.
type NavHandler struct {
	navService *service.NavService
}

// NewNavHandler creates a new NavHandler.
func NewNavHandler(navService *service.NavService) *NavHandler {
	return &NavHandler{navService: navService}
}

// Create handles create nav request
// POST /api/security-navs
func (h *NavHandler) Create(c *fiber.Ctx) error {
	var nav models.SecurityNav
	if err := c.BodyParser(&nav); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return h.create(c, &nav)
}

func (h *NavHandler) create(c *fiber.Ctx, nav *models.SecurityNav) error {
	if nav.ID != 0 {
		setFailureAlert(c, "securityNav", "idexists")
		return goerrorkit.NewValidationError("a new securityNav cannot already have an ID", map[string]interface{}{
			"id": nav.ID,
		})
	}
	if nav.Name == "" {
		setFailureAlert(c, "securityNav", "namerequired")
		return goerrorkit.NewValidationError("securityNav name is required", nil)
	}

	app, _ := middleware.CurrentApp(c)
	result, err := h.navService.Save(service.NewRequestContext(app), nav)
	if err != nil {
		return err
	}

	id := strconv.FormatInt(result.ID, 10)
	c.Set("Location", "/api/security-navs/"+id)
	setEntityCreationAlert(c, "securityNav", id)
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Update handles update nav request; a body without an ID falls back to
// create.
// PUT /api/security-navs
func (h *NavHandler) Update(c *fiber.Ctx) error {
	var nav models.SecurityNav
	if err := c.BodyParser(&nav); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if nav.ID == 0 {
		return h.create(c, &nav)
	}

	app, _ := middleware.CurrentApp(c)
	result, err := h.navService.Save(service.NewRequestContext(app), &nav)
	if err != nil {
		return err
	}

	setEntityUpdateAlert(c, "securityNav", strconv.FormatInt(result.ID, 10))
	return c.JSON(result)
}

// GetAll handles list navs request. With parentId or resourceId set, the
// listing is unpaged and ordered by position.
// GET /api/security-navs?page=&size=&appId=&parentId=&resourceId=
func (h *NavHandler) GetAll(c *fiber.Ctx) error {
	if raw := c.Query("parentId"); raw != "" {
		parentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return goerrorkit.NewValidationError("parentId is not valid", map[string]interface{}{
				"parentId": raw,
			})
		}
		navs, err := h.navService.FindByParentID(parentID)
		if err != nil {
			return err
		}
		if navs == nil {
			navs = []models.SecurityNav{}
		}
		return c.JSON(navs)
	}
	if raw := c.Query("resourceId"); raw != "" {
		resourceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return goerrorkit.NewValidationError("resourceId is not valid", map[string]interface{}{
				"resourceId": raw,
			})
		}
		navs, err := h.navService.FindByResourceID(resourceID)
		if err != nil {
			return err
		}
		if navs == nil {
			navs = []models.SecurityNav{}
		}
		return c.JSON(navs)
	}

	page := parsePageable(c)
	appID, _ := strconv.ParseInt(c.Query("appId"), 10, 64)

	navs, total, err := h.navService.FindAll(page, appID)
	if err != nil {
		return err
	}
	if navs == nil {
		navs = []models.SecurityNav{}
	}

	setPaginationHeaders(c, page, total, "/api/security-navs")
	return c.JSON(navs)
}

// GetOne handles get nav request
// GET /api/security-navs/:id
func (h *NavHandler) GetOne(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return goerrorkit.NewValidationError("id is not valid", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	nav, err := h.navService.FindOne(id)
	if err != nil {
		return err
	}
	if nav == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(nav)
}

// Delete handles delete nav request
// DELETE /api/security-navs/:id
func (h *NavHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return goerrorkit.NewValidationError("id is not valid", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	if err := h.navService.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return err
	}

	setEntityDeletionAlert(c, "securityNav", strconv.FormatInt(id, 10))
	return c.SendStatus(fiber.StatusOK)
}

// Search handles nav search request
// GET /api/_search/security-navs?query=
func (h *NavHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	page := parsePageable(c)

	navs, total, err := h.navService.Search(query, page)
	if err != nil {
		return err
	}
	if navs == nil {
		navs = []models.SecurityNav{}
	}

	setSearchPaginationHeaders(c, query, page, total, "/api/_search/security-navs")
	return c.JSON(navs)
}
