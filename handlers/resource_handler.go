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

// ResourceHandler serves the /api/security-resource-entities REST surface.
type ResourceHandler struct {
	resourceService *service.ResourceService
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(resourceService *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// Create handles create resource request
// POST /api/security-resource-entities
func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	var resource models.SecurityResourceEntity
	if err := c.BodyParser(&resource); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return h.create(c, &resource)
}

func (h *ResourceHandler) create(c *fiber.Ctx, resource *models.SecurityResourceEntity) error {
	if resource.ID != 0 {
		setFailureAlert(c, "securityResourceEntity", "idexists")
		return goerrorkit.NewValidationError("a new securityResourceEntity cannot already have an ID", map[string]interface{}{
			"id": resource.ID,
		})
	}
	if resource.Url == "" {
		setFailureAlert(c, "securityResourceEntity", "urlrequired")
		return goerrorkit.NewValidationError("securityResourceEntity url is required", nil)
	}

	app, _ := middleware.CurrentApp(c)
	ownerID := resource.AppID
	if app != nil {
		ownerID = app.ID
	}
	if ownerID != 0 {
		existing, err := h.resourceService.FindByAppAndUrl(ownerID, resource.Url)
		if err != nil {
			return err
		}
		if existing != nil {
			setFailureAlert(c, "securityResourceEntity", "urlexists")
			return goerrorkit.NewValidationError("a securityResourceEntity with this url already exists in the app", map[string]interface{}{
				"url": resource.Url,
			})
		}
	}

	result, err := h.resourceService.Save(service.NewRequestContext(app), resource)
	if err != nil {
		return err
	}

	id := strconv.FormatInt(result.ID, 10)
	c.Set("Location", "/api/security-resource-entities/"+id)
	setEntityCreationAlert(c, "securityResourceEntity", id)
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Update handles update resource request; a body without an ID falls back to
// create.
// PUT /api/security-resource-entities
func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	var resource models.SecurityResourceEntity
	if err := c.BodyParser(&resource); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if resource.ID == 0 {
		return h.create(c, &resource)
	}

	app, _ := middleware.CurrentApp(c)
	result, err := h.resourceService.Save(service.NewRequestContext(app), &resource)
	if err != nil {
		return err
	}

	setEntityUpdateAlert(c, "securityResourceEntity", strconv.FormatInt(result.ID, 10))
	return c.JSON(result)
}

// GetAll handles list resources request
// GET /api/security-resource-entities?page=&size=&appId=
func (h *ResourceHandler) GetAll(c *fiber.Ctx) error {
	page := parsePageable(c)
	appID, _ := strconv.ParseInt(c.Query("appId"), 10, 64)

	resources, total, err := h.resourceService.FindAll(page, appID)
	if err != nil {
		return err
	}
	if resources == nil {
		resources = []models.SecurityResourceEntity{}
	}

	setPaginationHeaders(c, page, total, "/api/security-resource-entities")
	return c.JSON(resources)
}

// GetOne handles get resource request
// GET /api/security-resource-entities/:id
func (h *ResourceHandler) GetOne(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return goerrorkit.NewValidationError("id is not valid", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	resource, err := h.resourceService.FindOne(id)
	if err != nil {
		return err
	}
	if resource == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(resource)
}

// Delete handles delete resource request
// DELETE /api/security-resource-entities/:id
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return goerrorkit.NewValidationError("id is not valid", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	if err := h.resourceService.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return err
	}

	setEntityDeletionAlert(c, "securityResourceEntity", strconv.FormatInt(id, 10))
	return c.SendStatus(fiber.StatusOK)
}

// Search handles resource search request
// GET /api/_search/security-resource-entities?query=
func (h *ResourceHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	page := parsePageable(c)

	resources, total, err := h.resourceService.Search(query, page)
	if err != nil {
		return err
	}
	if resources == nil {
		resources = []models.SecurityResourceEntity{}
	}

	setSearchPaginationHeaders(c, query, page, total, "/api/_search/security-resource-entities")
	return c.JSON(resources)
}
