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

// GroupHandler serves the /api/security-groups REST surface.
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// Create handles create group request
// POST /api/security-groups
func (h *GroupHandler) Create(c *fiber.Ctx) error {
	var group models.SecurityGroup
	if err := c.BodyParser(&group); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return h.create(c, &group)
}

func (h *GroupHandler) create(c *fiber.Ctx, group *models.SecurityGroup) error {
	if group.ID != 0 {
		setFailureAlert(c, "securityGroup", "idexists")
		return goerrorkit.NewValidationError("a new securityGroup cannot already have an ID", map[string]interface{}{
			"id": group.ID,
		})
	}
	if group.Name == "" {
		setFailureAlert(c, "securityGroup", "namerequired")
		return goerrorkit.NewValidationError("securityGroup name is required", nil)
	}

	app, _ := middleware.CurrentApp(c)
	ownerID := group.AppID
	if app != nil {
		ownerID = app.ID
	}
	if ownerID != 0 {
		existing, err := h.groupService.FindByAppAndName(ownerID, group.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			setFailureAlert(c, "securityGroup", "nameexists")
			return goerrorkit.NewValidationError("a securityGroup with this name already exists in the app", map[string]interface{}{
				"name": group.Name,
			})
		}
	}

	result, err := h.groupService.Save(service.NewRequestContext(app), group)
	if err != nil {
		return err
	}

	id := strconv.FormatInt(result.ID, 10)
	c.Set("Location", "/api/security-groups/"+id)
	setEntityCreationAlert(c, "securityGroup", id)
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Update handles update group request; a body without an ID falls back to
// create.
// PUT /api/security-groups
func (h *GroupHandler) Update(c *fiber.Ctx) error {
	var group models.SecurityGroup
	if err := c.BodyParser(&group); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if group.ID == 0 {
		return h.create(c, &group)
	}

	app, _ := middleware.CurrentApp(c)
	result, err := h.groupService.Save(service.NewRequestContext(app), &group)
	if err != nil {
		return err
	}

	setEntityUpdateAlert(c, "securityGroup", strconv.FormatInt(result.ID, 10))
	return c.JSON(result)
}

// GetAll handles list groups request
// GET /api/security-groups?page=&size=&appId=
func (h *GroupHandler) GetAll(c *fiber.Ctx) error {
	page := parsePageable(c)
	appID, _ := strconv.ParseInt(c.Query("appId"), 10, 64)

	groups, total, err := h.groupService.FindAll(page, appID)
	if err != nil {
		return err
	}
	if groups == nil {
		groups = []models.SecurityGroup{}
	}

	setPaginationHeaders(c, page, total, "/api/security-groups")
	return c.JSON(groups)
}

// GetOne handles get group request
// GET /api/security-groups/:id
func (h *GroupHandler) GetOne(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return goerrorkit.NewValidationError("id is not valid", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	group, err := h.groupService.FindOne(id)
	if err != nil {
		return err
	}
	if group == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(group)
}

// Delete handles delete group request
// DELETE /api/security-groups/:id
func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return goerrorkit.NewValidationError("id is not valid", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	if err := h.groupService.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return err
	}

	setEntityDeletionAlert(c, "securityGroup", strconv.FormatInt(id, 10))
	return c.SendStatus(fiber.StatusOK)
}

// Search handles group search request
// GET /api/_search/security-groups?query=
func (h *GroupHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	page := parsePageable(c)

	groups, total, err := h.groupService.Search(query, page)
	if err != nil {
		return err
	}
	if groups == nil {
		groups = []models.SecurityGroup{}
	}

	setSearchPaginationHeaders(c, query, page, total, "/api/_search/security-groups")
	return c.JSON(groups)
}
