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

// RoleHandler serves the /api/security-roles REST surface.
type RoleHandler struct {
	roleService *service.RoleService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roleService *service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// Create handles create role request
// POST /api/security-roles
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var role models.SecurityRole
	if err := c.BodyParser(&role); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return h.create(c, &role)
}

func (h *RoleHandler) create(c *fiber.Ctx, role *models.SecurityRole) error {
	if role.ID != 0 {
		setFailureAlert(c, "securityRole", "idexists")
		return goerrorkit.NewValidationError("a new securityRole cannot already have an ID", map[string]interface{}{
			"id": role.ID,
		})
	}
	if role.Name == "" {
		setFailureAlert(c, "securityRole", "namerequired")
		return goerrorkit.NewValidationError("securityRole name is required", nil)
	}

	app, _ := middleware.CurrentApp(c)
	ownerID := role.AppID
	if app != nil {
		ownerID = app.ID
	}
	if ownerID != 0 {
		existing, err := h.roleService.FindByAppAndName(ownerID, role.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			setFailureAlert(c, "securityRole", "nameexists")
			return goerrorkit.NewValidationError("a securityRole with this name already exists in the app", map[string]interface{}{
				"name": role.Name,
			})
		}
	}

	result, err := h.roleService.Save(service.NewRequestContext(app), role)
	if err != nil {
		return err
	}

	id := strconv.FormatInt(result.ID, 10)
	c.Set("Location", "/api/security-roles/"+id)
	setEntityCreationAlert(c, "securityRole", id)
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Update handles update role request; a body without an ID falls back to
// create.
// PUT /api/security-roles
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	var role models.SecurityRole
	if err := c.BodyParser(&role); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if role.ID == 0 {
		return h.create(c, &role)
	}

	app, _ := middleware.CurrentApp(c)
	result, err := h.roleService.Save(service.NewRequestContext(app), &role)
	if err != nil {
		return err
	}

	setEntityUpdateAlert(c, "securityRole", strconv.FormatInt(result.ID, 10))
	return c.JSON(result)
}

// GetAll handles list roles request
// GET /api/security-roles?page=&size=&appId=
func (h *RoleHandler) GetAll(c *fiber.Ctx) error {
	page := parsePageable(c)
	appID, _ := strconv.ParseInt(c.Query("appId"), 10, 64)

	roles, total, err := h.roleService.FindAll(page, appID)
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []models.SecurityRole{}
	}

	setPaginationHeaders(c, page, total, "/api/security-roles")
	return c.JSON(roles)
}

// GetOne handles get role request
// GET /api/security-roles/:id
func (h *RoleHandler) GetOne(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return goerrorkit.NewValidationError("id is not valid", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	role, err := h.roleService.FindOne(id)
	if err != nil {
		return err
	}
	if role == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(role)
}

// Delete handles delete role request
// DELETE /api/security-roles/:id
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return goerrorkit.NewValidationError("id is not valid", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	if err := h.roleService.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return err
	}

	setEntityDeletionAlert(c, "securityRole", strconv.FormatInt(id, 10))
	return c.SendStatus(fiber.StatusOK)
}

// Search handles role search request
// GET /api/_search/security-roles?query=
func (h *RoleHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	page := parsePageable(c)

	roles, total, err := h.roleService.Search(query, page)
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []models.SecurityRole{}
	}

	setSearchPaginationHeaders(c, query, page, total, "/api/_search/security-roles")
	return c.JSON(roles)
}
