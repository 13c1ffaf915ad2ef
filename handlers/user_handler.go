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

// UserRequest is the create/update body of a security user. The plaintext
// password rides alongside the entity and never appears in responses.
type UserRequest struct {
	models.SecurityUser
	Password string `json:"password"`
}

// UserHandler serves the /api/security-users REST surface.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles create user request
// POST /api/security-users
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return h.create(c, &req)
}

func (h *UserHandler) create(c *fiber.Ctx, req *UserRequest) error {
	if req.ID != 0 {
		setFailureAlert(c, "securityUser", "idexists")
		return goerrorkit.NewValidationError("a new securityUser cannot already have an ID", map[string]interface{}{
			"id": req.ID,
		})
	}
	if req.Login == "" {
		setFailureAlert(c, "securityUser", "loginrequired")
		return goerrorkit.NewValidationError("securityUser login is required", nil)
	}

	app, _ := middleware.CurrentApp(c)
	ownerID := req.AppID
	if app != nil {
		ownerID = app.ID
	}
	if ownerID != 0 {
		existing, err := h.userService.FindByAppAndLogin(ownerID, req.Login)
		if err != nil {
			return err
		}
		if existing != nil {
			setFailureAlert(c, "securityUser", "loginexists")
			return goerrorkit.NewValidationError("a securityUser with this login already exists in the app", map[string]interface{}{
				"login": req.Login,
			})
		}
	}

	result, err := h.userService.Save(service.NewRequestContext(app), &req.SecurityUser, req.Password)
	if err != nil {
		return err
	}

	id := strconv.FormatInt(result.ID, 10)
	c.Set("Location", "/api/security-users/"+id)
	setEntityCreationAlert(c, "securityUser", id)
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Update handles update user request; a body without an ID falls back to
// create. An empty password keeps the current one.
// PUT /api/security-users
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		return goerrorkit.NewValidationError("request body is not valid", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if req.ID == 0 {
		return h.create(c, &req)
	}

	app, _ := middleware.CurrentApp(c)
	result, err := h.userService.Save(service.NewRequestContext(app), &req.SecurityUser, req.Password)
	if err != nil {
		return err
	}

	setEntityUpdateAlert(c, "securityUser", strconv.FormatInt(result.ID, 10))
	return c.JSON(result)
}

// GetAll handles list users request
// GET /api/security-users?page=&size=&appId=
func (h *UserHandler) GetAll(c *fiber.Ctx) error {
	page := parsePageable(c)
	appID, _ := strconv.ParseInt(c.Query("appId"), 10, 64)

	users, total, err := h.userService.FindAll(page, appID)
	if err != nil {
		return err
	}
	if users == nil {
		users = []models.SecurityUser{}
	}

	setPaginationHeaders(c, page, total, "/api/security-users")
	return c.JSON(users)
}

// GetOne handles get user request
// GET /api/security-users/:id
func (h *UserHandler) GetOne(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return goerrorkit.NewValidationError("id is not valid", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	user, err := h.userService.FindOne(id)
	if err != nil {
		return err
	}
	if user == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(user)
}

// Delete handles delete user request
// DELETE /api/security-users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return goerrorkit.NewValidationError("id is not valid", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	if err := h.userService.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return err
	}

	setEntityDeletionAlert(c, "securityUser", strconv.FormatInt(id, 10))
	return c.SendStatus(fiber.StatusOK)
}

// Search handles user search request
// GET /api/_search/security-users?query=
func (h *UserHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	page := parsePageable(c)

	users, total, err := h.userService.Search(query, page)
	if err != nil {
		return err
	}
	if users == nil {
		users = []models.SecurityUser{}
	}

	setSearchPaginationHeaders(c, query, page, total, "/api/_search/security-users")
	return c.JSON(users)
}
