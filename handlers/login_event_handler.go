package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"

	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/service"
)

// LoginEventHandler serves the read-only /api/security-login-events surface.
type LoginEventHandler struct {
	loginEventService *service.LoginEventService
}

// NewLoginEventHandler creates a new LoginEventHandler.
func NewLoginEventHandler(loginEventService *service.LoginEventService) *LoginEventHandler {
	return &LoginEventHandler{loginEventService: loginEventService}
}

// GetAll handles list login events request, newest first
// GET /api/security-login-events?page=&size=&userId=
func (h *LoginEventHandler) GetAll(c *fiber.Ctx) error {
	page := parsePageable(c)
	userID, _ := strconv.ParseInt(c.Query("userId"), 10, 64)

	events, total, err := h.loginEventService.FindAll(page, userID)
	if err != nil {
		return err
	}
	if events == nil {
		events = []models.SecurityLoginEvent{}
	}

	setPaginationHeaders(c, page, total, "/api/security-login-events")
	return c.JSON(events)
}

// GetOne handles get login event by surrogate token request
// GET /api/security-login-events/st/:st
func (h *LoginEventHandler) GetOne(c *fiber.Ctx) error {
	st := c.Params("st")
	if st == "" {
		return goerrorkit.NewValidationError("st is required", nil)
	}

	event, err := h.loginEventService.FindBySt(st)
	if err != nil {
		return err
	}
	if event == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(event)
}
