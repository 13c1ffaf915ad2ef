package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Alert headers consumed by the admin console. The console shows a toast for
// X-fortApp-alert and an error banner for X-fortApp-error.
const (
	headerAlert  = "X-fortApp-alert"
	headerParams = "X-fortApp-params"
	headerError  = "X-fortApp-error"
)

// setEntityCreationAlert marks the response as a successful create of entity
// param.
func setEntityCreationAlert(c *fiber.Ctx, entityName, param string) {
	c.Set(headerAlert, "fortApp."+entityName+".created")
	c.Set(headerParams, param)
}

// setEntityUpdateAlert marks the response as a successful update of entity
// param.
func setEntityUpdateAlert(c *fiber.Ctx, entityName, param string) {
	c.Set(headerAlert, "fortApp."+entityName+".updated")
	c.Set(headerParams, param)
}

// setEntityDeletionAlert marks the response as a successful delete of entity
// param.
func setEntityDeletionAlert(c *fiber.Ctx, entityName, param string) {
	c.Set(headerAlert, "fortApp."+entityName+".deleted")
	c.Set(headerParams, param)
}

// setFailureAlert marks the response with a structured failure the console
// can translate, e.g. errorKey "idexists" or "nameexists".
func setFailureAlert(c *fiber.Ctx, entityName, errorKey string) {
	c.Set(headerError, "error."+errorKey)
	c.Set(headerParams, entityName)
}
