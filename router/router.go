// Package router registers the REST surface onto a fiber app.
package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/boyuanitsm/fort/handlers"
	"github.com/boyuanitsm/fort/middleware"
)

// Handlers bundles the handler set the router wires up.
type Handlers struct {
	Auth       *handlers.AuthHandler
	App        *handlers.AppHandler
	Group      *handlers.GroupHandler
	Role       *handlers.RoleHandler
	Nav        *handlers.NavHandler
	Resource   *handlers.ResourceHandler
	User       *handlers.UserHandler
	LoginEvent *handlers.LoginEventHandler
	SDK        *handlers.SDKHandler
}

// SetupRoutes registers all routes. Every /api route resolves the calling
// app's credentials when present; the /api/sdk group requires them.
func SetupRoutes(app *fiber.App, h Handlers, auth *middleware.AppAuth) {
	api := app.Group("/api", auth.ResolveApp())

	api.Post("/authenticate", h.Auth.Authenticate)

	apps := api.Group("/security-apps")
	apps.Post("/", h.App.Create)
	apps.Put("/", h.App.Update)
	apps.Get("/", h.App.GetAll)
	apps.Get("/:id", h.App.GetOne)
	apps.Delete("/:id", h.App.Delete)

	groups := api.Group("/security-groups")
	groups.Post("/", h.Group.Create)
	groups.Put("/", h.Group.Update)
	groups.Get("/", h.Group.GetAll)
	groups.Get("/:id", h.Group.GetOne)
	groups.Delete("/:id", h.Group.Delete)

	roles := api.Group("/security-roles")
	roles.Post("/", h.Role.Create)
	roles.Put("/", h.Role.Update)
	roles.Get("/", h.Role.GetAll)
	roles.Get("/:id", h.Role.GetOne)
	roles.Delete("/:id", h.Role.Delete)

	navs := api.Group("/security-navs")
	navs.Post("/", h.Nav.Create)
	navs.Put("/", h.Nav.Update)
	navs.Get("/", h.Nav.GetAll)
	navs.Get("/:id", h.Nav.GetOne)
	navs.Delete("/:id", h.Nav.Delete)

	resources := api.Group("/security-resource-entities")
	resources.Post("/", h.Resource.Create)
	resources.Put("/", h.Resource.Update)
	resources.Get("/", h.Resource.GetAll)
	resources.Get("/:id", h.Resource.GetOne)
	resources.Delete("/:id", h.Resource.Delete)

	users := api.Group("/security-users")
	users.Post("/", h.User.Create)
	users.Put("/", h.User.Update)
	users.Get("/", h.User.GetAll)
	users.Get("/:id", h.User.GetOne)
	users.Delete("/:id", h.User.Delete)

	loginEvents := api.Group("/security-login-events")
	loginEvents.Get("/", h.LoginEvent.GetAll)
	loginEvents.Get("/st/:st", h.LoginEvent.GetOne)

	search := api.Group("/_search")
	search.Get("/security-apps", h.App.Search)
	search.Get("/security-groups", h.Group.Search)
	search.Get("/security-roles", h.Role.Search)
	search.Get("/security-navs", h.Nav.Search)
	search.Get("/security-resource-entities", h.Resource.Search)
	search.Get("/security-users", h.User.Search)

	sdk := api.Group("/sdk", auth.RequireApp())
	sdk.Post("/authentication", h.SDK.Authenticate)
	sdk.Get("/resources", h.SDK.GetResources)
	sdk.Get("/roles", h.SDK.GetRoles)
}
