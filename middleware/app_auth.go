// Package middleware resolves the calling tenant app for every request so
// handlers can build the explicit service request context from it.
package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/config"
	"github.com/boyuanitsm/fort/core"
	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/utils"
)

const (
	// HeaderAppKey carries the app's public key on SDK requests
	HeaderAppKey = "X-Fort-App-Key"
	// HeaderAppSecret carries the app's secret on SDK requests
	HeaderAppSecret = "X-Fort-App-Secret"

	localsAppKey = "currentApp"
)

// AppAuth resolves the calling tenant app from request credentials: a JWT
// minted by POST /api/authenticate, or the raw appKey/appSecret header pair
// SDK clients send.
type AppAuth struct {
	config *config.Config
	apps   core.AppRepository
}

// NewAppAuth creates a new AppAuth middleware.
func NewAppAuth(cfg *config.Config, apps core.AppRepository) *AppAuth {
	return &AppAuth{config: cfg, apps: apps}
}

// ResolveApp resolves the tenant app when credentials are present and stores
// it in the request locals. Requests without credentials pass through
// unresolved; requests with bad credentials are rejected.
func (m *AppAuth) ResolveApp() fiber.Handler {
	return func(c *fiber.Ctx) error {
		app, err := m.resolve(c)
		if err != nil {
			return err
		}
		if app != nil {
			c.Locals(localsAppKey, app)
		}
		return c.Next()
	}
}

// RequireApp rejects requests whose tenant app cannot be resolved. Used on
// the /api/sdk surface where every call is made on behalf of one app.
func (m *AppAuth) RequireApp() fiber.Handler {
	return func(c *fiber.Ctx) error {
		app, err := m.resolve(c)
		if err != nil {
			return err
		}
		if app == nil {
			return goerrorkit.NewAuthError(401, "app credentials were not provided")
		}
		c.Locals(localsAppKey, app)
		return c.Next()
	}
}

func (m *AppAuth) resolve(c *fiber.Ctx) (*models.SecurityApp, error) {
	if token := extractToken(c); token != "" {
		claims, err := utils.ValidateAppToken(token, m.config.JWT.Secret)
		if err != nil {
			return nil, goerrorkit.NewAuthError(401, "app token is not valid").WithData(map[string]interface{}{
				"error": err.Error(),
			})
		}
		return m.lookup(claims.AppKey)
	}

	appKey := c.Get(HeaderAppKey)
	if appKey == "" {
		return nil, nil
	}

	app, err := m.lookup(appKey)
	if err != nil {
		return nil, err
	}

	secret := c.Get(HeaderAppSecret)
	if subtle.ConstantTimeCompare([]byte(secret), []byte(app.AppSecret)) != 1 {
		return nil, goerrorkit.NewAuthError(401, "app secret does not match").WithData(map[string]interface{}{
			"appKey": appKey,
		})
	}
	return app, nil
}

func (m *AppAuth) lookup(appKey string) (*models.SecurityApp, error) {
	app, err := m.apps.FindByAppKey(appKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerrorkit.NewAuthError(401, "unknown appKey").WithData(map[string]interface{}{
				"appKey": appKey,
			})
		}
		return nil, goerrorkit.WrapWithMessage(err, "failed to resolve app").WithData(map[string]interface{}{
			"appKey": appKey,
		})
	}
	return app, nil
}

// extractToken extracts a token from Authorization header or cookie
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	return c.Cookies("token")
}

// CurrentApp gets the resolved tenant app from the request locals.
func CurrentApp(c *fiber.Ctx) (*models.SecurityApp, bool) {
	app, ok := c.Locals(localsAppKey).(*models.SecurityApp)
	return app, ok
}
