// Package fort assembles the security-entity admin server: relational store,
// search-index mirror, update hub, and the REST surface on top of them.
package fort

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/config"
	"github.com/boyuanitsm/fort/handlers"
	"github.com/boyuanitsm/fort/middleware"
	"github.com/boyuanitsm/fort/repository"
	"github.com/boyuanitsm/fort/router"
	"github.com/boyuanitsm/fort/search"
	"github.com/boyuanitsm/fort/service"
	"github.com/boyuanitsm/fort/update"
)

// Fort holds all wired dependencies of one server instance.
type Fort struct {
	DB     *gorm.DB
	Config *config.Config

	Hub    *update.Hub
	Engine *search.Engine

	// Repositories
	AppRepo        *repository.AppRepository
	GroupRepo      *repository.GroupRepository
	RoleRepo       *repository.RoleRepository
	NavRepo        *repository.NavRepository
	ResourceRepo   *repository.ResourceRepository
	UserRepo       *repository.UserRepository
	LoginEventRepo *repository.LoginEventRepository

	// Services
	AppService        *service.AppService
	GroupService      *service.GroupService
	RoleService       *service.RoleService
	NavService        *service.NavService
	ResourceService   *service.ResourceService
	UserService       *service.UserService
	LoginEventService *service.LoginEventService

	// Middleware
	AppAuth *middleware.AppAuth

	relay *update.AMQPRelay
}

// New wires a Fort instance on top of an open database connection. The search
// engine keeps its indexes under cfg.Search.Path, or in memory when the path
// is empty.
func New(db *gorm.DB, cfg *config.Config) *Fort {
	hub := update.NewHub()
	engine := search.NewEngine(cfg.Search.Path)

	appRepo := repository.NewAppRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	navRepo := repository.NewNavRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	userRepo := repository.NewUserRepository(db)
	loginEventRepo := repository.NewLoginEventRepository(db)

	f := &Fort{
		DB:     db,
		Config: cfg,
		Hub:    hub,
		Engine: engine,

		AppRepo:        appRepo,
		GroupRepo:      groupRepo,
		RoleRepo:       roleRepo,
		NavRepo:        navRepo,
		ResourceRepo:   resourceRepo,
		UserRepo:       userRepo,
		LoginEventRepo: loginEventRepo,

		AppService:        service.NewAppService(appRepo, search.NewRepository(engine, indexKind(update.KindSecurityApp)), hub),
		GroupService:      service.NewGroupService(groupRepo, search.NewRepository(engine, indexKind(update.KindSecurityGroup)), hub),
		RoleService:       service.NewRoleService(roleRepo, search.NewRepository(engine, indexKind(update.KindSecurityRole)), hub),
		NavService:        service.NewNavService(navRepo, search.NewRepository(engine, indexKind(update.KindSecurityNav)), hub),
		ResourceService:   service.NewResourceService(resourceRepo, search.NewRepository(engine, indexKind(update.KindSecurityResourceEntity)), hub),
		UserService:       service.NewUserService(userRepo, loginEventRepo, search.NewRepository(engine, indexKind(update.KindSecurityUser)), hub),
		LoginEventService: service.NewLoginEventService(loginEventRepo),
	}
	f.AppAuth = middleware.NewAppAuth(cfg, appRepo)
	return f
}

// indexKind maps an event resource kind to its search index name.
func indexKind(kind update.ResourceKind) string {
	return strings.ToLower(string(kind))
}

// RegisterRoutes registers the full REST surface onto the fiber app.
func (f *Fort) RegisterRoutes(app *fiber.App) {
	router.SetupRoutes(app, router.Handlers{
		Auth:       handlers.NewAuthHandler(f.Config, f.AppService),
		App:        handlers.NewAppHandler(f.AppService),
		Group:      handlers.NewGroupHandler(f.GroupService),
		Role:       handlers.NewRoleHandler(f.RoleService),
		Nav:        handlers.NewNavHandler(f.NavService),
		Resource:   handlers.NewResourceHandler(f.ResourceService),
		User:       handlers.NewUserHandler(f.UserService),
		LoginEvent: handlers.NewLoginEventHandler(f.LoginEventService),
		SDK:        handlers.NewSDKHandler(f.Config, f.UserService, f.RoleService, f.ResourceService),
	}, f.AppAuth)
}

// StartAMQPRelay connects the update hub to the configured AMQP exchange and
// starts forwarding events. A blank AMQP URL disables the relay.
func (f *Fort) StartAMQPRelay(ctx context.Context) error {
	if f.Config.AMQP.URL == "" {
		return nil
	}
	relay, err := update.NewAMQPRelay(ctx, f.Config.AMQP.URL, f.Config.AMQP.Exchange, f.Hub)
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "failed to start update relay").WithData(map[string]interface{}{
			"exchange": f.Config.AMQP.Exchange,
		})
	}
	f.relay = relay
	go relay.Run()
	return nil
}

// Close stops the relay, closes the hub, and releases the search indexes.
func (f *Fort) Close() error {
	if f.relay != nil {
		f.relay.Close()
	}
	f.Hub.Close()
	return f.Engine.Close()
}
