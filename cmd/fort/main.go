package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort"
	"github.com/boyuanitsm/fort/config"
	"github.com/boyuanitsm/fort/database"
)

func main() {
	// 0. Load .env file
	if err := godotenv.Load(); err != nil {
		_ = goerrorkit.WrapWithMessage(err, "Warning: .env file not found, using default values or environment variables")
	}

	// 1. Initialize goerrorkit logger
	goerrorkit.InitLogger(goerrorkit.LoggerOptions{
		ConsoleOutput: true,
		FileOutput:    true,
		FilePath:      "logs/errors.log",
		JSONFormat:    true,
		MaxFileSize:   10,
		MaxBackups:    5,
		MaxAge:        30,
		LogLevel:      "info",
	})

	// 2. Configure stack trace for this application
	goerrorkit.ConfigureForApplication("main")

	// 3. Load configuration
	cfg := config.LoadConfig()

	// 4. Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		panic(goerrorkit.NewSystemError(err).
			WithData(map[string]interface{}{
				"host":     cfg.Database.Host,
				"port":     cfg.Database.Port,
				"database": cfg.Database.Name,
			}))
	}

	// 5. Run migrations
	if err := database.Migrate(db); err != nil {
		panic(goerrorkit.NewSystemError(err).
			WithData(map[string]interface{}{
				"operation": "migration",
				"database":  cfg.Database.Name,
			}))
	}

	// 6. Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Fort Security Server",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// 7. Add middleware (RequestID must be before ErrorHandler)
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(goerrorkit.FiberErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Fort-App-Key, X-Fort-App-Secret",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// 8. Wire the server and register routes
	f := fort.New(db, cfg)
	defer f.Close()
	f.RegisterRoutes(app)

	// 9. Start the update-event relay when AMQP is configured
	if err := f.StartAMQPRelay(context.Background()); err != nil {
		panic(err)
	}

	// 10. Start server
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		panic(goerrorkit.NewSystemError(err))
	}
}
