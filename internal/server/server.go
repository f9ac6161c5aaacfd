package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/hamza-nafasat/todo-mobile-app-server/internal/apperr"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/config"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/handlers"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/middleware"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/routes"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/token"
)

// New assembles the Fiber application: error handling, CORS, request logging
// and the route table.
func New(cfg *config.Config, h *handlers.Handler, tokens *token.Manager, logger *zap.SugaredLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
		ErrorHandler: errorHandler(logger),
	})

	app.Use(cors.New())
	app.Use(middleware.RequestLogger(logger))

	auth := middleware.JWTAuth(tokens, cfg.JWT.CookieName)
	routes.Setup(app, h, auth)

	return app
}

// errorHandler converts every failure into the JSON envelope. 500-class
// causes are logged, never echoed to the caller.
func errorHandler(logger *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"success": false, "message": fe.Message})
		}

		ae := apperr.As(err)
		if ae.Status() >= 500 {
			logger.Errorw("request failed",
				"path", c.Path(),
				"method", c.Method(),
				"error", err,
			)
		}
		return c.Status(ae.Status()).JSON(fiber.Map{"success": false, "message": ae.Message})
	}
}
