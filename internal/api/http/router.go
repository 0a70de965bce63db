package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/item-service/internal/admission"
	"github.com/spec-kit/item-service/internal/api/http/handlers"
	"github.com/spec-kit/item-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Users     *handlers.UsersHandler
	Items     *handlers.ItemsHandler
	Session   *auth.SessionMiddleware
	Admission *admission.Middleware
}

// RegisterRoutes wires HTTP routes. Health probes bypass admission; every
// /api route passes session resolution then the admission gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.Session.Resolve, cfg.Admission.Handle)

	authGroup := api.Group("/auth")
	authGroup.Post("/sign-up", cfg.Auth.SignUp)
	authGroup.Post("/sign-in", cfg.Auth.SignIn)
	authGroup.Post("/sign-out", cfg.Auth.SignOut)

	users := api.Group("/users")
	users.Get("/", auth.RequireElevated(), cfg.Users.List)
	users.Get("/:id", auth.RequireElevated(), cfg.Users.Get)
	users.Put("/:id", auth.RequireElevated(), cfg.Users.Update)
	users.Delete("/:id", auth.RequireElevated(), cfg.Users.Delete)

	items := api.Group("/items")
	items.Post("/", cfg.Items.Create)
	items.Get("/", cfg.Items.List)
	items.Get("/:id", cfg.Items.Get)
	items.Put("/:id", cfg.Items.Update)
	items.Delete("/:id", cfg.Items.Delete)
}
