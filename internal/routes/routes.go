package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hamza-nafasat/todo-mobile-app-server/internal/handlers"
)

func Setup(app *fiber.App, h *handlers.Handler, auth fiber.Handler) {
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	app.Post("/register", h.Register)
	app.Post("/verify", auth, h.Verify)
	app.Post("/resend-verification", auth, h.ResendVerification)

	app.Post("/login", h.Login)
	app.Get("/logout", h.Logout)

	app.Post("/new-task", auth, h.AddTask)
	app.Get("/me", auth, h.GetMyProfile)

	app.Get("/task/:taskId", auth, h.ToggleTask)
	app.Delete("/task/:taskId", auth, h.RemoveTask)

	app.Put("/update-profile", auth, h.UpdateProfile)
	app.Put("/update-password", auth, h.UpdatePassword)

	app.Post("/forget-password", h.ForgetPassword)
	app.Put("/reset-password", h.ResetPassword)
}
