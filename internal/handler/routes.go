package handler

import (
	"github.com/gofiber/fiber/v2"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/middleware"
	"campus-volunteer/internal/service/auth"
)

func SetupRoutes(app *fiber.App, h *Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)

	v1.Get("/leaderboard", h.Leaderboard.Top)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Get("/users/me", h.Auth.Me)

	problems := protected.Group("/problems")
	problems.Post("/", h.Problem.Submit)
	problems.Get("/", h.Problem.List)
	problems.Post("/images", h.Media.UploadProblemImage)
	problems.Get("/:id", h.Problem.Get)
	problems.Post("/:id/approve", middleware.RequireRole(domain.RoleAdmin), h.Problem.Approve)
	problems.Post("/:id/reject", middleware.RequireRole(domain.RoleAdmin), h.Problem.Reject)
	problems.Post("/:id/resolve", middleware.RequireRole(domain.RoleAdmin), h.Problem.Resolve)

	events := protected.Group("/events")
	events.Post("/:id/register", h.Participation.Register)
	events.Get("/:id/participations", middleware.RequireRole(domain.RoleOrganizer), h.Participation.ListByEvent)

	participations := protected.Group("/participations", middleware.RequireRole(domain.RoleOrganizer))
	participations.Post("/:id/approve", h.Participation.Approve)
	participations.Post("/:id/reject", h.Participation.Reject)
	participations.Post("/:id/attendance", h.Participation.MarkAttendance)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Get("/stream", h.Notification.Stream)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
}
