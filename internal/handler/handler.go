package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/middleware"
	"campus-volunteer/internal/service"
)

type Handlers struct {
	Auth          *AuthHandler
	Problem       *ProblemHandler
	Participation *ParticipationHandler
	Notification  *NotificationHandler
	Leaderboard   *LeaderboardHandler
	Media         *MediaHandler
}

func NewHandlers(services *service.Services, logger *zap.Logger) *Handlers {
	return &Handlers{
		Auth:          NewAuthHandler(services.Auth),
		Problem:       NewProblemHandler(services.Problem),
		Participation: NewParticipationHandler(services.Participation),
		Notification:  NewNotificationHandler(services.Notification, services.Live, logger),
		Leaderboard:   NewLeaderboardHandler(services.Leaderboard),
		Media:         NewMediaHandler(services.Media),
	}
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + param)
	}
	return id, nil
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}

// parseOptionalBody tolerates an empty body so review endpoints can be
// called without a payload.
func parseOptionalBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	return nil
}
