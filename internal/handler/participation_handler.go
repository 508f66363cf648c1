package handler

import (
	"github.com/gofiber/fiber/v2"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/middleware"
	"campus-volunteer/internal/service/participation"
)

type ParticipationHandler struct {
	participationService participation.Service
}

func NewParticipationHandler(participationService participation.Service) *ParticipationHandler {
	return &ParticipationHandler{participationService: participationService}
}

func (h *ParticipationHandler) Register(c *fiber.Ctx) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	p, err := h.participationService.Register(c.Context(), eventID, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ParticipationHandler) ListByEvent(c *fiber.Ctx) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.participationService.ListByEvent(c.Context(), eventID, domain.ParticipationStatus(c.Query("status")), getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *ParticipationHandler) Approve(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	p, err := h.participationService.Approve(c.Context(), id, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(p)
}

func (h *ParticipationHandler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var input domain.ReviewParticipationInput
	if err := parseOptionalBody(c, &input); err != nil {
		return err
	}

	p, err := h.participationService.Reject(c.Context(), id, middleware.GetCurrentUserID(c), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(p)
}

func (h *ParticipationHandler) MarkAttendance(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var input domain.MarkAttendanceInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	result, err := h.participationService.MarkAttendance(c.Context(), id, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
