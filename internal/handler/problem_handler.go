package handler

import (
	"github.com/gofiber/fiber/v2"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/middleware"
	"campus-volunteer/internal/service/problem"
)

type ProblemHandler struct {
	problemService problem.Service
}

func NewProblemHandler(problemService problem.Service) *ProblemHandler {
	return &ProblemHandler{problemService: problemService}
}

func (h *ProblemHandler) Submit(c *fiber.Ctx) error {
	var input domain.SubmitProblemInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	result, err := h.problemService.Submit(c.Context(), middleware.GetCurrentUserID(c), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *ProblemHandler) List(c *fiber.Ctx) error {
	filter := domain.ProblemFilter{Category: c.Query("category")}
	if status := c.Query("status"); status != "" {
		s := domain.ProblemStatus(status)
		filter.Status = &s
	}

	result, err := h.problemService.List(c.Context(), middleware.GetCurrentUser(c), filter, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *ProblemHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	p, err := h.problemService.Get(c.Context(), id, middleware.GetCurrentUser(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(p)
}

func (h *ProblemHandler) Approve(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var input domain.ApproveProblemInput
	if err := parseOptionalBody(c, &input); err != nil {
		return err
	}

	result, err := h.problemService.Approve(c.Context(), id, middleware.GetCurrentUserID(c), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *ProblemHandler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var input domain.RejectProblemInput
	if err := parseOptionalBody(c, &input); err != nil {
		return err
	}

	p, err := h.problemService.Reject(c.Context(), id, middleware.GetCurrentUserID(c), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(p)
}

func (h *ProblemHandler) Resolve(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.problemService.Resolve(c.Context(), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
