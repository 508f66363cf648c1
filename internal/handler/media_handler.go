package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"campus-volunteer/internal/middleware"
	"campus-volunteer/internal/service/media"
)

type MediaHandler struct {
	mediaService media.Service
}

func NewMediaHandler(mediaService media.Service) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func (h *MediaHandler) UploadProblemImage(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	fileReader, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer fileReader.Close()

	img, err := h.mediaService.UploadProblemImage(c.Context(), middleware.GetCurrentUserID(c), file.Size, mimeType, fileReader)
	if err != nil {
		if errors.Is(err, media.ErrStorageUnavailable) {
			return middleware.ServiceUnavailable("Image uploads are not available")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(img)
}
