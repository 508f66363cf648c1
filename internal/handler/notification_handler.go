package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"campus-volunteer/internal/middleware"
	"campus-volunteer/internal/service/live"
	"campus-volunteer/internal/service/notification"
)

const streamHeartbeat = 15 * time.Second

type NotificationHandler struct {
	notifService notification.Service
	live         live.Channel
	logger       *zap.Logger
}

func NewNotificationHandler(notifService notification.Service, liveChannel live.Channel, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifService: notifService,
		live:         liveChannel,
		logger:       logger,
	}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	unreadOnly := c.Query("unread_only") == "true"

	result, err := h.notifService.List(c.Context(), middleware.GetCurrentUserID(c), unreadOnly, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	count, err := h.notifService.GetUnreadCount(c.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	notifID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifService.MarkAsRead(c.Context(), notifID, middleware.GetCurrentUserID(c)); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	if err := h.notifService.MarkAllAsRead(c.Context(), middleware.GetCurrentUserID(c)); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

// Stream relays live events for the current user as server-sent events.
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	if h.live == nil {
		return middleware.ServiceUnavailable("Live notifications are not available")
	}

	userID := middleware.GetCurrentUserID(c)
	ctx, cancel := context.WithCancel(context.Background())
	sub, err := h.live.Subscribe(ctx, userID)
	if err != nil {
		cancel()
		return err
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	logger := h.logger.With(zap.String("user_id", userID.String()))
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer sub.Close()

		ticker := time.NewTicker(streamHeartbeat)
		defer ticker.Stop()

		fmt.Fprint(w, ": connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case env, ok := <-sub.Events():
				if !ok {
					return
				}
				data, err := json.Marshal(env)
				if err != nil {
					logger.Warn("failed to encode live event", zap.Error(err))
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", env.Event, data)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			if err := w.Flush(); err != nil {
				logger.Debug("notification stream closed", zap.Error(err))
				return
			}
		}
	}))

	return nil
}
