package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kaizen-ideas/internal/middleware"
	"kaizen-ideas/internal/service/notification"
)

type NotificationHandler struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var isRead *bool
	if raw := c.Query("is_read"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return middleware.BadRequest("is_read must be true or false")
		}
		isRead = &v
	}

	list, err := h.notificationService.List(c.UserContext(), userID, isRead, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.JSON(list)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	count, err := h.notificationService.GetUnreadCount(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"unread_count": count})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	n, err := h.notificationService.MarkAsRead(c.UserContext(), id, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(n)
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	updated, err := h.notificationService.MarkAllAsRead(c.UserContext(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"updated": updated})
}
