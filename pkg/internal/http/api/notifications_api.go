package api

import (
	"github.com/athlinked/server/pkg/internal/http/exts"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/athlinked/server/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listNotifications(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	take := c.QueryInt("take", 25)
	unreadOnly := c.QueryBool("unread", false)

	var cursor *uint
	if raw := c.QueryInt("cursor", 0); raw > 0 {
		value := uint(raw)
		cursor = &value
	}

	events, next, err := services.ListNotifications(user, cursor, take, unreadOnly)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"data":        events,
		"next_cursor": next,
	})
}

func countUnreadNotifications(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	count, err := services.CountUnreadNotifications(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
	})
}

func markNotificationsRead(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	var data struct {
		NotificationIDs []uint `json:"notification_ids" validate:"required,min=1"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	updated, err := services.MarkNotificationsRead(user, data.NotificationIDs)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"updated_count": updated,
	})
}

func listNotificationPreferences(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	preferences, err := services.ListNotificationPreferences(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(preferences)
}

func setNotificationPreference(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	var data struct {
		Kind  string `json:"kind" validate:"required"`
		Muted bool   `json:"muted"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	preference, err := services.SetNotificationPreference(user, data.Kind, data.Muted)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(preference)
}
