package api

import (
	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/http/exts"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/athlinked/server/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

func toggleEngagement(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)
	id, _ := c.ParamsInt("postId", 0)
	kind := c.Params("kind")

	if !services.CanViewPostWithID(&user, uint(id)) {
		return fiber.NewError(fiber.StatusNotFound, "post not found")
	}

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	active, count, err := services.ToggleEngagement(kind, item, user)
	if err != nil {
		return remapEngineError(err)
	}

	return c.Status(lo.Ternary(active, fiber.StatusCreated, fiber.StatusOK)).JSON(fiber.Map{
		"active": active,
		"count":  count,
	})
}
