package api

import (
	"github.com/athlinked/server/pkg/internal/http/exts"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/athlinked/server/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func requestFollow(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)
	targetId, _ := c.ParamsInt("targetId", 0)

	var data struct {
		Message *string `json:"message" validate:"omitempty,max=256"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	target, err := services.GetProfileWithID(uint(targetId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	edge, err := services.RequestFollow(user, target, data.Message)
	if err != nil {
		return remapEngineError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(edge)
}

func respondFollowRequest(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)
	edgeId, _ := c.ParamsInt("edgeId", 0)

	var data struct {
		Decision string `json:"decision" validate:"required,oneof=accept reject"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	edge, err := services.RespondFollow(uint(edgeId), user, data.Decision == "accept")
	if err != nil {
		return remapEngineError(err)
	}

	return c.JSON(edge)
}

func unfollow(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)
	targetId, _ := c.ParamsInt("targetId", 0)

	target, err := services.GetProfileWithID(uint(targetId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.Unfollow(user, target); err != nil {
		return remapEngineError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func removeFollower(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)
	sourceId, _ := c.ParamsInt("sourceId", 0)

	source, err := services.GetProfileWithID(uint(sourceId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.RemoveFollower(user, source); err != nil {
		return remapEngineError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func listFollowers(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	edges, err := services.ListFollowers(user, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(edges)
}

func listFollowing(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	edges, err := services.ListFollowing(user, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(edges)
}

func listFollowRequests(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	edges, err := services.ListPendingRequests(user, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(edges)
}
