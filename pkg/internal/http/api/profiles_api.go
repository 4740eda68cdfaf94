package api

import (
	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/http/exts"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/athlinked/server/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func getProfile(c *fiber.Ctx) error {
	name := c.Params("name")

	profile, err := services.GetProfileWithName(name)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(profile)
}

func createProfile(c *fiber.Ctx) error {
	accountId, ok := c.Locals("accountId").(uint)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	if _, ok := c.Locals("user").(models.Profile); ok {
		return fiber.NewError(fiber.StatusConflict, "profile already exists")
	}

	var data struct {
		Name          string   `json:"name" validate:"required,lowercase,alphanum,min=4,max=32"`
		Nick          string   `json:"nick" validate:"required,max=64"`
		Description   string   `json:"description" validate:"max=512"`
		Sport         string   `json:"sport" validate:"max=64"`
		Organizations []string `json:"organizations"`
		Private       bool     `json:"private"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile := models.Profile{
		Name:          data.Name,
		Nick:          data.Nick,
		Description:   data.Description,
		Sport:         data.Sport,
		Organizations: data.Organizations,
		Visibility:    models.VisibilityPublic,
		AccountID:     accountId,
	}
	if data.Private {
		profile.Visibility = models.VisibilityPrivate
	}

	profile, err := services.NewProfile(profile)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

func updateProfileVisibility(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	var data struct {
		Private bool `json:"private"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	visibility := models.VisibilityPublic
	if data.Private {
		visibility = models.VisibilityPrivate
	}

	profile, err := services.UpdateProfileVisibility(user, visibility)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(profile)
}

func listProfilePosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	owner, err := services.GetProfileWithName(c.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	var viewer *models.Profile
	if user, authenticated := c.Locals("user").(models.Profile); authenticated {
		viewer = &user
	}

	tx := services.FilterPostWithAuthor(database.C, owner.ID)
	items, err := services.ListFeedPosts(tx, viewer, take, offset)
	if err != nil {
		return remapEngineError(err)
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

func listSavedPosts(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	items, err := services.ListEngagedPosts(user, models.EngagementKindSave, take, offset)
	if err != nil {
		return remapEngineError(err)
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}
