package api

import (
	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/http/exts"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/athlinked/server/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func viewerOf(c *fiber.Ctx) *models.Profile {
	if user, authenticated := c.Locals("user").(models.Profile); authenticated {
		return &user
	}
	return nil
}

func getPost(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("postId", 0)

	// Denied and missing look identical on purpose; a 403 would reveal the
	// post exists.
	if !services.CanViewPostWithID(viewerOf(c), uint(id)) {
		return fiber.NewError(fiber.StatusNotFound, "post not found")
	}

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(item)
}

func listPost(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	tx := database.C
	if len(c.Query("type")) > 0 {
		tx = services.FilterPostWithType(tx, c.Query("type"))
	}

	items, err := services.ListFeedPosts(tx, viewerOf(c), take, offset)
	if err != nil {
		return remapEngineError(err)
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

func createPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	var data struct {
		Type    string         `json:"type" validate:"required"`
		Body    map[string]any `json:"body" validate:"required"`
		Private bool           `json:"private"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item := models.Post{
		Type:       data.Type,
		Body:       datatypes.JSONMap(data.Body),
		Visibility: models.VisibilityPublic,
	}
	if data.Private {
		item.Visibility = models.VisibilityPrivate
	}

	item, err := services.NewPost(user, item)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func deletePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)
	id, _ := c.ParamsInt("postId", 0)

	var item models.Post
	if err := database.C.Where("id = ? AND author_id = ?", id, user.ID).First(&item).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeletePost(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
