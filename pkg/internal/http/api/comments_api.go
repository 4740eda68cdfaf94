package api

import (
	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/http/exts"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/athlinked/server/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listComments(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("postId", 0)

	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	// Comment visibility inherits the post verdict.
	if !services.CanViewPostWithID(viewerOf(c), uint(id)) {
		return fiber.NewError(fiber.StatusNotFound, "post not found")
	}

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	comments, err := services.ListComments(item, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": item.TotalComments,
		"data":  comments,
	})
}

func createComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)
	id, _ := c.ParamsInt("postId", 0)

	var data struct {
		Content string `json:"content" validate:"required,max=2048"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if !services.CanViewPostWithID(&user, uint(id)) {
		return fiber.NewError(fiber.StatusNotFound, "post not found")
	}

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	comment, err := services.NewComment(user, item, data.Content)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func deleteComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)
	id, _ := c.ParamsInt("commentId", 0)

	comment, err := services.GetComment(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	// Either the comment author or the post owner may remove it.
	if comment.AuthorID != user.ID {
		item, err := services.GetPost(database.C, comment.PostID)
		if err != nil || item.AuthorID != user.ID {
			return fiber.NewError(fiber.StatusForbidden, "not allowed to delete this comment")
		}
	}

	if err := services.DeleteComment(comment); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
