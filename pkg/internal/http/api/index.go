package api

import (
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		profiles := api.Group("/profiles").Name("Profiles API")
		{
			profiles.Post("/", createProfile)
			profiles.Put("/me/visibility", updateProfileVisibility)
			profiles.Get("/me/saved", listSavedPosts)
			profiles.Get("/:name", getProfile)
			profiles.Get("/:name/posts", listProfilePosts)
		}

		posts := api.Group("/posts").Name("Posts API")
		{
			posts.Get("/", listPost)
			posts.Post("/", createPost)
			posts.Get("/:postId", getPost)
			posts.Delete("/:postId", deletePost)

			posts.Post("/:postId/engage/:kind", toggleEngagement)

			posts.Get("/:postId/comments", listComments)
			posts.Post("/:postId/comments", createComment)
		}

		api.Delete("/comments/:commentId", deleteComment)

		relationships := api.Group("/relationships").Name("Relationships API")
		{
			relationships.Get("/followers", listFollowers)
			relationships.Get("/following", listFollowing)
			relationships.Get("/requests", listFollowRequests)
			relationships.Post("/requests/:edgeId", respondFollowRequest)
			relationships.Post("/:targetId/follow", requestFollow)
			relationships.Delete("/:targetId/follow", unfollow)
			relationships.Delete("/:sourceId/follower", removeFollower)
		}

		notifications := api.Group("/notifications").Name("Notifications API")
		{
			notifications.Get("/", listNotifications)
			notifications.Get("/count", countUnreadNotifications)
			notifications.Put("/read", markNotificationsRead)
			notifications.Get("/preferences", listNotificationPreferences)
			notifications.Put("/preferences", setNotificationPreference)
		}
	}
}
