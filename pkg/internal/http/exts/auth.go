package exts

import (
	"strconv"
	"strings"

	"github.com/athlinked/server/pkg/internal/models"
	"github.com/athlinked/server/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

// AuthMiddleware resolves the bearer token issued by the platform account
// service into the viewer's Profile under c.Locals("user"). Requests without
// a usable token continue anonymously; handlers that require identity call
// EnsureAuthenticated.
func AuthMiddleware(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Next()
	}

	token, err := jwt.Parse(
		strings.TrimPrefix(header, "Bearer "),
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(viper.GetString("security.jwt_secret")), nil
		},
	)
	if err != nil || !token.Valid {
		return c.Next()
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return c.Next()
	}
	accountId, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return c.Next()
	}

	c.Locals("accountId", uint(accountId))
	if user, err := services.GetProfileWithAccount(uint(accountId)); err == nil {
		c.Locals("user", user)
	}

	return c.Next()
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := c.Locals("user").(models.Profile); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	return nil
}
