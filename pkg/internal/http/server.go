package http

import (
	pkg "github.com/athlinked/server/pkg/internal"
	"github.com/athlinked/server/pkg/internal/http/api"
	"github.com/athlinked/server/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type App struct {
	app *fiber.App
}

func NewServer() *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		ServerHeader:          "AthLinked",
		AppName:               "AthLinked v" + pkg.AppVersion,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:             viper.GetInt("hc_limit_body_size"),
	})

	app.Use(logger.New(logger.Config{
		Format: "${status} | ${latency} | ${method} ${path}\n",
	}))
	app.Use(exts.AuthMiddleware)

	api.MapAPIs(app, "/api")

	return &App{app}
}

func (v *App) Listen() {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting http server.")
	}
}
