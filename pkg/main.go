package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "github.com/athlinked/server/pkg/internal"
	"github.com/athlinked/server/pkg/internal/cache"
	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/http"
	"github.com/athlinked/server/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString("    _   _   _     _     _       _            _\n   / \\ | |_| |__ | |   (_)_ __ | | _____  __| |\n  / _ \\| __| '_ \\| |   | | '_ \\| |/ / _ \\/ _` |\n / ___ \\ |_| | | | |___| | | | |   <  __/ (_| |\n/_/   \\_\\__|_| |_|_____|_|_| |_|_|\\_\\___|\\__,_|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("AthLinked"), pkg.AppVersion)
	fmt.Printf("The social networking service for athletes\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Local cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when setting up local cache.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.AddFunc("@every 30m", func() {
		if err := services.ReconcileEngagementCounters(); err != nil {
			log.Error().Err(err).Msg("An error occurred when reconciling engagement counters.")
		}
	})
	quartz.Start()

	// Server
	go http.NewServer().Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
}
