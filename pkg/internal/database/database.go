package database

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

var C *gorm.DB

func NewGorm() error {
	var err error
	dsn := viper.GetString("database.dsn")

	C, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         glogger.Default.LogMode(glogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	log.Info().Msg("Database connected.")
	return nil
}
