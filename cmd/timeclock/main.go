// Terminal kiosk for the timeclock API.
//
//	timeclock [--api URL] [--tz ZONE] [--prefs FILE] [--downloads DIR]
//	timeclock hash-password PASSWORD
package main

import (
	"os"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"timeclock.service/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logger.SetupConsole(os.Stderr, zerolog.WarnLevel)

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("timeclock failed")
		os.Exit(1)
	}
}
