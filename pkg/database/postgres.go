package database

import (
	"fmt"
	"net/url"

	"timeclock.service/internal/config"
)

// DSN builds the pgx connection URL from config. Credentials are escaped so
// passwords with reserved characters survive.
func DSN(cfg config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:     fmt.Sprintf("%s:%s", cfg.DBHost, cfg.DBPort),
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
