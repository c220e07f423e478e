package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// The services run as containers with their settings injected as environment
// variables. A .env file in the working directory is honoured for local runs.

type Config struct {
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	ServerPort string `mapstructure:"SERVER_PORT"`
	IsLocalDev bool   `mapstructure:"IS_LOCAL_DEV"`

	AWSRegion         string `mapstructure:"AWS_REGION"`
	AWSEndpoint       string `mapstructure:"AWS_ENDPOINT"`
	ReportSQSQueueURL string `mapstructure:"REPORT_SQS_QUEUE_URL"`
	ReportSender      string `mapstructure:"REPORT_SENDER"`
	ReportRecipients  string `mapstructure:"REPORT_RECIPIENTS"`
	WorkerConcurrency int    `mapstructure:"WORKER_CONCURRENCY"`

	Timezone              string `mapstructure:"TIMEZONE"`
	ReportScheduleEnabled bool   `mapstructure:"REPORT_SCHEDULE_ENABLED"`
	ReportScheduleAt      string `mapstructure:"REPORT_SCHEDULE_AT"`

	AdminPassword        string `mapstructure:"ADMIN_PASSWORD"`
	AdminPasswordHash    string `mapstructure:"ADMIN_PASSWORD_HASH"`
	AdminTokenSecret     string `mapstructure:"ADMIN_TOKEN_SECRET"`
	AdminTokenTTLMinutes int    `mapstructure:"ADMIN_TOKEN_TTL_MINUTES"`
	RequireAdminToken    bool   `mapstructure:"REQUIRE_ADMIN_TOKEN"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	OTelExporterEndpoint string `mapstructure:"OTEL_EXPORTER_ENDPOINT"`

	CompanyName string `mapstructure:"COMPANY_NAME"`
}

// LoadConfig reads configuration from a .env file (if present) and environment variables.
func LoadConfig() (config Config, err error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Read in environment variables that match the keys.
	v.AutomaticEnv()

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "db")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "timeclock_db")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("IS_LOCAL_DEV", false)

	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	v.SetDefault("REPORT_SQS_QUEUE_URL", "http://localstack:4566/000000000000/report-queue")
	v.SetDefault("REPORT_SENDER", "timeclock@candyfactory.com")
	v.SetDefault("REPORT_RECIPIENTS", "office@candyfactory.com")
	v.SetDefault("WORKER_CONCURRENCY", 10)

	v.SetDefault("TIMEZONE", "America/Chicago")
	v.SetDefault("REPORT_SCHEDULE_ENABLED", true)
	v.SetDefault("REPORT_SCHEDULE_AT", "23:36")

	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("ADMIN_TOKEN_SECRET", "")
	v.SetDefault("ADMIN_TOKEN_TTL_MINUTES", 480)
	v.SetDefault("REQUIRE_ADMIN_TOKEN", false)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("OTEL_EXPORTER_ENDPOINT", "jaeger:4317")

	v.SetDefault("COMPANY_NAME", "Candy Factory")
}

// Location resolves the business time zone. Shift days, report dates and the
// verification year are all computed in it.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Recipients splits REPORT_RECIPIENTS on commas, dropping blanks.
func (c Config) Recipients() []string {
	var out []string
	for _, r := range strings.Split(c.ReportRecipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// AdminTokenTTL is the lifetime of issued admin tokens.
func (c Config) AdminTokenTTL() time.Duration {
	return time.Duration(c.AdminTokenTTLMinutes) * time.Minute
}
