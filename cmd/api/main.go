package main

import (
	"os"

	"github.com/ethanbaker/lawcus-relay/internal/api"
	"github.com/ethanbaker/lawcus-relay/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Start the relay
func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	logger := newLogger(cfg)

	if err := api.Start(cfg, logger); err != nil {
		logger.WithField("module", "API-MAIN").WithError(err).Fatal("relay stopped")
	}
}

// newLogger configures logrus from LOG_LEVEL and LOG_FORMAT
func newLogger(cfg *utils.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.GetWithDefault("LOG_FORMAT", "json") == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.GetWithDefault("LOG_LEVEL", "info"))
	if err != nil {
		logger.WithError(err).Warn("invalid LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
