package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

func GetEnv(key, fallback string, log *logger.Logger) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	if log != nil {
		log.Debug("env var not set, using default", "key", key, "default", fallback)
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int, log *logger.Logger) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		if log != nil {
			log.Warn("env var is not an integer, using default", "key", key, "value", val, "default", fallback)
		}
		return fallback
	}
	return parsed
}

func GetEnvAsBool(key string, fallback bool, log *logger.Logger) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if val == "" {
		return fallback
	}
	switch val {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	if log != nil {
		log.Warn("env var is not a boolean, using default", "key", key, "value", val, "default", fallback)
	}
	return fallback
}
