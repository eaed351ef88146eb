package app

import (
	"strings"

	"github.com/fieldnav/annotation-backend/internal/platform/envutil"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

type Config struct {
	ServiceName  string
	Port         string
	JWTSecretKey string
	CORSOrigins  []string
	OTelEnabled  bool
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		ServiceName:  envutil.GetEnv("SERVICE_NAME", "annotation-backend", log),
		Port:         envutil.GetEnv("PORT", "8080", log),
		JWTSecretKey: envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		OTelEnabled:  envutil.GetEnvAsBool("OTEL_ENABLED", false, log),
	}
	if raw := envutil.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}
	return cfg
}
