package app

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-task-manager/internal/config"
)

const configPathEnv = "CONFIG_PATH"

func MustReadConfig() {
	var reader config.Reader = config.NewEnvReader()
	if path := os.Getenv(configPathEnv); path != "" {
		reader = config.NewFileReader(path)
	}

	cfg, err := reader.Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read config")
		panic(err)
	}

	loc, err := cfg.Location()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to load timezone")
		panic(err)
	}
	globalLocation = loc

	globalLogger.Info().
		Str("env", cfg.Env).
		Str("storage_driver", cfg.Storage.Driver).
		Str("timezone", loc.String()).
		Msg("read config")

	config.SetGlobal(cfg)
}
