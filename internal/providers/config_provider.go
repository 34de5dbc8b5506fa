package providers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"babylog/internal/structures"
)

const AppName = "BabyLog"

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8787)
	v.SetDefault("persistence.filePath", "data/db.json")
	v.SetDefault("persistence.compress", false)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "logs")
	v.SetDefault("logger.console", false)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 8)
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("static.dir", "dist")
	v.SetDefault("static.index", "index.html")
	v.SetDefault("api.lenientBodies", false)
	v.SetDefault("api.maxBodyBytes", 8<<20)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setConfigDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "BABYLOG_LOG_LEVEL")
	v.BindEnv("webServer.port", "BABYLOG_PORT", "PORT")
	v.BindEnv("persistence.filePath", "BABYLOG_DATA_FILE")
	v.BindEnv("static.dir", "BABYLOG_STATIC_DIR")
	v.BindEnv("cache.enabled", "BABYLOG_CACHE_ENABLED")
	v.BindEnv("metrics.enabled", "BABYLOG_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
