package providers

import (
	"fmt"
	"path/filepath"
	"personad/internal/structures"
	"strings"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "PERSONAD_LOG_LEVEL")
	v.BindEnv("storage.driver", "PERSONAD_STORAGE_DRIVER")
	v.BindEnv("storage.path", "PERSONAD_STORAGE_PATH")
	v.BindEnv("cache.enabled", "PERSONAD_CACHE_ENABLED")
	v.BindEnv("cache.size", "PERSONAD_CACHE_SIZE")
	v.BindEnv("metrics.enabled", "PERSONAD_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	conf.ApplyDefaults()

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "PersonaDashboard"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
