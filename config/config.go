package config

import (
	"os"
	"path"

	"github.com/Ruola/haoda/log"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the external tool locations and the platform defaults used
// when no platform bundle is given on the command line.
type Config struct {
	Vivado      string
	VivadoHLS   string
	Part        string
	ClockPeriod string
}

const configFileName = "config"

var config *Config

// getConfigDir returns the directory the configuration file is read from.
// It honors HAODA_CONFIG_DIR and XDG_CONFIG_HOME before falling back to
// ~/.config/haoda.
func getConfigDir() (string, error) {
	if configDir, ok := os.LookupEnv("HAODA_CONFIG_DIR"); ok {
		return configDir, nil
	}

	if xdgConfigHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		return path.Join(xdgConfigHome, "haoda"), nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return path.Join(home, ".config", "haoda"), nil
}

func loadConfiguration() Config {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.SetDefault("vivado", "vivado")
	v.SetDefault("vivado_hls", "vivado_hls")
	v.SetDefault("part", "")
	v.SetDefault("clock_period", "")
	v.SetEnvPrefix("haoda")
	v.AutomaticEnv()

	configDir, err := getConfigDir()
	if err != nil {
		log.Debug("Unable to find the haoda config directory: %s. Using default configuration.\n", err)
	} else {
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Debug("No configuration file loaded: %s. Using default configuration.\n", err)
	} else {
		log.Debug("Loaded configuration from '%s'.\n", v.ConfigFileUsed())
	}

	config := Config{
		Vivado:      v.GetString("vivado"),
		VivadoHLS:   v.GetString("vivado_hls"),
		Part:        v.GetString("part"),
		ClockPeriod: v.GetString("clock_period"),
	}
	log.Debug("Running with configuration: %+v\n", config)
	return config
}

// GetConfig returns the tool configuration. The configuration is loaded
// once and cached.
func GetConfig() Config {
	if config == nil {
		loadedConfig := loadConfiguration()
		config = &loadedConfig
	}

	return *config
}
