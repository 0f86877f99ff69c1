package config

import (
	"os"
	"path/filepath"
)

const (
	appNameVar  = "APP_NAME"
	folderVar   = "DATA_FOLDER"
	logLevelVar = "LOG_LEVEL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Beliy Client")
}

// GetDataFolder returns the folder holding the persisted session. Defaults
// to a "beliy" directory under the user's config dir, falling back to the
// working directory when the platform provides none.
func (EnvVars) GetDataFolder() string {
	if folder := os.Getenv(folderVar); folder != "" {
		return folder
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "./.beliy"
	}
	return filepath.Join(configDir, "beliy")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
