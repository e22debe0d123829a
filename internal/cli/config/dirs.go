// Package config provides configuration management for the hirn-login CLI tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "hirn-login"

// UserConfigDir returns the OS-specific user configuration directory for hirn-login.
// On Linux: ~/.config/hirn-login
// On macOS: ~/Library/Application Support/hirn-login
// On Windows: %APPDATA%\hirn-login
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	appConfigDir := filepath.Join(configDir, appName)
	return appConfigDir, nil
}
