package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the project-level config file.
const ConfigFileName = "bzlsum.toml"

// ConfigDirName is the name of the project-level config directory.
const ConfigDirName = ".bzlsum"

// GlobalConfigDir is the name of the global config directory inside user's config.
const GlobalConfigDir = "bzlsum"

// Load loads configuration from all layers in order of precedence:
//  1. Built-in defaults
//  2. Global user config (~/.config/bzlsum/config.toml)
//  3. Project config (.bzlsum/config.toml or bzlsum.toml)
//  4. Environment variables (BZLSUM_*)
//
// CLI flags are applied separately after Load() returns.
func Load() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return LoadFrom(wd)
}

// LoadFrom loads configuration starting from a specific directory.
func LoadFrom(dir string) *Config {
	cfg := NewConfig()

	// Layer 2: Global user config
	if globalCfg := loadGlobalConfig(); globalCfg != nil {
		cfg.Merge(globalCfg)
	}

	// Layer 3: Project config from specified directory
	if projectCfg := loadProjectConfigFrom(dir); projectCfg != nil {
		cfg.Merge(projectCfg)
	}

	// Layer 4: Environment variables
	applyEnvironmentVariables(cfg)

	return cfg
}

// loadGlobalConfig loads the global user configuration from ~/.config/bzlsum/config.toml.
func loadGlobalConfig() *Config {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}

	configPath := filepath.Join(configDir, GlobalConfigDir, "config.toml")
	return loadConfigFile(configPath)
}

// loadProjectConfigFrom looks for project configuration starting from the given directory.
func loadProjectConfigFrom(dir string) *Config {
	// Search up the directory tree for config files
	current := dir
	for {
		// Check for .bzlsum/config.toml first
		dirConfig := filepath.Join(current, ConfigDirName, "config.toml")
		if cfg := loadConfigFile(dirConfig); cfg != nil {
			return cfg
		}

		// Check for bzlsum.toml in project root
		rootConfig := filepath.Join(current, ConfigFileName)
		if cfg := loadConfigFile(rootConfig); cfg != nil {
			return cfg
		}

		// Stop at filesystem root or git/bazel workspace root
		if isWorkspaceRoot(current) {
			break
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return nil
}

// isWorkspaceRoot checks if the directory is a workspace root (has .git, WORKSPACE, or MODULE.bazel).
func isWorkspaceRoot(dir string) bool {
	markers := []string{".git", "WORKSPACE", "WORKSPACE.bazel", "MODULE.bazel"}
	for _, marker := range markers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// loadConfigFile loads a configuration from a TOML file.
func loadConfigFile(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil
	}

	return &cfg
}

// applyEnvironmentVariables applies BZLSUM_* environment variables to the config.
func applyEnvironmentVariables(cfg *Config) {
	if v := os.Getenv("BZLSUM_GO_SUM"); v != "" {
		cfg.Paths.GoSum = v
	}
	if v := os.Getenv("BZLSUM_DEPS_BZL"); v != "" {
		cfg.Paths.DepsBzl = v
	}
	applyBoolEnv("BZLSUM_FAIL_ON_MISSING", &cfg.Sync.FailOnMissing)
}

// applyBoolEnv applies a boolean environment variable to a pointer.
func applyBoolEnv(envVar string, target **bool) {
	v := strings.ToLower(os.Getenv(envVar))
	switch v {
	case "true", "1", "yes":
		t := true
		*target = &t
	case "false", "0", "no":
		f := false
		*target = &f
	}
}

// GetGlobalConfigPath returns the path to the global config file.
func GetGlobalConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, GlobalConfigDir, "config.toml")
}

// GetProjectConfigPaths returns potential project config paths for a given directory.
func GetProjectConfigPaths(dir string) []string {
	return []string{
		filepath.Join(dir, ConfigDirName, "config.toml"),
		filepath.Join(dir, ConfigFileName),
	}
}
