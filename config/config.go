// Package config loads the server's runtime configuration from an
// optional YAML file, RTYPE_* environment variables, and CLI flags,
// with precedence file < env < flag.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/rtype/arcade/pkg/wire"
)

// Game constants shared by server and client; both sides must agree on
// these exactly since they drive deterministic simulation.
const (
	TickRateHz      = 20
	MaxPlayers      = 32
	DefaultMapWidth = 1600
	DefaultMapHeight = 900

	// AdminBcryptCost records bcrypt's package default cost, which the
	// operator-facing hashing helper (admin.HashPassword, via
	// bcrypt.DefaultCost) uses to produce RTYPE_ADMIN_PWHASH values.
	AdminBcryptCost = 10
)

// ServerConfig is the server's fully resolved runtime configuration.
type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	AdminPort     int    `yaml:"admin_port"`
	AdminPwHash   string `yaml:"admin_pwhash"`
	BindAll       bool   `yaml:"bind_all"`
	DataDir       string `yaml:"data_dir"`
	LeaderboardFile string `yaml:"leaderboard_file"`
	Debug         bool   `yaml:"debug"`
}

// DefaultServerConfig returns the configuration used when no file, env
// var, or flag overrides a field.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:            "127.0.0.1",
		Port:            wire.DefaultPort,
		AdminPort:       wire.DefaultAdminPort,
		BindAll:         false,
		DataDir:         "./data",
		LeaderboardFile: "global_leaderboard.json",
		Debug:           false,
	}
}

// LoadFile merges a YAML config file's fields over the defaults. A
// missing file is not an error — it simply means every field falls
// through to env/flag overrides or the built-in default.
func LoadFile(cfg *ServerConfig, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// LoadEnv overrides cfg's fields from RTYPE_* environment variables.
func LoadEnv(cfg *ServerConfig) {
	if host := os.Getenv("RTYPE_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("RTYPE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if port := os.Getenv("RTYPE_ADMIN_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.AdminPort = p
		}
	}
	if bindAll := os.Getenv("RTYPE_BIND_ALL"); bindAll == "true" || bindAll == "1" {
		cfg.BindAll = true
	}
	if hash := os.Getenv("RTYPE_ADMIN_PWHASH"); hash != "" {
		cfg.AdminPwHash = hash
	}
	if dir := os.Getenv("RTYPE_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
}
