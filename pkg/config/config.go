// Package config holds the recognized configuration options of §6 and
// validates them at startup, the way the teacher's own config package
// unmarshals into a struct via viper and validates once before the proxy
// starts serving.
package config

import (
	"fmt"
	"net"
	"strconv"
)

// World describes one backend world entry of the `worlds` map option: the
// port its server listens on and a human description shown in listings.
type World struct {
	Port int    `mapstructure:"port"`
	Desc string `mapstructure:"desc"`
}

// Config is the full set of options the core consults, plus the general
// options (`command`, `server-directory`, ...) that only the surrounding
// supervisor/ancillary subsystems use but which still need to round-trip
// through the same file.
type Config struct {
	Debug bool `mapstructure:"debug"`

	// Proxy options (§6), consulted by the core.
	CommandPrefix                 string           `mapstructure:"command-prefix"`
	DisconnectNonProxyConnections bool             `mapstructure:"disconnect-nonproxy-connections"`
	MaxPlayers                    int              `mapstructure:"max-players"`
	AutoNameChanges               bool             `mapstructure:"auto-name-changes"`
	OnlineMode                    bool             `mapstructure:"online-mode"`
	ProxyBind                     string           `mapstructure:"proxy-bind"`
	ProxyEnabled                  bool             `mapstructure:"proxy-enabled"`
	ProxyPort                     int              `mapstructure:"proxy-port"`
	SilentIPBan                   bool             `mapstructure:"silent-ipban"`
	HiddenOps                     []string         `mapstructure:"hidden-ops"`
	BuiltinHub                    bool             `mapstructure:"built-in-hub"`
	Worlds                        map[string]World `mapstructure:"worlds"`

	// BackendAddr is the single Minecraft server this proxy sits in front
	// of (§1: single-backend MITM). Required when ProxyEnabled is true.
	BackendAddr string `mapstructure:"backend-addr"`

	// AdminBind, if non-empty, starts the yamux-multiplexed administrative
	// channel (§1(e)) an IRC bridge/web console/terminal UI collaborator
	// can dial in on. Empty disables it.
	AdminBind string `mapstructure:"admin-bind"`

	// BanStorePath and UUIDCachePath, if non-empty, select a persisted
	// YAML-backed store instead of the in-memory default (§6 "persisted
	// state"). DatabaseDSN, if non-empty, selects the MySQL-backed store
	// instead of either.
	BanStorePath  string `mapstructure:"ban-store-path"`
	UUIDCachePath string `mapstructure:"uuid-cache-path"`
	DatabaseDSN   string `mapstructure:"database-dsn"`

	// General options. Only consumed by ancillary subsystems (server
	// supervisor, IRC bridge, web console, backup scheduler, timed
	// reboot) that sit outside the core, but still carried here since
	// they share the one config file. Validate does not check them.
	Command            string `mapstructure:"command"`
	ServerDirectory    string `mapstructure:"server-directory"`
	Encoding           string `mapstructure:"encoding"`
	AutoRestart        bool   `mapstructure:"auto-restart"`
	TimedRebootEnabled bool   `mapstructure:"timed-reboot-enabled"`
	TimedRebootSeconds int    `mapstructure:"timed-reboot-seconds"`
	TimedRebootWarning string `mapstructure:"timed-reboot-warning-message"`
	Salt               string `mapstructure:"salt"`

	ReadTimeout       int `mapstructure:"read-timeout"`
	ConnectionTimeout int `mapstructure:"connection-timeout"`

	Compression CompressionConfig `mapstructure:"compression"`
}

// CompressionConfig is the zlib threshold/level pair negotiated with SET_COMPRESSION (§4.1).
type CompressionConfig struct {
	Threshold int `mapstructure:"threshold"`
	Level     int `mapstructure:"level"`
}

// Validate checks every recognized option for an internally consistent
// value, surfacing a ConfigError at startup (§7) rather than failing later
// mid-session.
func Validate(c *Config) error {
	var errs []string
	e := func(format string, a ...interface{}) { errs = append(errs, fmt.Sprintf(format, a...)) }

	if len(c.CommandPrefix) != 1 {
		e("command-prefix must be exactly one character, got %q", c.CommandPrefix)
	}
	if c.MaxPlayers < 0 {
		e("max-players must be >= 0, got %d", c.MaxPlayers)
	}
	if c.ProxyEnabled {
		if c.ProxyBind == "" {
			e("proxy-bind must be set when proxy-enabled is true")
		} else if _, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(c.ProxyBind, strconv.Itoa(c.ProxyPort))); err != nil {
			e("invalid proxy-bind/proxy-port: %v", err)
		}
		if c.ProxyPort <= 0 || c.ProxyPort > 65535 {
			e("proxy-port out of range: %d", c.ProxyPort)
		}
		if c.BackendAddr == "" {
			e("backend-addr must be set when proxy-enabled is true")
		}
	}
	for name, w := range c.Worlds {
		if w.Port <= 0 || w.Port > 65535 {
			e("worlds[%s].port out of range: %d", name, w.Port)
		}
	}
	if c.Compression.Threshold < -1 {
		e("compression.threshold must be >= -1, got %d", c.Compression.Threshold)
	}
	if c.Compression.Level < 0 || c.Compression.Level > 9 {
		e("compression.level must be in [0,9], got %d", c.Compression.Level)
	}
	if c.ReadTimeout < 0 {
		e("read-timeout must be >= 0")
	}
	if c.ConnectionTimeout < 0 {
		e("connection-timeout must be >= 0")
	}

	if len(errs) > 0 {
		msg := errs[0]
		for _, extra := range errs[1:] {
			msg += "; " + extra
		}
		return &ConfigError{Reason: msg}
	}
	return nil
}

// ConfigError surfaces at startup only (§7), never mid-session.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config: " + e.Reason }

// Default returns the option values the teacher's own config file ships
// as defaults, before any user override is unmarshalled over them.
func Default() Config {
	return Config{
		CommandPrefix:                  "/",
		DisconnectNonProxyConnections:  false,
		MaxPlayers:                     1024,
		AutoNameChanges:                false,
		OnlineMode:                     true,
		ProxyBind:                      "0.0.0.0",
		ProxyEnabled:                   true,
		ProxyPort:                      25565,
		BackendAddr:                    "127.0.0.1:25566",
		SilentIPBan:                    false,
		HiddenOps:                      nil,
		BuiltinHub:                     false,
		Worlds:                         map[string]World{},
		Encoding:                       "UTF-8",
		ReadTimeout:                    30,
		ConnectionTimeout:              10,
		Compression:                    CompressionConfig{Threshold: 256, Level: 6},
	}
}
