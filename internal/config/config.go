// Package config provides Viper-based configuration loading for trollwire.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Modes of operation for the trollwire binary.
const (
	ModeServer  = "server"  // run the relay in front of the logic engine
	ModeClient  = "client"  // run the screen state machine client core
	ModeConsole = "console" // run the raw line console client
)

// ServerConfig holds relay listener settings.
type ServerConfig struct {
	// Host is the bind address for the WebSocket listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the WebSocket listener.
	Port int `mapstructure:"port"`
}

// Addr returns the "host:port" listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ClientConfig holds connection settings for the client roles.
type ClientConfig struct {
	// Host is the relay host to connect to.
	Host string `mapstructure:"host"`
	// Port is the relay port to connect to.
	Port int `mapstructure:"port"`
	// Nick is the self-declared display name. May be empty; the nickname
	// screen collects one interactively.
	Nick string `mapstructure:"nick"`
}

// URL returns the ws:// URL of the relay.
func (c ClientConfig) URL() string {
	return fmt.Sprintf("ws://%s:%d", c.Host, c.Port)
}

// EngineConfig holds the logic-engine subprocess command line.
type EngineConfig struct {
	// Command is the executable to spawn.
	Command string `mapstructure:"command"`
	// Args are the arguments passed to Command.
	Args []string `mapstructure:"args"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration. It is constructed once
// at startup and passed by value; nothing mutates it afterwards.
type Config struct {
	Mode    string        `mapstructure:"mode"`
	Server  ServerConfig  `mapstructure:"server"`
	Client  ClientConfig  `mapstructure:"client"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateMode(c.Mode); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateClient(c.Client); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateEngine(c.Engine); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateMode(mode string) error {
	validModes := map[string]bool{ModeServer: true, ModeClient: true, ModeConsole: true}
	if !validModes[mode] {
		return fmt.Errorf("mode must be one of [server, client, console], got %q", mode)
	}
	return nil
}

func validateServer(s ServerConfig) error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", s.Port)
	}
	return nil
}

func validateClient(c ClientConfig) error {
	var errs []string
	if c.Host == "" {
		errs = append(errs, "client.host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("client.port must be 1-65535, got %d", c.Port))
	}
	if c.Nick != "" {
		if err := ValidateNick(c.Nick); err != nil {
			errs = append(errs, fmt.Sprintf("client.nick: %v", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateEngine(e EngineConfig) error {
	if e.Command == "" {
		return errors.New("engine.command must not be empty")
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// ValidateNick checks that a display name is usable on the wire. Names travel
// inside the relay's addressing prefixes, so whitespace, ':' and ',' would
// corrupt forwarding and fan-out.
//
// Postcondition: Returns nil only for a non-empty name free of reserved characters.
func ValidateNick(nick string) error {
	if nick == "" {
		return errors.New("name must not be empty")
	}
	if strings.ContainsAny(nick, ":, \t") {
		return fmt.Errorf("name %q must not contain ':', ',' or whitespace", nick)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with TROLLWIRE_ prefix
	v.SetEnvPrefix("TROLLWIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default builds the default configuration without reading any file.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always unmarshal cleanly.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", ModeClient)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8008)

	v.SetDefault("client.host", "play.kuviman.com")
	v.SetDefault("client.port", 8008)
	v.SetDefault("client.nick", "")

	v.SetDefault("engine.command", "java")
	v.SetDefault("engine.args", []string{"-jar", "TrollInvasion.jar"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
