// Copyright (C) 2026 GatewayKit Contributors
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/gatewaykit/dcnet/types"
)

// Config is the daemon configuration, loaded from a TOML file.
type Config struct {
	Daemon   DaemonConfig     `toml:"daemon"`
	Network  NetworkConfig    `toml:"network"`
	Log      LogConfig        `toml:"log"`
	Channels []*ChannelConfig `toml:"channel" validate:"dive"`
}

// DaemonConfig holds the server-side settings.
type DaemonConfig struct {
	// SocketPath is the unix socket the daemon listens on. Empty
	// means the built-in default (or DCNET_SOCKET_PATH).
	SocketPath string `toml:"socket_path"`
	// PIDFile is the daemon PID file path.
	PIDFile string `toml:"pid_file"`
	// MaxClientSessions bounds the number of concurrent gateway
	// backups, one per client session.
	MaxClientSessions int `toml:"max_client_sessions" validate:"required,gte=1"`
	// JournalPath is the sqlite mutation journal. Empty disables
	// journaling.
	JournalPath string `toml:"journal_path"`
	// ModemPlugin names the modem provider plugin to launch, e.g.
	// "quectel" resolves to dcnet-modem-quectel on the plugin path.
	// Empty means no cellular support.
	ModemPlugin string `toml:"modem_plugin"`
}

// NetworkConfig holds the host paths the platform layer touches.
type NetworkConfig struct {
	// LeaseFilePattern is the DHCP client lease file path with a %s
	// placeholder for the interface name.
	LeaseFilePattern string `toml:"lease_file_pattern"`
	// ResolvConfPath is the DNS resolver configuration file.
	ResolvConfPath string `toml:"resolv_conf_path"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `toml:"format" validate:"omitempty,oneof=text json"`
	File   string `toml:"file"`
}

// ChannelConfig is a static data channel definition.
type ChannelConfig struct {
	// Ref is the opaque reference clients use to address the channel.
	Ref string `toml:"ref" validate:"required"`
	// Name is the display name.
	Name string `toml:"name"`
	// Technology is one of cellular, wifi, ethernet.
	Technology string `toml:"technology" validate:"required,technology"`
	// TechRef is the technology-specific reference, e.g. the modem
	// profile identifier for cellular channels.
	TechRef string `toml:"tech_ref"`
	// Interface is the network interface carrying the channel. Unused
	// for cellular channels, whose interface comes from the modem.
	Interface string `toml:"interface"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Daemon: DaemonConfig{
			MaxClientSessions: 8,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("technology", validateTechnology); err != nil {
		panic(err)
	}

	// Report field names by their TOML tag.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateTechnology(fl validator.FieldLevel) bool {
	return types.ParseTechnology(fl.Field().String()).Valid()
}

// LoadConfig reads and validates a TOML configuration file.
func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(content, config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("failed to parse config file at line %d, column %d: %s", row, col, derr.Error())
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for structural and semantic errors.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), validationMessage(e)))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := make(map[string]bool)
	for _, ch := range c.Channels {
		if seen[ch.Ref] {
			return fmt.Errorf("invalid configuration: duplicate channel ref %q", ch.Ref)
		}
		seen[ch.Ref] = true

		if types.ParseTechnology(ch.Technology) != types.TechCellular && ch.Interface == "" {
			return fmt.Errorf("invalid configuration: channel %q needs an interface", ch.Ref)
		}
	}

	if c.Network.LeaseFilePattern != "" && !strings.Contains(c.Network.LeaseFilePattern, "%s") {
		return fmt.Errorf("invalid configuration: lease_file_pattern needs a %%s placeholder")
	}

	return nil
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "technology":
		return "must be one of: cellular, wifi, ethernet"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}
