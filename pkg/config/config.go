package config

import (
	"Topolab/api"
	"Topolab/pkg/dhcp"
	"Topolab/pkg/node"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Log        LogConfig      `mapstructure:"log"`
	Controller api.Controller `mapstructure:"controller"`
	Switch     SwitchConfig   `mapstructure:"switch"`
	Host       HostConfig     `mapstructure:"host"`
	DHCP       api.DHCPServer `mapstructure:"dhcp"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type SwitchConfig struct {
	Protocols []string `mapstructure:"protocols"`
	FailMode  string   `mapstructure:"fail_mode"` // secure, standalone
}

type HostConfig struct {
	Image string `mapstructure:"image"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Controller: api.Controller{
			Name:     "c0",
			IP:       "127.0.0.1",
			Port:     6653,
			Protocol: "tcp",
		},
		Switch: SwitchConfig{FailMode: "secure"},
		Host:   HostConfig{Image: node.DefaultImage},
		DHCP: api.DHCPServer{
			Host:       "h1",
			Binary:     dhcp.DefaultBinary,
			PidFile:    dhcp.DefaultPidFile,
			ConfigFile: "./dhcpd.conf",
			LeaseFile:  dhcp.DefaultLeaseFile,
		},
	}
}

// Load overlays whatever viper has read onto Default.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	setDefaults(v, cfg)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key with v, Unmarshal only consults the
// environment for keys viper knows about.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.development", c.Log.Development)
	v.SetDefault("controller.name", c.Controller.Name)
	v.SetDefault("controller.ip", c.Controller.IP)
	v.SetDefault("controller.port", c.Controller.Port)
	v.SetDefault("controller.protocol", c.Controller.Protocol)
	v.SetDefault("switch.fail_mode", c.Switch.FailMode)
	v.SetDefault("host.image", c.Host.Image)
	v.SetDefault("dhcp.host", c.DHCP.Host)
	v.SetDefault("dhcp.binary", c.DHCP.Binary)
	v.SetDefault("dhcp.pid_file", c.DHCP.PidFile)
	v.SetDefault("dhcp.config_file", c.DHCP.ConfigFile)
	v.SetDefault("dhcp.lease_file", c.DHCP.LeaseFile)
}

// Logger builds the process logger.
func (c LogConfig) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = !c.Development
	return zc.Build()
}
