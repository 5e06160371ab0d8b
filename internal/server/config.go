package server

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/zahedbri/e107/internal/secrets"
	"github.com/zahedbri/e107/pkg/sockpath"
)

// Config is the top-level daemon configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Web      WebConfig      `mapstructure:"web"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Actions  ActionsConfig  `mapstructure:"actions"`
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig holds control socket settings.
type ServerConfig struct {
	Socket string `mapstructure:"socket"`
}

// WebConfig holds AJAX endpoint settings.
type WebConfig struct {
	Listen   string `mapstructure:"listen"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"` // #nosec G117 -- config deserialization, not hardcoded
}

// NATSConfig holds embedded NATS settings.
type NATSConfig struct {
	DataDir string `mapstructure:"data_dir"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Token   string `mapstructure:"token"`
}

// ActionsConfig holds Lua action engine settings.
type ActionsConfig struct {
	Dir            string        `mapstructure:"dir"`
	HotReload      bool          `mapstructure:"hot_reload"`
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
}

// SecurityConfig holds application-level security settings.
type SecurityConfig struct {
	BatchSecret string `mapstructure:"batch_secret"`
}

// LoadConfig reads configuration from file and env, decrypting any ENC[...]
// values with the resolved age identity.
func LoadConfig(cfgFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.socket", sockpath.DefaultSocketPath())
	v.SetDefault("web.listen", "127.0.0.1:7680")

	homeDir, _ := os.UserHomeDir()
	v.SetDefault("nats.data_dir", filepath.Join(homeDir, ".local", "share", "e107", "nats"))

	v.SetDefault("actions.dir", filepath.Join(homeDir, ".config", "e107", "actions"))
	v.SetDefault("actions.hot_reload", true)
	v.SetDefault("actions.handler_timeout", 30*time.Second)

	v.SetConfigType("toml")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("e107")
		v.AddConfigPath("/etc/e107")
		v.AddConfigPath("$HOME/.config/e107")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("E107")
	v.AutomaticEnv()

	v.BindEnv("nats.token", "E107_NATS_TOKEN")
	v.BindEnv("web.username", "E107_WEB_USERNAME")
	v.BindEnv("web.password", "E107_WEB_PASSWORD")
	v.BindEnv("security.batch_secret", "E107_BATCH_SECRET")

	// Config file is optional.
	_ = v.ReadInConfig()

	identities, err := secrets.ResolveIdentity(v)
	if err != nil {
		return Config{}, err
	}
	if identities != nil {
		if err := secrets.DecryptViperConfig(v, identities); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
