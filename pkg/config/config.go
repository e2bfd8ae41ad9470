package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var Module = fx.Module("config", fx.Provide(Load))

type Config struct {
	AppEnv     string `mapstructure:"APP_ENV"`
	AppName    string `mapstructure:"APP_NAME"`
	AppVersion string `mapstructure:"APP_VERSION"`
	TLS        struct {
		Enable   bool   `mapstructure:"ENABLE"`
		CertPath string `mapstructure:"CERT_PATH"`
		KeyPath  string `mapstructure:"KEY_PATH"`
	} `mapstructure:"TLS"`
	Server struct {
		Addr         string        `mapstructure:"ADDR"`
		ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
		WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `mapstructure:"IDLE_TIMEOUT"`
	} `mapstructure:"HTTP_SERVER"`
	Database struct {
		Type           string        `mapstructure:"TYPE"`
		Host           string        `mapstructure:"HOST"`
		Port           string        `mapstructure:"PORT"`
		DBName         string        `mapstructure:"DBNAME"`
		User           string        `mapstructure:"USER"`
		Password       string        `mapstructure:"PASSWORD"`
		SSLMode        string        `mapstructure:"SSLMODE"`
		Timezone       string        `mapstructure:"TIMEZONE"`
		QueryTimeout   time.Duration `mapstructure:"QUERY_TIMEOUT"`
		ConnectionPool struct {
			MaxIdleConn     int           `mapstructure:"MAX_IDLE_CONN"`
			MaxOpenConn     int           `mapstructure:"MAX_OPEN_CONN"`
			ConnMaxLifetime time.Duration `mapstructure:"CONN_MAX_LIFETIME"`
			ConnMaxIdleTime time.Duration `mapstructure:"CONN_MAX_IDLE_TIME"`
		} `mapstructure:"CONNECTION_POOL"`
	} `mapstructure:"DATABASE"`
	Catalog struct {
		Path   string `mapstructure:"PATH"`
		Locale string `mapstructure:"LOCALE"`
	} `mapstructure:"CATALOG"`
}

// Load reads config.yaml from the working directory with environment variable
// overrides (dots replaced by underscores, e.g. DATABASE_HOST).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "locales"
	}
	if cfg.Catalog.Locale == "" {
		cfg.Catalog.Locale = "en"
	}
	if cfg.Database.QueryTimeout == 0 {
		cfg.Database.QueryTimeout = 5 * time.Second
	}

	return &cfg, nil
}
