package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver       string `mapstructure:"DB_DRIVER"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	RedisHost      string `mapstructure:"REDIS_HOST"`
	RedisPort      string `mapstructure:"REDIS_PORT"`
	SessionSecret  string `mapstructure:"SESSION_SECRET"`
	GinMode        string `mapstructure:"GIN_MODE"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
}

// Load reads configuration from the environment, optionally overlaid by an
// app.env file in the working directory.
func Load() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("DB_DRIVER", "mysql")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_USER", "habituser")
	viper.SetDefault("DB_PASSWORD", "habitpassword")
	viper.SetDefault("DB_NAME", "habitsync")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// RedisAddr returns the host:port address of the Redis instance.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
