package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"seedtracker-api/internal/coords"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Data        DataConfig        `mapstructure:"data"`
	Coordinates CoordinatesConfig `mapstructure:"coordinates"`
	Normalize   NormalizeConfig   `mapstructure:"normalize"`
	Archive     ArchiveConfig     `mapstructure:"archive"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Address          string        `mapstructure:"address"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`
	MaxUploadBytes   int64         `mapstructure:"max_upload_bytes"`
}

type DatabaseConfig struct {
	Driver        string        `mapstructure:"driver"`
	Source        string        `mapstructure:"source"`
	QueryTimeout  time.Duration `mapstructure:"query_timeout"`
	ReloadTimeout time.Duration `mapstructure:"reload_timeout"`
}

type DataConfig struct {
	Dir             string `mapstructure:"dir"`
	SpeciesFile     string `mapstructure:"species_file"`
	CollectionsFile string `mapstructure:"collections_file"`
	LoadOnStart     bool   `mapstructure:"load_on_start"`
}

// SpeciesPath is the active species source file.
func (d DataConfig) SpeciesPath() string {
	return filepath.Join(d.Dir, d.SpeciesFile)
}

// CollectionsPath is the active collection source file.
func (d DataConfig) CollectionsPath() string {
	return filepath.Join(d.Dir, d.CollectionsFile)
}

type CoordinatesConfig struct {
	DefaultLatHemisphere string `mapstructure:"default_lat_hemisphere"`
	DefaultLngHemisphere string `mapstructure:"default_lng_hemisphere"`
}

// Defaults converts the configured letters into parser defaults.
func (c CoordinatesConfig) Defaults() (coords.Defaults, error) {
	lat, err := coords.ParseHemisphere(c.DefaultLatHemisphere, coords.North, coords.South)
	if err != nil {
		return coords.Defaults{}, fmt.Errorf("coordinates.default_lat_hemisphere: %w", err)
	}
	lng, err := coords.ParseHemisphere(c.DefaultLngHemisphere, coords.East, coords.West)
	if err != nil {
		return coords.Defaults{}, fmt.Errorf("coordinates.default_lng_hemisphere: %w", err)
	}
	return coords.Defaults{Lat: lat, Lng: lng}, nil
}

type NormalizeConfig struct {
	Workers int `mapstructure:"workers"`
}

type ArchiveConfig struct {
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3PathStyle bool   `mapstructure:"s3_path_style"`
	S3Prefix    string `mapstructure:"s3_prefix"`
}

// Enabled reports whether uploaded sources are mirrored to S3.
func (a ArchiveConfig) Enabled() bool {
	return a.S3Bucket != ""
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envPrefix namespaces environment overrides, e.g. SEEDTRACKER_DATABASE_SOURCE.
const envPrefix = "SEEDTRACKER"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_allow_origins", []string{"*"})
	v.SetDefault("server.max_upload_bytes", 32<<20)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.source", "data/database.db")
	v.SetDefault("database.query_timeout", 5*time.Second)
	v.SetDefault("database.reload_timeout", 2*time.Minute)

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.species_file", "cultivationinfo.csv")
	v.SetDefault("data.collections_file", "seedcollection.csv")
	v.SetDefault("data.load_on_start", true)

	v.SetDefault("coordinates.default_lat_hemisphere", "N")
	v.SetDefault("coordinates.default_lng_hemisphere", "W")

	v.SetDefault("normalize.workers", runtime.NumCPU())

	v.SetDefault("archive.s3_bucket", "")
	v.SetDefault("archive.s3_region", "us-east-1")
	v.SetDefault("archive.s3_endpoint", "")
	v.SetDefault("archive.s3_path_style", false)
	v.SetDefault("archive.s3_prefix", "sources/")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// LoadConfig reads configuration from app.yaml in path, if present, and
// from SEEDTRACKER_* environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: read: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: unmarshal: %w", err)
	}

	err = config.Validate()
	return config, err
}

// Validate checks values that viper cannot type-check.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.Source == "" {
		return errors.New("config: database.source is required")
	}
	if c.Database.QueryTimeout <= 0 {
		return errors.New("config: database.query_timeout must be positive")
	}
	if c.Database.ReloadTimeout <= 0 {
		return errors.New("config: database.reload_timeout must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("config: server.shutdown_timeout must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("config: server.max_upload_bytes must be positive")
	}
	if _, err := c.Coordinates.Defaults(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
