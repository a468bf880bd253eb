package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel   slog.Level     `json:"LogLevel" yaml:"logLevel"`
	Listen     string         `json:"Listen" yaml:"listen" validate:"required"`
	Vault      VaultConfig    `json:"Vault" yaml:"vault" validate:"required"`
	Settings   SettingsConfig `json:"Settings" yaml:"settings" validate:"required"`
	Loader     LoaderConfig   `json:"Loader" yaml:"loader"`
	Cache      CacheConfig    `json:"Cache" yaml:"cache"`
	Rescan     RescanConfig   `json:"Rescan" yaml:"rescan"`
	Features   FeaturesConfig `json:"Features" yaml:"features"`
	LocalePath string         `json:"LocalePath" yaml:"localePath" validate:"omitempty,filepath"`
}

type VaultConfig struct {
	Type  string      `json:"Type" yaml:"type" validate:"required,oneof=local b2 s3"`
	Local LocalConfig `json:"Local" yaml:"local"`
	B2    B2Config    `json:"B2" yaml:"b2"`
	S3    S3Config    `json:"S3" yaml:"s3"`
}

type LocalConfig struct {
	Root  string `json:"Root" yaml:"root"`
	Watch bool   `json:"Watch" yaml:"watch"`
}

type B2Config struct {
	BucketName     string `json:"BucketName" yaml:"bucketName"`
	Prefix         string `json:"Prefix" yaml:"prefix"`
	KeyID          string `json:"KeyID" yaml:"keyID"`
	ApplicationKey string `json:"ApplicationKey" yaml:"applicationKey"`
}

type S3Config struct {
	BucketName      string `json:"BucketName" yaml:"bucketName"`
	Region          string `json:"Region" yaml:"region"`
	Endpoint        string `json:"Endpoint" yaml:"endpoint" validate:"omitempty,url"`
	Prefix          string `json:"Prefix" yaml:"prefix"`
	AccessKeyID     string `json:"AccessKeyID" yaml:"accessKeyID"`
	SecretAccessKey string `json:"SecretAccessKey" yaml:"secretAccessKey"`
	UsePathStyle    bool   `json:"UsePathStyle" yaml:"usePathStyle"`
}

type SettingsConfig struct {
	Db DbConfig `json:"Db" yaml:"db" validate:"required"`
}

type DbConfig struct {
	Type string        `json:"Type" yaml:"type" validate:"required,oneof=sqlite3"`
	Cfg  Sqlite3Config `json:"Config" yaml:"config"`
}

type Sqlite3Config struct {
	DSN string `json:"DSN" yaml:"dsn" validate:"required"`
}

type LoaderConfig struct {
	Timeout      time.Duration `json:"Timeout" yaml:"timeout"`
	MaxBytes     int           `json:"MaxBytes" yaml:"maxBytes" validate:"gte=0"`
	LazyMarginPx int           `json:"LazyMarginPx" yaml:"lazyMarginPx" validate:"gte=0"`
	ThumbSlotPx  int           `json:"ThumbSlotPx" yaml:"thumbSlotPx" validate:"gte=0"`
}

type CacheConfig struct {
	PageTTL    time.Duration `json:"PageTTL" yaml:"pageTTL"`
	SessionTTL time.Duration `json:"SessionTTL" yaml:"sessionTTL"`
}

type RescanConfig struct {
	Cron string `json:"Cron" yaml:"cron"`
}

type FeaturesConfig struct {
	CollectionView bool `json:"CollectionView" yaml:"collectionView"`
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":3000"
	}
	if c.Loader.Timeout == 0 {
		c.Loader.Timeout = 15 * time.Second
	}
	if c.Loader.MaxBytes == 0 {
		c.Loader.MaxBytes = 32 << 20
	}
	if c.Loader.LazyMarginPx == 0 {
		c.Loader.LazyMarginPx = 50
	}
	if c.Loader.ThumbSlotPx == 0 {
		c.Loader.ThumbSlotPx = 104
	}
	if c.Cache.PageTTL == 0 {
		c.Cache.PageTTL = 5 * time.Minute
	}
	if c.Cache.SessionTTL == 0 {
		c.Cache.SessionTTL = 2 * time.Hour
	}
	if c.Settings.Db.Type == "" {
		c.Settings.Db.Type = "sqlite3"
	}
	if c.Settings.Db.Cfg.DSN == "" {
		c.Settings.Db.Cfg.DSN = "file:gallery.db"
	}
}

func LoadConfig(path string, config *Config) error {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	expandedFileBytes := []byte(os.ExpandEnv(string(fileBytes)))

	if err = yaml.Unmarshal(expandedFileBytes, config); err != nil {
		return err
	}

	config.applyDefaults()
	return nil
}

func InitConfig(path string) (*Config, error) {
	config := &Config{}
	if err := LoadConfig(path, config); err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(config); err != nil {
		return nil, err
	}

	if err := config.Vault.check(); err != nil {
		return nil, err
	}

	return config, nil
}

func (v *VaultConfig) check() error {
	switch v.Type {
	case "local":
		if v.Local.Root == "" {
			return fmt.Errorf("vault.local.root is required for 'local' vault")
		}
	case "b2":
		if v.B2.BucketName == "" {
			return fmt.Errorf("vault.b2.bucketName is required for 'b2' vault")
		}
	case "s3":
		if v.S3.BucketName == "" || v.S3.Region == "" {
			return fmt.Errorf("vault.s3.bucketName and vault.s3.region are required for 's3' vault")
		}
	}
	return nil
}
