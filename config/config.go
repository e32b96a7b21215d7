package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/icodeforyou/spotprice-go/logging"
	"github.com/spf13/viper"
)

type AppConfigPriceSource struct {
	ElprisetJustNuURL string `mapstructure:"elprisetjustnu_url"`
	NordpoolURL       string `mapstructure:"nordpool_url"`
	// Use Nord Pool when elprisetjustnu fails, default: true
	NordpoolFallback *bool `mapstructure:"nordpool_fallback"`
	// HTTP timeout in seconds per request, default: 10
	TimeoutSeconds *int `mapstructure:"timeout_seconds"`
}

func (p AppConfigPriceSource) GetNordpoolFallback() bool {
	if p.NordpoolFallback == nil {
		return true
	}
	return *p.NordpoolFallback
}

func (p AppConfigPriceSource) GetTimeout() time.Duration {
	if p.TimeoutSeconds == nil || *p.TimeoutSeconds < 1 {
		return 10 * time.Second
	}
	return time.Duration(*p.TimeoutSeconds) * time.Second
}

type AppConfigReport struct {
	Zone          string // "SE1", "SE2", "SE3", "SE4", used when no zone flag is given
	ChargingHours int    `mapstructure:"charging_hours"` // 0 means no charging window
}

type AppConfigDatabase struct {
	Path string
	// How many days prices should be stored in database before they get purged
	DataRetentionDays *int `mapstructure:"data_retention_days"`
}

func (d AppConfigDatabase) GetDataRetentionDays() int {
	if d.DataRetentionDays == nil {
		return 365
	}
	return *d.DataRetentionDays
}

type AppConfigApi struct {
	Address string
	Port    int16
}

type AppConfigSchedule struct {
	Archive     string // Cron spec for fetching and archiving prices
	Maintenance string
}

type AppConfigMqtt struct {
	Broker        string // e.g. "tcp://localhost:1883", empty disables publishing
	ClientId      string `mapstructure:"client_id"`
	Username      string
	Password      string
	TopicPrefix   string   `mapstructure:"topic_prefix"`
	Zones         []string // Zones to publish, default: report zone
	ChargingHours int      `mapstructure:"charging_hours"`
}

func (m AppConfigMqtt) Enabled() bool {
	return m.Broker != ""
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat != nil && strings.EqualFold(*l.DbAttrsFormat, "text") {
		return logging.LogAttrFormatText
	}
	return logging.LogAttrFormatJSON
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	PriceSource AppConfigPriceSource `mapstructure:"price_source"`
	Report      AppConfigReport      `mapstructure:"report"`
	Database    AppConfigDatabase    `mapstructure:"database"`
	Api         AppConfigApi         `mapstructure:"api"`
	Schedule    AppConfigSchedule    `mapstructure:"schedule"`
	Mqtt        AppConfigMqtt        `mapstructure:"mqtt"`
	Logging     AppConfigLogging     `mapstructure:"logging"`
}

// Load reads the config file at path, or config/config.yaml when path is
// empty. Without a config file the defaults and environment apply, but an
// explicitly given path must exist.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("database.path", "spotprice.db")
	v.SetDefault("api.port", 8080)
	v.SetDefault("schedule.archive", "15 13,14 * * *")
	v.SetDefault("schedule.maintenance", "30 2 * * *")
	v.SetDefault("mqtt.client_id", "spotprice")
	v.SetDefault("mqtt.topic_prefix", "spotprice")
	// AutomaticEnv only sees keys viper already knows about
	v.SetDefault("report.zone", "")
	v.SetDefault("report.charging_hours", 0)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.charging_hours", 4)

	var c AppConfig

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
