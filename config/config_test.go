package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/icodeforyou/spotprice-go/logging"
	"github.com/stretchr/testify/require"
)

const testConfig = `
price_source:
  elprisetjustnu_url: http://localhost:9999
  nordpool_fallback: false
  timeout_seconds: 3
report:
  zone: se4
  charging_hours: 4
database:
  path: /tmp/prices.db
  data_retention_days: 30
mqtt:
  broker: tcp://broker:1883
  zones: [SE1, SE2]
logging:
  console_level: debug
  db_attrs_format: text
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0644))

	config, err := Load(path)
	require.NoError(t, err)

	t.Run("Price source", func(t *testing.T) {
		require.Equal(t, "http://localhost:9999", config.PriceSource.ElprisetJustNuURL)
		require.False(t, config.PriceSource.GetNordpoolFallback())
		require.Equal(t, 3*time.Second, config.PriceSource.GetTimeout())
	})

	t.Run("Report", func(t *testing.T) {
		require.Equal(t, "se4", config.Report.Zone)
		require.Equal(t, 4, config.Report.ChargingHours)
	})

	t.Run("Database", func(t *testing.T) {
		require.Equal(t, "/tmp/prices.db", config.Database.Path)
		require.Equal(t, 30, config.Database.GetDataRetentionDays())
	})

	t.Run("Mqtt", func(t *testing.T) {
		require.True(t, config.Mqtt.Enabled())
		require.Equal(t, []string{"SE1", "SE2"}, config.Mqtt.Zones)
		require.Equal(t, "spotprice", config.Mqtt.TopicPrefix)
	})

	t.Run("Logging", func(t *testing.T) {
		require.Equal(t, slog.LevelDebug, config.Logging.GetConsoleLevel())
		require.Equal(t, slog.LevelInfo, config.Logging.GetDbLevel())
		require.Equal(t, logging.LogAttrFormatText, config.Logging.GetDbAttrsFormat())
		require.Equal(t, 10000, config.Logging.GetDbMaxEntries())
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REPORT_ZONE", "SE2")

	config, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "SE2", config.Report.Zone)
	require.Equal(t, "spotprice.db", config.Database.Path)
	require.Equal(t, 365, config.Database.GetDataRetentionDays())
	require.True(t, config.PriceSource.GetNordpoolFallback())
	require.Equal(t, 10*time.Second, config.PriceSource.GetTimeout())
	require.False(t, config.Mqtt.Enabled())
	require.Equal(t, "30 2 * * *", config.Schedule.Maintenance)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSampleConfigLeavesZoneUnset(t *testing.T) {
	config, err := Load("config.yaml")
	require.NoError(t, err)
	require.Empty(t, config.Report.Zone)
	require.Equal(t, 0, config.Report.ChargingHours)
}
