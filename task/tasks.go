package task

import (
	"context"
	"log/slog"

	"github.com/icodeforyou/spotprice-go/config"
	"github.com/icodeforyou/spotprice-go/report"
	"github.com/icodeforyou/spotprice-go/types"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron             *cron.Cron
	cnfg             *config.AppConfig
	PriceArchiveTask func()
	MaintenanceTask  func()
}

// NewTasks sets up the scheduled tasks. Pass a nil publisher when MQTT is
// disabled.
func NewTasks(
	archive PriceArchive,
	builder *report.Builder,
	publisher Publisher,
	zones []types.Zone,
	cnfg *config.AppConfig,
) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron: cron.New(),
		cnfg: cnfg,
		PriceArchiveTask: NewPriceArchiveTask(
			logger.With(slog.String("task", "price_archive")),
			archive, builder, publisher, zones, cnfg.Mqtt.ChargingHours),
		MaintenanceTask: NewMaintenanceTask(
			logger.With(slog.String("task", "maintenance")),
			archive, cnfg),
	}
}

func (t *Tasks) Run() error {
	if _, err := t.cron.AddFunc(t.cnfg.Schedule.Archive, t.PriceArchiveTask); err != nil {
		return err
	}
	if _, err := t.cron.AddFunc(t.cnfg.Schedule.Maintenance, t.MaintenanceTask); err != nil {
		return err
	}
	t.cron.Start()
	return nil
}

// Stop stops the scheduler, the returned context is done when running tasks
// have completed.
func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
