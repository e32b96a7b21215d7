package task

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/icodeforyou/spotprice-go/calc"
	"github.com/icodeforyou/spotprice-go/hours"
	"github.com/icodeforyou/spotprice-go/report"
	"github.com/icodeforyou/spotprice-go/types"
	"github.com/icodeforyou/spotprice-go/types/maybe"
	"golang.org/x/sync/errgroup"
)

type Publisher interface {
	Publish(ctx context.Context, r report.Report) error
}

type PriceArchive interface {
	Purger
	SavePrices(ctx context.Context, zone types.Zone, prices []types.PriceSample) error
	GetPrices(ctx context.Context, zone types.Zone, date time.Time) ([]types.PriceSample, error)
}

// NewPriceArchiveTask returns a task that fetches today's and tomorrow's
// prices for every zone, stores the hourly prices and publishes the charging
// advice. A nil publisher disables publishing.
func NewPriceArchiveTask(
	logger *slog.Logger,
	archive PriceArchive,
	builder *report.Builder,
	publisher Publisher,
	zones []types.Zone,
	chargingHours int) func() {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if needImmediateArchiveUpdate(ctx, archive, zones) {
		logger.Info("need an immediate update of archived prices")
		runPriceArchiveTask(logger, archive, builder, publisher, zones, chargingHours)
	} else {
		logger.Debug("no need for immediate update of archived prices")
	}

	return func() { runPriceArchiveTask(logger, archive, builder, publisher, zones, chargingHours) }
}

func runPriceArchiveTask(
	logger *slog.Logger,
	archive PriceArchive,
	builder *report.Builder,
	publisher Publisher,
	zones []types.Zone,
	chargingHours int) {

	logger.Debug("running price archive task...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := report.Options{Date: hours.Today(), ChargingHours: maybe.None[int]()}
	if chargingHours > 0 {
		opts.ChargingHours = maybe.Some(chargingHours)
	}

	var g errgroup.Group
	for _, zone := range zones {
		g.Go(func() error {
			zoneOpts := opts
			zoneOpts.Zone = zone
			zoneLogger := logger.With(slog.String("zone", zone.String()))

			r, err := builder.Build(ctx, zoneOpts)
			if errors.Is(err, calc.ErrInsufficientData) {
				zoneLogger.Warn("too few hours for a charging window", slog.Int("hours", len(r.Hourly)))
			} else if err != nil {
				zoneLogger.Error("price archive task error, building report", slog.Any("error", err))
				return err
			}

			if err := archive.SavePrices(ctx, zone, r.Hourly); err != nil {
				zoneLogger.Error("price archive task error, saving prices", slog.Any("error", err))
				return err
			}

			if publisher != nil {
				if err := publisher.Publish(ctx, r); err != nil {
					zoneLogger.Error("price archive task error, publishing", slog.Any("error", err))
					return err
				}
			}

			zoneLogger.Info("prices archived", slog.Int("noOfHours", len(r.Hourly)), slog.String("source", r.Source))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("price archive task done with errors")
		return
	}
	logger.Info("price archive task done")
}

// Tomorrow's prices are published in the early afternoon, an update is
// needed when any zone lacks prices for today.
func needImmediateArchiveUpdate(ctx context.Context, archive PriceArchive, zones []types.Zone) bool {
	for _, zone := range zones {
		prices, err := archive.GetPrices(ctx, zone, hours.Today())
		if err != nil || len(prices) == 0 {
			return true
		}
	}
	return false
}
