package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/icodeforyou/spotprice-go/config"
	"github.com/icodeforyou/spotprice-go/database"
	"github.com/icodeforyou/spotprice-go/elprisetjustnu"
	"github.com/icodeforyou/spotprice-go/nordpool"
	"github.com/icodeforyou/spotprice-go/report"
	"github.com/icodeforyou/spotprice-go/task"
	"github.com/icodeforyou/spotprice-go/types"
	"github.com/lmittmann/tint"
)

// Runs the price archive task once for all zones, without publishing.
func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	w := os.Stdout
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC3339Nano,
		}),
	))
	logger := slog.Default()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	db, err := database.New(context.Background(), cnfg.Database.Path)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	timeout := cnfg.PriceSource.GetTimeout()
	builder := report.NewBuilder(logger,
		elprisetjustnu.New(cnfg.PriceSource.ElprisetJustNuURL, timeout),
		nordpool.New(cnfg.PriceSource.NordpoolURL, timeout))

	archive := task.NewPriceArchiveTask(logger, db, builder, nil, types.Zones(), cnfg.Mqtt.ChargingHours)
	archive()
}
