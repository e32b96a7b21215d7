package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/icodeforyou/spotprice-go/calc"
	"github.com/icodeforyou/spotprice-go/config"
	"github.com/icodeforyou/spotprice-go/database"
	"github.com/icodeforyou/spotprice-go/elprisetjustnu"
	"github.com/icodeforyou/spotprice-go/hours"
	"github.com/icodeforyou/spotprice-go/logging"
	"github.com/icodeforyou/spotprice-go/nordpool"
	"github.com/icodeforyou/spotprice-go/optimize"
	"github.com/icodeforyou/spotprice-go/publish"
	"github.com/icodeforyou/spotprice-go/report"
	"github.com/icodeforyou/spotprice-go/task"
	"github.com/icodeforyou/spotprice-go/types"
	"github.com/icodeforyou/spotprice-go/types/maybe"
	"github.com/icodeforyou/spotprice-go/www"
	"github.com/lmittmann/tint"
)

var Version = "?.?.?"

const usage = `Usage: spotprice -zone SE1|SE2|SE3|SE4 [-date YYYY-MM-DD] [-sorted] [-charging 2h|4h|8h]
  -zone SE1|SE2|SE3|SE4 (required unless set in config)
  -date YYYY-MM-DD (optional, defaults to current date)
  -sorted (optional, to display prices in descending order)
  -charging 2h|4h|8h (optional, to find optimal charging windows)
  -format text|json (optional, defaults to text)
  -config path (optional, path to config file)
  -serve (optional, archive prices and serve the HTTP API)
  -help (optional, to display usage information)
`

// Messages shown to the user on bad arguments.
const (
	msgInvalidArguments = "Invalid arguments"
	msgInvalidZone      = "Invalid zone"
	msgInvalidDate      = "Invalid date"
	msgInvalidCharging  = "Invalid charging duration"
	msgZoneRequired     = "--zone is required"
	msgNoData           = "No data available for given date/zone."
)

type argError struct {
	msg string
	err error
}

func (e argError) Error() string { return e.msg }
func (e argError) Unwrap() error { return e.err }

type cliArgs struct {
	configPath string
	zone       string
	date       string
	charging   string
	format     string
	sorted     bool
	serve      bool
	help       bool
}

func parseArgs(args []string) (cliArgs, error) {
	var a cliArgs
	fs := flag.NewFlagSet("spotprice", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&a.configPath, "config", "", "path to config file")
	fs.StringVar(&a.zone, "zone", "", "price zone SE1|SE2|SE3|SE4")
	fs.StringVar(&a.date, "date", "", "date YYYY-MM-DD")
	fs.StringVar(&a.charging, "charging", "", "charging window 2h|4h|8h")
	fs.StringVar(&a.format, "format", "text", "output format text|json")
	fs.BoolVar(&a.sorted, "sorted", false, "list prices in descending order")
	fs.BoolVar(&a.serve, "serve", false, "archive prices and serve the HTTP API")
	fs.BoolVar(&a.help, "help", false, "display usage information")

	if err := fs.Parse(args); err != nil {
		return a, argError{msg: msgInvalidArguments, err: err}
	}
	if fs.NArg() > 0 {
		return a, argError{msg: msgInvalidArguments, err: fmt.Errorf("unexpected arguments %v", fs.Args())}
	}
	if a.format != "text" && a.format != "json" {
		return a, argError{msg: msgInvalidArguments, err: fmt.Errorf("unknown format %q", a.format)}
	}
	return a, nil
}

// reportOptions validates the arguments, falling back to the report section
// of the config for zone and charging hours.
func reportOptions(a cliArgs, cnfg config.AppConfigReport) (report.Options, error) {
	opts := report.Options{Sorted: a.sorted, ChargingHours: maybe.None[int]()}

	zone := a.zone
	if zone == "" {
		zone = cnfg.Zone
	}
	if zone == "" {
		return opts, argError{msg: msgZoneRequired, err: calc.ErrInvalidInput}
	}
	z, err := types.ParseZone(zone)
	if err != nil {
		return opts, argError{msg: msgInvalidZone, err: err}
	}
	opts.Zone = z

	opts.Date = hours.Today()
	if a.date != "" {
		if opts.Date, err = hours.ParseDate(a.date); err != nil {
			return opts, argError{msg: msgInvalidDate, err: err}
		}
	}

	charging := a.charging
	if charging == "" && cnfg.ChargingHours > 0 {
		charging = strconv.Itoa(cnfg.ChargingHours)
	}
	if charging != "" {
		h, err := optimize.ParseChargingHours(charging)
		if err != nil {
			return opts, argError{msg: msgInvalidCharging, err: err}
		}
		opts.ChargingHours = maybe.Some(h)
	}

	return opts, nil
}

func priceProviders(cnfg config.AppConfigPriceSource) []report.NamedProvider {
	providers := []report.NamedProvider{
		elprisetjustnu.New(cnfg.ElprisetJustNuURL, cnfg.GetTimeout()), // Primary provider
	}
	if cnfg.GetNordpoolFallback() {
		providers = append(providers, nordpool.New(cnfg.NordpoolURL, cnfg.GetTimeout())) // Secondary provider
	}
	return providers
}

func main() {
	a, err := parseArgs(os.Args[1:])
	if len(os.Args) < 2 || a.help {
		fmt.Fprint(os.Stdout, usage)
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stdout, err)
		os.Exit(2)
	}

	cnfg, err := config.Load(a.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if a.serve {
		serve(a, cnfg)
		return
	}

	consoleHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	logger := slog.New(consoleHandler)
	slog.SetDefault(logger)

	opts, err := reportOptions(a, cnfg.Report)
	if err != nil {
		logger.Debug("invalid arguments", slog.Any("error", errors.Unwrap(err)))
		fmt.Fprintln(os.Stdout, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cnfg.PriceSource.GetTimeout())
	defer cancel()

	builder := report.NewBuilder(logger.With("module", "report"), priceProviders(cnfg.PriceSource)...)
	if err := printReport(ctx, logger, builder, opts, a.format, os.Stdout); err != nil {
		if report.IsNoData(err) {
			fmt.Fprintln(os.Stdout, msgNoData)
		} else {
			logger.Error("failed to create report", slog.Any("error", err))
		}
		cancel()
		os.Exit(1)
	}
}

type reportBuilder interface {
	Build(ctx context.Context, opts report.Options) (report.Report, error)
}

// printReport writes the report, without a charging window when there are
// fewer hours than the window needs.
func printReport(ctx context.Context, logger *slog.Logger, builder reportBuilder, opts report.Options, format string, w io.Writer) error {
	r, err := builder.Build(ctx, opts)
	if errors.Is(err, calc.ErrInsufficientData) {
		logger.Warn("too few hours for a charging window",
			slog.Int("hours", len(r.Hourly)),
			slog.Int("window", opts.ChargingHours.Value()))
	} else if err != nil {
		return err
	}

	if format == "json" {
		return report.WriteJSON(w, r)
	}
	return report.WriteText(w, r)
}

func serve(a cliArgs, cnfg *config.AppConfig) {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("spotprice is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	zones, err := serveZones(a.zone, cnfg)
	if err != nil {
		panic(fmt.Sprintf("invalid zone configuration: %v", err))
	}

	var publisher task.Publisher
	if cnfg.Mqtt.Enabled() {
		m := publish.NewMQTT(cnfg.Mqtt)
		if err := m.Connect(); err != nil {
			panic(fmt.Sprintf("mqtt connection error: %v", err))
		}
		defer m.Disconnect()
		publisher = m
	} else {
		logger.Info("no mqtt broker configured, skipping publishing")
	}

	builder := report.NewBuilder(logger.With("module", "report"), priceProviders(cnfg.PriceSource)...)
	tasks := task.NewTasks(db, builder, publisher, zones, cnfg)
	if isDevMode() {
		logger.Info("dev mode, skipping task scheduling")
	} else {
		if err := tasks.Run(); err != nil {
			panic(fmt.Sprintf("failed to schedule tasks: %v", err))
		}
		defer func() { <-tasks.Stop().Done() }()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server := www.NewServer(builder, db, db, tasks.PriceArchiveTask, cnfg.Api)
	if err := server.Run(ctx); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
	}
}

// serveZones returns the zones to archive, the mqtt zones when configured,
// otherwise the given zone, otherwise all zones.
func serveZones(flagZone string, cnfg *config.AppConfig) ([]types.Zone, error) {
	names := cnfg.Mqtt.Zones
	if len(names) == 0 {
		if flagZone == "" {
			flagZone = cnfg.Report.Zone
		}
		if flagZone == "" {
			return types.Zones(), nil
		}
		names = []string{flagZone}
	}

	zones := make([]types.Zone, 0, len(names))
	for _, n := range names {
		z, err := types.ParseZone(n)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func isDevMode() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "development")
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}
