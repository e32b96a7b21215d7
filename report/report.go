package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/icodeforyou/spotprice-go/calc"
	"github.com/icodeforyou/spotprice-go/hours"
	"github.com/icodeforyou/spotprice-go/optimize"
	"github.com/icodeforyou/spotprice-go/types"
	"github.com/icodeforyou/spotprice-go/types/maybe"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Date          time.Time
	Zone          types.Zone
	Sorted        bool
	ChargingHours maybe.Maybe[int]
}

type Report struct {
	Zone    types.Zone                   `json:"zone"`
	Date    string                       `json:"date"`
	Source  string                       `json:"source"`
	Hourly  []types.PriceSample          `json:"hourly"` // Time ordered, date and the day after
	Summary calc.Summary                 `json:"summary"`
	Sorted  bool                         `json:"sorted"`
	Window  maybe.Maybe[optimize.Window] `json:"window"`
}

// ByPrice returns the hours with the most expensive first, earlier hours
// first among equal prices.
func (r Report) ByPrice() []types.PriceSample {
	sorted := slices.Clone(r.Hourly)
	slices.SortStableFunc(sorted, func(a, b types.PriceSample) int {
		if a.SEKPerKWh != b.SEKPerKWh {
			if a.SEKPerKWh > b.SEKPerKWh {
				return -1
			}
			return 1
		}
		return a.TimeStart.Compare(b.TimeStart)
	})
	return sorted
}

// NamedProvider is a price provider that can tell its name for logging.
type NamedProvider interface {
	types.PriceProvider
	Name() string
}

type Builder struct {
	logger    *slog.Logger
	providers []NamedProvider
}

func NewBuilder(logger *slog.Logger, providers ...NamedProvider) *Builder {
	if len(providers) == 0 {
		panic("no price providers")
	}
	return &Builder{logger: logger, providers: providers}
}

// Build fetches the date and the day after from the first provider that
// answers, so that a charging window can reach past midnight.
func (b *Builder) Build(ctx context.Context, opts Options) (Report, error) {
	if !opts.Zone.IsValid() {
		return Report{}, fmt.Errorf("zone %q: %w", opts.Zone, calc.ErrInvalidInput)
	}

	date := hours.StartOfDay(opts.Date)
	var (
		samples []types.PriceSample
		source  string
	)
	for _, provider := range b.providers {
		s, err := fetchTwoDays(ctx, provider, date, opts.Zone)
		if err != nil {
			b.logger.Warn("price provider failed",
				slog.String("provider", provider.Name()),
				slog.String("zone", opts.Zone.String()),
				slog.Any("error", err))
			continue
		}
		if len(s) == 0 {
			b.logger.Debug("price provider has no prices",
				slog.String("provider", provider.Name()),
				slog.String("date", hours.FormatDate(date)))
			continue
		}
		samples, source = s, provider.Name()
		break
	}

	if len(samples) == 0 {
		return Report{}, fmt.Errorf("prices for %s in %s: %w", hours.FormatDate(date), opts.Zone, calc.ErrNoData)
	}

	hourly, err := calc.ToHourly(samples)
	if err != nil {
		return Report{}, err
	}

	summary, err := calc.Summarize(hourly)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		Zone:    opts.Zone,
		Date:    hours.FormatDate(date),
		Source:  source,
		Hourly:  hourly,
		Summary: summary,
		Sorted:  opts.Sorted,
		Window:  maybe.None[optimize.Window](),
	}

	if opts.ChargingHours.IsValid() {
		w, err := optimize.CheapestWindow(hourly, opts.ChargingHours.Value())
		if err != nil {
			return r, err
		}
		r.Window = maybe.Some(w)
	}

	b.logger.Debug("report built",
		slog.String("zone", r.Zone.String()),
		slog.String("date", r.Date),
		slog.String("source", source),
		slog.Int("samples", len(samples)),
		slog.Int("hours", len(hourly)))

	return r, nil
}

func fetchTwoDays(ctx context.Context, provider types.PriceProvider, date time.Time, zone types.Zone) ([]types.PriceSample, error) {
	var today, tomorrow []types.PriceSample

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		today, err = provider.GetPrices(gctx, date, zone)
		if err != nil {
			return fmt.Errorf("failed to fetch prices for %s: %w", hours.FormatDate(date), err)
		}
		return nil
	})
	g.Go(func() error {
		next := hours.NextDay(date)
		var err error
		tomorrow, err = provider.GetPrices(gctx, next, zone)
		if err != nil {
			return fmt.Errorf("failed to fetch prices for %s: %w", hours.FormatDate(next), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]types.PriceSample, 0, len(today)+len(tomorrow))
	return append(append(all, today...), tomorrow...), nil
}

// IsNoData tells if err means that there were no prices to report on.
func IsNoData(err error) bool {
	return errors.Is(err, calc.ErrNoData)
}
