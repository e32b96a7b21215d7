package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/icodeforyou/spotprice-go/convert"
	"github.com/icodeforyou/spotprice-go/hours"
	"github.com/icodeforyou/spotprice-go/types"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SavePrices upserts hourly prices for a zone, keyed on the start of the hour.
func (d *Database) SavePrices(ctx context.Context, zone types.Zone, prices []types.PriceSample) error {
	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving prices, begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price (zone, date, time_start, time_end, sek_per_kwh, eur_per_kwh, exr)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(zone, time_start) DO UPDATE SET
			time_end = excluded.time_end,
			sek_per_kwh = excluded.sek_per_kwh,
			eur_per_kwh = excluded.eur_per_kwh,
			exr = excluded.exr`)
	if err != nil {
		return fmt.Errorf("saving prices, prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		_, err := stmt.ExecContext(ctx,
			zone.String(),
			hours.FormatDate(p.TimeStart),
			p.TimeStart.UTC().Format(timeLayout),
			p.TimeEnd.UTC().Format(timeLayout),
			convert.RoundFloat64(p.SEKPerKWh, 5),
			convert.RoundFloat64(p.EURPerKWh, 5),
			convert.RoundFloat64(p.EXR, 4))
		if err != nil {
			return fmt.Errorf("saving price for %s %s: %w", zone, p.TimeStart, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving prices, commit: %w", err)
	}

	d.logger.Debug("prices saved", slog.String("zone", zone.String()), slog.Int("rows", len(prices)))
	return nil
}

// GetPrices returns the stored prices for a delivery date in Stockholm, in time order.
func (d *Database) GetPrices(ctx context.Context, zone types.Zone, date time.Time) ([]types.PriceSample, error) {
	rows, err := d.read.QueryContext(ctx, `
		SELECT time_start, time_end, sek_per_kwh, eur_per_kwh, exr
		FROM price
		WHERE zone = ? AND date = ?
		ORDER BY time_start ASC`,
		zone.String(), hours.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("fetching prices for %s %s: %w", zone, hours.FormatDate(date), err)
	}
	defer rows.Close()

	prices := []types.PriceSample{}
	for rows.Next() {
		var start, end string
		var p types.PriceSample
		if err := rows.Scan(&start, &end, &p.SEKPerKWh, &p.EURPerKWh, &p.EXR); err != nil {
			return nil, fmt.Errorf("scanning price row: %w", err)
		}
		if p.TimeStart, err = parseTime(start); err != nil {
			return nil, err
		}
		if p.TimeEnd, err = parseTime(end); err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading price rows: %w", err)
	}

	return prices, nil
}

func (d *Database) PurgePrices(ctx context.Context, retentionDays int) error {
	before := hours.FormatDate(time.Now().AddDate(0, 0, -retentionDays))
	res, err := d.write.ExecContext(ctx, `DELETE FROM price WHERE date < ?`, before)
	if err != nil {
		return fmt.Errorf("error when purging prices: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		d.logger.Warn("can't get rows affected by purge", slog.String("table", "price"), slog.Any("error", err))
	} else {
		d.logger.Debug(fmt.Sprintf("purged %d rows from price", rows))
	}
	return nil
}

func parseTime(str string) (time.Time, error) {
	t, err := time.Parse(timeLayout, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", str, err)
	}
	return hours.LocationStockholm(t), nil
}
