package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/icodeforyou/spotprice-go/convert"
	"github.com/icodeforyou/spotprice-go/hours"
	"github.com/icodeforyou/spotprice-go/slice"
	"github.com/icodeforyou/spotprice-go/types"
	"github.com/icodeforyou/spotprice-go/types/maybe"
)

// WriteText renders the report in Swedish with prices in öre per kWh.
func WriteText(w io.Writer, r Report) error {
	lines := []string{
		fmt.Sprintf("Lägsta pris %s %s", span(r.Summary.Min), convert.Ore(r.Summary.Min.SEKPerKWh)),
		fmt.Sprintf("Högsta pris %s %s", span(r.Summary.Max), convert.Ore(r.Summary.Max.SEKPerKWh)),
		fmt.Sprintf("Medelpris: %s öre", convert.Ore(r.Summary.Mean)),
	}

	if r.Sorted {
		for _, p := range r.ByPrice() {
			lines = append(lines, fmt.Sprintf("%s %s %s öre",
				hours.FormatDate(p.TimeStart), span(p), convert.Ore(p.SEKPerKWh)))
		}
	}

	if r.Window.IsValid() {
		win := r.Window.Value()
		lines = append(lines,
			fmt.Sprintf("Påbörja laddning kl %s", hours.FormatClock(win.TimeStart)),
			fmt.Sprintf("Medelpris för fönster: %s öre", convert.Ore(win.Mean)))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}

func span(p types.PriceSample) string {
	return hours.FormatSpan(p.TimeStart, p.TimeEnd)
}

type jsonHour struct {
	Date  string  `json:"date"`
	Span  string  `json:"span"`
	Ore   float64 `json:"ore_per_kwh"`
	SEK   float64 `json:"sek_per_kwh"`
	EUR   float64 `json:"eur_per_kwh"`
	EXR   float64 `json:"exr"`
	Start string  `json:"time_start"`
}

type jsonWindow struct {
	Hours   int     `json:"hours"`
	StartAt string  `json:"start_at"`
	Start   string  `json:"time_start"`
	End     string  `json:"time_end"`
	MeanOre float64 `json:"mean_ore_per_kwh"`
}

type jsonReport struct {
	Zone    string                  `json:"zone"`
	Date    string                  `json:"date"`
	Source  string                  `json:"source"`
	Min     jsonHour                `json:"min"`
	Max     jsonHour                `json:"max"`
	MeanOre float64                 `json:"mean_ore_per_kwh"`
	Hours   []jsonHour              `json:"hours"`
	Window  maybe.Maybe[jsonWindow] `json:"charging_window"`
}

func toJsonHour(p types.PriceSample) jsonHour {
	return jsonHour{
		Date:  hours.FormatDate(p.TimeStart),
		Span:  span(p),
		Ore:   convert.OreValue(p.SEKPerKWh),
		SEK:   p.SEKPerKWh,
		EUR:   p.EURPerKWh,
		EXR:   p.EXR,
		Start: p.TimeStart.Format(time.RFC3339),
	}
}

// ToJSON returns the wire representation used by the CLI, the HTTP API and MQTT.
func ToJSON(r Report) any {
	list := r.Hourly
	if r.Sorted {
		list = r.ByPrice()
	}

	win := maybe.None[jsonWindow]()
	if r.Window.IsValid() {
		w := r.Window.Value()
		win = maybe.Some(jsonWindow{
			Hours:   w.Hours,
			StartAt: hours.FormatClock(w.TimeStart),
			Start:   w.TimeStart.Format(time.RFC3339),
			End:     w.TimeEnd.Format(time.RFC3339),
			MeanOre: convert.OreValue(w.Mean),
		})
	}

	return jsonReport{
		Zone:    r.Zone.String(),
		Date:    r.Date,
		Source:  r.Source,
		Min:     toJsonHour(r.Summary.Min),
		Max:     toJsonHour(r.Summary.Max),
		MeanOre: convert.OreValue(r.Summary.Mean),
		Hours:   slice.Map(list, toJsonHour),
		Window:  win,
	}
}

func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToJSON(r)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
