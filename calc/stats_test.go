package calc

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(series(time.Hour, 3, 1, 4, 1, 5, 9, 2, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Min.SEKPerKWh != 1 || !s.Min.TimeStart.Equal(day.Add(1*time.Hour)) {
		t.Errorf("got min %+v", s.Min)
	}
	if s.Max.SEKPerKWh != 9 || !s.Max.TimeStart.Equal(day.Add(5*time.Hour)) {
		t.Errorf("got max %+v", s.Max)
	}
	if !almostEqual(s.Mean, 31.0/8.0) {
		t.Errorf("got mean %f, wanted %f", s.Mean, 31.0/8.0)
	}
	if s.Count != 8 {
		t.Errorf("got count %d, wanted 8", s.Count)
	}
}

func TestSummarizeTieBreak(t *testing.T) {
	prices := make([]float64, 24)
	for i := range prices {
		prices[i] = 50
	}
	prices[3], prices[5] = 10, 10
	prices[10], prices[14] = 90, 90

	s, err := Summarize(series(time.Hour, prices...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Min.TimeStart.Hour() != 3 {
		t.Errorf("got min at %02d:00, wanted 03:00", s.Min.TimeStart.Hour())
	}
	if s.Max.TimeStart.Hour() != 14 {
		t.Errorf("got max at %02d:00, wanted 14:00", s.Max.TimeStart.Hour())
	}
}

func TestSummarizeMeanBetweenMinAndMax(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for range 200 {
		prices := make([]float64, 1+rnd.Intn(48))
		for i := range prices {
			prices[i] = rnd.Float64()*4 - 1
		}
		s, err := Summarize(series(time.Hour, prices...))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Mean < s.Min.SEKPerKWh-1e-9 || s.Mean > s.Max.SEKPerKWh+1e-9 {
			t.Fatalf("mean %f outside [%f, %f]", s.Mean, s.Min.SEKPerKWh, s.Max.SEKPerKWh)
		}
	}
}
