package trainseed_test

import (
	"testing"
	"time"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/trainseed"
)

func tod(h, m int) *domain.TimeOfDay {
	t := domain.TimeOfDay(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	return &t
}

func TestInterpolate_FillsMissingDepartureFromArrival(t *testing.T) {
	stations := []string{"A", "B"}
	times := map[string]trainseed.StationTime{
		"A": {Arrival: tod(10, 0), Departure: tod(10, 5)},
		"B": {Arrival: tod(11, 0)},
	}

	out := trainseed.Interpolate(stations, times)

	b, ok := out["B"]
	if !ok {
		t.Fatalf("expected station B to resolve")
	}
	if *b.Departure != *b.Arrival {
		t.Errorf("expected B's departure to fall back to its arrival, got %v vs %v", *b.Departure, *b.Arrival)
	}
}

func TestInterpolate_EvenlySpacesUnknownStationsBetweenAnchors(t *testing.T) {
	stations := []string{"A", "B", "C", "D"}
	times := map[string]trainseed.StationTime{
		"A": {Arrival: tod(10, 0), Departure: tod(10, 0)},
		"D": {Arrival: tod(13, 0), Departure: tod(13, 0)},
	}

	out := trainseed.Interpolate(stations, times)

	for _, name := range stations {
		if _, ok := out[name]; !ok {
			t.Fatalf("expected station %s to resolve via interpolation", name)
		}
	}

	want := domain.TimeOfDay(11 * time.Hour)
	if *out["B"].Arrival != want {
		t.Errorf("B arrival = %v, want %v", *out["B"].Arrival, want)
	}
	want = domain.TimeOfDay(12 * time.Hour)
	if *out["C"].Arrival != want {
		t.Errorf("C arrival = %v, want %v", *out["C"].Arrival, want)
	}
}

func TestInterpolate_DropsLeadingRunWithNoAnchor(t *testing.T) {
	stations := []string{"A", "B", "C"}
	times := map[string]trainseed.StationTime{
		"C": {Arrival: tod(10, 0), Departure: tod(10, 0)},
	}

	out := trainseed.Interpolate(stations, times)

	if _, ok := out["A"]; ok {
		t.Errorf("expected station A (no anchor before or after) to be dropped")
	}
	if _, ok := out["B"]; ok {
		t.Errorf("expected station B (no anchor before or after) to be dropped")
	}
	if _, ok := out["C"]; !ok {
		t.Errorf("expected station C to resolve")
	}
}

func TestInterpolate_WrapsPastMidnight(t *testing.T) {
	stations := []string{"A", "B", "C"}
	times := map[string]trainseed.StationTime{
		"A": {Arrival: tod(23, 0), Departure: tod(23, 0)},
		"C": {Arrival: tod(1, 0), Departure: tod(1, 0)},
	}

	out := trainseed.Interpolate(stations, times)

	want := domain.TimeOfDay(0)
	if *out["B"].Arrival != want {
		t.Errorf("B arrival = %v, want midnight (%v)", *out["B"].Arrival, want)
	}
}
