// Package trainseed turns a train roster and per-train timetable into
// the fixed slots a section timeline is scheduled around. Three
// responsibilities, grounded on original_source/src/data/train.py and
// original_source/src/train/services/train.py: complete a station's
// arrival/departure when only one was recorded, interpolate the
// stations a timetable skips entirely, and emit one fixed slot per
// section per scheduled day.
package trainseed

import (
	"time"

	"github.com/nandhagk/railsched/internal/domain"
)

// StationTime is a station's recorded arrival/departure for one train.
// Either field may be nil when the timetable source omitted it.
type StationTime struct {
	Arrival   *domain.TimeOfDay
	Departure *domain.TimeOfDay
}

// Timetable is one train's schedule: an ordered list of stations (the
// order the train visits them in) and the recorded time at each.
type Timetable struct {
	Number   string
	RunsOn   [7]bool // Monday=0 .. Sunday=6, matching the source data's weekday flags
	Stations []string
	Times    map[string]StationTime
}

// Interpolate completes a timetable's gaps. Ported from
// original_source/src/data/train.py::interpolate_schedule /
// fill_between: first, a station missing only one of arrival/departure
// has it filled from the other; then runs of stations missing both are
// evenly spaced between the nearest known anchors on either side.
// Stations in a leading or trailing run with no anchor at all (nothing
// known before or after them) are dropped from the result, exactly as
// the original comprehension's `if flattened[2*i] is not None` does.
func Interpolate(stations []string, times map[string]StationTime) map[string]StationTime {
	n := len(stations)
	flattened := make([]*time.Duration, 2*n)

	for i, name := range stations {
		st := times[name]
		arrival, departure := st.Arrival, st.Departure
		if arrival == nil {
			arrival = departure
		}
		if departure == nil {
			departure = arrival
		}
		if arrival != nil {
			d := time.Duration(*arrival)
			flattened[2*i] = &d
		}
		if departure != nil {
			d := time.Duration(*departure)
			flattened[2*i+1] = &d
		}
	}

	const day = 24 * time.Hour

	fillBetween := func(left, right int) {
		start := *flattened[left+1]
		end := *flattened[right]
		if start > end {
			end += day
		}

		steps := time.Duration((right - left) / 2)
		delta := (end - start) / steps
		interp := start + delta

		for i := left + 2; i < right; i += 2 {
			v := interp % day
			flattened[i] = &v
			flattened[i+1] = &v
			interp += delta
		}
	}

	l := 0
	for l < len(flattened) && flattened[l] == nil {
		l += 2
	}
	r := l + 2
	for r < len(flattened) && flattened[r] == nil {
		r += 2
	}
	for r < len(flattened) {
		fillBetween(l, r)
		l = r
		r += 2
		for r < len(flattened) && flattened[r] == nil {
			r += 2
		}
	}

	out := make(map[string]StationTime, n)
	for i, name := range stations {
		if flattened[2*i] == nil {
			continue
		}
		arrival := domain.TimeOfDay(*flattened[2*i] % day)
		departure := domain.TimeOfDay(*flattened[2*i+1] % day)
		out[name] = StationTime{Arrival: &arrival, Departure: &departure}
	}
	return out
}

// ResolvedStations returns the stations Interpolate's output covers, in
// schedule order.
func ResolvedStations(stations []string, resolved map[string]StationTime) []string {
	out := make([]string, 0, len(stations))
	for _, name := range stations {
		if _, ok := resolved[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// weekdayIndex maps a Go time.Weekday (Sunday=0) onto the source data's
// Monday=0 convention.
func weekdayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}
