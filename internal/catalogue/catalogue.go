// Package catalogue loads the node catalogue and train roster/timetable
// documents from disk, the same Path.cwd()/"data"/*.json convention
// original_source/src/train/services/{node,section,train}.py load from.
// Both cmd/bootstrap (one-shot seed) and cmd/horizon (recurring reseed)
// read through this package so the JSON shapes are decoded identically.
package catalogue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/trainseed"
)

// LoadNodes decodes dataDir/node.json, a flat array of node names.
func LoadNodes(dataDir string) ([]string, error) {
	path := filepath.Join(dataDir, "node.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return names, nil
}

type trainInfoDoc struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// LoadRoster decodes dataDir/trains_arr_ru.json into the roster
// Bootstrapper/Seeder expect.
func LoadRoster(dataDir string) ([]domain.PartialTrain, error) {
	path := filepath.Join(dataDir, "trains_arr_ru.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var docs []trainInfoDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	roster := make([]domain.PartialTrain, len(docs))
	for i, d := range docs {
		roster[i] = domain.PartialTrain{Name: d.Name, Number: d.Number}
	}
	return roster, nil
}

type stationTimeDoc struct {
	Arrival   *string `json:"arrival"`
	Departure *string `json:"departure"`
}

// LoadTimetables decodes dataDir/train.json, keyed "<number>, <on_days>"
// where on_days is a 7-character "0"/"1" string (Monday..Sunday), per
// original_source/src/train/services/train.py::TrainService.init.
func LoadTimetables(dataDir string) ([]trainseed.Timetable, error) {
	path := filepath.Join(dataDir, "train.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	timetables := make([]trainseed.Timetable, 0, len(doc))
	for key, stationsRaw := range doc {
		number, runsOn, err := parseTimetableKey(key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		order, stations, err := decodeOrderedStations(stationsRaw)
		if err != nil {
			return nil, fmt.Errorf("%s: train %q: %w", path, number, err)
		}

		tt := trainseed.Timetable{
			Number:   number,
			RunsOn:   runsOn,
			Stations: order,
			Times:    make(map[string]trainseed.StationTime, len(stations)),
		}
		for station, st := range stations {
			stationTime, err := toStationTime(st)
			if err != nil {
				return nil, fmt.Errorf("%s: station %q: %w", path, station, err)
			}
			tt.Times[station] = stationTime
		}
		timetables = append(timetables, tt)
	}
	return timetables, nil
}

// LoadRosterCtx and LoadTimetablesCtx adapt LoadRoster/LoadTimetables to
// the callback shape HorizonMaintainer re-invokes on every reseed.
func LoadRosterCtx(dataDir string) func(ctx context.Context) ([]domain.PartialTrain, error) {
	return func(ctx context.Context) ([]domain.PartialTrain, error) {
		return LoadRoster(dataDir)
	}
}

func LoadTimetablesCtx(dataDir string) func(ctx context.Context) ([]trainseed.Timetable, error) {
	return func(ctx context.Context) ([]trainseed.Timetable, error) {
		return LoadTimetables(dataDir)
	}
}

// decodeOrderedStations walks the station object's tokens directly,
// since Go's map decoding would otherwise lose the key order the
// interpolation pass depends on (the visiting order of stations along
// the train's run, which a plain map[string]T decode does not preserve).
func decodeOrderedStations(raw json.RawMessage) ([]string, map[string]stationTimeDoc, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("expected object start: %w", err)
	}

	var order []string
	stations := make(map[string]stationTimeDoc)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected string key, got %v", tok)
		}

		var st stationTimeDoc
		if err := dec.Decode(&st); err != nil {
			return nil, nil, fmt.Errorf("decode station %q: %w", key, err)
		}

		order = append(order, key)
		stations[key] = st
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, nil, err
	}

	return order, stations, nil
}

func parseTimetableKey(key string) (number string, runsOn [7]bool, err error) {
	number, onDays, ok := strings.Cut(key, ", ")
	if !ok || len(onDays) != 7 {
		return "", runsOn, fmt.Errorf("invalid timetable key %q", key)
	}
	for i, c := range onDays {
		runsOn[i] = c == '1'
	}
	return number, runsOn, nil
}

func toStationTime(st stationTimeDoc) (trainseed.StationTime, error) {
	var out trainseed.StationTime
	if st.Arrival != nil {
		t, err := domain.ParseTimeOfDay(*st.Arrival)
		if err != nil {
			return out, err
		}
		out.Arrival = &t
	}
	if st.Departure != nil {
		t, err := domain.ParseTimeOfDay(*st.Departure)
		if err != nil {
			return out, err
		}
		out.Departure = &t
	}
	return out, nil
}
