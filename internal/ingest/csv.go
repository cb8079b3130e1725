// Package ingest reads the tabular maintenance request file and writes
// the placement result back out in the same schema. Column semantics
// follow spec.md §6; the "Block Section/ Yard" and "CORRIDOR block
// section" dual naming for a section reference is grounded on
// original_source/src/train/file_management/formats/mas.py, the "MAS
// format" column mapping table — block_or_section_label here accepts
// either a single yard name or a "START-END" running-section pair, the
// same two shapes MASFormat maps onto block_section_or_yard vs
// corridor_block.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nandhagk/railsched/internal/domain"
)

var inputColumns = []string{
	"requested_date", "block_or_section_label", "line",
	"preferred_start_time", "preferred_end_time", "block_duration_minutes",
	"priority", "department", "den", "nature_of_work", "location",
}

// SectionResolver turns a row's (line, label) pair into a section id.
// label is either a single node name (a yard) or "START-END" (a running
// section between two nodes).
type SectionResolver interface {
	ResolveSection(ctx context.Context, line domain.Line, label string) (int64, error)
}

// Rejected records one input row excluded at ingest, per spec.md §7's
// InvalidRequest handling: caught at ingest, row excluded with reason,
// batch continues.
type Rejected struct {
	RowIndex int
	Reason   string
}

// Parse reads every data row of r, resolving each into a
// MaintenanceRequest via resolver. Malformed rows are collected in the
// returned Rejected slice instead of aborting the read — error
// collection, not raising, per spec.md §7.
func Parse(ctx context.Context, r io.Reader, resolver SectionResolver) ([]domain.MaintenanceRequest, []Rejected, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var requests []domain.MaintenanceRequest
	var rejected []Rejected

	rowIndex := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", rowIndex, err)
		}

		req, reason := parseRow(ctx, record, index, resolver)
		if reason != "" {
			rejected = append(rejected, Rejected{RowIndex: rowIndex, Reason: reason})
		} else {
			requests = append(requests, req)
		}
		rowIndex++
	}

	return requests, rejected, nil
}

func parseRow(ctx context.Context, record []string, index map[string]int, resolver SectionResolver) (domain.MaintenanceRequest, string) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	dateRaw := field("requested_date")
	requestedDate, err := time.Parse("2006-01-02", dateRaw)
	if err != nil {
		return domain.MaintenanceRequest{}, fmt.Sprintf("invalid requested_date %q: %v", dateRaw, err)
	}

	lineRaw := field("line")
	line := domain.Line(strings.ToUpper(lineRaw))
	if !line.Valid() {
		return domain.MaintenanceRequest{}, fmt.Sprintf("invalid line %q", lineRaw)
	}

	label := field("block_or_section_label")
	if label == "" {
		return domain.MaintenanceRequest{}, "missing block_or_section_label"
	}
	sectionID, err := resolver.ResolveSection(ctx, line, label)
	if err != nil {
		return domain.MaintenanceRequest{}, fmt.Sprintf("resolve section %q: %v", label, err)
	}

	var preferredStart, preferredEnd domain.TimeOfDay
	havePreferred := false
	if raw := field("preferred_start_time"); raw != "" {
		preferredStart, err = domain.ParseTimeOfDay(raw)
		if err != nil {
			return domain.MaintenanceRequest{}, fmt.Sprintf("invalid preferred_start_time %q: %v", raw, err)
		}
		havePreferred = true
	}
	if raw := field("preferred_end_time"); raw != "" {
		preferredEnd, err = domain.ParseTimeOfDay(raw)
		if err != nil {
			return domain.MaintenanceRequest{}, fmt.Sprintf("invalid preferred_end_time %q: %v", raw, err)
		}
	}

	var blockDuration time.Duration
	haveBlockDuration := false
	if raw := field("block_duration_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			return domain.MaintenanceRequest{}, fmt.Sprintf("invalid block_duration_minutes %q: %v", raw, err)
		}
		blockDuration = time.Duration(minutes) * time.Minute
		haveBlockDuration = true
	}

	if !havePreferred && !haveBlockDuration {
		return domain.MaintenanceRequest{}, "one of preferred_start/preferred_end or block_duration_minutes is required"
	}

	// If only block_duration is given, the preferred window is "entire
	// day" for placement scoring (spec.md §6): any gap overlaps it.
	if !havePreferred {
		preferredStart = 0
		preferredEnd = 0
	}

	preferredRange := domain.TimeDiff(preferredStart, preferredEnd)
	if !havePreferred {
		preferredRange = 24 * time.Hour
	}

	requestedDuration := preferredRange
	if haveBlockDuration {
		if blockDuration > preferredRange {
			return domain.MaintenanceRequest{}, fmt.Sprintf(
				"block_duration_minutes (%s) exceeds preferred_range (%s)", blockDuration, preferredRange,
			)
		}
		requestedDuration = blockDuration
	}

	priority := 1
	if raw := field("priority"); raw != "" {
		priority, err = strconv.Atoi(raw)
		if err != nil {
			return domain.MaintenanceRequest{}, fmt.Sprintf("invalid priority %q: %v", raw, err)
		}
	}

	department := field("department")
	den := field("den")
	natureOfWork := field("nature_of_work")
	location := field("location")
	if department == "" || den == "" || natureOfWork == "" || location == "" {
		return domain.MaintenanceRequest{}, "department, den, nature_of_work, and location are required"
	}

	return domain.MaintenanceRequest{
		Department:        department,
		DEN:               den,
		NatureOfWork:      natureOfWork,
		Block:             label,
		Location:          location,
		Line:              line,
		PreferredStartsAt: preferredStart,
		PreferredEndsAt:   preferredEnd,
		RequestedDate:     requestedDate,
		RequestedDuration: requestedDuration,
		Priority:          priority,
		SectionID:         sectionID,
	}, ""
}

// OutputRow mirrors the input schema plus the permitted_* columns
// filled from a placed slot, per spec.md §6 "Output file". A row whose
// Placed is nil is written with the permitted_* columns left blank.
type OutputRow struct {
	Request domain.MaintenanceRequest
	Placed  *domain.Slot
}

// WriteResults writes the placed-and-unplaced rows mirroring the input
// schema, with permitted_time_from/permitted_time_to/
// permitted_duration_minutes filled for placed rows and left blank for
// unplaced ones.
func WriteResults(w io.Writer, rows []OutputRow) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, inputColumns...),
		"permitted_time_from", "permitted_time_to", "permitted_duration_minutes")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		r := row.Request
		record := []string{
			r.RequestedDate.Format("2006-01-02"),
			r.Block,
			string(r.Line),
			r.PreferredStartsAt.String(),
			r.PreferredEndsAt.String(),
			strconv.Itoa(int(r.RequestedDuration.Minutes())),
			strconv.Itoa(r.Priority),
			r.Department,
			r.DEN,
			r.NatureOfWork,
			r.Location,
		}

		if row.Placed != nil {
			record = append(record,
				row.Placed.StartsAt.Format(time.RFC3339),
				row.Placed.EndsAt.Format(time.RFC3339),
				strconv.Itoa(int(row.Placed.EndsAt.Sub(row.Placed.StartsAt).Minutes())),
			)
		} else {
			record = append(record, "", "", "")
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRejected writes the companion error output: (row_index, reason).
func WriteRejected(w io.Writer, rejected []Rejected) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"row_index", "reason"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rejected {
		if err := cw.Write([]string{strconv.Itoa(r.RowIndex), r.Reason}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
