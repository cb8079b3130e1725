package ingest_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/ingest"
)

type fakeResolver struct {
	sections map[string]int64
	err      error
}

func (f *fakeResolver) ResolveSection(_ context.Context, line domain.Line, label string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	id, ok := f.sections[string(line)+":"+label]
	if !ok {
		return 0, domain.ErrSectionNotFound
	}
	return id, nil
}

const header = "requested_date,block_or_section_label,line,preferred_start_time,preferred_end_time,block_duration_minutes,priority,department,den,nature_of_work,location\n"

func TestParse_ResolvesRunningSectionLabel(t *testing.T) {
	resolver := &fakeResolver{sections: map[string]int64{"UP:A-B": 7}}
	body := header + "2026-08-01,A-B,UP,10:00,12:00,,2,ENGG,den@example.com,patrol,km 12\n"

	requests, rejected, err := ingest.Parse(context.Background(), strings.NewReader(body), resolver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rejected) != 0 {
		t.Fatalf("expected no rejections, got %v", rejected)
	}
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}

	r := requests[0]
	if r.SectionID != 7 {
		t.Errorf("expected section id 7, got %d", r.SectionID)
	}
	if r.Line != domain.LineUp {
		t.Errorf("expected line UP, got %s", r.Line)
	}
	if r.RequestedDuration != 2*time.Hour {
		t.Errorf("expected requested duration from preferred range, got %s", r.RequestedDuration)
	}
	if r.Priority != 2 {
		t.Errorf("expected priority 2, got %d", r.Priority)
	}
}

func TestParse_BlockDurationWithinPreferredRangeWins(t *testing.T) {
	resolver := &fakeResolver{sections: map[string]int64{"DN:YARD1": 3}}
	body := header + "2026-08-01,YARD1,DN,10:00,12:00,30,,ENGG,den@example.com,patrol,km 12\n"

	requests, rejected, err := ingest.Parse(context.Background(), strings.NewReader(body), resolver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rejected) != 0 {
		t.Fatalf("expected no rejections, got %v", rejected)
	}
	if requests[0].RequestedDuration != 30*time.Minute {
		t.Errorf("expected requested duration 30m, got %s", requests[0].RequestedDuration)
	}
	if requests[0].Priority != 1 {
		t.Errorf("expected default priority 1, got %d", requests[0].Priority)
	}
}

func TestParse_RejectsBlockDurationExceedingPreferredRange(t *testing.T) {
	resolver := &fakeResolver{sections: map[string]int64{"UP:A-B": 7}}
	body := header + "2026-08-01,A-B,UP,10:00,10:30,120,1,ENGG,den@example.com,patrol,km 12\n"

	requests, rejected, err := ingest.Parse(context.Background(), strings.NewReader(body), resolver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(requests) != 0 {
		t.Fatalf("expected request to be rejected, got %v", requests)
	}
	if len(rejected) != 1 || rejected[0].RowIndex != 0 {
		t.Fatalf("expected one rejection at row 0, got %v", rejected)
	}
}

func TestParse_OnlyBlockDurationTreatsWindowAsEntireDay(t *testing.T) {
	resolver := &fakeResolver{sections: map[string]int64{"UP:A-B": 7}}
	body := header + "2026-08-01,A-B,UP,,,45,1,ENGG,den@example.com,patrol,km 12\n"

	requests, rejected, err := ingest.Parse(context.Background(), strings.NewReader(body), resolver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rejected) != 0 {
		t.Fatalf("expected no rejections, got %v", rejected)
	}
	if requests[0].RequestedDuration != 45*time.Minute {
		t.Errorf("expected requested duration 45m, got %s", requests[0].RequestedDuration)
	}
}

func TestParse_UnresolvableSectionIsRejectedNotFatal(t *testing.T) {
	resolver := &fakeResolver{err: domain.ErrSectionNotFound}
	body := header +
		"2026-08-01,A-B,UP,10:00,12:00,,1,ENGG,den@example.com,patrol,km 12\n" +
		"2026-08-02,C-D,UP,10:00,12:00,,1,ENGG,den2@example.com,patrol,km 13\n"

	requests, rejected, err := ingest.Parse(context.Background(), strings.NewReader(body), resolver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(requests) != 0 {
		t.Fatalf("expected both rows rejected, got %d requests", len(requests))
	}
	if len(rejected) != 2 {
		t.Fatalf("expected 2 rejections, got %d", len(rejected))
	}
	if rejected[0].RowIndex != 0 || rejected[1].RowIndex != 1 {
		t.Fatalf("expected row indexes 0 and 1, got %v", rejected)
	}
}

func TestWriteResults_FillsPermittedColumnsForPlacedRowsOnly(t *testing.T) {
	reqDate, _ := time.Parse("2006-01-02", "2026-08-01")
	placedStart := reqDate.Add(10 * time.Hour)
	placedEnd := reqDate.Add(12 * time.Hour)

	rows := []ingest.OutputRow{
		{
			Request: domain.MaintenanceRequest{
				Department: "ENGG", DEN: "den@example.com", NatureOfWork: "patrol",
				Block: "A-B", Location: "km 12", Line: domain.LineUp,
				PreferredStartsAt: domain.TimeOfDay(10 * time.Hour),
				PreferredEndsAt:   domain.TimeOfDay(12 * time.Hour),
				RequestedDate:     reqDate, RequestedDuration: 2 * time.Hour, Priority: 1,
			},
			Placed: &domain.Slot{StartsAt: placedStart, EndsAt: placedEnd},
		},
		{
			Request: domain.MaintenanceRequest{
				Department: "ENGG", DEN: "den2@example.com", NatureOfWork: "patrol",
				Block: "C-D", Location: "km 14", Line: domain.LineUp,
				PreferredStartsAt: domain.TimeOfDay(10 * time.Hour),
				PreferredEndsAt:   domain.TimeOfDay(12 * time.Hour),
				RequestedDate:     reqDate, RequestedDuration: 2 * time.Hour, Priority: 1,
			},
			Placed: nil,
		},
	}

	var buf bytes.Buffer
	if err := ingest.WriteResults(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], placedStart.Format(time.RFC3339)) {
		t.Errorf("expected placed row to contain permitted start time, got %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",,,") {
		t.Errorf("expected unplaced row to have blank permitted columns, got %q", lines[2])
	}
}
