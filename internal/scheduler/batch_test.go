package scheduler_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/notify"
	"github.com/nandhagk/railsched/internal/repository"
	"github.com/nandhagk/railsched/internal/scheduler"
)

// ---- fakes ----

type fakeSlotTx struct {
	slots      []domain.Slot
	nextSlotID int64
	nextTaskID int64
	tasks      []domain.Task
	committed  bool
}

func (f *fakeSlotTx) LockSection(context.Context, int64) error { return nil }

func (f *fakeSlotTx) FindFixedSlots(_ context.Context, sectionID int64, minPriority int, after time.Time) ([]domain.Slot, error) {
	var out []domain.Slot
	for _, s := range f.slots {
		if s.SectionID == sectionID && s.Priority >= minPriority && !s.EndsAt.Before(after) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotTx) PopIntersectingSlots(context.Context, int64, time.Time, time.Time, int) ([]domain.PlacementCandidate, error) {
	return nil, nil
}

func (f *fakeSlotTx) InsertSlot(_ context.Context, slot domain.PartialSlot) (domain.Slot, error) {
	f.nextSlotID++
	s := domain.Slot{ID: f.nextSlotID, StartsAt: slot.StartsAt, EndsAt: slot.EndsAt, Priority: slot.Priority, SectionID: slot.SectionID, TaskID: slot.TaskID, TrainID: slot.TrainID}
	f.slots = append(f.slots, s)
	return s, nil
}

func (f *fakeSlotTx) InsertTrainSlot(context.Context, domain.PartialSlot) (domain.Slot, bool, error) {
	panic("not used by batch scheduler")
}

func (f *fakeSlotTx) InsertTasks(_ context.Context, partials []domain.PartialTask) ([]domain.Task, error) {
	created := make([]domain.Task, len(partials))
	for i, p := range partials {
		f.nextTaskID++
		created[i] = domain.Task{
			ID: f.nextTaskID, Department: p.Department, DEN: p.DEN, NatureOfWork: p.NatureOfWork,
			Block: p.Block, Location: p.Location, PreferredStartsAt: p.PreferredStartsAt,
			PreferredEndsAt: p.PreferredEndsAt, RequestedDate: p.RequestedDate, RequestedDuration: p.RequestedDuration,
		}
	}
	f.tasks = append(f.tasks, created...)
	return created, nil
}

func (f *fakeSlotTx) Commit(context.Context) error   { f.committed = true; return nil }
func (f *fakeSlotTx) Rollback(context.Context) error { return nil }

type fakeSlotStore struct {
	tx *fakeSlotTx
}

func (s *fakeSlotStore) BeginTx(context.Context) (repository.SlotTx, error) {
	return s.tx, nil
}

// fakeTaskRepo reads from the same slot tx's task rows, mirroring how
// the real Postgres-backed TaskRepository and SlotTx share one table.
type fakeTaskRepo struct {
	tx *fakeSlotTx
}

func (r *fakeTaskRepo) InsertMany(context.Context, []domain.PartialTask) ([]domain.Task, error) {
	panic("not used")
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id int64) (*domain.Task, error) {
	for _, t := range r.tx.tasks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

type capturingSender struct {
	sent []string
}

func (s *capturingSender) Send(_ context.Context, to, subject, body string) error {
	s.sent = append(s.sent, to)
	return nil
}

// ---- tests ----

func TestSchedule_PlacesRequestAndCommits(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 2)
	reqDate := tomorrow.AddDate(0, 0, 1)

	tx := &fakeSlotTx{
		slots: []domain.Slot{
			{ID: 1, SectionID: 1, Priority: domain.TrainPriority, StartsAt: tomorrow, EndsAt: reqDate},
			{ID: 2, SectionID: 1, Priority: domain.TrainPriority, StartsAt: reqDate.AddDate(0, 0, 5), EndsAt: reqDate.AddDate(0, 0, 15)},
		},
	}
	store := &fakeSlotStore{tx: tx}
	taskRepo := &fakeTaskRepo{tx: tx}
	sender := &capturingSender{}
	notifier := notify.NewNotifier(sender)
	s := scheduler.NewBatchScheduler(store, taskRepo, notifier, time.Second, slog.Default())

	req := domain.MaintenanceRequest{
		Department: "ENGG", DEN: "den@example.com", NatureOfWork: "track patrol",
		Block: "A-B", Location: "km 12", PreferredStartsAt: domain.TimeOfDay(10 * time.Hour),
		PreferredEndsAt: domain.TimeOfDay(12 * time.Hour), RequestedDate: reqDate,
		RequestedDuration: 2 * time.Hour, Priority: 1, SectionID: 1,
	}

	results := s.Schedule(context.Background(), []scheduler.SectionBatch{
		{SectionID: 1, Requests: []domain.MaintenanceRequest{req}},
	})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if len(r.Placed) != 1 {
		t.Fatalf("expected 1 placed task, got %v", r.Placed)
	}
	if len(r.Unplaced) != 0 {
		t.Fatalf("expected 0 unplaced tasks, got %v", r.Unplaced)
	}
	if !tx.committed {
		t.Error("expected transaction to be committed")
	}
	if len(sender.sent) != 0 {
		t.Errorf("expected no notification for a placed task, got %v", sender.sent)
	}
}

func TestSchedule_NotifiesDENWhenUnplaced(t *testing.T) {
	day := time.Now().AddDate(0, 0, 2)
	reqDate := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	// A single fixed slot covering the whole requested day (and the nine
	// after it) leaves no free gap on that day.
	tx := &fakeSlotTx{
		slots: []domain.Slot{
			{ID: 1, SectionID: 1, Priority: domain.TrainPriority, StartsAt: reqDate, EndsAt: reqDate.AddDate(0, 0, 10)},
		},
	}
	store := &fakeSlotStore{tx: tx}
	taskRepo := &fakeTaskRepo{tx: tx}
	sender := &capturingSender{}
	notifier := notify.NewNotifier(sender)
	s := scheduler.NewBatchScheduler(store, taskRepo, notifier, time.Second, slog.Default())

	req := domain.MaintenanceRequest{
		Department: "ENGG", DEN: "den@example.com", NatureOfWork: "track patrol",
		Block: "A-B", Location: "km 12", PreferredStartsAt: domain.TimeOfDay(10 * time.Hour),
		PreferredEndsAt: domain.TimeOfDay(12 * time.Hour), RequestedDate: reqDate,
		RequestedDuration: 2 * time.Hour, Priority: 1, SectionID: 1,
	}

	results := s.Schedule(context.Background(), []scheduler.SectionBatch{
		{SectionID: 1, Requests: []domain.MaintenanceRequest{req}},
	})

	r := results[0]
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if len(r.Unplaced) != 1 {
		t.Fatalf("expected 1 unplaced task, got %v", r.Unplaced)
	}
	if len(sender.sent) != 1 || sender.sent[0] != req.DEN {
		t.Fatalf("expected notification sent to %s, got %v", req.DEN, sender.sent)
	}
}
