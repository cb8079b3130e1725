package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/repository"
	"github.com/nandhagk/railsched/internal/usecase"
)

type fakeListSlotsTx struct {
	slots            []domain.Slot
	rolledBack       bool
	locked           bool
	lockedBeforeRead bool
	lockSection      func(ctx context.Context, sectionID int64) error
	findFixedErr     error
}

func (f *fakeListSlotsTx) LockSection(ctx context.Context, sectionID int64) error {
	f.locked = true
	if f.lockSection != nil {
		return f.lockSection(ctx, sectionID)
	}
	return nil
}

func (f *fakeListSlotsTx) FindFixedSlots(context.Context, int64, int, time.Time) ([]domain.Slot, error) {
	f.lockedBeforeRead = f.locked
	if f.findFixedErr != nil {
		return nil, f.findFixedErr
	}
	return f.slots, nil
}

func (f *fakeListSlotsTx) PopIntersectingSlots(context.Context, int64, time.Time, time.Time, int) ([]domain.PlacementCandidate, error) {
	panic("not used")
}

func (f *fakeListSlotsTx) InsertSlot(context.Context, domain.PartialSlot) (domain.Slot, error) {
	panic("not used")
}

func (f *fakeListSlotsTx) InsertTrainSlot(context.Context, domain.PartialSlot) (domain.Slot, bool, error) {
	panic("not used")
}

func (f *fakeListSlotsTx) InsertTasks(context.Context, []domain.PartialTask) ([]domain.Task, error) {
	panic("not used")
}

func (f *fakeListSlotsTx) Commit(context.Context) error { panic("ListSlots must never commit") }

func (f *fakeListSlotsTx) Rollback(context.Context) error { f.rolledBack = true; return nil }

type fakeListSlotsStore struct {
	tx *fakeListSlotsTx
}

func (s *fakeListSlotsStore) BeginTx(context.Context) (repository.SlotTx, error) {
	return s.tx, nil
}

func TestSectionUsecase_ListSlots_LocksThenReadsThenRollsBack(t *testing.T) {
	want := []domain.Slot{{ID: 1, SectionID: 5}, {ID: 2, SectionID: 5}}
	tx := &fakeListSlotsTx{slots: want}
	store := &fakeListSlotsStore{tx: tx}

	got, err := usecase.NewSectionUsecase(store).ListSlots(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d slots, want %d", len(got), len(want))
	}
	if !tx.lockedBeforeRead {
		t.Error("expected LockSection to be called before reading")
	}
	if !tx.rolledBack {
		t.Error("expected the diagnostic read to roll back, never commit")
	}
}

func TestSectionUsecase_ListSlots_LockError_RollsBackAndPropagates(t *testing.T) {
	lockErr := errors.New("advisory lock unavailable")
	tx := &fakeListSlotsTx{
		lockSection: func(context.Context, int64) error { return lockErr },
	}
	store := &fakeListSlotsStore{tx: tx}

	_, err := usecase.NewSectionUsecase(store).ListSlots(context.Background(), 5)
	if !errors.Is(err, lockErr) {
		t.Errorf("want wrapped lockErr, got %v", err)
	}
	if !tx.rolledBack {
		t.Error("expected rollback even when LockSection fails")
	}
}
