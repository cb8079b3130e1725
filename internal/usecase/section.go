package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/repository"
)

// SectionUsecase answers read-only diagnostics over a section's
// timeline. Not part of the scheduling core (spec.md §4.4 only reads
// through a batch's own transaction) — this is the supplemental
// "GET /sections/:id/slots" read path (SPEC_FULL §6.4).
type SectionUsecase struct {
	store repository.SlotStore
}

func NewSectionUsecase(store repository.SlotStore) *SectionUsecase {
	return &SectionUsecase{store: store}
}

// ListSlots returns every slot on sectionID, fixed or task-owned,
// ending no earlier than "now". Uses minPriority 0 so every priority is
// returned.
func (u *SectionUsecase) ListSlots(ctx context.Context, sectionID int64) ([]domain.Slot, error) {
	tx, err := u.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.LockSection(ctx, sectionID); err != nil {
		return nil, fmt.Errorf("lock section: %w", err)
	}

	slots, err := tx.FindFixedSlots(ctx, sectionID, 0, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}
