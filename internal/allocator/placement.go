package allocator

import (
	"context"
	"time"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/repository"
)

// interval is a half-open [startsAt, endsAt) span on a section's timeline.
type interval struct {
	startsAt time.Time
	endsAt   time.Time
}

// findInterval picks the concrete [startsAt, endsAt) slot for a pending
// placement on one section. Ported line-for-line from
// original_source/src/train/services/slot.py::find_interval_for_task
// (spec.md §4.3 steps 1-6):
//
//  1. load fixed slots with priority >= the candidate's, ending no
//     earlier than tomorrow (today and the remainder of the horizon are
//     left alone — only future days are up for allocation);
//  2. the gaps between consecutive fixed slots are the available free
//     windows;
//  3. keep only the windows that cover the requested date and are long
//     enough for the requested duration;
//  4. of those, pick the window with the greatest overlap against the
//     candidate's preferred window on the requested date;
//  5. snap the placement to the preferred window when it fits entirely
//     inside the chosen free window, to either edge when it only
//     partially overlaps, and fail with ErrNoFreeSlot when nothing
//     qualifies.
func findInterval(ctx context.Context, tx repository.SlotTx, sectionID int64, c domain.PlacementCandidate) (interval, error) {
	after := time.Now().AddDate(0, 0, 1)

	fixed, err := tx.FindFixedSlots(ctx, sectionID, c.Priority, after)
	if err != nil {
		return interval{}, err
	}

	// pairwise(fixed_slots) only yields gaps *between* two fixed slots,
	// so a section with zero or one fixed slot would otherwise never
	// offer a free window at all. Bound the timeline with a leading
	// sentinel at "after" and a trailing sentinel well past anything the
	// request could need, so an empty or single-slot section still
	// yields one feasible window (spec.md §8 scenarios 1 and 4).
	horizonEnd := maxTime(after, c.RequestedDate).AddDate(1, 0, 0)
	bounded := make([]domain.Slot, 0, len(fixed)+2)
	bounded = append(bounded, domain.Slot{EndsAt: after})
	bounded = append(bounded, fixed...)
	bounded = append(bounded, domain.Slot{StartsAt: horizonEnd})

	var free []interval
	for i := 0; i+1 < len(bounded); i++ {
		free = append(free, interval{startsAt: bounded[i].EndsAt, endsAt: bounded[i+1].StartsAt})
	}

	var candidates []interval
	for _, w := range free {
		if !coversDate(w, c.RequestedDate) {
			continue
		}
		if w.endsAt.Sub(w.startsAt) < c.RequestedDuration {
			continue
		}
		candidates = append(candidates, w)
	}
	if len(candidates) == 0 {
		return interval{}, domain.ErrNoFreeSlot
	}

	preferredStartsAt := domain.Combine(c.RequestedDate, c.PreferredStartsAt)
	preferredEndsAt := domain.Combine(c.RequestedDate, c.PreferredEndsAt)
	if preferredEndsAt.Before(preferredStartsAt) {
		preferredEndsAt = preferredEndsAt.AddDate(0, 0, 1)
	}

	best := candidates[0]
	bestOverlap := overlap(best, preferredStartsAt, preferredEndsAt)
	for _, w := range candidates[1:] {
		if o := overlap(w, preferredStartsAt, preferredEndsAt); o > bestOverlap {
			best = w
			bestOverlap = o
		}
	}

	var startsAt time.Time
	switch {
	case !best.startsAt.After(preferredStartsAt) && !preferredEndsAt.After(best.endsAt):
		startsAt = preferredStartsAt
	case !best.startsAt.Before(preferredStartsAt):
		startsAt = best.startsAt
	default:
		startsAt = minTime(best.endsAt.Add(-c.RequestedDuration), preferredStartsAt)
	}

	return interval{startsAt: startsAt, endsAt: startsAt.Add(c.RequestedDuration)}, nil
}

// coversDate reports whether w overlaps some part of date's calendar
// day. Windows are half-open, so one that ends exactly at the day's
// midnight, or starts exactly at the next midnight, does not cover it.
func coversDate(w interval, date time.Time) bool {
	return w.startsAt.Before(endOfDay(date)) && w.endsAt.After(startOfDay(date))
}

// overlap returns how much of [preferredStartsAt, preferredEndsAt) falls
// inside w, clamped to zero.
func overlap(w interval, preferredStartsAt, preferredEndsAt time.Time) time.Duration {
	lo := maxTime(w.startsAt, preferredStartsAt)
	hi := minTime(w.endsAt, preferredEndsAt)
	d := hi.Sub(lo)
	if d < 0 {
		return 0
	}
	return d
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
