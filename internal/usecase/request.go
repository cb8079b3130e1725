package usecase

import (
	"context"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/scheduler"
)

// RequestUsecase places a batch of maintenance requests against one
// section. Grounded on the teacher's usecase/schedule.go input-struct
// and wrapping-error shape, wired over scheduler.BatchScheduler instead
// of a single-schedule repository call.
type RequestUsecase struct {
	scheduler *scheduler.BatchScheduler
}

func NewRequestUsecase(s *scheduler.BatchScheduler) *RequestUsecase {
	return &RequestUsecase{scheduler: s}
}

// SubmitRequests places every request in requests against sectionID and
// returns the placement outcome. Every request is placed on sectionID;
// a request's own SectionID field is not consulted.
func (u *RequestUsecase) SubmitRequests(ctx context.Context, sectionID int64, requests []domain.MaintenanceRequest) (scheduler.BatchResult, error) {
	results := u.scheduler.Schedule(ctx, []scheduler.SectionBatch{
		{SectionID: sectionID, Requests: requests},
	})
	return results[0], results[0].Err
}
