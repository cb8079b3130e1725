package ingest

import (
	"context"
	"strings"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/repository"
)

// SectionByLabel implements SectionResolver on top of a
// repository.SectionRepository, handling the two label shapes spec.md
// §6 allows: "START-END" for a running section between two named nodes,
// or a bare "NAME" for a yard, where the node pairs with itself.
type SectionByLabel struct {
	sections repository.SectionRepository
}

func NewSectionByLabel(sections repository.SectionRepository) *SectionByLabel {
	return &SectionByLabel{sections: sections}
}

func (r *SectionByLabel) ResolveSection(ctx context.Context, line domain.Line, label string) (int64, error) {
	fromName, toName := splitLabel(label)

	section, err := r.sections.FindByLineAndNames(ctx, line, fromName, toName)
	if err != nil {
		return 0, err
	}
	return section.ID, nil
}

func splitLabel(label string) (fromName, toName string) {
	if before, after, ok := strings.Cut(label, "-"); ok {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return label, label
}
