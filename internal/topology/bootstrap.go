// Package topology builds the node/section catalogue a section timeline
// is scheduled against. Grounded on
// original_source/src/train/services/{node,section}.py: a station
// catalogue (an ordered list of names) expands into two Node rows per
// name (position 1 and 2, the two ends of the node a train crosses) and
// a chain of Sections pairing consecutive node IDs — once forward for
// the "UP" line, once reversed for "DN".
package topology

import (
	"context"
	"errors"
	"fmt"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/repository"
)

// Bootstrapper expands a station-name catalogue into the node/section
// topology every subsequent allocation runs against.
type Bootstrapper struct {
	nodes    repository.NodeRepository
	sections repository.SectionRepository
}

func NewBootstrapper(nodes repository.NodeRepository, sections repository.SectionRepository) *Bootstrapper {
	return &Bootstrapper{nodes: nodes, sections: sections}
}

// BootstrapNodes inserts two Node rows (position 1 and 2) for every name
// in the catalogue, in catalogue order. Re-running against an
// already-seeded catalogue fails with ErrTopologyMismatch — the (name,
// position) unique constraint is the enforcement point (spec.md §4.1
// "Fails if a node name already exists").
func (b *Bootstrapper) BootstrapNodes(ctx context.Context, names []string) ([]domain.Node, error) {
	partials := make([]domain.PartialNode, 0, len(names)*2)
	for _, name := range names {
		partials = append(partials,
			domain.PartialNode{Name: name, Position: domain.PositionA},
			domain.PartialNode{Name: name, Position: domain.PositionB},
		)
	}

	created, err := b.nodes.InsertMany(ctx, partials)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateNode) {
			return nil, domain.ErrTopologyMismatch
		}
		return nil, fmt.Errorf("bootstrap nodes: %w", err)
	}
	return created, nil
}

// BootstrapSections chains the already-inserted nodes into UP and DN
// sections. names must be given in the same catalogue order passed to
// BootstrapNodes. Grounded on
// original_source/src/train/services/section.py::SectionService.init —
// node_ids flattens to [name0@1, name0@2, name1@1, name1@2, ...] and UP
// sections pair consecutive entries (within-node pairs are yard/block
// crossings, between-node pairs are running sections); DN reverses the
// same chain.
func (b *Bootstrapper) BootstrapSections(ctx context.Context, names []string) ([]domain.Section, error) {
	nodes, err := b.nodes.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}

	byKey := make(map[nodeKey]int64, len(nodes))
	for _, n := range nodes {
		byKey[nodeKey{name: n.Name, position: n.Position}] = n.ID
	}

	nodeIDs := make([]int64, 0, len(names)*2)
	for _, name := range names {
		idA, ok := byKey[nodeKey{name: name, position: domain.PositionA}]
		if !ok {
			return nil, fmt.Errorf("%w: node %q position %d not bootstrapped", domain.ErrTopologyMismatch, name, domain.PositionA)
		}
		idB, ok := byKey[nodeKey{name: name, position: domain.PositionB}]
		if !ok {
			return nil, fmt.Errorf("%w: node %q position %d not bootstrapped", domain.ErrTopologyMismatch, name, domain.PositionB)
		}
		nodeIDs = append(nodeIDs, idA, idB)
	}

	var partials []domain.PartialSection
	for i := 0; i+1 < len(nodeIDs); i++ {
		partials = append(partials, domain.PartialSection{
			Line:   domain.LineUp,
			FromID: nodeIDs[i],
			ToID:   nodeIDs[i+1],
		})
	}
	for i := len(nodeIDs) - 1; i > 0; i-- {
		partials = append(partials, domain.PartialSection{
			Line:   domain.LineDown,
			FromID: nodeIDs[i],
			ToID:   nodeIDs[i-1],
		})
	}

	created, err := b.sections.InsertMany(ctx, partials)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSection) {
			return nil, domain.ErrTopologyMismatch
		}
		return nil, fmt.Errorf("bootstrap sections: %w", err)
	}
	return created, nil
}

type nodeKey struct {
	name     string
	position domain.Position
}
