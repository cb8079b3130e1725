package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandhagk/railsched/internal/domain"
)

type NodeRepository struct {
	pool *pgxpool.Pool
}

func NewNodeRepository(pool *pgxpool.Pool) *NodeRepository {
	return &NodeRepository{pool: pool}
}

func (r *NodeRepository) InsertMany(ctx context.Context, nodes []domain.PartialNode) ([]domain.Node, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	names := make([]string, len(nodes))
	positions := make([]int, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
		positions[i] = int(n.Position)
	}

	rows, err := r.pool.Query(ctx, `
		INSERT INTO node (name, position)
		SELECT * FROM unnest($1::text[], $2::int[])
		RETURNING id, name, position`,
		names, positions,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateNode
		}
		return nil, fmt.Errorf("insert nodes: %w", err)
	}
	defer rows.Close()

	var created []domain.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		created = append(created, n)
	}
	return created, rows.Err()
}

func (r *NodeRepository) FindAll(ctx context.Context) ([]domain.Node, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, position FROM node`)
	if err != nil {
		return nil, fmt.Errorf("find nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (r *NodeRepository) FindByNameAndPosition(ctx context.Context, name string, position domain.Position) (*domain.Node, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, position FROM node
		WHERE name = $1 AND position = $2`,
		name, int(position),
	)

	n, err := scanNode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNodeNotFound
		}
		return nil, err
	}
	return &n, nil
}

func scanNode(row rowScanner) (domain.Node, error) {
	var n domain.Node
	err := row.Scan(&n.ID, &n.Name, &n.Position)
	if err != nil {
		return domain.Node{}, fmt.Errorf("scan node: %w", err)
	}
	return n, nil
}
