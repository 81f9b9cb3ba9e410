// Package pgstore keeps projects in a PostgreSQL table.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edvin/subnets/internal/core"
	"github.com/edvin/subnets/internal/model"
	"github.com/edvin/subnets/internal/platform"
)

// DB is the subset of pgxpool.Pool used by the store.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	uniqueViolation = "23505"
	nameUniqueIndex = "projects_name_lower_key"
	projectColumns  = "id, name, subnet, status, provider, created_at"
)

type Store struct {
	db DB
}

var _ core.ProjectStore = (*Store)(nil)

func New(db DB) *Store {
	return &Store{db: db}
}

func (s *Store) List(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at, subnet`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Subnet, &p.Status, &p.Provider, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func (s *Store) Get(ctx context.Context, id string) (*model.Project, error) {
	if !platform.IsID(id) {
		return nil, core.ErrNotFound
	}

	var p model.Project
	err := s.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Subnet, &p.Status, &p.Provider, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (s *Store) Insert(ctx context.Context, p *model.Project) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Subnet, p.Status, p.Provider, p.CreatedAt,
	)
	if err != nil {
		return mapWriteError(fmt.Sprintf("insert project %s", p.ID), err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, p *model.Project) error {
	if !platform.IsID(p.ID) {
		return core.ErrNotFound
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE projects SET name = $1, status = $2, provider = $3 WHERE id = $4`,
		p.Name, p.Status, p.Provider, p.ID,
	)
	if err != nil {
		return mapWriteError(fmt.Sprintf("update project %s", p.ID), err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if !platform.IsID(id) {
		return core.ErrNotFound
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// mapWriteError turns a violation of the case-insensitive name index into
// core.ErrDuplicateName. A second instance racing on the same name ends up here.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == nameUniqueIndex {
		return core.ErrDuplicateName
	}
	return fmt.Errorf("%s: %w", op, err)
}
