package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"greenroom.tools/console/internal/longform"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrDuplicateProject = errors.New("a project with that name already exists")
	ErrEmptyProjectName = errors.New("project name is required")
)

// ListProjects returns every project, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject looks a project up by ID.
func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	var p Project
	err := s.db.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at
		FROM projects
		WHERE id = $1`, id).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProjectByName matches names case-insensitively.
func (s *Store) GetProjectByName(ctx context.Context, name string) (*Project, error) {
	var p Project
	err := s.db.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at
		FROM projects
		WHERE lower(name) = lower($1)`, strings.TrimSpace(name)).
		Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts a project together with its fixed set of
// placeholder rows. Names are unique case-insensitively.
func (s *Store) CreateProject(ctx context.Context, name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyProjectName
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	q := s.withTx(tx)

	var p Project
	err = q.db.QueryRow(ctx, `
		INSERT INTO projects (id, name)
		VALUES ($1, $2)
		RETURNING id, name, created_at, updated_at`, uuid.New(), name).
		Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if IsUniqueViolation(err) {
		return nil, ErrDuplicateProject
	}
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if err := q.insertRows(ctx, p.ID, longform.EmptyRows()); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes a project and its rows.
func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// LoadRows returns the project's full row sheet in serial order. Sheets
// short of the fixed count are padded with placeholders on the way out.
func (s *Store) LoadRows(ctx context.Context, projectID uuid.UUID) ([]longform.Row, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT serial_number, audio_url, image_url, status
		FROM project_rows
		WHERE project_id = $1
		ORDER BY serial_number`, projectID)
	if err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	defer rows.Close()

	var sheet []longform.Row
	for rows.Next() {
		var r longform.Row
		var status string
		if err := rows.Scan(&r.SerialNumber, &r.AudioURL, &r.ImageURL, &status); err != nil {
			return nil, err
		}
		r.Status = longform.RowStatus(status)
		sheet = append(sheet, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return longform.PadRows(sheet), nil
}

// SaveRows replaces the project's full row sheet in one transaction.
func (s *Store) SaveRows(ctx context.Context, projectID uuid.UUID, sheet []longform.Row) error {
	normalized, err := longform.NormalizeRows(sheet)
	if err != nil {
		return err
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	q := s.withTx(tx)

	if _, err := q.db.Exec(ctx, `DELETE FROM project_rows WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("clear rows: %w", err)
	}
	if err := q.insertRows(ctx, projectID, normalized); err != nil {
		return err
	}
	if _, err := q.db.Exec(ctx, `UPDATE projects SET updated_at = now() WHERE id = $1`, projectID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) insertRows(ctx context.Context, projectID uuid.UUID, sheet []longform.Row) error {
	for _, r := range sheet {
		_, err := s.db.Exec(ctx, `
			INSERT INTO project_rows (project_id, serial_number, audio_url, image_url, status)
			VALUES ($1, $2, $3, $4, $5)`,
			projectID, r.SerialNumber, r.AudioURL, r.ImageURL, string(r.Status))
		if err != nil {
			return fmt.Errorf("insert row %d: %w", r.SerialNumber, err)
		}
	}
	return nil
}
