package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerhub/careerhub-api/internal/domain/project"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type postgresProjectRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProjectRepo(db *pgxpool.Pool, logger logger.Logger) project.Repository {
	return &postgresProjectRepo{db: db, logger: logger}
}

const projectColumns = `id, profile_id, name, description, status, category, scale,
	start_date, end_date, client, technologies, achievements, challenges,
	display_order, created_at, updated_at`

func scanProject(row pgx.Row) (*project.Project, error) {
	p := &project.Project{}
	err := row.Scan(
		&p.ID,
		&p.ProfileID,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.Category,
		&p.Scale,
		&p.StartDate,
		&p.EndDate,
		&p.Client,
		&p.Technologies,
		&p.Achievements,
		&p.Challenges,
		&p.DisplayOrder,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewInternal("failed to scan project row", err)
	}

	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	if p.Challenges == nil {
		p.Challenges = []string{}
	}
	return p, nil
}

func (r *postgresProjectRepo) Save(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (id, profile_id, name, description, status, category, scale,
			start_date, end_date, client, technologies, achievements, challenges,
			display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.ProfileID, p.Name, p.Description, p.Status, p.Category, p.Scale,
		p.StartDate, p.EndDate, p.Client, p.Technologies, p.Achievements, p.Challenges,
		p.DisplayOrder, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save project", err)
	}
	return nil
}

func (r *postgresProjectRepo) FindByID(ctx context.Context, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRow(ctx, query, id))
}

func (r *postgresProjectRepo) ListByProfile(ctx context.Context, profileID string) ([]*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE profile_id = $1 ORDER BY display_order ASC, created_at DESC`
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query projects", err)
	}
	defer rows.Close()

	projects := make([]*project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating project rows", err)
	}
	return projects, nil
}

func (r *postgresProjectRepo) Update(ctx context.Context, p *project.Project) error {
	query := `
		UPDATE projects SET
			name = $2, description = $3, status = $4, category = $5, scale = $6,
			start_date = $7, end_date = $8, client = $9, technologies = $10,
			achievements = $11, challenges = $12, display_order = $13, updated_at = NOW()
		WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Status, p.Category, p.Scale,
		p.StartDate, p.EndDate, p.Client, p.Technologies,
		p.Achievements, p.Challenges, p.DisplayOrder,
	)
	if err != nil {
		return apperror.NewInternal("failed to update project", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("project", p.ID)
	}
	return nil
}

func (r *postgresProjectRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, apperror.NewInternal("failed to delete project", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *postgresProjectRepo) CountByProfile(ctx context.Context, profileID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE profile_id = $1`, profileID).Scan(&count)
	if err != nil {
		return 0, apperror.NewInternal("failed to count projects", err)
	}
	return count, nil
}

func (r *postgresProjectRepo) SetDisplayOrders(ctx context.Context, profileID string, orders map[string]int) error {
	return setDisplayOrders(ctx, r.db, "projects", profileID, orders)
}
