package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerhub/careerhub-api/internal/domain/experience"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type postgresExperienceRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresExperienceRepo(db *pgxpool.Pool, logger logger.Logger) experience.Repository {
	return &postgresExperienceRepo{db: db, logger: logger}
}

const experienceColumns = `id, profile_id, company_name, company_website, company_size, industry, company_location,
	position, employment_type, start_date, end_date, is_current, description,
	responsibilities, technologies, display_order, created_at, updated_at`

// experienceOrdering keeps listings stable when display orders collide:
// the most recent role wins the tie.
const experienceOrdering = "display_order DESC, start_date DESC, created_at DESC"

func scanExperience(row pgx.Row) (*experience.Experience, error) {
	e := &experience.Experience{}
	var responsibilitiesBytes []byte

	err := row.Scan(
		&e.ID,
		&e.ProfileID,
		&e.CompanyName,
		&e.CompanyWebsite,
		&e.CompanySize,
		&e.Industry,
		&e.CompanyLocation,
		&e.Position,
		&e.EmploymentType,
		&e.StartDate,
		&e.EndDate,
		&e.IsCurrent,
		&e.Description,
		&responsibilitiesBytes,
		&e.Technologies,
		&e.DisplayOrder,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewInternal("failed to scan experience row", err)
	}

	if len(responsibilitiesBytes) > 0 {
		if err := json.Unmarshal(responsibilitiesBytes, &e.Responsibilities); err != nil {
			return nil, apperror.NewInternal("failed to unmarshal experience responsibilities", err)
		}
	}
	if e.Responsibilities == nil {
		e.Responsibilities = []string{}
	}
	if e.Technologies == nil {
		e.Technologies = []string{}
	}
	return e, nil
}

// scanExperienceList is shared with the profile repo for eager loading.
func scanExperienceList(ctx context.Context, db *pgxpool.Pool, profileID string) ([]*experience.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences WHERE profile_id = $1 ORDER BY ` + experienceOrdering
	rows, err := db.Query(ctx, query, profileID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query experiences", err)
	}
	defer rows.Close()

	experiences := make([]*experience.Experience, 0)
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		experiences = append(experiences, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating experience rows", err)
	}
	return experiences, nil
}

func (r *postgresExperienceRepo) Save(ctx context.Context, e *experience.Experience) error {
	responsibilitiesBytes, err := json.Marshal(e.Responsibilities)
	if err != nil {
		return apperror.NewInternal("failed to marshal experience responsibilities", err)
	}

	query := `
		INSERT INTO experiences (id, profile_id, company_name, company_website, company_size, industry, company_location,
			position, employment_type, start_date, end_date, is_current, description,
			responsibilities, technologies, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err = r.db.Exec(ctx, query,
		e.ID, e.ProfileID, e.CompanyName, e.CompanyWebsite, e.CompanySize, e.Industry, e.CompanyLocation,
		e.Position, e.EmploymentType, e.StartDate, e.EndDate, e.IsCurrent, e.Description,
		responsibilitiesBytes, e.Technologies, e.DisplayOrder, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save experience", err)
	}
	return nil
}

func (r *postgresExperienceRepo) FindByID(ctx context.Context, id string) (*experience.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences WHERE id = $1`
	return scanExperience(r.db.QueryRow(ctx, query, id))
}

func (r *postgresExperienceRepo) ListByProfile(ctx context.Context, profileID string) ([]*experience.Experience, error) {
	return scanExperienceList(ctx, r.db, profileID)
}

func (r *postgresExperienceRepo) Update(ctx context.Context, e *experience.Experience) error {
	responsibilitiesBytes, err := json.Marshal(e.Responsibilities)
	if err != nil {
		return apperror.NewInternal("failed to marshal experience responsibilities", err)
	}

	query := `
		UPDATE experiences SET
			company_name = $2, company_website = $3, company_size = $4, industry = $5, company_location = $6,
			position = $7, employment_type = $8, start_date = $9, end_date = $10, is_current = $11,
			description = $12, responsibilities = $13, technologies = $14, display_order = $15, updated_at = NOW()
		WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query,
		e.ID, e.CompanyName, e.CompanyWebsite, e.CompanySize, e.Industry, e.CompanyLocation,
		e.Position, e.EmploymentType, e.StartDate, e.EndDate, e.IsCurrent,
		e.Description, responsibilitiesBytes, e.Technologies, e.DisplayOrder,
	)
	if err != nil {
		return apperror.NewInternal("failed to update experience", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("experience", e.ID)
	}
	return nil
}

func (r *postgresExperienceRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return false, apperror.NewInternal("failed to delete experience", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *postgresExperienceRepo) MaxDisplayOrder(ctx context.Context, profileID string) (int, bool, error) {
	var max *int
	err := r.db.QueryRow(ctx, `SELECT MAX(display_order) FROM experiences WHERE profile_id = $1`, profileID).Scan(&max)
	if err != nil {
		return 0, false, apperror.NewInternal("failed to query max display order", err)
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

func (r *postgresExperienceRepo) SetDisplayOrders(ctx context.Context, profileID string, orders map[string]int) error {
	return setDisplayOrders(ctx, r.db, "experiences", profileID, orders)
}

// setDisplayOrders applies a full re-sequencing in one batch. The
// profile_id guard keeps an id list from touching rows outside the
// profile being reordered.
func setDisplayOrders(ctx context.Context, db *pgxpool.Pool, table, profileID string, orders map[string]int) error {
	batch := &pgx.Batch{}
	for id, order := range orders {
		batch.Queue(`UPDATE `+table+` SET display_order = $1, updated_at = NOW() WHERE id = $2 AND profile_id = $3`, order, id, profileID)
	}

	results := db.SendBatch(ctx, batch)
	defer results.Close()

	for range orders {
		if _, err := results.Exec(); err != nil {
			return apperror.NewInternal("failed to apply display order batch", err)
		}
	}
	return nil
}
