package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const profileColumns = "id, user_id, slug, headline, summary, location, visibility, contact, draft_data, profile_photo_url, completeness_score, created_at, updated_at"

func (r *postgresProfileRepo) scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	var contactBytes, draftBytes []byte

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Slug,
		&p.Headline,
		&p.Summary,
		&p.Location,
		&p.Visibility,
		&contactBytes,
		&draftBytes,
		&p.ProfilePhotoURL,
		&p.CompletenessScore,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewInternal("failed to scan profile row", err)
	}

	p.Contact = map[string]any{}
	if len(contactBytes) > 0 {
		if err := json.Unmarshal(contactBytes, &p.Contact); err != nil {
			r.logger.Warn("Failed to unmarshal profile contact", zap.String("profile_id", p.ID), zap.Error(err))
			p.Contact = map[string]any{}
		}
	}
	if len(draftBytes) > 0 {
		if err := json.Unmarshal(draftBytes, &p.DraftData); err != nil {
			r.logger.Warn("Failed to unmarshal profile draft_data", zap.String("profile_id", p.ID), zap.Error(err))
			p.DraftData = nil
		}
	}

	return p, nil
}

func (r *postgresProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	contactBytes, err := json.Marshal(p.Contact)
	if err != nil {
		return apperror.NewInternal("failed to marshal profile contact", err)
	}
	var draftBytes []byte
	if p.DraftData != nil {
		draftBytes, err = json.Marshal(p.DraftData)
		if err != nil {
			return apperror.NewInternal("failed to marshal profile draft_data", err)
		}
	}

	query := `
		INSERT INTO profiles (id, user_id, slug, headline, summary, location, visibility, contact, draft_data, profile_photo_url, completeness_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = r.db.Exec(ctx, query,
		p.ID, p.UserID, p.Slug, p.Headline, p.Summary, p.Location,
		p.Visibility, contactBytes, draftBytes, p.ProfilePhotoURL,
		p.CompletenessScore, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return translateProfileUniqueViolation(err, p)
	}
	return nil
}

// translateProfileUniqueViolation maps 23505 races to the domain
// conflicts the caller expects, so no raw storage error escapes.
func translateProfileUniqueViolation(err error, p *profile.Profile) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "profiles_user_id_key" {
			return apperror.NewConflict("profile", "user_id", p.UserID.String())
		}
		slug := ""
		if p.Slug != nil {
			slug = *p.Slug
		}
		return apperror.NewConflict("profile", "slug", slug)
	}
	return apperror.NewInternal("failed to write profile", err)
}

func (r *postgresProfileRepo) FindByID(ctx context.Context, id string, withExperiences bool) (*profile.Profile, error) {
	return r.findOne(ctx, sq.Eq{"id": id}, withExperiences)
}

func (r *postgresProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID, withExperiences bool) (*profile.Profile, error) {
	return r.findOne(ctx, sq.Eq{"user_id": userID}, withExperiences)
}

func (r *postgresProfileRepo) FindBySlug(ctx context.Context, slug string, withExperiences bool) (*profile.Profile, error) {
	return r.findOne(ctx, sq.Eq{"slug": slug}, withExperiences)
}

func (r *postgresProfileRepo) findOne(ctx context.Context, where sq.Eq, withExperiences bool) (*profile.Profile, error) {
	query, args, err := psql.Select(profileColumns).From("profiles").Where(where).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile query", err)
	}

	p, err := r.scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil || p == nil {
		return nil, err
	}

	if withExperiences {
		exps, err := scanExperienceList(ctx, r.db, p.ID)
		if err != nil {
			return nil, err
		}
		p.Experiences = exps
	}
	return p, nil
}

func (r *postgresProfileRepo) UpdateFields(ctx context.Context, id string, patch profile.Patch) error {
	builder := psql.Update("profiles").Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": id})

	// Tri-state fields: Ptr() is nil on an explicit null, which writes
	// SQL NULL and clears the column.
	if patch.Slug.Set {
		builder = builder.Set("slug", patch.Slug.Ptr())
	}
	if patch.Headline.Set {
		builder = builder.Set("headline", patch.Headline.Ptr())
	}
	if patch.Summary.Set {
		builder = builder.Set("summary", patch.Summary.Ptr())
	}
	if patch.Location.Set {
		builder = builder.Set("location", patch.Location.Ptr())
	}
	if patch.Visibility != nil {
		builder = builder.Set("visibility", string(*patch.Visibility))
	}
	if patch.Contact != nil {
		contactBytes, err := json.Marshal(patch.Contact)
		if err != nil {
			return apperror.NewInternal("failed to marshal profile contact", err)
		}
		builder = builder.Set("contact", contactBytes)
	}
	if patch.DraftData != nil {
		draftBytes, err := json.Marshal(patch.DraftData)
		if err != nil {
			return apperror.NewInternal("failed to marshal profile draft_data", err)
		}
		builder = builder.Set("draft_data", draftBytes)
	}
	if patch.ProfilePhotoURL.Set {
		builder = builder.Set("profile_photo_url", patch.ProfilePhotoURL.Ptr())
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build profile update", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("profile", "slug", patch.Slug.Value)
		}
		return apperror.NewInternal("failed to update profile", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("profile", id)
	}
	return nil
}

// Delete removes the profile; experiences and projects go with it via
// ON DELETE CASCADE.
func (r *postgresProfileRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return false, apperror.NewInternal("failed to delete profile", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *postgresProfileRepo) ListPublic(ctx context.Context, limit, offset int) ([]*profile.Profile, error) {
	builder := psql.Select(profileColumns).
		From("profiles").
		Where(sq.Eq{"visibility": profile.VisibilityPublic}).
		OrderBy("completeness_score DESC", "created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	return r.list(ctx, builder, "failed to query public profiles")
}

func (r *postgresProfileRepo) SearchPublic(ctx context.Context, query string, limit, offset int) ([]*profile.Profile, error) {
	pattern := "%" + query + "%"
	builder := psql.Select(profileColumns).
		From("profiles").
		Where(sq.Eq{"visibility": profile.VisibilityPublic}).
		Where(sq.Or{
			sq.ILike{"headline": pattern},
			sq.ILike{"summary": pattern},
			sq.ILike{"location": pattern},
		}).
		OrderBy("completeness_score DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	return r.list(ctx, builder, "failed to search public profiles")
}

func (r *postgresProfileRepo) list(ctx context.Context, builder sq.SelectBuilder, errDetail string) ([]*profile.Profile, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal(errDetail, err)
	}
	defer rows.Close()

	profiles := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating profile rows", err)
	}
	return profiles, nil
}

func (r *postgresProfileRepo) SlugExists(ctx context.Context, slug string, excludeProfileID string) (bool, error) {
	builder := psql.Select("1").From("profiles").Where(sq.Eq{"slug": slug})
	if excludeProfileID != "" {
		builder = builder.Where(sq.NotEq{"id": excludeProfileID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, apperror.NewInternal("failed to build slug check query", err)
	}

	var one int
	err = r.db.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, apperror.NewInternal("failed to check slug existence", err)
	}
	return true, nil
}

func (r *postgresProfileRepo) SetCompleteness(ctx context.Context, id string, score int) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE profiles SET completeness_score = $2 WHERE id = $1`, id, score)
	if err != nil {
		return apperror.NewInternal("failed to update completeness score", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("profile", id)
	}
	return nil
}
