package profile

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type RecomputeCompletenessUseCase struct {
	profileRepo profile.Repository
	logger      logger.Logger
}

func NewRecomputeCompletenessUseCase(pRepo profile.Repository, log logger.Logger) *RecomputeCompletenessUseCase {
	return &RecomputeCompletenessUseCase{profileRepo: pRepo, logger: log}
}

type RecomputeCompletenessInput struct {
	ProfileID string
	CallerID  uuid.UUID
}

type RecomputeCompletenessOutput struct {
	Score int
}

// Execute re-derives and persists the completeness score on behalf of
// the profile owner; any other caller is refused.
func (uc *RecomputeCompletenessUseCase) Execute(ctx context.Context, in RecomputeCompletenessInput) (*RecomputeCompletenessOutput, error) {
	ctx, span := tracer.Start(ctx, "RecomputeCompleteness")
	defer span.End()

	p, err := uc.profileRepo.FindByID(ctx, in.ProfileID, true)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NewNotFound("profile", in.ProfileID)
	}
	if !p.IsOwnedBy(in.CallerID) {
		return nil, apperror.NewPermissionDenied("only the profile owner can recompute completeness")
	}

	score, err := uc.persist(ctx, p)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("completeness_score", score))
	return &RecomputeCompletenessOutput{Score: score}, nil
}

// Reconcile is the event worker's entry point: no caller to authorize,
// it follows change events and keeps the stored score current.
func (uc *RecomputeCompletenessUseCase) Reconcile(ctx context.Context, profileID string) (*RecomputeCompletenessOutput, error) {
	ctx, span := tracer.Start(ctx, "ReconcileCompleteness")
	defer span.End()

	p, err := uc.profileRepo.FindByID(ctx, profileID, true)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NewNotFound("profile", profileID)
	}

	score, err := uc.persist(ctx, p)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("completeness_score", score))
	return &RecomputeCompletenessOutput{Score: score}, nil
}

func (uc *RecomputeCompletenessUseCase) persist(ctx context.Context, p *profile.Profile) (int, error) {
	score := p.CalculateCompleteness()
	if score != p.CompletenessScore {
		if err := uc.profileRepo.SetCompleteness(ctx, p.ID, score); err != nil {
			return 0, err
		}
	}
	return score, nil
}
