package profile

import (
	"context"

	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type CheckSlugUseCase struct {
	profileRepo profile.Repository
	logger      logger.Logger
}

func NewCheckSlugUseCase(pRepo profile.Repository, log logger.Logger) *CheckSlugUseCase {
	return &CheckSlugUseCase{profileRepo: pRepo, logger: log}
}

type CheckSlugInput struct {
	Slug string
	// ExcludeProfileID leaves one profile out of the existence check,
	// so an owner probing their own current slug sees it as free.
	ExcludeProfileID string
}

type CheckSlugOutput struct {
	Slug      string
	Available bool
}

// Execute checks the slug exactly as supplied; a slug that does not
// already satisfy the format is rejected, not rewritten.
func (uc *CheckSlugUseCase) Execute(ctx context.Context, in CheckSlugInput) (*CheckSlugOutput, error) {
	if err := profile.ValidateSlug(in.Slug); err != nil {
		return nil, apperror.NewInvalidInput("invalid slug", err)
	}

	taken, err := uc.profileRepo.SlugExists(ctx, in.Slug, in.ExcludeProfileID)
	if err != nil {
		return nil, err
	}
	return &CheckSlugOutput{Slug: in.Slug, Available: !taken}, nil
}
