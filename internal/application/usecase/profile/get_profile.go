package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type GetProfileUseCase struct {
	profileRepo profile.Repository
	logger      logger.Logger
}

func NewGetProfileUseCase(pRepo profile.Repository, log logger.Logger) *GetProfileUseCase {
	return &GetProfileUseCase{profileRepo: pRepo, logger: log}
}

type GetProfileInput struct {
	ProfileID string
	// ViewerID is nil for anonymous callers.
	ViewerID *uuid.UUID
}

type GetProfileOutput struct {
	Profile *profile.Profile
	IsOwner bool
}

// Execute applies the visibility policy. A profile the viewer may not
// see reports not-found rather than forbidden, so its existence leaks
// nothing.
func (uc *GetProfileUseCase) Execute(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetProfile")
	defer span.End()

	p, err := uc.profileRepo.FindByID(ctx, input.ProfileID, true)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.CanView(input.ViewerID) {
		return nil, apperror.NewNotFound("profile", input.ProfileID)
	}

	isOwner := input.ViewerID != nil && p.IsOwnedBy(*input.ViewerID)
	return &GetProfileOutput{Profile: p, IsOwner: isOwner}, nil
}

type GetProfileBySlugInput struct {
	Slug     string
	ViewerID *uuid.UUID
}

func (uc *GetProfileUseCase) ExecuteBySlug(ctx context.Context, input GetProfileBySlugInput) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetProfileBySlug")
	defer span.End()

	p, err := uc.profileRepo.FindBySlug(ctx, input.Slug, true)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.CanView(input.ViewerID) {
		return nil, apperror.NewNotFound("profile", input.Slug)
	}

	isOwner := input.ViewerID != nil && p.IsOwnedBy(*input.ViewerID)
	return &GetProfileOutput{Profile: p, IsOwner: isOwner}, nil
}

// ExecuteMine resolves the caller's own profile, visibility aside.
func (uc *GetProfileUseCase) ExecuteMine(ctx context.Context, userID uuid.UUID) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetMyProfile")
	defer span.End()

	p, err := uc.profileRepo.FindByUserID(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NewNotFound("profile", userID.String())
	}
	return &GetProfileOutput{Profile: p, IsOwner: true}, nil
}
