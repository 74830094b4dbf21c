package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/careerhub/careerhub-api/adapters/event"
	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type UpdateProfileUseCase struct {
	profileRepo profile.Repository
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewUpdateProfileUseCase(pRepo profile.Repository, kClient *event.KafkaProducerClient, log logger.Logger) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{
		profileRepo: pRepo,
		kafkaClient: kClient,
		logger:      log,
	}
}

type UpdateProfileInput struct {
	ProfileID string
	CallerID  uuid.UUID
	Patch     profile.Patch
}

type UpdateProfileOutput struct {
	Profile *profile.Profile
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "UpdateProfile")
	defer span.End()

	existing, err := uc.profileRepo.FindByID(ctx, input.ProfileID, false)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NewNotFound("profile", input.ProfileID)
	}
	if !existing.IsOwnedBy(input.CallerID) {
		return nil, apperror.NewPermissionDenied("only the profile owner can update it")
	}

	if input.Patch.IsEmpty() {
		return &UpdateProfileOutput{Profile: existing}, nil
	}
	if err := input.Patch.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	// Validate already checked the slug's shape against the raw input;
	// only uniqueness is left.
	if input.Patch.Slug.Set {
		taken, err := uc.profileRepo.SlugExists(ctx, input.Patch.Slug.Value, existing.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.NewConflict("profile", "slug", input.Patch.Slug.Value)
		}
	}

	if err := uc.profileRepo.UpdateFields(ctx, existing.ID, input.Patch); err != nil {
		return nil, err
	}

	// Re-read with experiences so the derived score reflects the new state.
	updated, err := uc.profileRepo.FindByID(ctx, existing.ID, true)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.NewNotFound("profile", input.ProfileID)
	}

	score := updated.CalculateCompleteness()
	if score != updated.CompletenessScore {
		if err := uc.profileRepo.SetCompleteness(ctx, updated.ID, score); err != nil {
			return nil, err
		}
		updated.CompletenessScore = score
	}

	go uc.kafkaClient.PublishProfileEvent(context.Background(), event.EventProfileUpdated, updated.ID)

	return &UpdateProfileOutput{Profile: updated}, nil
}
