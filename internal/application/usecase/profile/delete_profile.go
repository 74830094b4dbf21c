package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/careerhub/careerhub-api/adapters/event"
	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type DeleteProfileUseCase struct {
	profileRepo profile.Repository
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewDeleteProfileUseCase(pRepo profile.Repository, kClient *event.KafkaProducerClient, log logger.Logger) *DeleteProfileUseCase {
	return &DeleteProfileUseCase{
		profileRepo: pRepo,
		kafkaClient: kClient,
		logger:      log,
	}
}

type DeleteProfileInput struct {
	ProfileID string
	CallerID  uuid.UUID
}

// Execute removes the profile and, through the store's cascade, all of
// its experiences and projects.
func (uc *DeleteProfileUseCase) Execute(ctx context.Context, input DeleteProfileInput) error {
	ctx, span := tracer.Start(ctx, "DeleteProfile")
	defer span.End()

	existing, err := uc.profileRepo.FindByID(ctx, input.ProfileID, false)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NewNotFound("profile", input.ProfileID)
	}
	if !existing.IsOwnedBy(input.CallerID) {
		return apperror.NewPermissionDenied("only the profile owner can delete it")
	}

	deleted, err := uc.profileRepo.Delete(ctx, existing.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NewNotFound("profile", input.ProfileID)
	}

	go uc.kafkaClient.PublishProfileEvent(context.Background(), event.EventProfileDeleted, existing.ID)

	return nil
}
