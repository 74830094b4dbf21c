package profile

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/careerhub/careerhub-api/adapters/event"
	"github.com/careerhub/careerhub-api/internal/application/service"
	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
	"github.com/careerhub/careerhub-api/pkg/patch"
)

type UploadPhotoUseCase struct {
	profileRepo profile.Repository
	uploader    service.Uploader
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewUploadPhotoUseCase(pRepo profile.Repository, uploader service.Uploader, kClient *event.KafkaProducerClient, log logger.Logger) *UploadPhotoUseCase {
	return &UploadPhotoUseCase{
		profileRepo: pRepo,
		uploader:    uploader,
		kafkaClient: kClient,
		logger:      log,
	}
}

type UploadPhotoInput struct {
	ProfileID string
	CallerID  uuid.UUID
	File      io.Reader
}

type UploadPhotoOutput struct {
	PhotoURL string
}

func (uc *UploadPhotoUseCase) Execute(ctx context.Context, input UploadPhotoInput) (*UploadPhotoOutput, error) {
	ctx, span := tracer.Start(ctx, "UploadProfilePhoto")
	defer span.End()

	existing, err := uc.profileRepo.FindByID(ctx, input.ProfileID, false)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NewNotFound("profile", input.ProfileID)
	}
	if !existing.IsOwnedBy(input.CallerID) {
		return nil, apperror.NewPermissionDenied("only the profile owner can upload a photo")
	}

	folder := fmt.Sprintf("profiles/%s", existing.ID)
	photoURL, err := uc.uploader.Upload(ctx, input.File, folder, "photo")
	if err != nil {
		return nil, apperror.NewInternal("failed to upload profile photo", err)
	}

	err = uc.profileRepo.UpdateFields(ctx, existing.ID, profile.Patch{ProfilePhotoURL: patch.Of(photoURL)})
	if err != nil {
		return nil, err
	}

	go uc.kafkaClient.PublishProfileEvent(context.Background(), event.EventProfileUpdated, existing.ID)

	return &UploadPhotoOutput{PhotoURL: photoURL}, nil
}
