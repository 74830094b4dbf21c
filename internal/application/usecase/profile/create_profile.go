package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/careerhub/careerhub-api/adapters/event"
	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/internal/domain/user"
	"github.com/careerhub/careerhub-api/internal/ids"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

type CreateProfileUseCase struct {
	profileRepo profile.Repository
	userRepo    user.Repository
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewCreateProfileUseCase(pRepo profile.Repository, uRepo user.Repository, kClient *event.KafkaProducerClient, log logger.Logger) *CreateProfileUseCase {
	return &CreateProfileUseCase{
		profileRepo: pRepo,
		userRepo:    uRepo,
		kafkaClient: kClient,
		logger:      log,
	}
}

type CreateProfileInput struct {
	UserID          uuid.UUID
	Slug            *string
	Headline        *string
	Summary         *string
	Location        *string
	Visibility      *profile.Visibility
	Contact         map[string]any
	DraftData       map[string]any
	ProfilePhotoURL *string
}

type CreateProfileOutput struct {
	Profile *profile.Profile
}

func (uc *CreateProfileUseCase) Execute(ctx context.Context, input CreateProfileInput) (*CreateProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "CreateProfile")
	defer span.End()

	existing, err := uc.profileRepo.FindByUserID(ctx, input.UserID, false)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflict("profile", "user_id", input.UserID.String())
	}

	now := time.Now().UTC()
	newProfile := &profile.Profile{
		ID:              ids.New(),
		UserID:          input.UserID,
		Headline:        input.Headline,
		Summary:         input.Summary,
		Location:        input.Location,
		Visibility:      profile.VisibilityPrivate,
		Contact:         input.Contact,
		DraftData:       input.DraftData,
		ProfilePhotoURL: input.ProfilePhotoURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if input.Visibility != nil {
		if !input.Visibility.Valid() {
			return nil, apperror.NewInvalidInput("invalid visibility", profile.ErrInvalidVisibility)
		}
		newProfile.Visibility = *input.Visibility
	}
	if newProfile.Contact == nil {
		newProfile.Contact = map[string]any{}
	}

	if input.Slug != nil && *input.Slug != "" {
		// Explicit slugs are taken verbatim, never normalized.
		slug := *input.Slug
		if err := profile.ValidateSlug(slug); err != nil {
			return nil, apperror.NewInvalidInput("invalid slug", err)
		}
		taken, err := uc.profileRepo.SlugExists(ctx, slug, "")
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.NewConflict("profile", "slug", slug)
		}
		newProfile.Slug = &slug
	} else {
		var ownerName *string
		if owner, err := uc.userRepo.FindByID(ctx, input.UserID); err == nil && owner != nil {
			ownerName = owner.Name
		}
		slug, err := allocateSlug(ctx, uc.profileRepo, newProfile.GenerateSlug(ownerName), "")
		if err != nil {
			return nil, err
		}
		newProfile.Slug = &slug
	}

	newProfile.CompletenessScore = newProfile.CalculateCompleteness()

	if err := uc.profileRepo.Save(ctx, newProfile); err != nil {
		return nil, err
	}

	go uc.kafkaClient.PublishProfileEvent(context.Background(), event.EventProfileCreated, newProfile.ID)

	span.SetAttributes(attribute.String("profile_id", newProfile.ID))
	return &CreateProfileOutput{Profile: newProfile}, nil
}

// allocateSlug takes a candidate slug and walks -1, -2, ... until an
// unclaimed variant is found. A concurrent claim past the check still
// trips the unique index, so the worst case is a conflict, never a
// silent overwrite.
func allocateSlug(ctx context.Context, repo profile.Repository, candidate, excludeProfileID string) (string, error) {
	slug := candidate
	for i := 1; ; i++ {
		taken, err := repo.SlugExists(ctx, slug, excludeProfileID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", candidate, i)
	}
}
