package experience

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/careerhub/careerhub-api/adapters/event"
	"github.com/careerhub/careerhub-api/internal/domain/experience"
	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/internal/ids"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

var tracer = otel.Tracer("experience_usecase")

type ExperienceUseCase struct {
	repo        experience.Repository
	profileRepo profile.Repository
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewExperienceUseCase(r experience.Repository, pRepo profile.Repository, kClient *event.KafkaProducerClient, log logger.Logger) *ExperienceUseCase {
	return &ExperienceUseCase{
		repo:        r,
		profileRepo: pRepo,
		kafkaClient: kClient,
		logger:      log,
	}
}

func fieldErrors(errs []experience.ValidationError) []apperror.FieldError {
	fields := make([]apperror.FieldError, len(errs))
	for i, e := range errs {
		fields[i] = apperror.FieldError{Field: e.Field, Message: e.Message}
	}
	return fields
}

// ownedProfile loads the profile and enforces that the caller owns it.
func (uc *ExperienceUseCase) ownedProfile(ctx context.Context, profileID string, callerID uuid.UUID) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID, false)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NewNotFound("profile", profileID)
	}
	if !p.IsOwnedBy(callerID) {
		return nil, apperror.NewPermissionDenied("only the profile owner can modify experiences")
	}
	return p, nil
}

func (uc *ExperienceUseCase) notifyChanged(profileID string) {
	go uc.kafkaClient.PublishProfileEvent(context.Background(), event.EventExperienceChanged, profileID)
}

// refreshCompleteness re-derives and persists the owning profile's
// score in-request, so a read right after the mutation already sees
// the new value. The change event still goes out as a safety net.
func (uc *ExperienceUseCase) refreshCompleteness(ctx context.Context, profileID string) error {
	p, err := uc.profileRepo.FindByID(ctx, profileID, true)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	score := p.CalculateCompleteness()
	if score == p.CompletenessScore {
		return nil
	}
	return uc.profileRepo.SetCompleteness(ctx, p.ID, score)
}

type CreateExperienceInput struct {
	ProfileID        string
	CallerID         uuid.UUID
	CompanyName      string
	CompanyWebsite   *string
	CompanySize      *string
	Industry         *string
	CompanyLocation  *string
	Position         string
	EmploymentType   *string
	StartDate        time.Time
	EndDate          *time.Time
	IsCurrent        bool
	Description      *string
	Responsibilities []string
	Technologies     []string
	DisplayOrder     *int
}

func (uc *ExperienceUseCase) Create(ctx context.Context, in CreateExperienceInput) (*experience.Experience, error) {
	ctx, span := tracer.Start(ctx, "CreateExperience")
	defer span.End()

	if _, err := uc.ownedProfile(ctx, in.ProfileID, in.CallerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	exp := &experience.Experience{
		ID:               ids.New(),
		ProfileID:        in.ProfileID,
		CompanyName:      in.CompanyName,
		CompanyWebsite:   in.CompanyWebsite,
		CompanySize:      in.CompanySize,
		Industry:         in.Industry,
		CompanyLocation:  in.CompanyLocation,
		Position:         in.Position,
		EmploymentType:   in.EmploymentType,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		IsCurrent:        in.IsCurrent,
		Description:      in.Description,
		Responsibilities: in.Responsibilities,
		Technologies:     in.Technologies,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if exp.Responsibilities == nil {
		exp.Responsibilities = []string{}
	}
	if exp.Technologies == nil {
		exp.Technologies = []string{}
	}
	exp.Normalize()

	if errs := exp.Validate(); len(errs) > 0 {
		return nil, apperror.NewValidation(fieldErrors(errs)...)
	}

	if in.DisplayOrder != nil {
		exp.DisplayOrder = *in.DisplayOrder
	} else {
		// New entries go on top: one past the current highest order,
		// or 0 for the very first entry.
		maxOrder, ok, err := uc.repo.MaxDisplayOrder(ctx, in.ProfileID)
		if err != nil {
			return nil, err
		}
		if ok {
			exp.DisplayOrder = maxOrder + 1
		}
	}

	if err := uc.repo.Save(ctx, exp); err != nil {
		return nil, err
	}
	if err := uc.refreshCompleteness(ctx, in.ProfileID); err != nil {
		return nil, err
	}

	uc.notifyChanged(in.ProfileID)
	return exp, nil
}

type GetExperienceInput struct {
	ExperienceID string
	ViewerID     *uuid.UUID
}

// Get applies the owning profile's visibility policy; an experience the
// viewer may not see reports not-found.
func (uc *ExperienceUseCase) Get(ctx context.Context, in GetExperienceInput) (*experience.Experience, error) {
	ctx, span := tracer.Start(ctx, "GetExperience")
	defer span.End()

	exp, err := uc.repo.FindByID(ctx, in.ExperienceID)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, apperror.NewNotFound("experience", in.ExperienceID)
	}

	p, err := uc.profileRepo.FindByID(ctx, exp.ProfileID, false)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.CanView(in.ViewerID) {
		return nil, apperror.NewNotFound("experience", in.ExperienceID)
	}
	return exp, nil
}

type ListExperiencesInput struct {
	ProfileID string
	ViewerID  *uuid.UUID
}

// ListForProfile reports forbidden, not not-found, on a visibility
// denial: the profile id was already resolved by the caller, so there
// is no existence to hide.
func (uc *ExperienceUseCase) ListForProfile(ctx context.Context, in ListExperiencesInput) ([]*experience.Experience, error) {
	ctx, span := tracer.Start(ctx, "ListExperiences")
	defer span.End()

	p, err := uc.profileRepo.FindByID(ctx, in.ProfileID, false)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NewNotFound("profile", in.ProfileID)
	}
	if !p.CanView(in.ViewerID) {
		return nil, apperror.NewPermissionDenied("this profile's experiences are not visible to you")
	}

	return uc.repo.ListByProfile(ctx, in.ProfileID)
}

type UpdateExperienceInput struct {
	ExperienceID string
	CallerID     uuid.UUID
	Patch        experience.Patch
}

func (uc *ExperienceUseCase) Update(ctx context.Context, in UpdateExperienceInput) (*experience.Experience, error) {
	ctx, span := tracer.Start(ctx, "UpdateExperience")
	defer span.End()

	exp, err := uc.ownedExperience(ctx, in.ExperienceID, in.CallerID)
	if err != nil {
		return nil, err
	}

	in.Patch.Apply(exp)
	exp.Normalize()
	if errs := exp.Validate(); len(errs) > 0 {
		return nil, apperror.NewValidation(fieldErrors(errs)...)
	}
	exp.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, exp); err != nil {
		return nil, err
	}
	if err := uc.refreshCompleteness(ctx, exp.ProfileID); err != nil {
		return nil, err
	}

	uc.notifyChanged(exp.ProfileID)
	return exp, nil
}

func (uc *ExperienceUseCase) Delete(ctx context.Context, experienceID string, callerID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "DeleteExperience")
	defer span.End()

	exp, err := uc.ownedExperience(ctx, experienceID, callerID)
	if err != nil {
		return err
	}

	deleted, err := uc.repo.Delete(ctx, exp.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NewNotFound("experience", experienceID)
	}
	if err := uc.refreshCompleteness(ctx, exp.ProfileID); err != nil {
		return err
	}

	uc.notifyChanged(exp.ProfileID)
	return nil
}

type ReorderExperiencesInput struct {
	ProfileID     string
	CallerID      uuid.UUID
	ExperienceIDs []string
}

// Reorder takes ids in the desired display order, first entry on top.
// Orders are assigned descending so listings, which sort by
// display_order DESC, come out in the submitted order. Ids that don't
// belong to the profile are silently ignored; experiences omitted from
// the list keep their prior order value, with the listing's secondary
// sort on start_date breaking any resulting ties.
func (uc *ExperienceUseCase) Reorder(ctx context.Context, in ReorderExperiencesInput) error {
	ctx, span := tracer.Start(ctx, "ReorderExperiences")
	defer span.End()

	if _, err := uc.ownedProfile(ctx, in.ProfileID, in.CallerID); err != nil {
		return err
	}

	existing, err := uc.repo.ListByProfile(ctx, in.ProfileID)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, e := range existing {
		known[e.ID] = true
	}

	orders := make(map[string]int, len(in.ExperienceIDs))
	for i, id := range in.ExperienceIDs {
		if !known[id] {
			continue
		}
		orders[id] = len(in.ExperienceIDs) - i
	}
	if len(orders) == 0 {
		return nil
	}

	if err := uc.repo.SetDisplayOrders(ctx, in.ProfileID, orders); err != nil {
		return err
	}

	uc.notifyChanged(in.ProfileID)
	return nil
}

func (uc *ExperienceUseCase) ownedExperience(ctx context.Context, experienceID string, callerID uuid.UUID) (*experience.Experience, error) {
	exp, err := uc.repo.FindByID(ctx, experienceID)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, apperror.NewNotFound("experience", experienceID)
	}
	if _, err := uc.ownedProfile(ctx, exp.ProfileID, callerID); err != nil {
		return nil, err
	}
	return exp, nil
}

type ListMutation struct {
	ExperienceID string
	CallerID     uuid.UUID
	Value        string
}

func (uc *ExperienceUseCase) AddResponsibility(ctx context.Context, in ListMutation) (*experience.Experience, error) {
	return uc.mutateLists(ctx, in, func(e *experience.Experience) { e.AddResponsibility(in.Value) })
}

func (uc *ExperienceUseCase) RemoveResponsibility(ctx context.Context, in ListMutation) (*experience.Experience, error) {
	return uc.mutateLists(ctx, in, func(e *experience.Experience) { e.RemoveResponsibility(in.Value) })
}

func (uc *ExperienceUseCase) AddTechnology(ctx context.Context, in ListMutation) (*experience.Experience, error) {
	return uc.mutateLists(ctx, in, func(e *experience.Experience) { e.AddTechnology(in.Value) })
}

func (uc *ExperienceUseCase) RemoveTechnology(ctx context.Context, in ListMutation) (*experience.Experience, error) {
	return uc.mutateLists(ctx, in, func(e *experience.Experience) { e.RemoveTechnology(in.Value) })
}

func (uc *ExperienceUseCase) mutateLists(ctx context.Context, in ListMutation, mutate func(*experience.Experience)) (*experience.Experience, error) {
	exp, err := uc.ownedExperience(ctx, in.ExperienceID, in.CallerID)
	if err != nil {
		return nil, err
	}

	mutate(exp)
	exp.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}
