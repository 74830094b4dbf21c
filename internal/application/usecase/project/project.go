package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/careerhub/careerhub-api/adapters/event"
	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/internal/domain/project"
	"github.com/careerhub/careerhub-api/internal/ids"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

var tracer = otel.Tracer("project_usecase")

type ProjectUseCase struct {
	repo        project.Repository
	profileRepo profile.Repository
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewProjectUseCase(r project.Repository, pRepo profile.Repository, kClient *event.KafkaProducerClient, log logger.Logger) *ProjectUseCase {
	return &ProjectUseCase{
		repo:        r,
		profileRepo: pRepo,
		kafkaClient: kClient,
		logger:      log,
	}
}

func fieldErrors(errs []project.ValidationError) []apperror.FieldError {
	fields := make([]apperror.FieldError, len(errs))
	for i, e := range errs {
		fields[i] = apperror.FieldError{Field: e.Field, Message: e.Message}
	}
	return fields
}

func (uc *ProjectUseCase) ownedProfile(ctx context.Context, profileID string, callerID uuid.UUID) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, profileID, false)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NewNotFound("profile", profileID)
	}
	if !p.IsOwnedBy(callerID) {
		return nil, apperror.NewPermissionDenied("only the profile owner can modify projects")
	}
	return p, nil
}

func (uc *ProjectUseCase) ownedProject(ctx context.Context, projectID string, callerID uuid.UUID) (*project.Project, error) {
	prj, err := uc.repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if prj == nil {
		return nil, apperror.NewNotFound("project", projectID)
	}
	if _, err := uc.ownedProfile(ctx, prj.ProfileID, callerID); err != nil {
		return nil, err
	}
	return prj, nil
}

func (uc *ProjectUseCase) notifyChanged(profileID string) {
	go uc.kafkaClient.PublishProfileEvent(context.Background(), event.EventProfileUpdated, profileID)
}

type CreateProjectInput struct {
	ProfileID    string
	CallerID     uuid.UUID
	Name         string
	Description  *string
	Status       project.Status
	Category     project.Category
	Scale        project.Scale
	StartDate    *string
	EndDate      *string
	Client       *string
	Technologies []string
	Achievements []string
	Challenges   []string
}

func (uc *ProjectUseCase) Create(ctx context.Context, in CreateProjectInput) (*project.Project, error) {
	ctx, span := tracer.Start(ctx, "CreateProject")
	defer span.End()

	if _, err := uc.ownedProfile(ctx, in.ProfileID, in.CallerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	prj := &project.Project{
		ID:           ids.New(),
		ProfileID:    in.ProfileID,
		Name:         in.Name,
		Description:  in.Description,
		Status:       in.Status,
		Category:     in.Category,
		Scale:        in.Scale,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Client:       in.Client,
		Technologies: in.Technologies,
		Achievements: in.Achievements,
		Challenges:   in.Challenges,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	prj.ApplyDefaults()
	if prj.Technologies == nil {
		prj.Technologies = []string{}
	}
	if prj.Achievements == nil {
		prj.Achievements = []string{}
	}
	if prj.Challenges == nil {
		prj.Challenges = []string{}
	}

	if errs := prj.Validate(); len(errs) > 0 {
		return nil, apperror.NewValidation(fieldErrors(errs)...)
	}

	// New projects go to the end of the list.
	count, err := uc.repo.CountByProfile(ctx, in.ProfileID)
	if err != nil {
		return nil, err
	}
	prj.DisplayOrder = count

	if err := uc.repo.Save(ctx, prj); err != nil {
		return nil, err
	}

	uc.notifyChanged(in.ProfileID)
	return prj, nil
}

type GetProjectInput struct {
	ProjectID string
	ViewerID  *uuid.UUID
}

func (uc *ProjectUseCase) Get(ctx context.Context, in GetProjectInput) (*project.Project, error) {
	ctx, span := tracer.Start(ctx, "GetProject")
	defer span.End()

	prj, err := uc.repo.FindByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if prj == nil {
		return nil, apperror.NewNotFound("project", in.ProjectID)
	}

	p, err := uc.profileRepo.FindByID(ctx, prj.ProfileID, false)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.CanView(in.ViewerID) {
		return nil, apperror.NewNotFound("project", in.ProjectID)
	}
	return prj, nil
}

type ListProjectsInput struct {
	ProfileID string
	ViewerID  *uuid.UUID
}

func (uc *ProjectUseCase) ListForProfile(ctx context.Context, in ListProjectsInput) ([]*project.Project, error) {
	ctx, span := tracer.Start(ctx, "ListProjects")
	defer span.End()

	p, err := uc.profileRepo.FindByID(ctx, in.ProfileID, false)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.CanView(in.ViewerID) {
		return nil, apperror.NewNotFound("profile", in.ProfileID)
	}

	return uc.repo.ListByProfile(ctx, in.ProfileID)
}

type UpdateProjectInput struct {
	ProjectID string
	CallerID  uuid.UUID
	Patch     project.Patch
}

func (uc *ProjectUseCase) Update(ctx context.Context, in UpdateProjectInput) (*project.Project, error) {
	ctx, span := tracer.Start(ctx, "UpdateProject")
	defer span.End()

	prj, err := uc.ownedProject(ctx, in.ProjectID, in.CallerID)
	if err != nil {
		return nil, err
	}

	in.Patch.Apply(prj)
	if errs := prj.Validate(); len(errs) > 0 {
		return nil, apperror.NewValidation(fieldErrors(errs)...)
	}
	prj.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, prj); err != nil {
		return nil, err
	}

	uc.notifyChanged(prj.ProfileID)
	return prj, nil
}

func (uc *ProjectUseCase) Delete(ctx context.Context, projectID string, callerID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "DeleteProject")
	defer span.End()

	prj, err := uc.ownedProject(ctx, projectID, callerID)
	if err != nil {
		return err
	}

	deleted, err := uc.repo.Delete(ctx, prj.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NewNotFound("project", projectID)
	}

	uc.notifyChanged(prj.ProfileID)
	return nil
}

type ReorderProjectsInput struct {
	ProfileID  string
	CallerID   uuid.UUID
	ProjectIDs []string
}

// Reorder takes ids in the desired display order. Orders are assigned
// ascending from zero, matching the ascending listing sort, so the
// submitted order is the displayed order. Ids that don't belong to the
// profile are silently ignored; projects omitted from the list keep
// their prior order value.
func (uc *ProjectUseCase) Reorder(ctx context.Context, in ReorderProjectsInput) error {
	ctx, span := tracer.Start(ctx, "ReorderProjects")
	defer span.End()

	if _, err := uc.ownedProfile(ctx, in.ProfileID, in.CallerID); err != nil {
		return err
	}

	existing, err := uc.repo.ListByProfile(ctx, in.ProfileID)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[p.ID] = true
	}

	orders := make(map[string]int, len(in.ProjectIDs))
	for i, id := range in.ProjectIDs {
		if !known[id] {
			continue
		}
		orders[id] = i
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
