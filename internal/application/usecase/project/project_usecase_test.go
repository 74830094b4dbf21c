package project

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/internal/domain/project"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type fakeProjectRepo struct {
	items map[string]*project.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{items: map[string]*project.Project{}}
}

func (r *fakeProjectRepo) Save(ctx context.Context, p *project.Project) error {
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) FindByID(ctx context.Context, id string) (*project.Project, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) ListByProfile(ctx context.Context, profileID string) ([]*project.Project, error) {
	var out []*project.Project
	for _, p := range r.items {
		if p.ProfileID == profileID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, p *project.Project) error {
	if _, ok := r.items[p.ID]; !ok {
		return apperror.NewNotFound("project", p.ID)
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *fakeProjectRepo) CountByProfile(ctx context.Context, profileID string) (int, error) {
	count := 0
	for _, p := range r.items {
		if p.ProfileID == profileID {
			count++
		}
	}
	return count, nil
}

func (r *fakeProjectRepo) SetDisplayOrders(ctx context.Context, profileID string, orders map[string]int) error {
	for id, order := range orders {
		if p, ok := r.items[id]; ok && p.ProfileID == profileID {
			p.DisplayOrder = order
		}
	}
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]*profile.Profile
}

func (r *fakeProfileRepo) Save(ctx context.Context, p *profile.Profile) error { return nil }

func (r *fakeProfileRepo) FindByID(ctx context.Context, id string, withExperiences bool) (*profile.Profile, error) {
	return r.profiles[id], nil
}

func (r *fakeProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID, withExperiences bool) (*profile.Profile, error) {
	return nil, nil
}

func (r *fakeProfileRepo) FindBySlug(ctx context.Context, slug string, withExperiences bool) (*profile.Profile, error) {
	return nil, nil
}

func (r *fakeProfileRepo) UpdateFields(ctx context.Context, id string, patch profile.Patch) error {
	return nil
}

func (r *fakeProfileRepo) Delete(ctx context.Context, id string) (bool, error) { return false, nil }

func (r *fakeProfileRepo) ListPublic(ctx context.Context, limit, offset int) ([]*profile.Profile, error) {
	return nil, nil
}

func (r *fakeProfileRepo) SearchPublic(ctx context.Context, query string, limit, offset int) ([]*profile.Profile, error) {
	return nil, nil
}

func (r *fakeProfileRepo) SlugExists(ctx context.Context, slug string, excludeProfileID string) (bool, error) {
	return false, nil
}

func (r *fakeProfileRepo) SetCompleteness(ctx context.Context, id string, score int) error {
	return nil
}

func newSuite(t *testing.T) (*ProjectUseCase, *fakeProjectRepo, *fakeProfileRepo) {
	t.Helper()
	prjRepo := newFakeProjectRepo()
	profRepo := &fakeProfileRepo{profiles: map[string]*profile.Profile{}}
	uc := NewProjectUseCase(prjRepo, profRepo, nil, logger.NewZapLogger("development"))
	return uc, prjRepo, profRepo
}

func seedProfile(repo *fakeProfileRepo, id string, ownerID uuid.UUID, vis profile.Visibility) {
	repo.profiles[id] = &profile.Profile{ID: id, UserID: ownerID, Visibility: vis}
}

func TestCreate_AppliesDefaultsAndAppendsToEnd(t *testing.T) {
	uc, prjRepo, profRepo := newSuite(t)
	owner := uuid.New()
	seedProfile(profRepo, "p1", owner, profile.VisibilityPrivate)

	prjRepo.items["existing"] = &project.Project{ID: "existing", ProfileID: "p1", Name: "Old", DisplayOrder: 0}

	prj, err := uc.Create(context.Background(), CreateProjectInput{
		ProfileID: "p1",
		CallerID:  owner,
		Name:      "CareerHub API",
	})
	require.NoError(t, err)

	assert.Equal(t, project.StatusActive, prj.Status)
	assert.Equal(t, project.CategoryProduction, prj.Category)
	assert.Equal(t, project.ScaleMedium, prj.Scale)
	assert.Equal(t, 1, prj.DisplayOrder)
	assert.NotEmpty(t, prj.ID)
}

func TestCreate_RejectsBadDatesAndEnums(t *testing.T) {
	uc, _, profRepo := newSuite(t)
	owner := uuid.New()
	seedProfile(profRepo, "p1", owner, profile.VisibilityPrivate)

	badDate := "March 2020"
	_, err := uc.Create(context.Background(), CreateProjectInput{
		ProfileID: "p1",
		CallerID:  owner,
		Name:      "X",
		StartDate: &badDate,
	})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Create(context.Background(), CreateProjectInput{
		ProfileID: "p1",
		CallerID:  owner,
		Name:      "X",
		Status:    project.Status("LIVE"),
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestCreate_NonOwnerForbidden(t *testing.T) {
	uc, _, profRepo := newSuite(t)
	seedProfile(profRepo, "p1", uuid.New(), profile.VisibilityPublic)

	_, err := uc.Create(context.Background(), CreateProjectInput{
		ProfileID: "p1",
		CallerID:  uuid.New(),
		Name:      "X",
	})
	assert.ErrorIs(t, err, apperror.ErrPermission)
}

func TestGet_HiddenProjectReportsNotFound(t *testing.T) {
	uc, prjRepo, profRepo := newSuite(t)
	owner := uuid.New()
	stranger := uuid.New()
	seedProfile(profRepo, "p1", owner, profile.VisibilityPrivate)
	prjRepo.items["pr1"] = &project.Project{ID: "pr1", ProfileID: "p1", Name: "X"}

	_, err := uc.Get(context.Background(), GetProjectInput{ProjectID: "pr1", ViewerID: &stranger})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	prj, err := uc.Get(context.Background(), GetProjectInput{ProjectID: "pr1", ViewerID: &owner})
	require.NoError(t, err)
	assert.Equal(t, "pr1", prj.ID)
}

func TestUpdate_PatchMergesAndValidates(t *testing.T) {
	uc, prjRepo, profRepo := newSuite(t)
	owner := uuid.New()
	seedProfile(profRepo, "p1", owner, profile.VisibilityPrivate)

	prjRepo.items["pr1"] = &project.Project{
		ID: "pr1", ProfileID: "p1", Name: "Old",
		Status: project.StatusActive, Category: project.CategoryDemo, Scale: project.ScaleSmall,
	}

	newStatus := project.StatusArchived
	prj, err := uc.Update(context.Background(), UpdateProjectInput{
		ProjectID: "pr1",
		CallerID:  owner,
		Patch:     project.Patch{Status: &newStatus},
	})
	require.NoError(t, err)
	assert.Equal(t, project.StatusArchived, prj.Status)
	assert.Equal(t, "Old", prj.Name)

	emptyName := ""
	_, err = uc.Update(context.Background(), UpdateProjectInput{
		ProjectID: "pr1",
		CallerID:  owner,
		Patch:     project.Patch{Name: &emptyName},
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestReorder_SubmittedOrderIsDisplayedOrder(t *testing.T) {
	uc, prjRepo, profRepo := newSuite(t)
	owner := uuid.New()
	seedProfile(profRepo, "p1", owner, profile.VisibilityPrivate)

	for i, id := range []string{"pr1", "pr2", "pr3"} {
		prjRepo.items[id] = &project.Project{ID: id, ProfileID: "p1", Name: "X", DisplayOrder: i}
	}

	err := uc.Reorder(context.Background(), ReorderProjectsInput{
		ProfileID:  "p1",
		CallerID:   owner,
		ProjectIDs: []string{"pr3", "pr1", "pr2"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, prjRepo.items["pr3"].DisplayOrder)
	assert.Equal(t, 1, prjRepo.items["pr1"].DisplayOrder)
	assert.Equal(t, 2, prjRepo.items["pr2"].DisplayOrder)

	listed, err := uc.ListForProfile(context.Background(), ListProjectsInput{ProfileID: "p1", ViewerID: &owner})
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "pr3", listed[0].ID)
	assert.Equal(t, "pr1", listed[1].ID)
	assert.Equal(t, "pr2", listed[2].ID)
}

func TestReorder_PartialListLeavesOmittedInPlace(t *testing.T) {
	uc, prjRepo, profRepo := newSuite(t)
	owner := uuid.New()
	seedProfile(profRepo, "p1", owner, profile.VisibilityPrivate)

	prjRepo.items["pr1"] = &project.Project{ID: "pr1", ProfileID: "p1", Name: "X", DisplayOrder: 0}
	prjRepo.items["pr2"] = &project.Project{ID: "pr2", ProfileID: "p1", Name: "Y", DisplayOrder: 1}

	err := uc.Reorder(context.Background(), ReorderProjectsInput{
		ProfileID: "p1", CallerID: owner, ProjectIDs: []string{"other", "pr2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, prjRepo.items["pr1"].DisplayOrder)
	assert.Equal(t, 1, prjRepo.items["pr2"].DisplayOrder)
}

func TestDelete_OwnerOnly(t *testing.T) {
	uc, prjRepo, profRepo := newSuite(t)
	owner := uuid.New()
	seedProfile(profRepo, "p1", owner, profile.VisibilityPrivate)
	prjRepo.items["pr1"] = &project.Project{ID: "pr1", ProfileID: "p1", Name: "X"}

	err := uc.Delete(context.Background(), "pr1", uuid.New())
	assert.ErrorIs(t, err, apperror.ErrPermission)

	require.NoError(t, uc.Delete(context.Background(), "pr1", owner))
	assert.Empty(t, prjRepo.items)
}
