package profile

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/careerhub-api/internal/domain/experience"
	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/internal/domain/user"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
	"github.com/careerhub/careerhub-api/pkg/patch"
)

type fakeProfileRepo struct {
	profiles    map[string]*profile.Profile
	experiences map[string][]*experience.Experience
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles:    map[string]*profile.Profile{},
		experiences: map[string][]*experience.Experience{},
	}
}

func (r *fakeProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) loaded(p *profile.Profile, withExperiences bool) *profile.Profile {
	cp := *p
	if withExperiences {
		cp.Experiences = r.experiences[p.ID]
	}
	return &cp
}

func (r *fakeProfileRepo) FindByID(ctx context.Context, id string, withExperiences bool) (*profile.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, nil
	}
	return r.loaded(p, withExperiences), nil
}

func (r *fakeProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID, withExperiences bool) (*profile.Profile, error) {
	for _, p := range r.profiles {
		if p.UserID == userID {
			return r.loaded(p, withExperiences), nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) FindBySlug(ctx context.Context, slug string, withExperiences bool) (*profile.Profile, error) {
	for _, p := range r.profiles {
		if p.Slug != nil && *p.Slug == slug {
			return r.loaded(p, withExperiences), nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) UpdateFields(ctx context.Context, id string, fields profile.Patch) error {
	p, ok := r.profiles[id]
	if !ok {
		return apperror.NewNotFound("profile", id)
	}
	if fields.Slug.Set {
		p.Slug = fields.Slug.Ptr()
	}
	if fields.Headline.Set {
		p.Headline = fields.Headline.Ptr()
	}
	if fields.Summary.Set {
		p.Summary = fields.Summary.Ptr()
	}
	if fields.Location.Set {
		p.Location = fields.Location.Ptr()
	}
	if fields.Visibility != nil {
		p.Visibility = *fields.Visibility
	}
	if fields.Contact != nil {
		p.Contact = fields.Contact
	}
	if fields.DraftData != nil {
		p.DraftData = fields.DraftData
	}
	if fields.ProfilePhotoURL.Set {
		p.ProfilePhotoURL = fields.ProfilePhotoURL.Ptr()
	}
	return nil
}

func (r *fakeProfileRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.profiles[id]; !ok {
		return false, nil
	}
	delete(r.profiles, id)
	delete(r.experiences, id)
	return true, nil
}

func (r *fakeProfileRepo) sortedPublic() []*profile.Profile {
	var out []*profile.Profile
	for _, p := range r.profiles {
		if p.Visibility == profile.VisibilityPublic {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletenessScore > out[j].CompletenessScore
	})
	return out
}

func (r *fakeProfileRepo) ListPublic(ctx context.Context, limit, offset int) ([]*profile.Profile, error) {
	out := r.sortedPublic()
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProfileRepo) SearchPublic(ctx context.Context, query string, limit, offset int) ([]*profile.Profile, error) {
	return r.sortedPublic(), nil
}

func (r *fakeProfileRepo) SlugExists(ctx context.Context, slug string, excludeProfileID string) (bool, error) {
	for _, p := range r.profiles {
		if p.ID == excludeProfileID {
			continue
		}
		if p.Slug != nil && *p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProfileRepo) SetCompleteness(ctx context.Context, id string, score int) error {
	p, ok := r.profiles[id]
	if !ok {
		return apperror.NewNotFound("profile", id)
	}
	p.CompletenessScore = score
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.users[id], nil
}

func strPtr(s string) *string { return &s }

func testLogger() logger.Logger {
	return logger.NewZapLogger("development")
}

func seedProfile(repo *fakeProfileRepo, userID uuid.UUID, id, slug string, vis profile.Visibility) *profile.Profile {
	p := &profile.Profile{
		ID:         id,
		UserID:     userID,
		Slug:       strPtr(slug),
		Visibility: vis,
		Contact:    map[string]any{},
	}
	repo.profiles[id] = p
	return p
}

func TestCreateProfile_Defaults(t *testing.T) {
	repo := newFakeProfileRepo()
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	uc := NewCreateProfileUseCase(repo, userRepo, nil, testLogger())

	userID := uuid.New()
	userRepo.users[userID] = &user.User{ID: userID, Email: "a@b.c", Name: strPtr("Jane Doe")}

	out, err := uc.Execute(context.Background(), CreateProfileInput{
		UserID:   userID,
		Headline: strPtr("Engineer"),
	})
	require.NoError(t, err)

	assert.Equal(t, profile.VisibilityPrivate, out.Profile.Visibility)
	assert.Equal(t, 10, out.Profile.CompletenessScore)
	require.NotNil(t, out.Profile.Slug)
	assert.Regexp(t, `^jane-doe-[0-9a-f]{6}$`, *out.Profile.Slug)
	assert.NotEmpty(t, out.Profile.ID)
}

func TestCreateProfile_SecondProfileForUserConflicts(t *testing.T) {
	repo := newFakeProfileRepo()
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	uc := NewCreateProfileUseCase(repo, userRepo, nil, testLogger())

	userID := uuid.New()
	seedProfile(repo, userID, "existing", "existing-slug", profile.VisibilityPrivate)

	_, err := uc.Execute(context.Background(), CreateProfileInput{UserID: userID})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateProfile_ExplicitSlugTakenConflicts(t *testing.T) {
	repo := newFakeProfileRepo()
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	uc := NewCreateProfileUseCase(repo, userRepo, nil, testLogger())

	seedProfile(repo, uuid.New(), "other", "taken-slug", profile.VisibilityPrivate)

	_, err := uc.Execute(context.Background(), CreateProfileInput{
		UserID: uuid.New(),
		Slug:   strPtr("taken-slug"),
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateProfile_InvalidExplicitSlug(t *testing.T) {
	repo := newFakeProfileRepo()
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	uc := NewCreateProfileUseCase(repo, userRepo, nil, testLogger())

	// Explicit slugs are never rewritten into shape; anything outside
	// the format is rejected as supplied.
	for _, slug := range []string{"!!", "My Cool Slug!!", "UPPER", "has space", "ab"} {
		_, err := uc.Execute(context.Background(), CreateProfileInput{
			UserID: uuid.New(),
			Slug:   strPtr(slug),
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, "slug %q", slug)
	}
	assert.Empty(t, repo.profiles)
}

func TestCreateProfile_CarriesDraftDataAndPhoto(t *testing.T) {
	repo := newFakeProfileRepo()
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	uc := NewCreateProfileUseCase(repo, userRepo, nil, testLogger())

	out, err := uc.Execute(context.Background(), CreateProfileInput{
		UserID:          uuid.New(),
		Slug:            strPtr("with-draft"),
		DraftData:       map[string]any{"wip": true},
		ProfilePhotoURL: strPtr("https://cdn.example.com/p.jpg"),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"wip": true}, out.Profile.DraftData)
	require.NotNil(t, out.Profile.ProfilePhotoURL)
	assert.Equal(t, "https://cdn.example.com/p.jpg", *out.Profile.ProfilePhotoURL)
}

func TestAllocateSlug_WalksNumericSuffixes(t *testing.T) {
	repo := newFakeProfileRepo()
	seedProfile(repo, uuid.New(), "a", "jane", profile.VisibilityPrivate)
	seedProfile(repo, uuid.New(), "b", "jane-1", profile.VisibilityPrivate)

	slug, err := allocateSlug(context.Background(), repo, "jane", "")
	require.NoError(t, err)
	assert.Equal(t, "jane-2", slug)
}

func TestGetProfile_VisibilityPolicy(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewGetProfileUseCase(repo, testLogger())

	owner := uuid.New()
	stranger := uuid.New()
	seedProfile(repo, owner, "p1", "p1-slug", profile.VisibilityPrivate)

	_, err := uc.Execute(context.Background(), GetProfileInput{ProfileID: "p1", ViewerID: nil})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.Execute(context.Background(), GetProfileInput{ProfileID: "p1", ViewerID: &stranger})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	out, err := uc.Execute(context.Background(), GetProfileInput{ProfileID: "p1", ViewerID: &owner})
	require.NoError(t, err)
	assert.True(t, out.IsOwner)
}

func TestGetProfile_FriendsBehavesAsPrivate(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewGetProfileUseCase(repo, testLogger())

	owner := uuid.New()
	stranger := uuid.New()
	seedProfile(repo, owner, "p1", "p1-slug", profile.VisibilityFriends)

	_, err := uc.Execute(context.Background(), GetProfileInput{ProfileID: "p1", ViewerID: &stranger})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetProfileBySlug_PublicVisibleToAnonymous(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewGetProfileUseCase(repo, testLogger())

	seedProfile(repo, uuid.New(), "p1", "public-slug", profile.VisibilityPublic)

	out, err := uc.ExecuteBySlug(context.Background(), GetProfileBySlugInput{Slug: "public-slug"})
	require.NoError(t, err)
	assert.False(t, out.IsOwner)
}

func TestUpdateProfile_OwnershipAndSlugConflict(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewUpdateProfileUseCase(repo, nil, testLogger())

	owner := uuid.New()
	stranger := uuid.New()
	seedProfile(repo, owner, "p1", "p1-slug", profile.VisibilityPrivate)
	seedProfile(repo, uuid.New(), "p2", "wanted", profile.VisibilityPrivate)

	_, err := uc.Execute(context.Background(), UpdateProfileInput{
		ProfileID: "p1",
		CallerID:  stranger,
		Patch:     profile.Patch{Headline: patch.Of("X")},
	})
	assert.ErrorIs(t, err, apperror.ErrPermission)

	_, err = uc.Execute(context.Background(), UpdateProfileInput{
		ProfileID: "p1",
		CallerID:  owner,
		Patch:     profile.Patch{Slug: patch.Of("wanted")},
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestUpdateProfile_InvalidSlugRejectedAsSupplied(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewUpdateProfileUseCase(repo, nil, testLogger())

	owner := uuid.New()
	seedProfile(repo, owner, "p1", "p1-slug", profile.VisibilityPrivate)

	_, err := uc.Execute(context.Background(), UpdateProfileInput{
		ProfileID: "p1",
		CallerID:  owner,
		Patch:     profile.Patch{Slug: patch.Of("My Cool Slug!!")},
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, "p1-slug", *repo.profiles["p1"].Slug)
}

func TestUpdateProfile_SlugCannotBeRemoved(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewUpdateProfileUseCase(repo, nil, testLogger())

	owner := uuid.New()
	seedProfile(repo, owner, "p1", "p1-slug", profile.VisibilityPrivate)

	_, err := uc.Execute(context.Background(), UpdateProfileInput{
		ProfileID: "p1",
		CallerID:  owner,
		Patch:     profile.Patch{Slug: patch.Null[string]()},
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, "p1-slug", *repo.profiles["p1"].Slug)
}

func TestUpdateProfile_ExplicitNullClearsHeadline(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewUpdateProfileUseCase(repo, nil, testLogger())

	owner := uuid.New()
	p := seedProfile(repo, owner, "p1", "p1-slug", profile.VisibilityPrivate)
	p.Headline = strPtr("Soon gone")

	out, err := uc.Execute(context.Background(), UpdateProfileInput{
		ProfileID: "p1",
		CallerID:  owner,
		Patch:     profile.Patch{Headline: patch.Null[string]()},
	})
	require.NoError(t, err)

	assert.Nil(t, out.Profile.Headline)
	assert.Nil(t, repo.profiles["p1"].Headline)
}

func TestUpdateProfile_RecomputesCompleteness(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewUpdateProfileUseCase(repo, nil, testLogger())

	owner := uuid.New()
	seedProfile(repo, owner, "p1", "p1-slug", profile.VisibilityPrivate)
	repo.experiences["p1"] = []*experience.Experience{{ID: "e1"}, {ID: "e2"}}

	out, err := uc.Execute(context.Background(), UpdateProfileInput{
		ProfileID: "p1",
		CallerID:  owner,
		Patch:     profile.Patch{Headline: patch.Of("Engineer")},
	})
	require.NoError(t, err)

	// headline 10 + two experiences 20
	assert.Equal(t, 30, out.Profile.CompletenessScore)
	assert.Equal(t, 30, repo.profiles["p1"].CompletenessScore)
}

func TestUpdateProfile_EmptyPatchIsNoop(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewUpdateProfileUseCase(repo, nil, testLogger())

	owner := uuid.New()
	seedProfile(repo, owner, "p1", "p1-slug", profile.VisibilityPrivate)

	out, err := uc.Execute(context.Background(), UpdateProfileInput{
		ProfileID: "p1",
		CallerID:  owner,
		Patch:     profile.Patch{},
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", out.Profile.ID)
}

func TestDeleteProfile_OwnerOnly(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewDeleteProfileUseCase(repo, nil, testLogger())

	owner := uuid.New()
	stranger := uuid.New()
	seedProfile(repo, owner, "p1", "p1-slug", profile.VisibilityPrivate)

	err := uc.Execute(context.Background(), DeleteProfileInput{ProfileID: "p1", CallerID: stranger})
	assert.ErrorIs(t, err, apperror.ErrPermission)

	err = uc.Execute(context.Background(), DeleteProfileInput{ProfileID: "p1", CallerID: owner})
	require.NoError(t, err)

	_, ok := repo.profiles["p1"]
	assert.False(t, ok)
}

func TestRecomputeCompleteness_Persists(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewRecomputeCompletenessUseCase(repo, testLogger())

	owner := uuid.New()
	p := seedProfile(repo, owner, "p1", "p1-slug", profile.VisibilityPrivate)
	p.Headline = strPtr("Engineer")
	repo.experiences["p1"] = []*experience.Experience{{ID: "e1"}, {ID: "e2"}, {ID: "e3"}, {ID: "e4"}}

	out, err := uc.Execute(context.Background(), RecomputeCompletenessInput{ProfileID: "p1", CallerID: owner})
	require.NoError(t, err)

	// headline 10 + experience contribution capped at 30
	assert.Equal(t, 40, out.Score)
	assert.Equal(t, 40, repo.profiles["p1"].CompletenessScore)
}

func TestRecomputeCompleteness_OwnerOnly(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewRecomputeCompletenessUseCase(repo, testLogger())

	seedProfile(repo, uuid.New(), "p1", "p1-slug", profile.VisibilityPrivate)

	_, err := uc.Execute(context.Background(), RecomputeCompletenessInput{ProfileID: "p1", CallerID: uuid.New()})
	assert.ErrorIs(t, err, apperror.ErrPermission)
}

func TestReconcileCompleteness_SkipsOwnershipCheck(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewRecomputeCompletenessUseCase(repo, testLogger())

	p := seedProfile(repo, uuid.New(), "p1", "p1-slug", profile.VisibilityPrivate)
	p.Headline = strPtr("Engineer")

	out, err := uc.Reconcile(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, out.Score)
}

func TestCheckSlug_RejectsUnshapedInput(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewCheckSlugUseCase(repo, testLogger())

	// The check answers for the slug as supplied, it never rewrites it.
	_, err := uc.Execute(context.Background(), CheckSlugInput{Slug: "Jane Doe"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	seedProfile(repo, uuid.New(), "p1", "jane-doe", profile.VisibilityPrivate)

	out, err := uc.Execute(context.Background(), CheckSlugInput{Slug: "jane-doe"})
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", out.Slug)
	assert.False(t, out.Available)

	out, err = uc.Execute(context.Background(), CheckSlugInput{Slug: "someone-else"})
	require.NoError(t, err)
	assert.True(t, out.Available)
}

func TestCheckSlug_ExcludesOwnProfile(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewCheckSlugUseCase(repo, testLogger())

	seedProfile(repo, uuid.New(), "p1", "jane-doe", profile.VisibilityPrivate)

	// An owner probing their current slug sees it as free.
	out, err := uc.Execute(context.Background(), CheckSlugInput{Slug: "jane-doe", ExcludeProfileID: "p1"})
	require.NoError(t, err)
	assert.True(t, out.Available)
}

func TestSearch_RejectsTooShortQuery(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := NewListPublicProfilesUseCase(repo, testLogger())

	_, err := uc.Search(context.Background(), SearchPublicProfilesInput{Query: "   "})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Search(context.Background(), SearchPublicProfilesInput{Query: "g"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Search(context.Background(), SearchPublicProfilesInput{Query: " go "})
	assert.NoError(t, err)
}
