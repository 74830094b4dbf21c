package profile

import (
	"context"
	"strings"

	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListPublicProfilesUseCase struct {
	profileRepo profile.Repository
	logger      logger.Logger
}

func NewListPublicProfilesUseCase(pRepo profile.Repository, log logger.Logger) *ListPublicProfilesUseCase {
	return &ListPublicProfilesUseCase{profileRepo: pRepo, logger: log}
}

type ListPublicProfilesInput struct {
	Limit  int
	Offset int
}

type ListPublicProfilesOutput struct {
	Profiles []*profile.Profile
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (uc *ListPublicProfilesUseCase) Execute(ctx context.Context, input ListPublicProfilesInput) (*ListPublicProfilesOutput, error) {
	ctx, span := tracer.Start(ctx, "ListPublicProfiles")
	defer span.End()

	limit, offset := clampPage(input.Limit, input.Offset)
	profiles, err := uc.profileRepo.ListPublic(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ListPublicProfilesOutput{Profiles: profiles}, nil
}

type SearchPublicProfilesInput struct {
	Query  string
	Limit  int
	Offset int
}

func (uc *ListPublicProfilesUseCase) Search(ctx context.Context, input SearchPublicProfilesInput) (*ListPublicProfilesOutput, error) {
	ctx, span := tracer.Start(ctx, "SearchPublicProfiles")
	defer span.End()

	query := strings.TrimSpace(input.Query)
	if len(query) < 2 {
		return nil, apperror.NewInvalidInput("search query must be at least 2 characters", nil)
	}

	limit, offset := clampPage(input.Limit, input.Offset)
	profiles, err := uc.profileRepo.SearchPublic(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ListPublicProfilesOutput{Profiles: profiles}, nil
}
