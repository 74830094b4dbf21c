package http

import (
	"time"

	"github.com/careerhub/careerhub-api/internal/domain/experience"
	"github.com/careerhub/careerhub-api/internal/domain/profile"
	"github.com/careerhub/careerhub-api/internal/domain/project"
	"github.com/careerhub/careerhub-api/pkg/patch"
)

// Wire DTOs are camelCase; snake_case stays internal to the domain and
// the store.

// Profile DTOs

type ProfileDTO struct {
	ID                string          `json:"id"`
	UserID            string          `json:"userId"`
	Slug              *string         `json:"slug"`
	Headline          *string         `json:"headline"`
	Summary           *string         `json:"summary"`
	Location          *string         `json:"location"`
	Visibility        string          `json:"visibility"`
	Contact           map[string]any  `json:"contact"`
	DraftData         map[string]any  `json:"draftData,omitempty"`
	ProfilePhotoURL   *string         `json:"profilePhotoUrl"`
	CompletenessScore int             `json:"completenessScore"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	Experiences       []ExperienceDTO `json:"experiences,omitempty"`
}

type ProfileSummaryDTO struct {
	ID                string  `json:"id"`
	Slug              *string `json:"slug"`
	Headline          *string `json:"headline"`
	Location          *string `json:"location"`
	ProfilePhotoURL   *string `json:"profilePhotoUrl"`
	CompletenessScore int     `json:"completenessScore"`
}

// ToProfileDTO renders a profile for a reader. Draft data is owner-only
// and dropped from every other view.
func ToProfileDTO(p *profile.Profile, isOwner bool) ProfileDTO {
	dto := ProfileDTO{
		ID:                p.ID,
		UserID:            p.UserID.String(),
		Slug:              p.Slug,
		Headline:          p.Headline,
		Summary:           p.Summary,
		Location:          p.Location,
		Visibility:        string(p.Visibility),
		Contact:           p.Contact,
		ProfilePhotoURL:   p.ProfilePhotoURL,
		CompletenessScore: p.CompletenessScore,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if isOwner {
		dto.DraftData = p.DraftData
	}
	if p.Experiences != nil {
		dto.Experiences = make([]ExperienceDTO, len(p.Experiences))
		for i, e := range p.Experiences {
			dto.Experiences[i] = ToExperienceDTO(e)
		}
	}
	return dto
}

func ToProfileSummaryDTO(p *profile.Profile) ProfileSummaryDTO {
	return ProfileSummaryDTO{
		ID:                p.ID,
		Slug:              p.Slug,
		Headline:          p.Headline,
		Location:          p.Location,
		ProfilePhotoURL:   p.ProfilePhotoURL,
		CompletenessScore: p.CompletenessScore,
	}
}

func ToProfileSummaryDTOs(profiles []*profile.Profile) []ProfileSummaryDTO {
	dtos := make([]ProfileSummaryDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = ToProfileSummaryDTO(p)
	}
	return dtos
}

type CreateProfileRequest struct {
	Slug            *string        `json:"slug"`
	Headline        *string        `json:"headline"`
	Summary         *string        `json:"summary"`
	Location        *string        `json:"location"`
	Visibility      *string        `json:"visibility" binding:"omitempty,oneof=PRIVATE FRIENDS PUBLIC"`
	Contact         map[string]any `json:"contact"`
	DraftData       map[string]any `json:"draftData"`
	ProfilePhotoURL *string        `json:"profilePhotoUrl"`
}

// UpdateProfileRequest uses tri-state fields where an explicit null in
// the payload clears the stored value.
type UpdateProfileRequest struct {
	Slug            patch.Field[string] `json:"slug"`
	Headline        patch.Field[string] `json:"headline"`
	Summary         patch.Field[string] `json:"summary"`
	Location        patch.Field[string] `json:"location"`
	Visibility      *string             `json:"visibility" binding:"omitempty,oneof=PRIVATE FRIENDS PUBLIC"`
	Contact         map[string]any      `json:"contact"`
	DraftData       map[string]any      `json:"draftData"`
	ProfilePhotoURL patch.Field[string] `json:"profilePhotoUrl"`
}

func (r *UpdateProfileRequest) ToDomainPatch() profile.Patch {
	p := profile.Patch{
		Slug:            r.Slug,
		Headline:        r.Headline,
		Summary:         r.Summary,
		Location:        r.Location,
		Contact:         r.Contact,
		DraftData:       r.DraftData,
		ProfilePhotoURL: r.ProfilePhotoURL,
	}
	if r.Visibility != nil {
		vis := profile.Visibility(*r.Visibility)
		p.Visibility = &vis
	}
	return p
}

// Experience DTOs

const wireDateLayout = "2006-01-02"

type ExperienceDTO struct {
	ID               string   `json:"id"`
	ProfileID        string   `json:"profileId"`
	CompanyName      string   `json:"companyName"`
	CompanyWebsite   *string  `json:"companyWebsite"`
	CompanySize      *string  `json:"companySize"`
	Industry         *string  `json:"industry"`
	CompanyLocation  *string  `json:"companyLocation"`
	Position         string   `json:"position"`
	EmploymentType   *string  `json:"employmentType"`
	StartDate        string   `json:"startDate"`
	EndDate          *string  `json:"endDate"`
	IsCurrent        bool     `json:"isCurrent"`
	Description      *string  `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Technologies     []string `json:"technologies"`
	DisplayOrder     int      `json:"displayOrder"`
	DurationMonths   int      `json:"durationMonths"`
	DurationText     string   `json:"durationText"`
}

func ToExperienceDTO(e *experience.Experience) ExperienceDTO {
	dto := ExperienceDTO{
		ID:               e.ID,
		ProfileID:        e.ProfileID,
		CompanyName:      e.CompanyName,
		CompanyWebsite:   e.CompanyWebsite,
		CompanySize:      e.CompanySize,
		Industry:         e.Industry,
		CompanyLocation:  e.CompanyLocation,
		Position:         e.Position,
		EmploymentType:   e.EmploymentType,
		StartDate:        e.StartDate.Format(wireDateLayout),
		IsCurrent:        e.IsCurrent,
		Description:      e.Description,
		Responsibilities: e.Responsibilities,
		Technologies:     e.Technologies,
		DisplayOrder:     e.DisplayOrder,
		DurationMonths:   e.DurationMonths(),
		DurationText:     e.DurationText(),
	}
	if e.EndDate != nil {
		end := e.EndDate.Format(wireDateLayout)
		dto.EndDate = &end
	}
	return dto
}

func ToExperienceDTOs(experiences []*experience.Experience) []ExperienceDTO {
	dtos := make([]ExperienceDTO, len(experiences))
	for i, e := range experiences {
		dtos[i] = ToExperienceDTO(e)
	}
	return dtos
}

type CreateExperienceRequest struct {
	CompanyName      string   `json:"companyName" binding:"required"`
	CompanyWebsite   *string  `json:"companyWebsite"`
	CompanySize      *string  `json:"companySize"`
	Industry         *string  `json:"industry"`
	CompanyLocation  *string  `json:"companyLocation"`
	Position         string   `json:"position" binding:"required"`
	EmploymentType   *string  `json:"employmentType"`
	StartDate        string   `json:"startDate" binding:"required"`
	EndDate          *string  `json:"endDate"`
	IsCurrent        bool     `json:"isCurrent"`
	Description      *string  `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Technologies     []string `json:"technologies"`
	DisplayOrder     *int     `json:"displayOrder"`
}

// UpdateExperienceRequest: an explicit null endDate clears the stored
// end date, which is how an ended position becomes current again.
type UpdateExperienceRequest struct {
	CompanyName      *string             `json:"companyName"`
	CompanyWebsite   *string             `json:"companyWebsite"`
	CompanySize      *string             `json:"companySize"`
	Industry         *string             `json:"industry"`
	CompanyLocation  *string             `json:"companyLocation"`
	Position         *string             `json:"position"`
	EmploymentType   *string             `json:"employmentType"`
	StartDate        *string             `json:"startDate"`
	EndDate          patch.Field[string] `json:"endDate"`
	IsCurrent        *bool               `json:"isCurrent"`
	Description      *string             `json:"description"`
	Responsibilities *[]string           `json:"responsibilities"`
	Technologies     *[]string           `json:"technologies"`
}

type ReorderExperiencesRequest struct {
	ExperienceIDs []string `json:"experienceIds" binding:"required"`
}

// ItemRequest carries a single list entry for the responsibility and
// technology endpoints.
type ItemRequest struct {
	Value string `json:"value" binding:"required"`
}

// Project DTOs

type ProjectDTO struct {
	ID           string   `json:"id"`
	ProfileID    string   `json:"profileId"`
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	Status       string   `json:"status"`
	Category     string   `json:"category"`
	Scale        string   `json:"scale"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	Client       *string  `json:"client"`
	Technologies []string `json:"technologies"`
	Achievements []string `json:"achievements"`
	Challenges   []string `json:"challenges"`
	DisplayOrder int      `json:"displayOrder"`
}

func ToProjectDTO(p *project.Project) ProjectDTO {
	return ProjectDTO{
		ID:           p.ID,
		ProfileID:    p.ProfileID,
		Name:         p.Name,
		Description:  p.Description,
		Status:       string(p.Status),
		Category:     string(p.Category),
		Scale:        string(p.Scale),
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Client:       p.Client,
		Technologies: p.Technologies,
		Achievements: p.Achievements,
		Challenges:   p.Challenges,
		DisplayOrder: p.DisplayOrder,
	}
}

func ToProjectDTOs(projects []*project.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}

type CreateProjectRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  *string  `json:"description"`
	Status       *string  `json:"status" binding:"omitempty,oneof=ACTIVE STAGING ARCHIVED"`
	Category     *string  `json:"category" binding:"omitempty,oneof=DEMO INTERNAL PRODUCTION"`
	Scale        *string  `json:"scale" binding:"omitempty,oneof=SMALL MEDIUM LARGE ENTERPRISE"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	Client       *string  `json:"client"`
	Technologies []string `json:"technologies"`
	Achievements []string `json:"achievements"`
	Challenges   []string `json:"challenges"`
}

type UpdateProjectRequest struct {
	Name         *string             `json:"name"`
	Description  *string             `json:"description"`
	Status       *string             `json:"status" binding:"omitempty,oneof=ACTIVE STAGING ARCHIVED"`
	Category     *string             `json:"category" binding:"omitempty,oneof=DEMO INTERNAL PRODUCTION"`
	Scale        *string             `json:"scale" binding:"omitempty,oneof=SMALL MEDIUM LARGE ENTERPRISE"`
	StartDate    *string             `json:"startDate"`
	EndDate      patch.Field[string] `json:"endDate"`
	Client       *string             `json:"client"`
	Technologies *[]string           `json:"technologies"`
	Achievements *[]string           `json:"achievements"`
	Challenges   *[]string           `json:"challenges"`
}

func (r *UpdateProjectRequest) ToDomainPatch() project.Patch {
	p := project.Patch{
		Name:         r.Name,
		Description:  r.Description,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Client:       r.Client,
		Technologies: r.Technologies,
		Achievements: r.Achievements,
		Challenges:   r.Challenges,
	}
	if r.Status != nil {
		s := project.Status(*r.Status)
		p.Status = &s
	}
	if r.Category != nil {
		c := project.Category(*r.Category)
		p.Category = &c
	}
	if r.Scale != nil {
		s := project.Scale(*r.Scale)
		p.Scale = &s
	}
	return p
}

type ReorderProjectsRequest struct {
	ProjectIDs []string `json:"projectIds" binding:"required"`
}
