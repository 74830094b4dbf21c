package project

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/careerhub/careerhub-api/pkg/patch"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusStaging  Status = "STAGING"
	StatusArchived Status = "ARCHIVED"
)

type Category string

const (
	CategoryDemo       Category = "DEMO"
	CategoryInternal   Category = "INTERNAL"
	CategoryProduction Category = "PRODUCTION"
)

type Scale string

const (
	ScaleSmall      Scale = "SMALL"
	ScaleMedium     Scale = "MEDIUM"
	ScaleLarge      Scale = "LARGE"
	ScaleEnterprise Scale = "ENTERPRISE"
)

// yearMonthRegex matches the YYYY-MM wire format for project dates.
var yearMonthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

type Project struct {
	ID           string    `json:"id"`
	ProfileID    string    `json:"profile_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Status       Status    `json:"status"`
	Category     Category  `json:"category"`
	Scale        Scale     `json:"scale"`
	StartDate    *string   `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Client       *string   `json:"client"`
	Technologies []string  `json:"technologies"`
	Achievements []string  `json:"achievements"`
	Challenges   []string  `json:"challenges"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusStaging, StatusArchived:
		return true
	}
	return false
}

func (c Category) Valid() bool {
	switch c {
	case CategoryDemo, CategoryInternal, CategoryProduction:
		return true
	}
	return false
}

func (s Scale) Valid() bool {
	switch s {
	case ScaleSmall, ScaleMedium, ScaleLarge, ScaleEnterprise:
		return true
	}
	return false
}

// ApplyDefaults fills zero-valued enums with their defaults.
func (p *Project) ApplyDefaults() {
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.Category == "" {
		p.Category = CategoryProduction
	}
	if p.Scale == "" {
		p.Scale = ScaleMedium
	}
}

func (p *Project) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{"name", "name is required"})
	}
	if !p.Status.Valid() {
		errs = append(errs, ValidationError{"status", "status must be one of ACTIVE, STAGING, ARCHIVED"})
	}
	if !p.Category.Valid() {
		errs = append(errs, ValidationError{"category", "category must be one of DEMO, INTERNAL, PRODUCTION"})
	}
	if !p.Scale.Valid() {
		errs = append(errs, ValidationError{"scale", "scale must be one of SMALL, MEDIUM, LARGE, ENTERPRISE"})
	}
	if p.StartDate != nil && !yearMonthRegex.MatchString(*p.StartDate) {
		errs = append(errs, ValidationError{"startDate", "start date must match YYYY-MM"})
	}
	if p.EndDate != nil && !yearMonthRegex.MatchString(*p.EndDate) {
		errs = append(errs, ValidationError{"endDate", "end date must match YYYY-MM"})
	}

	return errs
}

// EndDate is tri-state so an explicit null can clear it when a project
// goes back to active.
type Patch struct {
	Name         *string
	Description  *string
	Status       *Status
	Category     *Category
	Scale        *Scale
	StartDate    *string
	EndDate      patch.Field[string]
	Client       *string
	Technologies *[]string
	Achievements *[]string
	Challenges   *[]string
	DisplayOrder *int
}

func (p Patch) Apply(prj *Project) {
	if p.Name != nil {
		prj.Name = *p.Name
	}
	if p.Description != nil {
		prj.Description = p.Description
	}
	if p.Status != nil {
		prj.Status = *p.Status
	}
	if p.Category != nil {
		prj.Category = *p.Category
	}
	if p.Scale != nil {
		prj.Scale = *p.Scale
	}
	if p.StartDate != nil {
		prj.StartDate = p.StartDate
	}
	if p.EndDate.Set {
		prj.EndDate = p.EndDate.Ptr()
	}
	if p.Client != nil {
		prj.Client = p.Client
	}
	if p.Technologies != nil {
		prj.Technologies = *p.Technologies
	}
	if p.Achievements != nil {
		prj.Achievements = *p.Achievements
	}
	if p.Challenges != nil {
		prj.Challenges = *p.Challenges
	}
	if p.DisplayOrder != nil {
		prj.DisplayOrder = *p.DisplayOrder
	}
}

type Repository interface {
	Save(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	ListByProfile(ctx context.Context, profileID string) ([]*Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) (bool, error)
	CountByProfile(ctx context.Context, profileID string) (int, error)
	SetDisplayOrders(ctx context.Context, profileID string, orders map[string]int) error
}
