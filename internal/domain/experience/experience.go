package experience

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/careerhub/careerhub-api/pkg/patch"
)

var EmploymentTypes = []string{"FULL_TIME", "PART_TIME", "CONTRACT", "FREELANCE", "INTERNSHIP", "TEMPORARY"}

var CompanySizes = []string{"1-10", "11-50", "51-200", "201-500", "501-1000", "1001-5000", "5000+"}

type Experience struct {
	ID               string     `json:"id"`
	ProfileID        string     `json:"profile_id"`
	CompanyName      string     `json:"company_name"`
	CompanyWebsite   *string    `json:"company_website"`
	CompanySize      *string    `json:"company_size"`
	Industry         *string    `json:"industry"`
	CompanyLocation  *string    `json:"company_location"`
	Position         string     `json:"position"`
	EmploymentType   *string    `json:"employment_type"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	IsCurrent        bool       `json:"is_current"`
	Description      *string    `json:"description"`
	Responsibilities []string   `json:"responsibilities"`
	Technologies     []string   `json:"technologies"`
	DisplayOrder     int        `json:"display_order"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func contains(allowed []string, v string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

// Validate checks all field constraints at once and returns every
// violation, so callers can itemize the failure per field.
func (e *Experience) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(e.CompanyName) == "" {
		errs = append(errs, ValidationError{"companyName", "company name is required"})
	}
	if strings.TrimSpace(e.Position) == "" {
		errs = append(errs, ValidationError{"position", "position is required"})
	}
	if e.EmploymentType != nil && !contains(EmploymentTypes, *e.EmploymentType) {
		errs = append(errs, ValidationError{"employmentType", "employment type must be one of " + strings.Join(EmploymentTypes, ", ")})
	}
	if e.CompanySize != nil && !contains(CompanySizes, *e.CompanySize) {
		errs = append(errs, ValidationError{"companySize", "company size must be one of " + strings.Join(CompanySizes, ", ")})
	}
	if e.StartDate.IsZero() {
		errs = append(errs, ValidationError{"startDate", "start date is required"})
	}
	if e.EndDate != nil && !e.EndDate.After(e.StartDate) {
		errs = append(errs, ValidationError{"endDate", "end date must be after start date"})
	}
	if e.IsCurrent && e.EndDate != nil {
		errs = append(errs, ValidationError{"isCurrent", "current position cannot have an end date"})
	}

	return errs
}

// DurationMonths counts months between start and end (or today),
// inclusive of the current month, never below 1.
func (e *Experience) DurationMonths() int {
	end := time.Now()
	if e.EndDate != nil {
		end = *e.EndDate
	}

	months := (end.Year()-e.StartDate.Year())*12 + int(end.Month()) - int(e.StartDate.Month())
	months++
	if months < 1 {
		months = 1
	}
	return months
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func (e *Experience) DurationText() string {
	months := e.DurationMonths()

	if months < 12 {
		return plural(months, "month")
	}

	years := months / 12
	remaining := months % 12
	if remaining == 0 {
		return plural(years, "year")
	}
	return plural(years, "year") + " " + plural(remaining, "month")
}

// AddResponsibility appends the trimmed value unless it is empty or
// already present. Matching is case-sensitive and exact.
func (e *Experience) AddResponsibility(responsibility string) {
	appendUnique(&e.Responsibilities, responsibility)
}

func (e *Experience) RemoveResponsibility(responsibility string) {
	removeExact(&e.Responsibilities, responsibility)
}

func (e *Experience) AddTechnology(technology string) {
	appendUnique(&e.Technologies, technology)
}

func (e *Experience) RemoveTechnology(technology string) {
	removeExact(&e.Technologies, technology)
}

func appendUnique(list *[]string, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return
	}
	for _, existing := range *list {
		if existing == trimmed {
			return
		}
	}
	*list = append(*list, trimmed)
}

// Normalize drops duplicate list entries, keeping first occurrence.
// Applied whenever the lists are set wholesale rather than through the
// add operations.
func (e *Experience) Normalize() {
	e.Responsibilities = dedup(e.Responsibilities)
	e.Technologies = dedup(e.Technologies)
}

func dedup(list []string) []string {
	if len(list) < 2 {
		return list
	}
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, v := range list {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func removeExact(list *[]string, value string) {
	kept := (*list)[:0]
	for _, existing := range *list {
		if existing != value {
			kept = append(kept, existing)
		}
	}
	*list = kept
}

// Patch carries a partial update; nil pointers leave fields untouched.
// EndDate is tri-state so an explicit null can clear it, which is how
// an ended position becomes current again.
type Patch struct {
	CompanyName      *string
	CompanyWebsite   *string
	CompanySize      *string
	Industry         *string
	CompanyLocation  *string
	Position         *string
	EmploymentType   *string
	StartDate        *time.Time
	EndDate          patch.Field[time.Time]
	IsCurrent        *bool
	Description      *string
	Responsibilities *[]string
	Technologies     *[]string
	DisplayOrder     *int
}

// Apply merges the patch into the entity. Validation runs afterwards on
// the merged state, so cross-field rules see the final values.
func (p Patch) Apply(e *Experience) {
	if p.CompanyName != nil {
		e.CompanyName = *p.CompanyName
	}
	if p.CompanyWebsite != nil {
		e.CompanyWebsite = p.CompanyWebsite
	}
	if p.CompanySize != nil {
		e.CompanySize = p.CompanySize
	}
	if p.Industry != nil {
		e.Industry = p.Industry
	}
	if p.CompanyLocation != nil {
		e.CompanyLocation = p.CompanyLocation
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.EmploymentType != nil {
		e.EmploymentType = p.EmploymentType
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	if p.EndDate.Set {
		e.EndDate = p.EndDate.Ptr()
	}
	if p.IsCurrent != nil {
		e.IsCurrent = *p.IsCurrent
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.Responsibilities != nil {
		e.Responsibilities = *p.Responsibilities
	}
	if p.Technologies != nil {
		e.Technologies = *p.Technologies
	}
	if p.DisplayOrder != nil {
		e.DisplayOrder = *p.DisplayOrder
	}
}

type Repository interface {
	Save(ctx context.Context, e *Experience) error
	FindByID(ctx context.Context, id string) (*Experience, error)
	ListByProfile(ctx context.Context, profileID string) ([]*Experience, error)
	Update(ctx context.Context, e *Experience) error
	Delete(ctx context.Context, id string) (bool, error)
	MaxDisplayOrder(ctx context.Context, profileID string) (int, bool, error)
	SetDisplayOrders(ctx context.Context, profileID string, orders map[string]int) error
}
