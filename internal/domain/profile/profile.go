package profile

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/careerhub/careerhub-api/internal/domain/experience"
	"github.com/careerhub/careerhub-api/pkg/patch"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityFriends Visibility = "FRIENDS"
	VisibilityPublic  Visibility = "PUBLIC"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityFriends, VisibilityPublic:
		return true
	}
	return false
}

type Profile struct {
	ID                string         `json:"id"`
	UserID            uuid.UUID      `json:"user_id"`
	Slug              *string        `json:"slug"`
	Headline          *string        `json:"headline"`
	Summary           *string        `json:"summary"`
	Location          *string        `json:"location"`
	Visibility        Visibility     `json:"visibility"`
	Contact           map[string]any `json:"contact"`
	DraftData         map[string]any `json:"draft_data"`
	ProfilePhotoURL   *string        `json:"profile_photo_url"`
	CompletenessScore int            `json:"completeness_score"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`

	// Eagerly loaded when requested, nil otherwise.
	Experiences []*experience.Experience `json:"experiences,omitempty"`
}

var (
	ErrInvalidSlug       = errors.New("slug only allows lowercase letters, numbers, and hyphens, minimum 3 characters")
	ErrSlugRequired      = errors.New("slug cannot be removed")
	ErrInvalidVisibility = errors.New("visibility must be one of PRIVATE, FRIENDS, PUBLIC")

	slugRegex       = regexp.MustCompile(`^[a-z0-9-]+$`)
	slugStripRegex  = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// ValidateSlug checks an explicitly supplied slug. Auto-generated slugs
// bypass this since normalization already guarantees the shape.
func ValidateSlug(slug string) error {
	if len(slug) < 3 || !slugRegex.MatchString(slug) {
		return ErrInvalidSlug
	}
	return nil
}

// NormalizeSlug lowercases the source, strips everything outside
// [a-z0-9 -] and collapses whitespace runs to single hyphens.
func NormalizeSlug(source string) string {
	s := strings.ToLower(source)
	s = slugStripRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), "-")
	return s
}

func randomSuffix() string {
	buf := make([]byte, 3)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

// GenerateSlug derives a slug from the owner's display name, falling
// back to the profile's own id when no name is available. A random
// 6-hex suffix is always appended so independently derived slugs
// rarely collide before the uniqueness re-check.
func (p *Profile) GenerateSlug(ownerName *string) string {
	base := ""
	if ownerName != nil {
		base = NormalizeSlug(*ownerName)
	}
	if base == "" {
		base = strings.ToLower(p.ID)
	}
	return base + "-" + randomSuffix()
}

// IsPublic reports whether the profile is visible to everyone.
func (p *Profile) IsPublic() bool {
	return p.Visibility == VisibilityPublic
}

// CanView evaluates the visibility policy for a viewer. FRIENDS behaves
// as PRIVATE until a friendship model exists.
func (p *Profile) CanView(viewerID *uuid.UUID) bool {
	if p.Visibility == VisibilityPublic {
		return true
	}
	return viewerID != nil && *viewerID == p.UserID
}

// IsOwnedBy is the mutation predicate: every write on a profile or any
// of its children requires the caller to be the owning user.
func (p *Profile) IsOwnedBy(callerID uuid.UUID) bool {
	return p.UserID == callerID
}

// CalculateCompleteness derives the 0-100 score from current state:
// headline +10, summary longer than 100 characters +20, +10 per
// experience capped at +30. Requires Experiences to be loaded.
func (p *Profile) CalculateCompleteness() int {
	score := 0

	if p.Headline != nil && strings.TrimSpace(*p.Headline) != "" {
		score += 10
	}
	if p.Summary != nil && utf8.RuneCountInString(strings.TrimSpace(*p.Summary)) > 100 {
		score += 20
	}

	experienceScore := len(p.Experiences) * 10
	if experienceScore > 30 {
		experienceScore = 30
	}
	score += experienceScore

	if score > 100 {
		score = 100
	}
	return score
}

// Patch carries the fields of a partial update. An unset field is left
// untouched; an explicit null clears the nullable fields. Scores are
// derived server-side and deliberately absent here.
type Patch struct {
	Slug            patch.Field[string]
	Headline        patch.Field[string]
	Summary         patch.Field[string]
	Location        patch.Field[string]
	Visibility      *Visibility
	Contact         map[string]any
	DraftData       map[string]any
	ProfilePhotoURL patch.Field[string]
}

func (p Patch) Validate() error {
	if p.Visibility != nil && !p.Visibility.Valid() {
		return ErrInvalidVisibility
	}
	if p.Slug.Set {
		// A profile always keeps a slug; clearing it is not allowed.
		if !p.Slug.Valid {
			return ErrSlugRequired
		}
		if err := ValidateSlug(p.Slug.Value); err != nil {
			return err
		}
	}
	return nil
}

func (p Patch) IsEmpty() bool {
	return !p.Slug.Set && !p.Headline.Set && !p.Summary.Set &&
		!p.Location.Set && p.Visibility == nil && p.Contact == nil &&
		p.DraftData == nil && !p.ProfilePhotoURL.Set
}

// Repository is the persistence port. Find methods return (nil, nil)
// when no row matches; callers decide whether absence is an error.
type Repository interface {
	Save(ctx context.Context, p *Profile) error
	FindByID(ctx context.Context, id string, withExperiences bool) (*Profile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, withExperiences bool) (*Profile, error)
	FindBySlug(ctx context.Context, slug string, withExperiences bool) (*Profile, error)
	UpdateFields(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) (bool, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*Profile, error)
	SearchPublic(ctx context.Context, query string, limit, offset int) ([]*Profile, error)
	SlugExists(ctx context.Context, slug string, excludeProfileID string) (bool, error)
	SetCompleteness(ctx context.Context, id string, score int) error
}
