package usecase

import (
	"context"
	"io"

	"github.com/itreb/portal"
	"github.com/itreb/portal/internal/domain"
)

// OpportunityRepository defines persistence/lookup for opportunities.
type OpportunityRepository interface {
	Create(ctx context.Context, opp domain.Opportunity) (domain.Opportunity, error)
	Update(ctx context.Context, id string, patch OpportunityPatch) (domain.Opportunity, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (domain.Opportunity, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Opportunity, error)
	// FindOrCreateGeneral resolves the fallback opportunity for a portfolio,
	// creating opp atomically when no record with its (job_title, portfolio)
	// pair exists yet.
	FindOrCreateGeneral(ctx context.Context, opp domain.Opportunity) (domain.Opportunity, error)
}

// OpportunityPatch carries partial updates; nil fields are left untouched.
type OpportunityPatch struct {
	JobTitle         *string
	Description      *string
	Duration         *string
	Portfolio        *portal.Portfolio
	SkillRequirement *string
	IsActive         *bool
}

// ApplicationRepository defines persistence for submitted applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app domain.Application) (domain.Application, error)
	// ListByPortfolio returns applications for one portfolio, newest first.
	ListByPortfolio(ctx context.Context, p portal.Portfolio) ([]domain.Application, error)
	UpdateStatus(ctx context.Context, id string, status portal.ApplicationStatus) (domain.Application, error)
}

// EventRepository defines persistence/lookup for events.
type EventRepository interface {
	Create(ctx context.Context, ev domain.Event) (domain.Event, error)
	Update(ctx context.Context, id string, patch EventPatch) (domain.Event, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (domain.Event, error)
	// List returns events ordered by event_date ascending. A non-empty since
	// bound (YYYY-MM-DD) keeps only events on or after that date.
	List(ctx context.Context, since string) ([]domain.Event, error)
}

// EventPatch carries partial updates; nil fields are left untouched.
type EventPatch struct {
	Title       *string
	Description *string
	EventDate   *string
	StartTime   *string
	EndTime     *string
	Venue       *string
	ImageURLs   *[]string
}

// ProfileRepository defines persistence/lookup for accounts.
type ProfileRepository interface {
	Create(ctx context.Context, profile domain.Profile) (domain.Profile, error)
	Get(ctx context.Context, id string) (domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (domain.Profile, error)
}

// TodoRepository defines owner-scoped persistence for todos.
type TodoRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Update(ctx context.Context, id, userID string, patch TodoPatch) (domain.Todo, error)
	Delete(ctx context.Context, id, userID string) error
}

// TodoPatch carries partial updates; nil fields are left untouched.
type TodoPatch struct {
	Content   *string
	Completed *bool
}

// ResumeStore persists uploaded resume artifacts and resolves their public
// URLs.
type ResumeStore interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64) error
	PublicURL(name string) string
}

// SignalPublisher fans out portal signals to realtime subscribers.
type SignalPublisher interface {
	Publish(ctx context.Context, signal portal.Signal) error
}
