package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/itreb/portal/internal/domain"
)

type EventUsecase struct {
	repo EventRepository
	now  func() time.Time
}

func NewEventUsecase(repo EventRepository) *EventUsecase {
	return &EventUsecase{repo: repo, now: time.Now}
}

type CreateEventInput struct {
	Title       string
	Description string
	EventDate   string
	StartTime   string
	EndTime     string
	Venue       string
	ImageURLs   []string
}

func (uc *EventUsecase) Create(ctx context.Context, creatorID string, input CreateEventInput) (domain.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Event{}, domain.ValidationError{Field: "title", Reason: "required"}
	}
	if _, err := time.Parse("2006-01-02", input.EventDate); err != nil {
		return domain.Event{}, domain.ValidationError{Field: "event_date", Reason: "must be YYYY-MM-DD"}
	}
	if input.StartTime == "" || input.EndTime == "" {
		return domain.Event{}, domain.ValidationError{Field: "time", Reason: "start and end time are required"}
	}
	venue := strings.TrimSpace(input.Venue)
	if venue == "" {
		return domain.Event{}, domain.ValidationError{Field: "venue", Reason: "required"}
	}

	ev := domain.Event{
		Title:     title,
		EventDate: input.EventDate,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Venue:     venue,
		ImageURLs: input.ImageURLs,
		CreatedBy: creatorID,
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		ev.Description = &desc
	}

	return uc.repo.Create(ctx, ev)
}

func (uc *EventUsecase) Update(ctx context.Context, id string, patch EventPatch) (domain.Event, error) {
	if patch.EventDate != nil {
		if _, err := time.Parse("2006-01-02", *patch.EventDate); err != nil {
			return domain.Event{}, domain.ValidationError{Field: "event_date", Reason: "must be YYYY-MM-DD"}
		}
	}
	return uc.repo.Update(ctx, id, patch)
}

func (uc *EventUsecase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *EventUsecase) Get(ctx context.Context, id string) (domain.Event, error) {
	return uc.repo.Get(ctx, id)
}

// List returns all events, event_date ascending.
func (uc *EventUsecase) List(ctx context.Context) ([]domain.Event, error) {
	return uc.repo.List(ctx, "")
}

// Upcoming returns events on or after today, event_date ascending.
func (uc *EventUsecase) Upcoming(ctx context.Context) ([]domain.Event, error) {
	today := uc.now().Format("2006-01-02")
	return uc.repo.List(ctx, today)
}
