package repository

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/itreb/portal/internal/domain"
	"github.com/itreb/portal/internal/infra/database/models"
	"github.com/itreb/portal/internal/usecase"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, ev domain.Event) (domain.Event, error) {
	record := models.Event{
		Title:       ev.Title,
		Description: ev.Description,
		EventDate:   ev.EventDate,
		StartTime:   ev.StartTime,
		EndTime:     ev.EndTime,
		Venue:       ev.Venue,
		ImageURLs:   pq.StringArray(ev.ImageURLs),
		CreatedBy:   ev.CreatedBy,
	}

	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		return domain.Event{}, err
	}
	return eventDomain(record), nil
}

func (r *EventRepository) Update(ctx context.Context, id string, patch usecase.EventPatch) (domain.Event, error) {
	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.EventDate != nil {
		updates["event_date"] = *patch.EventDate
	}
	if patch.StartTime != nil {
		updates["start_time"] = *patch.StartTime
	}
	if patch.EndTime != nil {
		updates["end_time"] = *patch.EndTime
	}
	if patch.Venue != nil {
		updates["venue"] = *patch.Venue
	}
	if patch.ImageURLs != nil {
		updates["image_urls"] = pq.StringArray(*patch.ImageURLs)
	}

	var record models.Event
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			updates["updated_at"] = gorm.Expr("clock_timestamp()")
			result := tx.Model(&models.Event{}).
				Where("id = ?", id).
				Updates(updates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domain.NotFoundError{Resource: "event"}
			}
		}
		return tx.Where("id = ?", id).Take(&record).Error
	})
	if err == gorm.ErrRecordNotFound {
		return domain.Event{}, domain.NotFoundError{Resource: "event"}
	}
	if err != nil {
		return domain.Event{}, err
	}
	return eventDomain(record), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "event"}
	}
	return nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (domain.Event, error) {
	var record models.Event
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err == gorm.ErrRecordNotFound {
		return domain.Event{}, domain.NotFoundError{Resource: "event"}
	}
	if err != nil {
		return domain.Event{}, err
	}
	return eventDomain(record), nil
}

func (r *EventRepository) List(ctx context.Context, since string) ([]domain.Event, error) {
	query := r.db.WithContext(ctx).Order("event_date ASC")
	if since != "" {
		query = query.Where("event_date >= ?", since)
	}

	var records []models.Event
	err := query.Find(&records).Error
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(records))
	for _, record := range records {
		events = append(events, eventDomain(record))
	}
	return events, nil
}

func eventDomain(record models.Event) domain.Event {
	return domain.Event{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		EventDate:   record.EventDate,
		StartTime:   record.StartTime,
		EndTime:     record.EndTime,
		Venue:       record.Venue,
		ImageURLs:   []string(record.ImageURLs),
		CreatedBy:   record.CreatedBy,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

var _ usecase.EventRepository = (*EventRepository)(nil)
