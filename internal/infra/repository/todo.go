package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/itreb/portal/internal/domain"
	"github.com/itreb/portal/internal/infra/database/models"
	"github.com/itreb/portal/internal/usecase"
)

type TodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	var records []models.Todo
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	todos := make([]domain.Todo, 0, len(records))
	for _, record := range records {
		todos = append(todos, todoDomain(record))
	}
	return todos, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	record := models.Todo{
		UserID:  todo.UserID,
		Content: todo.Content,
	}
	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		return domain.Todo{}, err
	}
	return todoDomain(record), nil
}

func (r *TodoRepository) Update(ctx context.Context, id, userID string, patch usecase.TodoPatch) (domain.Todo, error) {
	updates := map[string]any{}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
	}

	var record models.Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			updates["updated_at"] = gorm.Expr("clock_timestamp()")
			result := tx.Model(&models.Todo{}).
				Where("id = ? AND user_id = ?", id, userID).
				Updates(updates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domain.NotFoundError{Resource: "todo"}
			}
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Take(&record).Error
	})
	if err == gorm.ErrRecordNotFound {
		return domain.Todo{}, domain.NotFoundError{Resource: "todo"}
	}
	if err != nil {
		return domain.Todo{}, err
	}
	return todoDomain(record), nil
}

func (r *TodoRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).Delete(&models.Todo{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "todo"}
	}
	return nil
}

func todoDomain(record models.Todo) domain.Todo {
	return domain.Todo{
		ID:        record.ID,
		UserID:    record.UserID,
		Content:   record.Content,
		Completed: record.Completed,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

var _ usecase.TodoRepository = (*TodoRepository)(nil)
