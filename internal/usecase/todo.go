package usecase

import (
	"context"
	"strings"

	"github.com/itreb/portal/internal/domain"
)

type TodoUsecase struct {
	repo TodoRepository
}

func NewTodoUsecase(repo TodoRepository) *TodoUsecase {
	return &TodoUsecase{repo: repo}
}

// List returns the user's todos, newest first.
func (uc *TodoUsecase) List(ctx context.Context, userID string) ([]domain.Todo, error) {
	return uc.repo.ListByUser(ctx, userID)
}

func (uc *TodoUsecase) Add(ctx context.Context, userID, content string) (domain.Todo, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Todo{}, domain.ValidationError{Field: "content", Reason: "required"}
	}
	return uc.repo.Create(ctx, domain.Todo{
		UserID:  userID,
		Content: content,
	})
}

// Update patches a todo owned by userID. Other users' todos are invisible
// and report not found.
func (uc *TodoUsecase) Update(ctx context.Context, id, userID string, patch TodoPatch) (domain.Todo, error) {
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return domain.Todo{}, domain.ValidationError{Field: "content", Reason: "required"}
	}
	return uc.repo.Update(ctx, id, userID, patch)
}

func (uc *TodoUsecase) Delete(ctx context.Context, id, userID string) error {
	return uc.repo.Delete(ctx, id, userID)
}
