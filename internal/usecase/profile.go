package usecase

import (
	"context"

	"github.com/itreb/portal/internal/domain"
)

type ProfileUsecase struct {
	repo ProfileRepository
}

func NewProfileUsecase(repo ProfileRepository) *ProfileUsecase {
	return &ProfileUsecase{repo: repo}
}

func (uc *ProfileUsecase) Get(ctx context.Context, id string) (domain.Profile, error) {
	return uc.repo.Get(ctx, id)
}
