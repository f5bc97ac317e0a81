package usecase

import (
	"context"
	"strings"

	"github.com/itreb/portal"
	"github.com/itreb/portal/internal/domain"
)

type OpportunityUsecase struct {
	repo OpportunityRepository
}

func NewOpportunityUsecase(repo OpportunityRepository) *OpportunityUsecase {
	return &OpportunityUsecase{repo: repo}
}

type CreateOpportunityInput struct {
	JobTitle         string
	Description      string
	Duration         string
	Portfolio        string
	SkillRequirement string
}

func (uc *OpportunityUsecase) Create(ctx context.Context, creatorID string, input CreateOpportunityInput) (domain.Opportunity, error) {
	title := strings.TrimSpace(input.JobTitle)
	if title == "" {
		return domain.Opportunity{}, domain.ValidationError{Field: "job_title", Reason: "required"}
	}
	p := portal.Portfolio(strings.TrimSpace(input.Portfolio))
	if !p.Valid() {
		return domain.Opportunity{}, domain.ValidationError{Field: "portfolio", Reason: "unknown portfolio"}
	}

	return uc.repo.Create(ctx, domain.Opportunity{
		JobTitle:         title,
		Description:      strings.TrimSpace(input.Description),
		Duration:         strings.TrimSpace(input.Duration),
		Portfolio:        p,
		SkillRequirement: strings.TrimSpace(input.SkillRequirement),
		IsActive:         true,
		CreatedBy:        creatorID,
	})
}

func (uc *OpportunityUsecase) Update(ctx context.Context, id string, patch OpportunityPatch) (domain.Opportunity, error) {
	if patch.JobTitle != nil && strings.TrimSpace(*patch.JobTitle) == "" {
		return domain.Opportunity{}, domain.ValidationError{Field: "job_title", Reason: "required"}
	}
	if patch.Portfolio != nil && !patch.Portfolio.Valid() {
		return domain.Opportunity{}, domain.ValidationError{Field: "portfolio", Reason: "unknown portfolio"}
	}
	return uc.repo.Update(ctx, id, patch)
}

// Delete removes an opportunity. Only the creator may delete; applications
// referencing it are removed by cascade.
func (uc *OpportunityUsecase) Delete(ctx context.Context, requesterID, id string) error {
	opp, err := uc.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if opp.CreatedBy != requesterID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *OpportunityUsecase) Get(ctx context.Context, id string) (domain.Opportunity, error) {
	return uc.repo.Get(ctx, id)
}

// List returns opportunities newest-first. activeOnly hides deactivated
// postings from the public surface.
func (uc *OpportunityUsecase) List(ctx context.Context, activeOnly bool) ([]domain.Opportunity, error) {
	return uc.repo.List(ctx, activeOnly)
}
