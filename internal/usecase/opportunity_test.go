package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/itreb/portal"
	"github.com/itreb/portal/internal/domain"
)

func TestCreateOpportunity(t *testing.T) {
	repo := newMockOpportunityRepo()
	uc := NewOpportunityUsecase(repo)

	opp, err := uc.Create(context.Background(), "board-1", CreateOpportunityInput{
		JobTitle:  "  Youth Coordinator  ",
		Duration:  "6 months",
		Portfolio: "Youth",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opp.JobTitle != "Youth Coordinator" {
		t.Errorf("job title = %q", opp.JobTitle)
	}
	if !opp.IsActive {
		t.Error("new opportunities start active")
	}
	if opp.CreatedBy != "board-1" {
		t.Errorf("created_by = %q", opp.CreatedBy)
	}
}

func TestCreateOpportunityValidation(t *testing.T) {
	uc := NewOpportunityUsecase(newMockOpportunityRepo())

	if _, err := uc.Create(context.Background(), "board-1", CreateOpportunityInput{Portfolio: "Youth"}); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("empty title: got %v", err)
	}
	if _, err := uc.Create(context.Background(), "board-1", CreateOpportunityInput{JobTitle: "X", Portfolio: "Sales"}); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("unknown portfolio: got %v", err)
	}
}

func TestUpdateOpportunityValidation(t *testing.T) {
	repo := newMockOpportunityRepo()
	uc := NewOpportunityUsecase(repo)

	opp, _ := uc.Create(context.Background(), "board-1", CreateOpportunityInput{JobTitle: "X", Portfolio: "Youth"})

	empty := "  "
	if _, err := uc.Update(context.Background(), opp.ID, OpportunityPatch{JobTitle: &empty}); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("blank title: got %v", err)
	}

	bad := portal.Portfolio("Sales")
	if _, err := uc.Update(context.Background(), opp.ID, OpportunityPatch{Portfolio: &bad}); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("unknown portfolio: got %v", err)
	}

	inactive := false
	updated, err := uc.Update(context.Background(), opp.ID, OpportunityPatch{IsActive: &inactive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.IsActive {
		t.Error("opportunity should be deactivated")
	}
}

func TestDeleteOpportunityCreatorOnly(t *testing.T) {
	repo := newMockOpportunityRepo()
	uc := NewOpportunityUsecase(repo)

	opp, _ := uc.Create(context.Background(), "board-1", CreateOpportunityInput{JobTitle: "X", Portfolio: "Youth"})

	if err := uc.Delete(context.Background(), "board-2", opp.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-creator delete: got %v", err)
	}
	if _, err := repo.Get(context.Background(), opp.ID); err != nil {
		t.Fatal("opportunity should still exist")
	}

	if err := uc.Delete(context.Background(), "board-1", opp.ID); err != nil {
		t.Fatalf("creator delete failed: %v", err)
	}
	if _, err := repo.Get(context.Background(), opp.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("opportunity should be gone")
	}

	if err := uc.Delete(context.Background(), "board-1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing id: got %v", err)
	}
}
