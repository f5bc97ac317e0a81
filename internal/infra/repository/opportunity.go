package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/itreb/portal"
	"github.com/itreb/portal/internal/domain"
	"github.com/itreb/portal/internal/infra/database/models"
	"github.com/itreb/portal/internal/usecase"
)

type OpportunityRepository struct {
	db *gorm.DB
}

func NewOpportunityRepository(db *gorm.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

func (r *OpportunityRepository) Create(ctx context.Context, opp domain.Opportunity) (domain.Opportunity, error) {
	record := opportunityModel(opp)
	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		return domain.Opportunity{}, err
	}
	return opportunityDomain(record), nil
}

func (r *OpportunityRepository) Update(ctx context.Context, id string, patch usecase.OpportunityPatch) (domain.Opportunity, error) {
	updates := map[string]any{}
	if patch.JobTitle != nil {
		updates["job_title"] = *patch.JobTitle
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Duration != nil {
		updates["duration"] = *patch.Duration
	}
	if patch.Portfolio != nil {
		updates["portfolio"] = string(*patch.Portfolio)
	}
	if patch.SkillRequirement != nil {
		updates["skill_requirement"] = *patch.SkillRequirement
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}

	var record models.Opportunity
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			updates["updated_at"] = gorm.Expr("clock_timestamp()")
			result := tx.Model(&models.Opportunity{}).
				Where("id = ?", id).
				Updates(updates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domain.NotFoundError{Resource: "opportunity"}
			}
		}
		return tx.Where("id = ?", id).Take(&record).Error
	})
	if err == gorm.ErrRecordNotFound {
		return domain.Opportunity{}, domain.NotFoundError{Resource: "opportunity"}
	}
	if err != nil {
		return domain.Opportunity{}, err
	}
	return opportunityDomain(record), nil
}

func (r *OpportunityRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Opportunity{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "opportunity"}
	}
	return nil
}

func (r *OpportunityRepository) Get(ctx context.Context, id string) (domain.Opportunity, error) {
	var record models.Opportunity
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err == gorm.ErrRecordNotFound {
		return domain.Opportunity{}, domain.NotFoundError{Resource: "opportunity"}
	}
	if err != nil {
		return domain.Opportunity{}, err
	}
	return opportunityDomain(record), nil
}

func (r *OpportunityRepository) List(ctx context.Context, activeOnly bool) ([]domain.Opportunity, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var records []models.Opportunity
	err := query.Find(&records).Error
	if err != nil {
		return nil, err
	}

	opps := make([]domain.Opportunity, 0, len(records))
	for _, record := range records {
		opps = append(opps, opportunityDomain(record))
	}
	return opps, nil
}

// FindOrCreateGeneral resolves the fallback opportunity for opp's portfolio.
// The insert-on-conflict against the partial unique (job_title, portfolio)
// index keeps two concurrent submissions from creating duplicates.
func (r *OpportunityRepository) FindOrCreateGeneral(ctx context.Context, opp domain.Opportunity) (domain.Opportunity, error) {
	record := opportunityModel(opp)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "job_title"}, {Name: "portfolio"}},
			// Must repeat the partial index predicate for conflict inference.
			TargetWhere: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "job_title = ?", Vars: []any{portal.GeneralApplicationTitle}},
			}},
			DoNothing: true,
		}).Create(&record).Error
		if err != nil {
			return err
		}

		return tx.Where("job_title = ? AND portfolio = ?", opp.JobTitle, string(opp.Portfolio)).
			Take(&record).Error
	})
	if err != nil {
		return domain.Opportunity{}, err
	}
	return opportunityDomain(record), nil
}

func opportunityModel(opp domain.Opportunity) models.Opportunity {
	return models.Opportunity{
		ID:               opp.ID,
		JobTitle:         opp.JobTitle,
		Description:      opp.Description,
		Duration:         opp.Duration,
		Portfolio:        string(opp.Portfolio),
		SkillRequirement: opp.SkillRequirement,
		IsActive:         opp.IsActive,
		CreatedBy:        opp.CreatedBy,
	}
}

func opportunityDomain(record models.Opportunity) domain.Opportunity {
	return domain.Opportunity{
		ID:               record.ID,
		JobTitle:         record.JobTitle,
		Description:      record.Description,
		Duration:         record.Duration,
		Portfolio:        portal.Portfolio(record.Portfolio),
		SkillRequirement: record.SkillRequirement,
		IsActive:         record.IsActive,
		CreatedBy:        record.CreatedBy,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
	}
}

var _ usecase.OpportunityRepository = (*OpportunityRepository)(nil)
