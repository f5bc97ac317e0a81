package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/itreb/portal"
	"github.com/itreb/portal/internal/domain"
	"github.com/itreb/portal/internal/infra/database/models"
	"github.com/itreb/portal/internal/usecase"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app domain.Application) (domain.Application, error) {
	record := models.Application{
		OpportunityID:          app.OpportunityID,
		ApplicantID:            app.ApplicantID,
		FirstName:              app.FirstName,
		LastName:               app.LastName,
		Email:                  app.Email,
		Contact:                app.Contact,
		Age:                    app.Age,
		Portfolio:              string(app.Portfolio),
		SecularQualification:   app.SecularQualification,
		ReligiousQualification: app.ReligiousQualification,
		Skills:                 app.Skills,
		ResumeURL:              app.ResumeURL,
		Status:                 string(app.Status),
	}

	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		return domain.Application{}, err
	}
	return applicationDomain(record), nil
}

func (r *ApplicationRepository) ListByPortfolio(ctx context.Context, p portal.Portfolio) ([]domain.Application, error) {
	var records []models.Application
	err := r.db.WithContext(ctx).
		Where("portfolio = ?", string(p)).
		Order("applied_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	apps := make([]domain.Application, 0, len(records))
	for _, record := range records {
		apps = append(apps, applicationDomain(record))
	}
	return apps, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status portal.ApplicationStatus) (domain.Application, error) {
	var record models.Application
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Application{}).
			Where("id = ?", id).
			Update("status", string(status))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NotFoundError{Resource: "application"}
		}
		return tx.Where("id = ?", id).Take(&record).Error
	})
	if err != nil {
		return domain.Application{}, err
	}
	return applicationDomain(record), nil
}

func applicationDomain(record models.Application) domain.Application {
	return domain.Application{
		ID:                     record.ID,
		OpportunityID:          record.OpportunityID,
		ApplicantID:            record.ApplicantID,
		FirstName:              record.FirstName,
		LastName:               record.LastName,
		Email:                  record.Email,
		Contact:                record.Contact,
		Age:                    record.Age,
		Portfolio:              portal.Portfolio(record.Portfolio),
		SecularQualification:   record.SecularQualification,
		ReligiousQualification: record.ReligiousQualification,
		Skills:                 record.Skills,
		ResumeURL:              record.ResumeURL,
		Status:                 portal.ApplicationStatus(record.Status),
		AppliedAt:              record.AppliedAt,
	}
}

var _ usecase.ApplicationRepository = (*ApplicationRepository)(nil)
