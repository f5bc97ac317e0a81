package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/itreb/portal"
	"github.com/itreb/portal/internal/domain"
	"github.com/itreb/portal/internal/infra/database/models"
	"github.com/itreb/portal/internal/usecase"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	record := models.Profile{
		Email:        profile.Email,
		FullName:     profile.FullName,
		Role:         string(profile.Role),
		PasswordHash: profile.PasswordHash,
	}
	if profile.Portfolio != nil {
		p := string(*profile.Portfolio)
		record.Portfolio = &p
	}

	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		return domain.Profile{}, err
	}
	return profileDomain(record), nil
}

func (r *ProfileRepository) Get(ctx context.Context, id string) (domain.Profile, error) {
	var record models.Profile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err == gorm.ErrRecordNotFound {
		return domain.Profile{}, domain.NotFoundError{Resource: "profile"}
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return profileDomain(record), nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (domain.Profile, error) {
	var record models.Profile
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Take(&record).Error
	if err == gorm.ErrRecordNotFound {
		return domain.Profile{}, domain.NotFoundError{Resource: "profile"}
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return profileDomain(record), nil
}

func profileDomain(record models.Profile) domain.Profile {
	profile := domain.Profile{
		ID:           record.ID,
		Email:        record.Email,
		FullName:     record.FullName,
		Role:         portal.Role(record.Role),
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
		PasswordHash: record.PasswordHash,
	}
	if record.Portfolio != nil {
		p := portal.Portfolio(*record.Portfolio)
		profile.Portfolio = &p
	}
	return profile
}

var _ usecase.ProfileRepository = (*ProfileRepository)(nil)
