package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/itreb/portal"
	"github.com/itreb/portal/internal/domain"
)

var tracer = otel.Tracer("usecase")

const (
	MaxResumeSize = 5 << 20 // 5 MB

	generalDescription = "General application for joining ITREB"
	generalDuration    = "Ongoing"
	generalSkills      = "As specified in application"
)

var allowedResumeExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// ResumeUpload is an optional file attached to a submission.
type ResumeUpload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// SubmitApplicationInput is the raw form content of one public submission.
// Numeric fields arrive as free text and are parsed during validation.
type SubmitApplicationInput struct {
	OpportunityID          string // optional deep link
	FirstName              string
	LastName               string
	Email                  string
	ContactNumber          string
	Age                    string
	Portfolio              string
	SecularQualification   string
	ReligiousQualification string
	Skills                 string
	Resume                 *ResumeUpload
}

type ApplicationUsecase struct {
	applications  ApplicationRepository
	opportunities OpportunityRepository
	resumes       ResumeStore
	signals       SignalPublisher
}

func NewApplicationUsecase(
	applications ApplicationRepository,
	opportunities OpportunityRepository,
	resumes ResumeStore,
	signals SignalPublisher,
) *ApplicationUsecase {
	return &ApplicationUsecase{
		applications:  applications,
		opportunities: opportunities,
		resumes:       resumes,
		signals:       signals,
	}
}

// Submit turns one validated form submission into exactly one persisted
// application, with an optional resume artifact and an auto-provisioned
// fallback opportunity. Steps run strictly sequentially; the first failure
// halts the remaining steps. An already-uploaded resume is not rolled back
// when the final insert fails.
func (uc *ApplicationUsecase) Submit(ctx context.Context, input SubmitApplicationInput) (domain.Application, error) {
	ctx, span := tracer.Start(ctx, "Application.Usecase.Submit")
	defer span.End()

	validated, err := validateSubmission(input)
	if err != nil {
		return domain.Application{}, err
	}

	opportunityID, err := uc.resolveOpportunity(ctx, input.OpportunityID, validated.portfolio)
	if err != nil {
		span.RecordError(err)
		return domain.Application{}, err
	}

	var resumeURL *string
	if input.Resume != nil {
		url, err := uc.uploadResume(ctx, input.Resume, validated.firstName, validated.lastName)
		if err != nil {
			span.RecordError(err)
			return domain.Application{}, fmt.Errorf("failed to upload resume: %w", err)
		}
		resumeURL = &url
	}

	app := domain.Application{
		OpportunityID:          opportunityID,
		ApplicantID:            portal.SentinelID,
		FirstName:              validated.firstName,
		LastName:               validated.lastName,
		Email:                  validated.email,
		Contact:                validated.contact,
		Age:                    &validated.age,
		Portfolio:              validated.portfolio,
		SecularQualification:   optional(input.SecularQualification),
		ReligiousQualification: optional(input.ReligiousQualification),
		Skills:                 optional(input.Skills),
		ResumeURL:              resumeURL,
		Status:                 portal.StatusPending,
	}

	created, err := uc.applications.Create(ctx, app)
	if err != nil {
		span.RecordError(err)
		return domain.Application{}, fmt.Errorf("failed to submit application: %w", err)
	}

	err = uc.signals.Publish(ctx, portal.Signal{
		Type:          portal.SignalApplicationSubmitted,
		ApplicationID: created.ID,
		OpportunityID: created.OpportunityID,
		Portfolio:     created.Portfolio,
		SubmittedAt:   created.AppliedAt,
	})
	if err != nil {
		// The submission already committed; a dropped signal only delays the
		// review dashboard until its next reload.
		slog.ErrorContext(
			ctx, "Failed to publish submission signal",
			slog.String("error", err.Error()),
			slog.String("module", "application"),
		)
	}

	return created, nil
}

func (uc *ApplicationUsecase) resolveOpportunity(ctx context.Context, explicitID string, p portal.Portfolio) (string, error) {
	if explicitID != "" {
		if uuid.Validate(explicitID) != nil {
			return "", domain.NotFoundError{Resource: "opportunity"}
		}
		opp, err := uc.opportunities.Get(ctx, explicitID)
		if err != nil {
			return "", err
		}
		return opp.ID, nil
	}

	opp, err := uc.opportunities.FindOrCreateGeneral(ctx, domain.Opportunity{
		JobTitle:         portal.GeneralApplicationTitle,
		Description:      generalDescription,
		Duration:         generalDuration,
		Portfolio:        p,
		SkillRequirement: generalSkills,
		IsActive:         true,
		CreatedBy:        portal.SentinelID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve general opportunity: %w", err)
	}
	return opp.ID, nil
}

func (uc *ApplicationUsecase) uploadResume(ctx context.Context, resume *ResumeUpload, first, last string) (string, error) {
	ext := strings.ToLower(filepath.Ext(resume.Filename))
	name := fmt.Sprintf("%d-%s-%s%s",
		time.Now().UnixMilli(),
		portal.StripSpaces(first),
		portal.StripSpaces(last),
		ext,
	)

	err := uc.resumes.Upload(ctx, name, resume.Reader, resume.Size)
	if err != nil {
		return "", err
	}

	return uc.resumes.PublicURL(name), nil
}

type validatedSubmission struct {
	firstName string
	lastName  string
	email     string
	contact   *int64
	age       int
	portfolio portal.Portfolio
}

func validateSubmission(input SubmitApplicationInput) (validatedSubmission, error) {
	var v validatedSubmission

	v.firstName = strings.TrimSpace(input.FirstName)
	if v.firstName == "" {
		return v, domain.ValidationError{Field: "first_name", Reason: "required"}
	}
	v.lastName = strings.TrimSpace(input.LastName)
	if v.lastName == "" {
		return v, domain.ValidationError{Field: "last_name", Reason: "required"}
	}

	v.email = strings.TrimSpace(input.Email)
	if v.email == "" {
		return v, domain.ValidationError{Field: "email", Reason: "required"}
	}
	if !portal.IsValidEmail(v.email) {
		return v, domain.ValidationError{Field: "email", Reason: "invalid email address"}
	}

	if strings.TrimSpace(input.ContactNumber) == "" {
		return v, domain.ValidationError{Field: "contact_number", Reason: "required"}
	}
	digits := portal.ExtractDigits(input.ContactNumber)
	if digits != "" {
		parsed, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return v, domain.ValidationError{Field: "contact_number", Reason: "must be numeric"}
		}
		v.contact = &parsed
	}

	ageStr := strings.TrimSpace(input.Age)
	if ageStr == "" {
		return v, domain.ValidationError{Field: "age", Reason: "required"}
	}
	age, err := strconv.Atoi(ageStr)
	if err != nil {
		return v, domain.ValidationError{Field: "age", Reason: "must be a number"}
	}
	if age < 18 || age > 100 {
		return v, domain.ValidationError{Field: "age", Reason: "must be between 18 and 100"}
	}
	v.age = age

	v.portfolio = portal.Portfolio(strings.TrimSpace(input.Portfolio))
	if v.portfolio == "" {
		return v, domain.ValidationError{Field: "portfolio", Reason: "required"}
	}
	if !v.portfolio.Valid() {
		return v, domain.ValidationError{Field: "portfolio", Reason: "unknown portfolio"}
	}

	if input.Resume != nil {
		if input.Resume.Size > MaxResumeSize {
			return v, domain.ValidationError{Field: "resume", Reason: "file exceeds 5MB"}
		}
		ext := strings.ToLower(filepath.Ext(input.Resume.Filename))
		if !allowedResumeExts[ext] {
			return v, domain.ValidationError{Field: "resume", Reason: "only PDF, DOC and DOCX files are accepted"}
		}
	}

	return v, nil
}

func optional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ListForReviewer returns the applications of the reviewer's own portfolio,
// newest first. Cross-portfolio visibility is not permitted.
func (uc *ApplicationUsecase) ListForReviewer(ctx context.Context, reviewer domain.Profile) ([]domain.Application, error) {
	if reviewer.Role != portal.RoleBoardMember || reviewer.Portfolio == nil {
		return nil, domain.ErrForbidden
	}
	return uc.applications.ListByPortfolio(ctx, *reviewer.Portfolio)
}

// UpdateStatus sets a reviewed application's status. Transitions are
// unconstrained; any known status is settable.
func (uc *ApplicationUsecase) UpdateStatus(ctx context.Context, reviewer domain.Profile, id string, status portal.ApplicationStatus) (domain.Application, error) {
	if reviewer.Role != portal.RoleBoardMember {
		return domain.Application{}, domain.ErrForbidden
	}
	if !status.Valid() {
		return domain.Application{}, domain.ValidationError{Field: "status", Reason: "unknown status"}
	}
	return uc.applications.UpdateStatus(ctx, id, status)
}
