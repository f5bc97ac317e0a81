package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/itreb/portal"
	"github.com/itreb/portal/internal/domain"
)

type mockApplicationRepo struct {
	created     []domain.Application
	listResult  []domain.Application
	createErr   error
	statusCalls int
}

func (m *mockApplicationRepo) Create(ctx context.Context, app domain.Application) (domain.Application, error) {
	if m.createErr != nil {
		return domain.Application{}, m.createErr
	}
	app.ID = fmt.Sprintf("app-%d", len(m.created))
	m.created = append(m.created, app)
	return app, nil
}

func (m *mockApplicationRepo) ListByPortfolio(ctx context.Context, p portal.Portfolio) ([]domain.Application, error) {
	return m.listResult, nil
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, id string, status portal.ApplicationStatus) (domain.Application, error) {
	m.statusCalls++
	return domain.Application{ID: id, Status: status}, nil
}

type mockOpportunityRepo struct {
	stored       map[string]domain.Opportunity
	generalCalls int
}

func newMockOpportunityRepo() *mockOpportunityRepo {
	return &mockOpportunityRepo{stored: map[string]domain.Opportunity{}}
}

func (m *mockOpportunityRepo) Create(ctx context.Context, opp domain.Opportunity) (domain.Opportunity, error) {
	opp.ID = uuid.NewString()
	m.stored[opp.ID] = opp
	return opp, nil
}

func (m *mockOpportunityRepo) Update(ctx context.Context, id string, patch OpportunityPatch) (domain.Opportunity, error) {
	opp, ok := m.stored[id]
	if !ok {
		return domain.Opportunity{}, domain.NotFoundError{Resource: "opportunity"}
	}
	if patch.IsActive != nil {
		opp.IsActive = *patch.IsActive
	}
	m.stored[id] = opp
	return opp, nil
}

func (m *mockOpportunityRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.stored[id]; !ok {
		return domain.NotFoundError{Resource: "opportunity"}
	}
	delete(m.stored, id)
	return nil
}

func (m *mockOpportunityRepo) Get(ctx context.Context, id string) (domain.Opportunity, error) {
	opp, ok := m.stored[id]
	if !ok {
		return domain.Opportunity{}, domain.NotFoundError{Resource: "opportunity"}
	}
	return opp, nil
}

func (m *mockOpportunityRepo) List(ctx context.Context, activeOnly bool) ([]domain.Opportunity, error) {
	var opps []domain.Opportunity
	for _, opp := range m.stored {
		if activeOnly && !opp.IsActive {
			continue
		}
		opps = append(opps, opp)
	}
	return opps, nil
}

func (m *mockOpportunityRepo) FindOrCreateGeneral(ctx context.Context, opp domain.Opportunity) (domain.Opportunity, error) {
	m.generalCalls++
	for _, existing := range m.stored {
		if existing.JobTitle == opp.JobTitle && existing.Portfolio == opp.Portfolio {
			return existing, nil
		}
	}
	return m.Create(ctx, opp)
}

type mockResumeStore struct {
	uploads   []string
	uploadErr error
}

func (m *mockResumeStore) Upload(ctx context.Context, name string, r io.Reader, size int64) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.uploads = append(m.uploads, name)
	return nil
}

func (m *mockResumeStore) PublicURL(name string) string {
	return "http://localhost/files/" + name
}

type mockSignalPublisher struct {
	published  []portal.Signal
	publishErr error
}

func (m *mockSignalPublisher) Publish(ctx context.Context, signal portal.Signal) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, signal)
	return nil
}

func validInput() SubmitApplicationInput {
	return SubmitApplicationInput{
		FirstName:     "Aly",
		LastName:      "Khan",
		Email:         "aly@example.com",
		ContactNumber: "0712-345-678",
		Age:           "25",
		Portfolio:     "Youth",
		Skills:        "Teaching",
	}
}

func TestSubmitGeneralFallback(t *testing.T) {
	apps := &mockApplicationRepo{}
	opps := newMockOpportunityRepo()
	signals := &mockSignalPublisher{}
	uc := NewApplicationUsecase(apps, opps, &mockResumeStore{}, signals)

	created, err := uc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if opps.generalCalls != 1 {
		t.Errorf("expected one fallback resolution, got %d", opps.generalCalls)
	}

	var general domain.Opportunity
	for _, opp := range opps.stored {
		general = opp
	}
	if general.JobTitle != portal.GeneralApplicationTitle {
		t.Errorf("fallback title = %q", general.JobTitle)
	}
	if general.Portfolio != portal.Portfolio("Youth") {
		t.Errorf("fallback portfolio = %q", general.Portfolio)
	}
	if general.Duration != "Ongoing" {
		t.Errorf("fallback duration = %q", general.Duration)
	}
	if general.CreatedBy != portal.SentinelID {
		t.Errorf("fallback creator = %q", general.CreatedBy)
	}

	if created.OpportunityID != general.ID {
		t.Errorf("application bound to %q, fallback is %q", created.OpportunityID, general.ID)
	}
	if created.Status != portal.StatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
	if created.ApplicantID != portal.SentinelID {
		t.Errorf("applicant id = %q", created.ApplicantID)
	}
	if created.Contact == nil || *created.Contact != 712345678 {
		t.Errorf("contact = %v, want 712345678", created.Contact)
	}
	if created.Age == nil || *created.Age != 25 {
		t.Errorf("age = %v, want 25", created.Age)
	}

	if len(signals.published) != 1 {
		t.Fatalf("expected one signal, got %d", len(signals.published))
	}
	if signals.published[0].Type != portal.SignalApplicationSubmitted {
		t.Errorf("signal type = %q", signals.published[0].Type)
	}
}

func TestSubmitReusesExistingGeneral(t *testing.T) {
	apps := &mockApplicationRepo{}
	opps := newMockOpportunityRepo()
	uc := NewApplicationUsecase(apps, opps, &mockResumeStore{}, &mockSignalPublisher{})

	first, err := uc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := uc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if first.OpportunityID != second.OpportunityID {
		t.Errorf("submissions bound to different opportunities: %q vs %q", first.OpportunityID, second.OpportunityID)
	}
	if len(opps.stored) != 1 {
		t.Errorf("expected a single fallback opportunity, got %d", len(opps.stored))
	}
	if len(apps.created) != 2 {
		t.Errorf("expected both submissions persisted, got %d", len(apps.created))
	}
}

func TestSubmitExplicitOpportunity(t *testing.T) {
	apps := &mockApplicationRepo{}
	opps := newMockOpportunityRepo()
	target, _ := opps.Create(context.Background(), domain.Opportunity{JobTitle: "Youth Coordinator", Portfolio: "Youth"})
	uc := NewApplicationUsecase(apps, opps, &mockResumeStore{}, &mockSignalPublisher{})

	input := validInput()
	input.OpportunityID = target.ID

	created, err := uc.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.OpportunityID != target.ID {
		t.Errorf("bound to %q, want %q", created.OpportunityID, target.ID)
	}
	if opps.generalCalls != 0 {
		t.Errorf("fallback resolution should not run for explicit opportunities")
	}
}

func TestSubmitUnknownOpportunity(t *testing.T) {
	apps := &mockApplicationRepo{}
	uc := NewApplicationUsecase(apps, newMockOpportunityRepo(), &mockResumeStore{}, &mockSignalPublisher{})

	input := validInput()
	input.OpportunityID = "missing"

	_, err := uc.Submit(context.Background(), input)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(apps.created) != 0 {
		t.Errorf("nothing should be persisted")
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmitApplicationInput)
		field  string
	}{
		{"missing first name", func(in *SubmitApplicationInput) { in.FirstName = "  " }, "first_name"},
		{"missing last name", func(in *SubmitApplicationInput) { in.LastName = "" }, "last_name"},
		{"missing email", func(in *SubmitApplicationInput) { in.Email = "" }, "email"},
		{"malformed email", func(in *SubmitApplicationInput) { in.Email = "not-an-email" }, "email"},
		{"missing contact", func(in *SubmitApplicationInput) { in.ContactNumber = " " }, "contact_number"},
		{"missing age", func(in *SubmitApplicationInput) { in.Age = "" }, "age"},
		{"non numeric age", func(in *SubmitApplicationInput) { in.Age = "abc" }, "age"},
		{"underage", func(in *SubmitApplicationInput) { in.Age = "15" }, "age"},
		{"age too high", func(in *SubmitApplicationInput) { in.Age = "101" }, "age"},
		{"missing portfolio", func(in *SubmitApplicationInput) { in.Portfolio = "" }, "portfolio"},
		{"unknown portfolio", func(in *SubmitApplicationInput) { in.Portfolio = "Space" }, "portfolio"},
		{"oversized resume", func(in *SubmitApplicationInput) {
			in.Resume = &ResumeUpload{Filename: "cv.pdf", Size: MaxResumeSize + 1}
		}, "resume"},
		{"bad resume type", func(in *SubmitApplicationInput) {
			in.Resume = &ResumeUpload{Filename: "cv.txt", Size: 10}
		}, "resume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps := &mockApplicationRepo{}
			opps := newMockOpportunityRepo()
			store := &mockResumeStore{}
			uc := NewApplicationUsecase(apps, opps, store, &mockSignalPublisher{})

			input := validInput()
			tt.mutate(&input)

			_, err := uc.Submit(context.Background(), input)
			var verr domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}

			if opps.generalCalls != 0 || len(store.uploads) != 0 || len(apps.created) != 0 {
				t.Errorf("validation failure must halt before any side effect")
			}
		})
	}
}

func TestSubmitBoundaryAges(t *testing.T) {
	for _, age := range []string{"18", "100"} {
		uc := NewApplicationUsecase(&mockApplicationRepo{}, newMockOpportunityRepo(), &mockResumeStore{}, &mockSignalPublisher{})
		input := validInput()
		input.Age = age
		if _, err := uc.Submit(context.Background(), input); err != nil {
			t.Errorf("age %s should be accepted, got %v", age, err)
		}
	}
}

func TestSubmitResumeNaming(t *testing.T) {
	store := &mockResumeStore{}
	uc := NewApplicationUsecase(&mockApplicationRepo{}, newMockOpportunityRepo(), store, &mockSignalPublisher{})

	input := validInput()
	input.FirstName = "Aly Raza"
	input.LastName = "Van Der Khan"
	input.Resume = &ResumeUpload{
		Filename: "My Resume.PDF",
		Size:     4,
		Reader:   bytes.NewReader([]byte("data")),
	}

	created, err := uc.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(store.uploads))
	}
	name := store.uploads[0]
	if !strings.HasSuffix(name, "-AlyRaza-VanDerKhan.pdf") {
		t.Errorf("object name = %q, want trailing -AlyRaza-VanDerKhan.pdf", name)
	}
	if created.ResumeURL == nil || !strings.HasSuffix(*created.ResumeURL, name) {
		t.Errorf("resume url = %v", created.ResumeURL)
	}
}

func TestSubmitUploadFailureAbortsInsert(t *testing.T) {
	apps := &mockApplicationRepo{}
	store := &mockResumeStore{uploadErr: fmt.Errorf("disk full")}
	uc := NewApplicationUsecase(apps, newMockOpportunityRepo(), store, &mockSignalPublisher{})

	input := validInput()
	input.Resume = &ResumeUpload{
		Filename: "cv.docx",
		Size:     4,
		Reader:   bytes.NewReader([]byte("data")),
	}

	_, err := uc.Submit(context.Background(), input)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(apps.created) != 0 {
		t.Errorf("insert must not run after a failed upload")
	}
}

func TestSubmitInsertFailureSurfaces(t *testing.T) {
	apps := &mockApplicationRepo{createErr: fmt.Errorf("connection reset")}
	signals := &mockSignalPublisher{}
	uc := NewApplicationUsecase(apps, newMockOpportunityRepo(), &mockResumeStore{}, signals)

	_, err := uc.Submit(context.Background(), validInput())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(signals.published) != 0 {
		t.Errorf("no signal should fire for a failed insert")
	}
}

func TestSubmitSignalFailureIsNonFatal(t *testing.T) {
	signals := &mockSignalPublisher{publishErr: fmt.Errorf("redis down")}
	uc := NewApplicationUsecase(&mockApplicationRepo{}, newMockOpportunityRepo(), &mockResumeStore{}, signals)

	if _, err := uc.Submit(context.Background(), validInput()); err != nil {
		t.Fatalf("signal failure must not fail the submission: %v", err)
	}
}

func TestListForReviewer(t *testing.T) {
	portfolio := portal.Portfolio("Youth")
	apps := &mockApplicationRepo{listResult: []domain.Application{{ID: "app-0", Portfolio: portfolio}}}
	uc := NewApplicationUsecase(apps, newMockOpportunityRepo(), &mockResumeStore{}, &mockSignalPublisher{})

	listed, err := uc.ListForReviewer(context.Background(), domain.Profile{
		ID:        "reviewer",
		Role:      portal.RoleBoardMember,
		Portfolio: &portfolio,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("got %d applications", len(listed))
	}
}

func TestListForReviewerForbidden(t *testing.T) {
	portfolio := portal.Portfolio("Youth")
	uc := NewApplicationUsecase(&mockApplicationRepo{}, newMockOpportunityRepo(), &mockResumeStore{}, &mockSignalPublisher{})

	tests := []struct {
		name    string
		profile domain.Profile
	}{
		{"applicant role", domain.Profile{Role: portal.RoleApplicant, Portfolio: &portfolio}},
		{"no portfolio", domain.Profile{Role: portal.RoleBoardMember}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.ListForReviewer(context.Background(), tt.profile)
			if !errors.Is(err, domain.ErrForbidden) {
				t.Errorf("expected forbidden, got %v", err)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	apps := &mockApplicationRepo{}
	uc := NewApplicationUsecase(apps, newMockOpportunityRepo(), &mockResumeStore{}, &mockSignalPublisher{})
	reviewer := domain.Profile{ID: "reviewer", Role: portal.RoleBoardMember}

	updated, err := uc.UpdateStatus(context.Background(), reviewer, "app-0", portal.StatusApproved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != portal.StatusApproved {
		t.Errorf("status = %q", updated.Status)
	}

	if _, err := uc.UpdateStatus(context.Background(), reviewer, "app-0", "archived"); err == nil {
		t.Error("unknown status must be rejected")
	}

	applicant := domain.Profile{ID: "someone", Role: portal.RoleApplicant}
	if _, err := uc.UpdateStatus(context.Background(), applicant, "app-0", portal.StatusApproved); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}
