package domain

import (
	"time"

	"github.com/itreb/portal"
)

// Opportunity is a postable role/position associated with one portfolio.
type Opportunity struct {
	ID               string           `json:"id"`
	JobTitle         string           `json:"job_title"`
	Description      string           `json:"description"`
	Duration         string           `json:"duration"`
	Portfolio        portal.Portfolio `json:"portfolio"`
	SkillRequirement string           `json:"skill_requirement"`
	IsActive         bool             `json:"is_active"`
	CreatedBy        string           `json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Application is a candidate's submission against an opportunity.
type Application struct {
	ID                     string                   `json:"id"`
	OpportunityID          string                   `json:"opportunity_id"`
	ApplicantID            string                   `json:"applicant_id"`
	FirstName              string                   `json:"first_name"`
	LastName               string                   `json:"last_name"`
	Email                  string                   `json:"email"`
	Contact                *int64                   `json:"contact"`
	Age                    *int                     `json:"age"`
	Portfolio              portal.Portfolio         `json:"portfolio"`
	SecularQualification   *string                  `json:"secular_qualification"`
	ReligiousQualification *string                  `json:"religious_qualification"`
	Skills                 *string                  `json:"skills"`
	ResumeURL              *string                  `json:"resume_url"`
	Status                 portal.ApplicationStatus `json:"status"`
	AppliedAt              time.Time                `json:"applied_at"`
}

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	EventDate   string    `json:"event_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Venue       string    `json:"venue"`
	ImageURLs   []string  `json:"image_urls"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Profile mirrors one authenticated account. PasswordHash never leaves the
// server.
type Profile struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	FullName  string            `json:"full_name"`
	Portfolio *portal.Portfolio `json:"portfolio"`
	Role      portal.Role       `json:"role"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	PasswordHash string `json:"-"`
}

// Todo is scoped strictly to its owning user.
type Todo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Content   string    `json:"content"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
