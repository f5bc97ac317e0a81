package models

import (
	"time"

	"github.com/lib/pq"
)

type Profile struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"type:text;index:profile_email,unique;not null"`
	FullName     string    `json:"full_name" gorm:"type:text;not null"`
	Portfolio    *string   `json:"portfolio" gorm:"type:text"`
	Role         string    `json:"role" gorm:"type:text;not null;default:'applicant'"`
	PasswordHash string    `json:"-" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Opportunity struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	JobTitle         string    `json:"job_title" gorm:"type:text;not null;index:opportunity_general,unique,priority:1,where:job_title = 'General Application'"`
	Description      string    `json:"description" gorm:"type:text;not null"`
	Duration         string    `json:"duration" gorm:"type:text;not null"`
	Portfolio        string    `json:"portfolio" gorm:"type:text;not null;index;index:opportunity_general,unique,priority:2"`
	SkillRequirement string    `json:"skill_requirement" gorm:"type:text;not null"`
	IsActive         bool      `json:"is_active" gorm:"type:boolean;not null;default:true"`
	CreatedBy        string    `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt        time.Time `json:"created_at" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Application struct {
	ID                     string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OpportunityID          string      `json:"opportunity_id" gorm:"type:uuid;not null;index"`
	Opportunity            Opportunity `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	ApplicantID            string      `json:"applicant_id" gorm:"type:uuid;not null"`
	FirstName              string      `json:"first_name" gorm:"type:text"`
	LastName               string      `json:"last_name" gorm:"type:text"`
	Email                  string      `json:"email" gorm:"type:text"`
	Contact                *int64      `json:"contact" gorm:"type:bigint"`
	Age                    *int        `json:"age" gorm:"type:integer"`
	Portfolio              string      `json:"portfolio" gorm:"type:text;not null;index"`
	SecularQualification   *string     `json:"secular_qualification" gorm:"type:text"`
	ReligiousQualification *string     `json:"religious_qualification" gorm:"type:text"`
	Skills                 *string     `json:"skills" gorm:"type:text"`
	ResumeURL              *string     `json:"resume_url" gorm:"type:text"`
	Status                 string      `json:"status" gorm:"type:text;not null;default:'pending'"`
	AppliedAt              time.Time   `json:"applied_at" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp();index"`
}

type Event struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title       string         `json:"title" gorm:"type:text;not null"`
	Description *string        `json:"description" gorm:"type:text"`
	// Kept as text: the API works in YYYY-MM-DD strings and a date column
	// would scan back as an RFC3339 timestamp. Lexicographic order matches
	// date order for this format.
	EventDate   string         `json:"event_date" gorm:"type:text;not null;index"`
	StartTime   string         `json:"start_time" gorm:"type:text;not null"`
	EndTime     string         `json:"end_time" gorm:"type:text;not null"`
	Venue       string         `json:"venue" gorm:"type:text;not null"`
	ImageURLs   pq.StringArray `json:"image_urls" gorm:"type:text[]"`
	CreatedBy   string         `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt   time.Time      `json:"created_at" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Todo struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Completed bool      `json:"completed" gorm:"type:boolean;not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	UpdatedAt time.Time `json:"updated_at" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}
