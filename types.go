package portal

import (
	"time"
)

// Signal is the payload fanned out to realtime subscribers when an
// application is submitted.
type Signal struct {
	Type          string    `json:"type"`
	ApplicationID string    `json:"applicationID"`
	OpportunityID string    `json:"opportunityID"`
	Portfolio     Portfolio `json:"portfolio"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

const SignalApplicationSubmitted = "application.submitted"
