package portal

// SentinelID attributes system-authored records and public, unauthenticated
// submissions. It matches uuid.Nil in string form.
const SentinelID = "00000000-0000-0000-0000-000000000000"

// GeneralApplicationTitle is the lookup key for the per-portfolio fallback
// opportunity that public submissions attach to.
const GeneralApplicationTitle = "General Application"

type Portfolio string

// Portfolios is the closed set of organizational units. Order is significant
// for display only.
var Portfolios = []Portfolio{
	"Office Bearers",
	"Finance",
	"MIS and Access",
	"RECCU",
	"REDU",
	"Waez Unit",
	"IREU",
	"Academics",
	"Youth",
	"Jamati Affairs",
	"Communications",
	"MNE",
	"HRE",
	"PEDU",
	"HR",
	"Library and ICT",
	"Access",
	"ECD",
	"Distance Learning",
	"STEP",
	"PSU",
	"SFC",
	"Quran",
	"Special HRE",
}

func (p Portfolio) Valid() bool {
	for _, known := range Portfolios {
		if p == known {
			return true
		}
	}
	return false
}

type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusReviewing ApplicationStatus = "reviewing"
	StatusApproved  ApplicationStatus = "approved"
	StatusRejected  ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Role string

const (
	RoleBoardMember Role = "board_member"
	RoleApplicant   Role = "applicant"
)

func (r Role) Valid() bool {
	return r == RoleBoardMember || r == RoleApplicant
}
