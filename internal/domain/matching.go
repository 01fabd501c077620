package domain

import "time"

// Approval is one directed approve/reject decision in the mutual
// matching flow. Two reciprocal approvals with IsApproved=true form a
// mutual match.
type Approval struct {
	ID             int       `json:"id" db:"id"`
	ApproverID     int       `json:"approver_id" db:"approver_id"`
	ApprovedUserID int       `json:"approved_user_id" db:"approved_user_id"`
	IsApproved     bool      `json:"is_approved" db:"is_approved"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Selection records a list-view user picking a study buddy. Idempotent:
// repeating the same selection is a no-op.
type Selection struct {
	ID             int       `json:"id" db:"id"`
	SelectorID     int       `json:"selector_id" db:"selector_id"`
	SelectedUserID int       `json:"selected_user_id" db:"selected_user_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Report is a user-submitted abuse report.
type Report struct {
	ID             int       `json:"id" db:"id"`
	ReporterID     int       `json:"reporter_id" db:"reporter_id"`
	ReportedUserID int       `json:"reported_user_id" db:"reported_user_id"`
	Reason         *string   `json:"reason" db:"reason"`
	Context        *string   `json:"context" db:"context"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
