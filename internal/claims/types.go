package claims

import (
	"time"
)

// Status is the disposition of a claim at snapshot time.
type Status string

const (
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
)

// IsKnown reports whether the status is one of the four recognized values.
func (s Status) IsKnown() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusPending, StatusUnderReview:
		return true
	}
	return false
}

// Known claim types. The set is open: records carrying other values pass
// through unclassified rather than being dropped.
const (
	TypeInpatient  = "inpatient"
	TypeOutpatient = "outpatient"
	TypeEmergency  = "emergency"
	TypePreventive = "preventive"
	TypeDiagnostic = "diagnostic"
)

// Record is a single normalized claim submission. Amount and the two dates
// are pointers because absent or unparseable source values are treated as
// missing, never as zero; a record with missing fields still participates
// in count-based aggregates.
type Record struct {
	ID              string     `json:"claim_id"`
	PatientID       string     `json:"patient_id"`
	ProviderID      string     `json:"provider_id"`
	Amount          *float64   `json:"claim_amount,omitempty"`
	ClaimDate       *time.Time `json:"claim_date,omitempty"`
	ProcessingDate  *time.Time `json:"processing_date,omitempty"`
	Status          Status     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ClaimType       string     `json:"claim_type,omitempty"`
}

// HasAmount reports whether the claim carries a parseable amount.
func (r Record) HasAmount() bool {
	return r.Amount != nil
}

// AmountValue returns the claim amount, or 0 when missing. Callers that
// must distinguish missing from zero should check HasAmount first.
func (r Record) AmountValue() float64 {
	if r.Amount == nil {
		return 0
	}
	return *r.Amount
}

// ProcessingDays returns the number of days between submission and
// disposition. ok is false when either date is missing; such records are
// excluded from time-based aggregates but not from count-based ones.
func (r Record) ProcessingDays() (float64, bool) {
	if r.ClaimDate == nil || r.ProcessingDate == nil {
		return 0, false
	}
	return r.ProcessingDate.Sub(*r.ClaimDate).Hours() / 24, true
}

// IsRejected reports whether the claim was rejected.
func (r Record) IsRejected() bool {
	return r.Status == StatusRejected
}
