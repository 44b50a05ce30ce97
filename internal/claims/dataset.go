package claims

import (
	"errors"
	"time"
)

// ErrNoData is returned by analysis stages when the dataset holds no
// records. Stages surface it as a structured per-stage failure; it never
// aborts the pipeline.
var ErrNoData = errors.New("no claims data")

// MissingFieldCounts tallies how many records had an absent or
// unparseable value per field. Surfaced in the basic statistics so the
// caller can see how much of the snapshot was coerced to missing.
type MissingFieldCounts struct {
	Amount         int `json:"claim_amount"`
	ClaimDate      int `json:"claim_date"`
	ProcessingDate int `json:"processing_date"`
}

// Dataset is an immutable, ordered-by-arrival snapshot of claim records
// sharing one analysis window. It is constructed once per pipeline run
// and only read afterwards, so concurrent stages need no locking.
type Dataset struct {
	records []Record
}

// NewDataset builds a dataset from records. The slice is copied so later
// mutation by the caller cannot leak into a running analysis.
func NewDataset(records []Record) *Dataset {
	copied := make([]Record, len(records))
	copy(copied, records)
	return &Dataset{records: copied}
}

// Len returns the number of records in the snapshot.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns the underlying records. The slice is shared; callers
// must treat it as read-only.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return d.records
}

// Rejected returns the subset of records with status rejected, in
// arrival order.
func (d *Dataset) Rejected() []Record {
	var out []Record
	for _, r := range d.Records() {
		if r.IsRejected() {
			out = append(out, r)
		}
	}
	return out
}

// Amounts returns the claim amounts of all records that carry one.
func (d *Dataset) Amounts() []float64 {
	var out []float64
	for _, r := range d.Records() {
		if r.HasAmount() {
			out = append(out, r.AmountValue())
		}
	}
	return out
}

// MissingFields counts absent values per coercible field.
func (d *Dataset) MissingFields() MissingFieldCounts {
	var mf MissingFieldCounts
	for _, r := range d.Records() {
		if r.Amount == nil {
			mf.Amount++
		}
		if r.ClaimDate == nil {
			mf.ClaimDate++
		}
		if r.ProcessingDate == nil {
			mf.ProcessingDate++
		}
	}
	return mf
}

// DateSpan returns the earliest and latest claim dates present. ok is
// false when no record has a claim date.
func (d *Dataset) DateSpan() (from, to time.Time, ok bool) {
	for _, r := range d.Records() {
		if r.ClaimDate == nil {
			continue
		}
		t := *r.ClaimDate
		if !ok {
			from, to, ok = t, t, true
			continue
		}
		if t.Before(from) {
			from = t
		}
		if t.After(to) {
			to = t
		}
	}
	return from, to, ok
}
