package domain

// ProvisionRow is one input row of a bulk provisioning request.
type ProvisionRow struct {
	Identifier string
	Email      string
}

// Outcome is what happened to a single provisioning row. It is one of
// OutcomeSucceeded, OutcomeSkipped or OutcomeFailed.
type Outcome interface {
	Status() string
	outcome()
}

// OutcomeSucceeded means the credential was stored and the email sent.
type OutcomeSucceeded struct {
	CredentialID int64
}

// OutcomeSkipped means the row was not attempted.
type OutcomeSkipped struct {
	Reason string
}

// OutcomeFailed means the row was attempted and did not complete.
type OutcomeFailed struct {
	Reason string
}

func (OutcomeSucceeded) Status() string { return "succeeded" }
func (OutcomeSkipped) Status() string   { return "skipped" }
func (OutcomeFailed) Status() string    { return "failed" }

func (OutcomeSucceeded) outcome() {}
func (OutcomeSkipped) outcome()   {}
func (OutcomeFailed) outcome()    {}

// Reason returns the human readable explanation, empty on success.
func Reason(o Outcome) string {
	switch v := o.(type) {
	case OutcomeSkipped:
		return v.Reason
	case OutcomeFailed:
		return v.Reason
	default:
		return ""
	}
}

// RowOutcome ties an Outcome to its 1-based input row.
type RowOutcome struct {
	Row        int
	Identifier string
	Email      string
	Outcome    Outcome
}

// Report summarises a provisioning run.
type Report struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Rows      []RowOutcome
}

// Add records r and updates the counters.
func (rep *Report) Add(r RowOutcome) {
	rep.Total++
	switch r.Outcome.(type) {
	case OutcomeSucceeded:
		rep.Succeeded++
	case OutcomeSkipped:
		rep.Skipped++
	case OutcomeFailed:
		rep.Failed++
	}
	rep.Rows = append(rep.Rows, r)
}
