package cqrs

// ---------- Application queries ----------

// GetApplicationQuery fetches a single application by id.
type GetApplicationQuery struct {
	ID int64
}

// ListApplicationsQuery fetches one page of applications ordered by id.
type ListApplicationsQuery struct {
	Skip  int
	Limit int
}

// FindApplicationQuery looks up the first application whose identifier field
// (cnic_no, account_no or iban) equals Value.
type FindApplicationQuery struct {
	Field string
	Value string
}

// FilterApplicationsQuery lists every application in one category of a field.
type FilterApplicationsQuery struct {
	Field string
	Value string
}

// ---------- Analytics queries ----------

// BreakdownQuery requests a percentage breakdown over one categorical field.
type BreakdownQuery struct {
	Dimension string
}

// HighValueQuery requests the high-value customer report.
type HighValueQuery struct {
	Threshold float64
}
