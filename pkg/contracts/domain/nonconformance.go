package domain

import (
	"time"
)

// Row is one raw spreadsheet row keyed by column header. It is the only
// shape the pipeline requires from a data source.
type Row map[string]string

// Status represents the lifecycle state of a non-conformance record.
// It is always derived from the closure date: a record with a valid
// closure date is resolved, anything else is pending.
type Status string

const (
	StatusPending  Status = "Pendente"
	StatusResolved Status = "Resolvida"
)

// Record represents one normalized non-conformance event.
type Record struct {
	OccurrenceDate      time.Time  `json:"occurrence_date" validate:"required"`
	ClosureDate         *time.Time `json:"closure_date,omitempty"`
	Status              Status     `json:"status"`
	Classification      string     `json:"classification"`
	Department          string     `json:"department"`
	Sector              string     `json:"sector"`
	Client              string     `json:"client,omitempty"`
	EffectivenessRating string     `json:"effectiveness_rating,omitempty"`
}

// RecordSet is an ordered sequence of records. Order always matches the
// source row order; filtering produces subsequences, never reorders.
type RecordSet []Record

// FilterCriteria describes the user-selected view of a record set.
// Each set-valued field matches only the listed values: an empty set
// excludes everything. "Select all" is represented explicitly as the
// full set of observed values (see FilterOptions).
type FilterCriteria struct {
	DateFrom        time.Time `json:"date_from"`
	DateTo          time.Time `json:"date_to"`
	Classifications []string  `json:"classifications"`
	Departments     []string  `json:"departments"`
	Statuses        []string  `json:"statuses"`
}

// FilterOptions enumerates the observed values a criteria can select
// from, in first-seen order, plus the occurrence date bounds. Handing
// these back verbatim as a FilterCriteria is the explicit "select all".
type FilterOptions struct {
	DateMin         time.Time `json:"date_min"`
	DateMax         time.Time `json:"date_max"`
	Classifications []string  `json:"classifications"`
	Departments     []string  `json:"departments"`
	Statuses        []string  `json:"statuses"`
}

// AllSelected converts the observed options into criteria selecting
// every record, the default state of a freshly opened dashboard.
func (o FilterOptions) AllSelected() FilterCriteria {
	return FilterCriteria{
		DateFrom:        o.DateMin,
		DateTo:          o.DateMax,
		Classifications: o.Classifications,
		Departments:     o.Departments,
		Statuses:        o.Statuses,
	}
}

// DefaultDepartmentColor is used for any department absent from a
// ColorAssignment.
const DefaultDepartmentColor = "#1f77b4"

// ColorAssignment maps a department name to a display color (hex).
type ColorAssignment map[string]string

// ColorFor returns the configured color for a department, falling back
// to the default when none is assigned.
func (c ColorAssignment) ColorFor(department string) string {
	if c != nil {
		if color, ok := c[department]; ok && color != "" {
			return color
		}
	}
	return DefaultDepartmentColor
}

// SummaryMetrics holds the headline KPIs for a (usually filtered)
// record set.
type SummaryMetrics struct {
	Total                 int     `json:"total"`
	PendingCount          int     `json:"pending_count"`
	ResolvedCount         int     `json:"resolved_count"`
	ResolutionRatePercent float64 `json:"resolution_rate_percent"`
}

// GroupCount is one key of a categorical breakdown. Breakdowns are
// emitted as slices to preserve first-seen key order.
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
