package dataprocessing

import (
	"time"

	"ncdash/pkg/contracts/domain"
)

// Filter applies the criteria to a record set and returns the matching
// subsequence in the original order. All four predicates are
// conjunctive: occurrence date inside [DateFrom, DateTo] (inclusive,
// day granularity) and membership in each of the three value sets.
//
// An empty value set excludes every record. Vacuous truth is
// deliberately not applied here: "select all" must arrive as the full
// observed set (domain.FilterOptions.AllSelected), never as an empty
// sentinel.
func Filter(set domain.RecordSet, criteria domain.FilterCriteria) domain.RecordSet {
	classifications := toSet(criteria.Classifications)
	departments := toSet(criteria.Departments)
	statuses := toSet(criteria.Statuses)

	from := truncateDay(criteria.DateFrom)
	to := truncateDay(criteria.DateTo)

	filtered := make(domain.RecordSet, 0, len(set))
	for _, record := range set {
		occurred := truncateDay(record.OccurrenceDate)
		if occurred.Before(from) || occurred.After(to) {
			continue
		}
		if _, ok := classifications[record.Classification]; !ok {
			continue
		}
		if _, ok := departments[record.Department]; !ok {
			continue
		}
		if _, ok := statuses[string(record.Status)]; !ok {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
