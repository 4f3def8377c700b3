package dataprocessing

import (
	"ncdash/pkg/contracts/domain"
)

// GroupCountBy groups a record set by the given categorical key and
// returns per-key counts in first-seen key order. Counts always sum to
// the input length.
func GroupCountBy(set domain.RecordSet, key func(domain.Record) string) []domain.GroupCount {
	index := make(map[string]int, len(set))
	groups := make([]domain.GroupCount, 0)
	for _, record := range set {
		k := key(record)
		if i, ok := index[k]; ok {
			groups[i].Count++
			continue
		}
		index[k] = len(groups)
		groups = append(groups, domain.GroupCount{Key: k, Count: 1})
	}
	return groups
}

// CountByClassification breaks the set down by NC classification.
func CountByClassification(set domain.RecordSet) []domain.GroupCount {
	return GroupCountBy(set, func(r domain.Record) string { return r.Classification })
}

// CountByDepartment breaks the set down by responsible department.
func CountByDepartment(set domain.RecordSet) []domain.GroupCount {
	return GroupCountBy(set, func(r domain.Record) string { return r.Department })
}

// CountByEffectiveness breaks the set down by effectiveness rating,
// excluding records whose rating is empty or absent. Unrated actions
// would otherwise dominate the chart with a meaningless blank slice.
func CountByEffectiveness(set domain.RecordSet) []domain.GroupCount {
	rated := make(domain.RecordSet, 0, len(set))
	for _, record := range set {
		if record.EffectivenessRating != "" {
			rated = append(rated, record)
		}
	}
	return GroupCountBy(rated, func(r domain.Record) string { return r.EffectivenessRating })
}

// Summarize computes the headline KPIs for a record set. The
// resolution rate is 0 for an empty set.
func Summarize(set domain.RecordSet) domain.SummaryMetrics {
	metrics := domain.SummaryMetrics{Total: len(set)}
	for _, record := range set {
		switch record.Status {
		case domain.StatusResolved:
			metrics.ResolvedCount++
		default:
			metrics.PendingCount++
		}
	}
	if metrics.Total > 0 {
		metrics.ResolutionRatePercent = float64(metrics.ResolvedCount) / float64(metrics.Total) * 100
	}
	return metrics
}

// ObserveFilterOptions enumerates the filterable values of a record set
// in first-seen order along with the occurrence date bounds. The result
// is the explicit "select all" source for a fresh dashboard.
func ObserveFilterOptions(set domain.RecordSet) domain.FilterOptions {
	options := domain.FilterOptions{}
	seenClassification := make(map[string]struct{})
	seenDepartment := make(map[string]struct{})
	seenStatus := make(map[string]struct{})

	for i, record := range set {
		if i == 0 {
			options.DateMin = record.OccurrenceDate
			options.DateMax = record.OccurrenceDate
		} else {
			if record.OccurrenceDate.Before(options.DateMin) {
				options.DateMin = record.OccurrenceDate
			}
			if record.OccurrenceDate.After(options.DateMax) {
				options.DateMax = record.OccurrenceDate
			}
		}
		if _, ok := seenClassification[record.Classification]; !ok {
			seenClassification[record.Classification] = struct{}{}
			options.Classifications = append(options.Classifications, record.Classification)
		}
		if _, ok := seenDepartment[record.Department]; !ok {
			seenDepartment[record.Department] = struct{}{}
			options.Departments = append(options.Departments, record.Department)
		}
		if _, ok := seenStatus[string(record.Status)]; !ok {
			seenStatus[string(record.Status)] = struct{}{}
			options.Statuses = append(options.Statuses, string(record.Status))
		}
	}
	return options
}
