package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ncdash/pkg/contracts/domain"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		resolved int
		pending  int
		want     domain.SummaryMetrics
	}{
		{
			name:     "six resolved four pending",
			resolved: 6,
			pending:  4,
			want: domain.SummaryMetrics{
				Total:                 10,
				PendingCount:          4,
				ResolvedCount:         6,
				ResolutionRatePercent: 60.0,
			},
		},
		{
			name: "empty set has zero rate",
			want: domain.SummaryMetrics{},
		},
		{
			name:    "all pending",
			pending: 3,
			want: domain.SummaryMetrics{
				Total:        3,
				PendingCount: 3,
			},
		},
		{
			name:     "all resolved",
			resolved: 2,
			want: domain.SummaryMetrics{
				Total:                 2,
				ResolvedCount:         2,
				ResolutionRatePercent: 100.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := make(domain.RecordSet, 0, tt.resolved+tt.pending)
			for i := 0; i < tt.resolved; i++ {
				set = append(set, testRecord(day(2024, 1, 1), "Maior", "Produção", domain.StatusResolved))
			}
			for i := 0; i < tt.pending; i++ {
				set = append(set, testRecord(day(2024, 1, 2), "Menor", "Qualidade", domain.StatusPending))
			}

			assert.Equal(t, tt.want, Summarize(set))
		})
	}
}

func TestGroupCountBy_FirstSeenOrder(t *testing.T) {
	set := domain.RecordSet{
		testRecord(day(2024, 1, 1), "Maior", "Qualidade", domain.StatusPending),
		testRecord(day(2024, 1, 2), "Menor", "Produção", domain.StatusPending),
		testRecord(day(2024, 1, 3), "Maior", "Logística", domain.StatusPending),
		testRecord(day(2024, 1, 4), "Crítica", "Produção", domain.StatusPending),
		testRecord(day(2024, 1, 5), "Maior", "Produção", domain.StatusPending),
	}

	got := CountByClassification(set)

	require.Len(t, got, 3)
	assert.Equal(t, []domain.GroupCount{
		{Key: "Maior", Count: 3},
		{Key: "Menor", Count: 1},
		{Key: "Crítica", Count: 1},
	}, got)

	sum := 0
	for _, g := range got {
		sum += g.Count
	}
	assert.Equal(t, len(set), sum, "group counts must sum to input length")
}

func TestCountByEffectiveness_ExcludesUnrated(t *testing.T) {
	set := domain.RecordSet{
		{OccurrenceDate: day(2024, 1, 1), EffectivenessRating: "Eficaz", Status: domain.StatusResolved},
		{OccurrenceDate: day(2024, 1, 2), EffectivenessRating: "", Status: domain.StatusPending},
		{OccurrenceDate: day(2024, 1, 3), EffectivenessRating: "Não Eficaz", Status: domain.StatusResolved},
		{OccurrenceDate: day(2024, 1, 4), EffectivenessRating: "Eficaz", Status: domain.StatusResolved},
	}

	got := CountByEffectiveness(set)

	assert.Equal(t, []domain.GroupCount{
		{Key: "Eficaz", Count: 2},
		{Key: "Não Eficaz", Count: 1},
	}, got)
}

func TestObserveFilterOptions(t *testing.T) {
	set := domain.RecordSet{
		testRecord(day(2024, 3, 5), "Maior", "Qualidade", domain.StatusResolved),
		testRecord(day(2024, 1, 20), "Menor", "Produção", domain.StatusPending),
		testRecord(day(2024, 6, 1), "Maior", "Produção", domain.StatusPending),
	}

	options := ObserveFilterOptions(set)

	assert.Equal(t, day(2024, 1, 20), options.DateMin)
	assert.Equal(t, day(2024, 6, 1), options.DateMax)
	assert.Equal(t, []string{"Maior", "Menor"}, options.Classifications)
	assert.Equal(t, []string{"Qualidade", "Produção"}, options.Departments)
	assert.Equal(t, []string{"Resolvida", "Pendente"}, options.Statuses)

	// Options fed back as criteria select the whole set.
	assert.Len(t, Filter(set, options.AllSelected()), len(set))
}

func TestObserveFilterOptions_Empty(t *testing.T) {
	options := ObserveFilterOptions(nil)

	assert.True(t, options.DateMin.IsZero())
	assert.Empty(t, options.Classifications)
	assert.Empty(t, options.Departments)
	assert.Empty(t, options.Statuses)
}
