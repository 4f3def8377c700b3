package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ncdash/pkg/contracts/domain"
)

// Canonical column names of the non-conformance worksheet.
const (
	ColOccurrenceDate = "DATA DA NAO CONFORMIDADE"
	ColClosureDate    = "DATA DE ENCERRAMENTO"
	ColClassification = "CLASSIFICAÇÃO NC"
	ColDepartment     = "DEPARTAMENTO RESPONSÁVEL"
	ColSector         = "SETOR DO RESPONSÁVEL"
	ColClient         = "CLIENTE (Caso tenha)"
	ColEffectiveness  = "AVALIAÇÃO DA EFICÁCIA"
)

// headerAliases maps known header variants to their canonical name.
// The form sheet historically carried a misspelled classification
// header without the tilde.
var headerAliases = map[string]string{
	"CLASSIFICAÇAO NC": ColClassification,
}

// dateLayouts are tried in order. The sheet is day-first; ISO dates
// show up when rows were entered through the API rather than the form.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
	"2006-01-02",
}

// Normalizer converts raw worksheet rows into a typed record set.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer. A nil logger falls back to the
// default slog logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger.With(slog.String("component", "normalizer"))}
}

// Normalize maps raw rows onto records, dropping any row without a
// parseable occurrence date. Field-level parse failures never abort the
// batch: an unparseable closure date simply leaves the record pending.
// The result order matches the source row order.
func (n *Normalizer) Normalize(ctx context.Context, rows []domain.Row) domain.RecordSet {
	records := make(domain.RecordSet, 0, len(rows))
	dropped := 0

	for _, raw := range rows {
		row := canonicalizeRow(raw)

		occurrence, ok := parseDate(row[ColOccurrenceDate])
		if !ok {
			dropped++
			continue
		}

		record := domain.Record{
			OccurrenceDate:      occurrence,
			Status:              domain.StatusPending,
			Classification:      cleanText(row[ColClassification]),
			Department:          cleanText(row[ColDepartment]),
			Sector:              cleanText(row[ColSector]),
			Client:              cleanText(row[ColClient]),
			EffectivenessRating: cleanText(row[ColEffectiveness]),
		}

		if closure, ok := parseDate(row[ColClosureDate]); ok {
			record.ClosureDate = &closure
			record.Status = domain.StatusResolved
		}

		records = append(records, record)
	}

	if dropped > 0 {
		n.logger.WarnContext(ctx, "dropped rows without occurrence date",
			slog.Int("dropped", dropped),
			slog.Int("kept", len(records)))
	}

	return records
}

// canonicalizeRow trims header whitespace and resolves known aliases so
// downstream lookups always use canonical column names.
func canonicalizeRow(raw domain.Row) domain.Row {
	row := make(domain.Row, len(raw))
	for header, value := range raw {
		header = strings.TrimSpace(header)
		if canonical, ok := headerAliases[header]; ok {
			header = canonical
		}
		row[header] = value
	}
	return row
}

// parseDate attempts the day-first layouts in order. Blank or
// unparseable cells report false rather than an error; the caller
// decides whether the field was required.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// cleanText coerces a source cell to a stable categorical string.
// Numeric cells arrive as their string form already; blanks stay blank.
func cleanText(value string) string {
	return strings.TrimSpace(value)
}
