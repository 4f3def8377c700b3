// Package exporter renders the filtered non-conformance view into a
// downloadable PowerPoint deck: title slide, KPI gauges, classification
// and effectiveness pies, and the per-department bar chart.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ncdash/internal/dataprocessing"
	"ncdash/pkg/contracts/domain"
)

const (
	// FileName is the fixed download name of the exported deck.
	FileName = "Relatorio_NaoConformidades.pptx"
	// ContentType is the MIME type of the exported deck.
	ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

	reportTitle     = "Relatório de Não Conformidades"
	timestampFormat = "02/01/2006 15:04"
	defaultTimezone = "America/Sao_Paulo"

	pendingColor  = "#E45757"
	resolvedColor = "#57A369"
)

// Config holds the report rendering options.
type Config struct {
	LogoURL  string
	Timezone string
}

// Builder renders presentation decks. A single slide failing to render
// never aborts the deck: the slide is emitted without its visual and
// the failure is logged.
type Builder struct {
	cfg      Config
	logger   *slog.Logger
	client   *http.Client
	location *time.Location
	now      func() time.Time
}

// NewBuilder creates a deck builder. A nil HTTP client gets a default
// with a short timeout; an unknown timezone falls back to a fixed UTC-3
// offset so the generation timestamp stays in the report's locale.
func NewBuilder(cfg Config, client *http.Client, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	tz := cfg.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	location, err := time.LoadLocation(tz)
	if err != nil {
		location = time.FixedZone("-03", -3*60*60)
	}
	return &Builder{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "deck_builder")),
		client:   client,
		location: location,
		now:      time.Now,
	}
}

// Build renders the full deck for a filtered record set. The unfiltered
// set provides the "out of total" context on the title slide.
func (b *Builder) Build(ctx context.Context, filtered, all domain.RecordSet, colors domain.ColorAssignment) ([]byte, error) {
	deck, err := b.buildDeck(ctx, filtered, all, colors)
	if err != nil {
		return nil, err
	}
	return deck.Bytes()
}

func (b *Builder) buildDeck(ctx context.Context, filtered, all domain.RecordSet, colors domain.ColorAssignment) (*Presentation, error) {
	deck := NewPresentation(b.now())

	b.addTitleSlide(ctx, deck, len(filtered), len(all))
	b.addKPISlide(ctx, deck, dataprocessing.Summarize(filtered))
	b.addPieSlide(ctx, deck, "Classificação das NCs", dataprocessing.CountByClassification(filtered))
	b.addPieSlide(ctx, deck, "Avaliação da Eficácia das Ações", dataprocessing.CountByEffectiveness(filtered))
	b.addDepartmentSlide(ctx, deck, dataprocessing.CountByDepartment(filtered), colors)

	return deck, nil
}

func (b *Builder) addTitleSlide(ctx context.Context, deck *Presentation, selected, total int) {
	slide := deck.AddSlide()

	slide.AddText(reportTitle, Inches(0.5), Inches(2.6), Inches(9.0), Inches(1.2), TextOptions{
		SizePt: 44, Bold: true, Center: true, VCenter: true,
	})
	generated := b.now().In(b.location).Format(timestampFormat)
	subtitle := fmt.Sprintf("Gerado em: %s\n%d de %d não conformidades selecionadas", generated, selected, total)
	slide.AddText(subtitle, Inches(0.5), Inches(3.9), Inches(9.0), Inches(1.0), TextOptions{
		SizePt: 18, Center: true,
	})

	if b.cfg.LogoURL == "" {
		return
	}
	logo, wpx, hpx, err := fetchLogo(ctx, b.client, b.cfg.LogoURL)
	if err != nil {
		// Degrades silently by design: the slide simply has no logo.
		b.logger.WarnContext(ctx, "logo fetch failed, rendering without it",
			slog.String("url", b.cfg.LogoURL),
			slog.String("error", err.Error()))
		return
	}
	width := Inches(1.5)
	height := width
	if wpx > 0 {
		height = EMU(int64(width) * int64(hpx) / int64(wpx))
	}
	deck.AddPicture(slide, logo, Inches(8.0), Inches(0.2), width, height)
}

// addKPISlide renders exactly two radial indicators, pending and
// resolved, regardless of how many records the view holds.
func (b *Builder) addKPISlide(ctx context.Context, deck *Presentation, metrics domain.SummaryMetrics) {
	slide := deck.AddSlide()
	slide.AddText("Principais Indicadores (KPIs)", Inches(0.5), Inches(0.3), Inches(9.0), Inches(0.8), TextOptions{
		SizePt: 28, Bold: true,
	})

	kpis := []struct {
		label string
		count int
		color string
	}{
		{"NCs Pendentes", metrics.PendingCount, pendingColor},
		{"NCs Resolvidas", metrics.ResolvedCount, resolvedColor},
	}

	left := Inches(1.5)
	top := Inches(1.5)
	size := Inches(3.0)
	gap := Inches(1.0)

	for _, kpi := range kpis {
		fraction := 0.0
		if metrics.Total > 0 {
			fraction = float64(kpi.count) / float64(metrics.Total)
		}

		if gauge, err := renderGauge(fraction, kpi.color); err != nil {
			b.logger.WarnContext(ctx, "gauge render failed, omitting visual",
				slog.String("kpi", kpi.label),
				slog.String("error", err.Error()))
		} else {
			deck.AddPicture(slide, gauge, left, top, size, size)
		}

		slide.AddText(fmt.Sprintf("%.0f%%", fraction*100), left, top, size, size, TextOptions{
			SizePt: 40, Bold: true, Center: true, VCenter: true,
		})
		slide.AddText(fmt.Sprintf("%s\n(%d de %d)", kpi.label, kpi.count, metrics.Total),
			left, top+size-Inches(0.2), size, Inches(1.0), TextOptions{
				SizePt: 14, Center: true,
			})

		left += size + gap
	}
}

func (b *Builder) addPieSlide(ctx context.Context, deck *Presentation, title string, groups []domain.GroupCount) {
	slide := deck.AddSlide()
	slide.AddText(title, Inches(0.5), Inches(0.3), Inches(9.0), Inches(0.8), TextOptions{
		SizePt: 28, Bold: true,
	})

	pie, err := renderPieChart(groups)
	if err != nil {
		b.logger.WarnContext(ctx, "pie chart render failed, omitting visual",
			slog.String("slide", title),
			slog.String("error", err.Error()))
		slide.AddText("Nenhum dado para exibir.", Inches(0.5), Inches(3.0), Inches(9.0), Inches(0.8), TextOptions{
			SizePt: 18, Center: true,
		})
		return
	}
	deck.AddPicture(slide, pie, Inches(2.0), Inches(1.5), Inches(6.0), Inches(4.5))
}

func (b *Builder) addDepartmentSlide(ctx context.Context, deck *Presentation, groups []domain.GroupCount, colors domain.ColorAssignment) {
	slide := deck.AddSlide()
	slide.AddText("NCs por Departamento", Inches(0.5), Inches(0.3), Inches(9.0), Inches(0.8), TextOptions{
		SizePt: 28, Bold: true,
	})

	bar, err := renderBarChart(groups, colors)
	if err != nil {
		b.logger.WarnContext(ctx, "bar chart render failed, omitting visual",
			slog.String("error", err.Error()))
		slide.AddText("Nenhum dado para exibir.", Inches(0.5), Inches(3.0), Inches(9.0), Inches(0.8), TextOptions{
			SizePt: 18, Center: true,
		})
		return
	}
	deck.AddPicture(slide, bar, Inches(0.5), Inches(1.5), Inches(9.0), Inches(5.0))
}
