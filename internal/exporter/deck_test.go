package exporter

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ncdash/pkg/contracts/domain"
)

func sampleRecords(resolved, pending int) domain.RecordSet {
	set := make(domain.RecordSet, 0, resolved+pending)
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < resolved; i++ {
		closed := base.AddDate(0, 0, 10)
		set = append(set, domain.Record{
			OccurrenceDate:      base.AddDate(0, 0, i),
			ClosureDate:         &closed,
			Status:              domain.StatusResolved,
			Classification:      "Maior",
			Department:          "Produção",
			EffectivenessRating: "Eficaz",
		})
	}
	for i := 0; i < pending; i++ {
		set = append(set, domain.Record{
			OccurrenceDate: base.AddDate(0, 0, i),
			Status:         domain.StatusPending,
			Classification: "Menor",
			Department:     "Qualidade",
		})
	}
	return set
}

func zipNames(t *testing.T, data []byte) map[string]bool {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make(map[string]bool, len(reader.File))
	for _, f := range reader.File {
		names[f.Name] = true
	}
	return names
}

func TestBuilder_Build_ProducesPresentationPackage(t *testing.T) {
	builder := NewBuilder(Config{}, nil, nil)
	set := sampleRecords(6, 4)

	data, err := builder.Build(context.Background(), set, set, nil)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	names := zipNames(t, data)
	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["ppt/presentation.xml"])
	assert.True(t, names["ppt/slideMasters/slideMaster1.xml"])
	assert.True(t, names["ppt/theme/theme1.xml"])
	for _, slide := range []string{"slide1", "slide2", "slide3", "slide4", "slide5"} {
		assert.True(t, names["ppt/slides/"+slide+".xml"], slide)
	}
}

func TestBuilder_KPISlideAlwaysHasTwoGauges(t *testing.T) {
	builder := NewBuilder(Config{}, nil, nil)

	tests := []struct {
		name string
		set  domain.RecordSet
	}{
		{"mixed statuses", sampleRecords(6, 4)},
		{"single record", sampleRecords(1, 0)},
		{"empty view", domain.RecordSet{}},
		{"large view", sampleRecords(40, 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck, err := builder.buildDeck(context.Background(), tt.set, tt.set, nil)
			require.NoError(t, err)
			require.Len(t, deck.slides, 5)
			assert.Equal(t, 2, deck.slides[1].PictureCount(),
				"KPI slide must render exactly two indicators")
		})
	}
}

func TestBuilder_EmptyViewStillBuilds(t *testing.T) {
	builder := NewBuilder(Config{}, nil, nil)

	data, err := builder.Build(context.Background(), domain.RecordSet{}, sampleRecords(2, 3), nil)
	require.NoError(t, err)

	names := zipNames(t, data)
	assert.True(t, names["ppt/slides/slide5.xml"], "all slides present even with no chart data")
}

func TestBuilder_LogoFailureDegradesGracefully(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	builder := NewBuilder(Config{LogoURL: server.URL + "/logo.png"}, server.Client(), nil)
	set := sampleRecords(3, 1)

	deck, err := builder.buildDeck(context.Background(), set, set, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, deck.slides[0].PictureCount(), "title slide renders without the logo")
}

func TestBuilder_LogoEmbeddedWhenAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		img := image.NewRGBA(image.Rect(0, 0, 30, 10))
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, img)
	}))
	defer server.Close()

	builder := NewBuilder(Config{LogoURL: server.URL + "/logo.png"}, server.Client(), nil)
	set := sampleRecords(3, 1)

	deck, err := builder.buildDeck(context.Background(), set, set, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, deck.slides[0].PictureCount())
}

func TestBuilder_TimestampUsesConfiguredZoneAndFormat(t *testing.T) {
	builder := NewBuilder(Config{Timezone: "America/Sao_Paulo"}, nil, nil)
	builder.now = func() time.Time {
		return time.Date(2024, 8, 15, 18, 30, 0, 0, time.UTC)
	}

	deck, err := builder.buildDeck(context.Background(), sampleRecords(1, 1), sampleRecords(1, 1), nil)
	require.NoError(t, err)

	title := deck.slides[0]
	require.NotEmpty(t, title.texts)
	// 18:30 UTC is 15:30 in São Paulo.
	assert.Contains(t, title.texts[1].text, "Gerado em: 15/08/2024 15:30")
}

func TestRenderPieChart_Empty(t *testing.T) {
	_, err := renderPieChart(nil)
	require.Error(t, err)
}

func TestRenderBarChart_FallbackColor(t *testing.T) {
	groups := []domain.GroupCount{
		{Key: "Produção", Count: 3},
		{Key: "Logística", Count: 2},
	}
	colors := domain.ColorAssignment{"Produção": "#ff0000"}

	data, err := renderBarChart(groups, colors)
	require.NoError(t, err, "departments without an assigned color must fall back, not fail")
	assert.NotEmpty(t, data)
}

func TestRenderGauge_ClampsFraction(t *testing.T) {
	for _, fraction := range []float64{-0.5, 0, 0.6, 1, 2.5} {
		data, err := renderGauge(fraction, pendingColor)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}

func TestHexToColor_Malformed(t *testing.T) {
	fallback := hexToColor(domain.DefaultDepartmentColor)
	assert.Equal(t, fallback, hexToColor("not-a-color"))
	assert.Equal(t, fallback, hexToColor(""))
}

func TestXMLEscape(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt;", xmlEscape(`a & b <c>`))
}
