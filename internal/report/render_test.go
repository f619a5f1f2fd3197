package report

import (
	"strings"
	"testing"
	"time"

	"daybrief/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMorning(t *testing.T) {
	r := model.Report{
		Type:        model.ReportMorning,
		Date:        "2024-05-01",
		GeneratedAt: time.Date(2024, 5, 1, 7, 5, 0, 0, time.UTC),
		Categories: map[string][]model.Article{
			"technology": {{Title: "Chips", URL: "https://t.example/1", Source: "IT之家"}},
			"domestic":   {{Title: "Rain", URL: "https://d.example/1", Source: "新华网"}},
		},
		Failures: map[string]string{"sports": "timeout"},
	}
	out, err := Render(r, []string{"domestic", "technology", "sports"})
	require.NoError(t, err)

	assert.Contains(t, out, "# Morning briefing 2024-05-01")
	assert.Contains(t, out, "_Generated 2024-05-01 07:05_")
	assert.Contains(t, out, "- [Rain](https://d.example/1) · 新华网")
	assert.Contains(t, out, "## Unavailable")
	assert.Contains(t, out, "- sports: timeout")
	assert.Less(t, strings.Index(out, "## Domestic"), strings.Index(out, "## Technology"))
}

func TestRenderEvening(t *testing.T) {
	r := model.Report{
		Type:      model.ReportEvening,
		Date:      "2024-05-01",
		Headlines: []model.Article{{Title: "Top", URL: "https://x.example", Source: "AP", Description: "Details"}},
		Summary:   "A calm day.",
	}
	out, err := Render(r, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "# Evening briefing 2024-05-01")
	assert.Contains(t, out, "A calm day.")
	assert.Contains(t, out, "## Headlines")
	assert.Contains(t, out, "  Details")
	assert.NotContains(t, out, "Unavailable")
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	r := model.Report{
		Type:        model.ReportEvening,
		Date:        "2024-05-01",
		GeneratedAt: time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC),
		Headlines:   []model.Article{{Title: "Top", URL: "https://x.example", Source: "AP"}},
	}

	ok, err := Archived(dir, model.ReportEvening, "2024-05-01")
	require.NoError(t, err)
	assert.False(t, ok)

	path, err := Archive(dir, r, nil)
	require.NoError(t, err)
	assert.Equal(t, ArchivePath(dir, model.ReportEvening, "2024-05-01"), path)

	ok, err = Archived(dir, model.ReportEvening, "2024-05-01")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Archived(dir, model.ReportMorning, "2024-05-01")
	require.NoError(t, err)
	assert.False(t, ok)
}
