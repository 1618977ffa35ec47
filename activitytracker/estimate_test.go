package activitytracker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prolific-dev/prolific/activitytracker/models"
)

func TestLanguageFromExt(t *testing.T) {
	lang, ok := LanguageFromExt("py")
	assert.True(t, ok)
	assert.Equal(t, "Python", lang)

	lang, ok = LanguageFromExt("TSX")
	assert.True(t, ok)
	assert.Equal(t, "TypeScript", lang)

	_, ok = LanguageFromExt("png")
	assert.False(t, ok)

	_, ok = LanguageFromExt("")
	assert.False(t, ok)
}

func TestEstimateLoc_PositiveDelta(t *testing.T) {
	est := EstimateLocFromLanguageDeltas(
		map[string]int64{"Python": 400},
		map[string]int{"Python": 40},
	)
	assert.Equal(t, 10, est.NetLoc)
	assert.Equal(t, 10, est.ChurnLoc)
}

func TestEstimateLoc_NegativeDelta(t *testing.T) {
	est := EstimateLocFromLanguageDeltas(
		map[string]int64{"Python": -400},
		map[string]int{"Python": 40},
	)
	assert.Equal(t, -10, est.NetLoc)
	assert.Equal(t, 10, est.ChurnLoc)
}

// Languages with missing or non-positive calibration are skipped entirely.
func TestEstimateLoc_SkipsUncalibratedLanguages(t *testing.T) {
	est := EstimateLocFromLanguageDeltas(
		map[string]int64{"Python": 400, "Go": 3800, "Rust": 1000},
		map[string]int{"Python": 40, "Rust": 0, "Go": -1},
	)
	assert.Equal(t, 10, est.NetLoc)
	assert.Equal(t, 10, est.ChurnLoc)
}

func TestEstimateLoc_MixedSignsAccumulate(t *testing.T) {
	est := EstimateLocFromLanguageDeltas(
		map[string]int64{"Python": 400, "Go": -380},
		map[string]int{"Python": 40, "Go": 38},
	)
	assert.Equal(t, 0, est.NetLoc)
	assert.Equal(t, 20, est.ChurnLoc)
}

func TestBuildActivitySummary(t *testing.T) {
	diff := models.DiffAggregates{
		Counts:             models.DiffCounts{FilesAdded: 2, FilesModified: 1},
		LanguageDeltaBytes: map[string]int64{"TypeScript": 76, "Python": 68, "elm": 10},
		UnknownDeltaBytes:  -5,
		TotalDeltaBytes:    149,
	}
	bpl := map[string]int{"Python": 34, "TypeScript": 38}

	summary := BuildActivitySummary(diff, bpl)

	assert.Equal(t, diff.Counts, summary.Counts)
	assert.Equal(t, int64(149), summary.TotalDeltaBytes)
	assert.Equal(t, int64(-5), summary.UnknownDeltaBytes)
	assert.Equal(t, 4, summary.NetLoc)
	assert.Equal(t, 4, summary.ChurnLoc)

	// Sorted case-insensitively by language name.
	assert.Equal(t, []string{"elm", "Python", "TypeScript"}, []string{
		summary.Languages[0].Language,
		summary.Languages[1].Language,
		summary.Languages[2].Language,
	})

	// Per-language estimate is zero for uncalibrated languages.
	for _, lang := range summary.Languages {
		switch lang.Language {
		case "Python":
			assert.Equal(t, 2, lang.EstimatedLocDelta)
		case "TypeScript":
			assert.Equal(t, 2, lang.EstimatedLocDelta)
		case "elm":
			assert.Equal(t, 0, lang.EstimatedLocDelta)
		}
	}
}
