package activitytracker

import (
	"math"
	"sort"
	"strings"

	"github.com/prolific-dev/prolific/activitytracker/models"
)

// extToLanguage is the static, closed extension lookup used to classify file
// deltas. Extensions not listed here land in the "unknown" (asset) bucket.
var extToLanguage = map[string]string{
	// Python
	"py":  "Python",
	"pyi": "Python",
	// JS/TS
	"js":  "JavaScript",
	"cjs": "JavaScript",
	"mjs": "JavaScript",
	"jsx": "JavaScript",
	"ts":  "TypeScript",
	"tsx": "TypeScript",
	// Web
	"html": "HTML",
	"htm":  "HTML",
	"css":  "CSS",
	"scss": "CSS",
	"sass": "CSS",
	"less": "CSS",
	// Backend / systems
	"go":   "Go",
	"rs":   "Rust",
	"java": "Java",
	"cs":   "C#",
	"c":    "C",
	"h":    "C",
	"cc":   "C++",
	"cpp":  "C++",
	"cxx":  "C++",
	"hpp":  "C++",
	"hxx":  "C++",
	// Data / scripts
	"sql":  "SQL",
	"sh":   "Shell",
	"bash": "Shell",
	"ps1":  "Shell",
}

// LanguageFromExt maps a lowercase file extension (no dot) to a language name.
func LanguageFromExt(ext string) (string, bool) {
	if ext == "" {
		return "", false
	}
	lang, ok := extToLanguage[strings.ToLower(ext)]
	return lang, ok
}

// EstimateLocFromLanguageDeltas converts byte deltas into approximate line
// counts using a per-language bytes-per-line calibration table. Languages
// absent from the table or with a non-positive calibration are skipped; their
// bytes neither help nor hurt the estimate. The result is explicitly an
// approximation since no file content is ever read.
func EstimateLocFromLanguageDeltas(languageDeltaBytes map[string]int64, bytesPerLoc map[string]int) models.LocEstimates {
	var est models.LocEstimates
	for lang, delta := range languageDeltaBytes {
		bpl := bytesPerLoc[lang]
		if bpl <= 0 {
			continue
		}
		est.NetLoc += int(math.Round(float64(delta) / float64(bpl)))
		est.ChurnLoc += int(math.Round(math.Abs(float64(delta)) / float64(bpl)))
	}
	return est
}

// BuildActivitySummary enriches a merged diff with LOC estimates and a
// per-language breakdown sorted case-insensitively by language name.
func BuildActivitySummary(diff models.DiffAggregates, bytesPerLoc map[string]int) models.ActivitySummary {
	loc := EstimateLocFromLanguageDeltas(diff.LanguageDeltaBytes, bytesPerLoc)

	languages := make([]models.LanguageSummary, 0, len(diff.LanguageDeltaBytes))
	for lang, delta := range diff.LanguageDeltaBytes {
		estimated := 0
		if bpl := bytesPerLoc[lang]; bpl > 0 {
			estimated = int(math.Round(float64(delta) / float64(bpl)))
		}
		languages = append(languages, models.LanguageSummary{
			Language:          lang,
			DeltaBytes:        delta,
			EstimatedLocDelta: estimated,
		})
	}
	sort.Slice(languages, func(i, j int) bool {
		return strings.ToLower(languages[i].Language) < strings.ToLower(languages[j].Language)
	})

	return models.ActivitySummary{
		Counts:            diff.Counts,
		TotalDeltaBytes:   diff.TotalDeltaBytes,
		UnknownDeltaBytes: diff.UnknownDeltaBytes,
		NetLoc:            loc.NetLoc,
		ChurnLoc:          loc.ChurnLoc,
		Languages:         languages,
	}
}
