package activitytracker

import (
	"github.com/prolific-dev/prolific/activitytracker/models"
)

// ComputeDiff compares two snapshots and aggregates typed counts plus signed
// byte deltas per language. A nil old snapshot is treated as an empty entry
// set, so everything in new counts as added.
//
// Identity is path-based only: a rename is observed as an independent
// delete-plus-add, and a file<->directory type flip on the same path counts as
// one removal of the old type plus one addition of the new type. This is a
// deliberate simplification, not a bug.
func ComputeDiff(old *models.Snapshot, new models.Snapshot) models.DiffAggregates {
	oldEntries := map[string]models.FileMeta{}
	if old != nil {
		oldEntries = old.Entries
	}
	newEntries := new.Entries

	agg := models.DiffAggregates{
		LanguageDeltaBytes: make(map[string]int64),
	}

	accumulate := func(ext string, delta int64, asset *int) {
		agg.TotalDeltaBytes += delta
		if lang, ok := LanguageFromExt(ext); ok {
			agg.LanguageDeltaBytes[lang] += delta
		} else {
			*asset++
			agg.UnknownDeltaBytes += delta
		}
	}

	for rel, meta := range newEntries {
		if _, ok := oldEntries[rel]; ok {
			continue
		}
		if meta.IsDir {
			agg.Counts.FoldersAdded++
			continue
		}
		agg.Counts.FilesAdded++
		accumulate(meta.Ext, meta.SizeBytes, &agg.Counts.AssetsAdded)
	}

	for rel, meta := range oldEntries {
		if _, ok := newEntries[rel]; ok {
			continue
		}
		if meta.IsDir {
			agg.Counts.FoldersRemoved++
			continue
		}
		agg.Counts.FilesRemoved++
		accumulate(meta.Ext, -meta.SizeBytes, &agg.Counts.AssetsRemoved)
	}

	for rel, oldMeta := range oldEntries {
		newMeta, ok := newEntries[rel]
		if !ok {
			continue
		}

		// Type flip: one removal of the old type plus one addition of the new
		// type. No rename correlation is attempted.
		if oldMeta.IsDir != newMeta.IsDir {
			if oldMeta.IsDir {
				agg.Counts.FoldersRemoved++
				agg.Counts.FilesAdded++
				agg.TotalDeltaBytes += newMeta.SizeBytes
			} else {
				agg.Counts.FilesRemoved++
				agg.Counts.FoldersAdded++
				agg.TotalDeltaBytes += -oldMeta.SizeBytes
			}
			continue
		}

		if newMeta.IsDir {
			// Size is not meaningful for directories; mtime is the only signal.
			if newMeta.MtimeNs != oldMeta.MtimeNs {
				agg.Counts.FoldersModified++
			}
			continue
		}

		// A file with identical size but changed mtime still counts as
		// modified, with a zero byte delta.
		if newMeta.SizeBytes != oldMeta.SizeBytes || newMeta.MtimeNs != oldMeta.MtimeNs {
			agg.Counts.FilesModified++
			accumulate(newMeta.Ext, newMeta.SizeBytes-oldMeta.SizeBytes, &agg.Counts.AssetsModified)
		}
	}

	return agg
}

// MergeDiffAggregates sums counts and per-language byte maps element-wise
// across an arbitrary list of diffs. The operation is commutative and
// associative; an empty list yields the all-zero aggregate.
func MergeDiffAggregates(diffs []models.DiffAggregates) models.DiffAggregates {
	merged := models.DiffAggregates{
		LanguageDeltaBytes: make(map[string]int64),
	}

	for _, d := range diffs {
		merged.Counts.FilesAdded += d.Counts.FilesAdded
		merged.Counts.FilesRemoved += d.Counts.FilesRemoved
		merged.Counts.FilesModified += d.Counts.FilesModified
		merged.Counts.FoldersAdded += d.Counts.FoldersAdded
		merged.Counts.FoldersRemoved += d.Counts.FoldersRemoved
		merged.Counts.FoldersModified += d.Counts.FoldersModified
		merged.Counts.AssetsAdded += d.Counts.AssetsAdded
		merged.Counts.AssetsModified += d.Counts.AssetsModified
		merged.Counts.AssetsRemoved += d.Counts.AssetsRemoved

		for lang, delta := range d.LanguageDeltaBytes {
			merged.LanguageDeltaBytes[lang] += delta
		}
		merged.UnknownDeltaBytes += d.UnknownDeltaBytes
		merged.TotalDeltaBytes += d.TotalDeltaBytes
	}

	return merged
}
