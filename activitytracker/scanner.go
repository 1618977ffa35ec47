package activitytracker

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/prolific-dev/prolific/activitytracker/models"
)

// defaultExcludeGlobs are always applied on top of user patterns (privacy and
// performance: version control metadata, caches, dependency/build output).
var defaultExcludeGlobs = []string{
	".git/",
	".hg/",
	".svn/",
	".idea/",
	".vscode/",
	"__pycache__/",
	".venv/",
	"venv/",
	"node_modules/",
	"dist/",
	"build/",
}

// ScanOptions controls one metadata scan.
type ScanOptions struct {
	ExcludeGlobs []string
	MaxDepth     int // 0 means unlimited
}

// isExcluded matches a posix-style root-relative path against exclusion
// patterns. A pattern ending in "/" matches the directory itself and anything
// beneath it, at any depth. Patterns without a separator are also tried
// against the entry's base name.
func isExcluded(relPosix string, patterns []string) bool {
	for _, pat := range patterns {
		if pat == "" {
			continue
		}
		if strings.HasSuffix(pat, "/") {
			p := strings.TrimSuffix(pat, "/")
			for _, expanded := range []string{p, "**/" + p, p + "/**", "**/" + p + "/**"} {
				if ok, err := doublestar.Match(expanded, relPosix); err == nil && ok {
					return true
				}
			}
			continue
		}
		if ok, err := doublestar.Match(pat, relPosix); err == nil && ok {
			return true
		}
		if !strings.Contains(pat, "/") {
			if ok, err := doublestar.Match(pat, path.Base(relPosix)); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// ScanFolderMetadataOnly walks root top-down and builds a flat metadata map
// keyed by posix-style relative path.
//
// Privacy guarantee: this function never opens or reads file contents. The
// only filesystem operations are directory listing and lstat.
func ScanFolderMetadataOnly(root string, opts ScanOptions) (models.ScanResult, error) {
	resolved, err := filepath.Abs(root)
	if err != nil {
		resolved = root
	}

	excludes := make([]string, 0, len(defaultExcludeGlobs)+len(opts.ExcludeGlobs))
	excludes = append(excludes, defaultExcludeGlobs...)
	excludes = append(excludes, opts.ExcludeGlobs...)

	result := models.ScanResult{
		Root:    resolved,
		Entries: make(map[string]models.FileMeta),
	}

	var walk func(dir string, depth int)
	walk = func(dir string, depth int) {
		if opts.MaxDepth > 0 && depth > opts.MaxDepth {
			return
		}

		children, err := os.ReadDir(dir)
		if err != nil {
			// Permission denied or directory vanished mid-walk: skip, keep going.
			result.Skipped++
			return
		}

		for _, child := range children {
			childPath := filepath.Join(dir, child.Name())

			rel, err := filepath.Rel(resolved, childPath)
			if err != nil {
				result.Skipped++
				continue
			}
			rel = strings.ReplaceAll(rel, "\\", "/")

			if isExcluded(rel, excludes) {
				// Excluded directories are pruned, never descended into.
				continue
			}

			// Lstat so symlinks are recorded as themselves, never followed.
			info, err := os.Lstat(childPath)
			if err != nil {
				result.Skipped++
				continue
			}

			isDir := info.IsDir()
			ext := ""
			var size int64
			if !isDir {
				ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(child.Name()), "."))
				size = info.Size()
			}

			result.Entries[rel] = models.FileMeta{
				RelPath:   rel,
				IsDir:     isDir,
				SizeBytes: size,
				MtimeNs:   info.ModTime().UnixNano(),
				Ext:       ext,
			}

			if isDir {
				walk(childPath, depth+1)
			}
		}
	}

	walk(resolved, 0)
	return result, nil
}
