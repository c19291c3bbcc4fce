// Package cover locates album art next to songs in the daemon's music
// directory.
package cover

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	baseNames  = []string{"cover", "folder", "album", "front"}
	extensions = []string{".jpg", ".jpeg", ".png", ".webp"}
)

// Find returns the absolute path of the cover image in the directory
// holding file, relative to musicDir. Names are matched without regard
// to case and ranked by baseNames, then extensions.
//
// It returns "" when musicDir is unset, when file is a stream URL or
// leaves musicDir, or when no cover exists.
func Find(musicDir, file string) string {
	if musicDir == "" || file == "" || strings.Contains(file, "://") {
		return ""
	}

	root, err := filepath.Abs(musicDir)
	if err != nil {
		return ""
	}
	track := filepath.Join(root, filepath.FromSlash(file))
	if rel, err := filepath.Rel(root, track); err != nil || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}

	dir := filepath.Dir(track)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	best, bestRank := "", -1
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		r := rank(e.Name())
		if r < 0 {
			continue
		}
		if bestRank < 0 || r < bestRank {
			best, bestRank = e.Name(), r
		}
	}
	if best == "" {
		return ""
	}
	return filepath.Join(dir, best)
}

// rank orders candidate names; lower is better, -1 is not a cover.
func rank(name string) int {
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)
	e := slices.Index(extensions, ext)
	if e < 0 {
		return -1
	}
	b := slices.Index(baseNames, strings.TrimSuffix(lower, ext))
	if b < 0 {
		return -1
	}
	return b*len(extensions) + e
}

// URL returns Find's result as a file:// URL, or "".
func URL(musicDir, file string) string {
	p := Find(musicDir, file)
	if p == "" {
		return ""
	}
	return "file://" + filepath.ToSlash(p)
}
