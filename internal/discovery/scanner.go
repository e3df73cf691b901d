package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"jtl/internal/domain"
)

// Scanner discovers test files under a root directory
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Discover expands pattern against the filesystem rooted at rootDir and
// returns the matching files as absolute paths plus their derived name
// (base name without extension). No matches is not an error. The result
// is sorted for determinism; callers must not rely on any particular
// order across platforms.
func (s *Scanner) Discover(pattern, rootDir string) ([]domain.TestFile, error) {
	rootDir = filepath.Clean(rootDir)
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", rootDir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", rootDir)
	}

	matches, err := doublestar.Glob(os.DirFS(rootDir), pattern)
	if err != nil {
		return nil, fmt.Errorf("expand pattern %q: %w", pattern, err)
	}

	var files []domain.TestFile
	for _, match := range matches {
		if s.ignored(match) {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(rootDir, filepath.FromSlash(match)))
		if err != nil {
			return nil, err
		}
		files = append(files, domain.TestFile{
			FileName: abs,
			Name:     baseName(abs),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].FileName < files[j].FileName })
	return files, nil
}

// ignored reports whether a slash-separated match sits under a hidden
// or explicitly skipped directory.
func (s *Scanner) ignored(match string) bool {
	parts := strings.Split(match, "/")
	for _, part := range parts[:len(parts)-1] {
		if strings.HasPrefix(part, ".") || s.skipDirs[part] {
			return true
		}
	}
	return false
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
