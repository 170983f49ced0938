// Package catalog loads the item sets available for ranking.
package catalog

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader resolves a ranking-set name into its ordered item names.
type Loader interface {
	// Items returns the ordered, deduplicated item names of a set.
	// Returns ErrSetNotFound for unknown sets.
	Items(ctx context.Context, set string) ([]string, error)

	// Sets lists the known ranking-set names.
	Sets(ctx context.Context) ([]string, error)
}

// DirLoader reads item sets from a directory of text files, one item
// per line, the file name (without extension) being the set name.
type DirLoader struct {
	dir string
}

// NewDirLoader creates a loader rooted at dir.
func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{dir: dir}
}

// Items implements Loader. Blank lines are dropped and duplicates are
// removed while preserving first-seen order.
func (l *DirLoader) Items(_ context.Context, set string) ([]string, error) {
	if !validSetName(set) {
		return nil, ErrSetNotFound
	}
	f, err := os.Open(filepath.Join(l.dir, set+".txt"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var items []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		items = append(items, name)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Sets implements Loader.
func (l *DirLoader) Sets(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(l.dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	sets := make([]string, 0, len(matches))
	for _, m := range matches {
		sets = append(sets, strings.TrimSuffix(filepath.Base(m), ".txt"))
	}
	sort.Strings(sets)
	return sets, nil
}

// validSetName rejects names that could escape the catalog directory.
func validSetName(set string) bool {
	if set == "" || set == "." || set == ".." {
		return false
	}
	return !strings.ContainsAny(set, `/\`)
}
