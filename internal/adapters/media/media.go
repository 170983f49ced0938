// Package media resolves presentation images for items. Lookups only
// decorate pairs before they reach the caller; they never affect rating
// math or pair selection.
package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Lookup resolves an item's image URL, if one exists.
type Lookup interface {
	ImageFor(ctx context.Context, set, item string) (string, bool)
}

// imageExtensions lists the file extensions probed, in order.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// DirLookup probes <dir>/<set>/<item>.<ext> and maps hits to URLs under
// a prefix, e.g. /media/<set>/<item>.jpg.
type DirLookup struct {
	dir       string
	urlPrefix string
}

// NewDirLookup creates a lookup rooted at dir serving URLs under prefix.
func NewDirLookup(dir, urlPrefix string) *DirLookup {
	return &DirLookup{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

// Dir returns the lookup's root directory, for static file serving.
func (l *DirLookup) Dir() string {
	return l.dir
}

// ImageFor implements Lookup.
func (l *DirLookup) ImageFor(_ context.Context, set, item string) (string, bool) {
	if strings.ContainsAny(set, `/\`) || strings.ContainsAny(item, `/\`) {
		return "", false
	}
	for _, ext := range imageExtensions {
		if _, err := os.Stat(filepath.Join(l.dir, set, item+ext)); err == nil {
			return l.urlPrefix + "/" + set + "/" + item + ext, true
		}
	}
	return "", false
}

// Noop is a Lookup that never finds an image.
type Noop struct{}

// ImageFor implements Lookup.
func (Noop) ImageFor(context.Context, string, string) (string, bool) {
	return "", false
}
