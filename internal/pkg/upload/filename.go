package upload

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// maxSlugLen bounds the slugified base name; client-supplied names can be
// arbitrarily long.
const maxSlugLen = 100

// UniqueFilename builds a collision-resistant stored filename from the
// client-supplied name: slugified base, uniqueness suffix, normalized
// extension.
func UniqueFilename(originalName, ext string) string {
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))

	safe := slug.Make(base)
	if len(safe) > maxSlugLen {
		safe = safe[:maxSlugLen]
	}
	if safe == "" {
		safe = "picture"
	}

	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return safe + "-" + suffix + "." + strings.ToLower(ext)
}
