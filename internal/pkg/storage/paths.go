package storage

import (
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Paths maps logical picture and thumbnail identities to on-disk locations and
// their public URL equivalents. The public prefix mirrors the upload root:
// <Root>/pictures/2025/08/31/x.jpg is served as <PublicPrefix>/pictures/2025/08/31/x.jpg.
type Paths struct {
	Root         string
	PublicPrefix string
}

func NewPaths(root string) Paths {
	return Paths{Root: root, PublicPrefix: "/uploads"}
}

// TempDir is the transient area holding originals until processing completes.
func (p Paths) TempDir() string {
	return filepath.Join(p.Root, "temp")
}

func (p Paths) TempPath(filename string) string {
	return filepath.Join(p.TempDir(), filename)
}

func (p Paths) TempURL(filename string) string {
	return path.Join(p.PublicPrefix, "temp", filename)
}

// PictureDir returns the date-partitioned destination directory for processed
// variants. Partitioning is by processing time, not upload time.
func (p Paths) PictureDir(t time.Time) string {
	return filepath.Join(p.Root, "pictures", t.Format("2006/01/02"))
}

func (p Paths) PictureURL(t time.Time, filename string) string {
	return path.Join(p.PublicPrefix, "pictures", t.Format("2006/01/02"), filename)
}

// CoverDir holds gallery cover thumbnails, outside the date partition.
func (p Paths) CoverDir() string {
	return filepath.Join(p.Root, "thumbnails")
}

func (p Paths) CoverPath(filename string) string {
	return filepath.Join(p.CoverDir(), filename)
}

func (p Paths) CoverURL(filename string) string {
	return path.Join(p.PublicPrefix, "thumbnails", filename)
}

// Absolute converts a stored public URL back into a filesystem path under Root.
func (p Paths) Absolute(publicURL string) string {
	rel := strings.TrimPrefix(publicURL, p.PublicPrefix)
	rel = strings.TrimPrefix(rel, "/")
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// ThumbName derives the thumbnail variant name from a unique filename by
// inserting a -thumb suffix before the extension.
func ThumbName(filename string) string {
	ext := path.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "-thumb" + ext
}
