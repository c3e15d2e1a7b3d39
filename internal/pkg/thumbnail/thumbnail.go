package thumbnail

import (
	"errors"
	"io"
	"io/fs"
	"os"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/galeria-app/galeria/app/models"
	"github.com/galeria-app/galeria/app/repository"
	"github.com/galeria-app/galeria/internal/pkg/imageops"
	"github.com/galeria-app/galeria/internal/pkg/picture"
	"github.com/galeria-app/galeria/internal/pkg/storage"
	"github.com/galeria-app/galeria/internal/pkg/upload"
)

// Service maintains the single cover image of a gallery. Covers are processed
// synchronously on save; they do not go through the job queue.
type Service struct {
	galleries repository.GalleryRepository
	paths     storage.Paths
	codec     imageops.Codec
}

func NewService(galleries repository.GalleryRepository, paths storage.Paths, codec imageops.Codec) *Service {
	return &Service{galleries: galleries, paths: paths, codec: codec}
}

// Replace validates the uploaded cover, resizes it and swaps it in for the
// gallery, removing the previous cover file. The 1:1 thumbnail row is updated
// in place when one exists.
func (s *Service) Replace(gallery *models.Gallery, src io.ReadSeeker, originalName string, size int64) error {
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return &picture.StorageError{Op: "read", Path: originalName, Err: err}
	}

	ext, err := upload.ValidateImage(head[:n], size)
	if err != nil {
		return &picture.ValidationError{Message: err.Error()}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return &picture.StorageError{Op: "seek", Path: originalName, Err: err}
	}

	// stage the original so the codec can read it from disk
	staging, err := os.CreateTemp("", "cover-*."+ext)
	if err != nil {
		return &picture.StorageError{Op: "create", Path: "cover staging", Err: err}
	}
	defer os.Remove(staging.Name())
	if _, err := io.Copy(staging, src); err != nil {
		staging.Close()
		return &picture.StorageError{Op: "write", Path: staging.Name(), Err: err}
	}
	if err := staging.Close(); err != nil {
		return &picture.StorageError{Op: "close", Path: staging.Name(), Err: err}
	}

	encoded, err := s.codec.ResizeDownAndEncode(staging.Name(), imageops.CoverWidth, imageops.JPEGQuality)
	if err != nil {
		return err
	}

	filename := upload.UniqueFilename(originalName, ext)
	if err := os.MkdirAll(s.paths.CoverDir(), 0755); err != nil {
		return &picture.StorageError{Op: "mkdir", Path: s.paths.CoverDir(), Err: err}
	}
	dst := s.paths.CoverPath(filename)
	if err := os.WriteFile(dst, encoded, 0644); err != nil {
		return &picture.StorageError{Op: "write", Path: dst, Err: err}
	}

	previous := ""
	if gallery.Thumbnail != nil {
		previous = gallery.Thumbnail.Filename
		gallery.Thumbnail.Filename = filename
		gallery.Thumbnail.OriginalName = originalName
		gallery.Thumbnail.Type = ext
	} else {
		gallery.Thumbnail = &models.Thumbnail{
			GalleryID:    gallery.ID,
			Filename:     filename,
			OriginalName: originalName,
			Type:         ext,
		}
	}

	if err := s.galleries.SaveThumbnail(gallery.Thumbnail); err != nil {
		os.Remove(dst)
		return err
	}

	if previous != "" && previous != filename {
		if err := os.Remove(s.paths.CoverPath(previous)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fiberlog.Errorf("[Thumbnails] Failed to remove previous cover %s: %v", previous, err)
		}
	}

	fiberlog.Infof("[Thumbnails] Cover updated for gallery %d", gallery.ID)
	return nil
}
