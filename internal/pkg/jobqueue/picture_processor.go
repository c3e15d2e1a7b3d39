package jobqueue

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/galeria-app/galeria/app/models"
	"github.com/galeria-app/galeria/app/repository"
	"github.com/galeria-app/galeria/internal/pkg/imageops"
	"github.com/galeria-app/galeria/internal/pkg/storage"
)

// PictureProcessor turns a temp original into the lightbox and thumbnail
// variants and flips the picture to ready. It has no Redis dependency of its
// own so it can run directly in tests.
type PictureProcessor struct {
	pictures repository.PictureRepository
	paths    storage.Paths
	codec    imageops.Codec
}

func NewPictureProcessor(pictures repository.PictureRepository, paths storage.Paths, codec imageops.Codec) *PictureProcessor {
	return &PictureProcessor{pictures: pictures, paths: paths, codec: codec}
}

// Process handles a single picture. A picture that was deleted or already
// processed in the meantime is a no-op, not an error; a decode or write
// failure is returned so the queue can retry.
func (p *PictureProcessor) Process(pictureID uint) error {
	pic, err := p.pictures.GetByID(pictureID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Infof("[PictureProcessor] Picture %d no longer exists, skipping", pictureID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load picture %d: %w", pictureID, err)
	}

	if pic.Status != models.PictureStatusProcessing || pic.TempPath == nil {
		log.Infof("[PictureProcessor] Picture %d is %s, nothing to do", pic.ID, pic.Status)
		return nil
	}

	tempPath := p.paths.Absolute(*pic.TempPath)

	// Partitioned by processing time, not upload time
	now := time.Now()
	destDir := p.paths.PictureDir(now)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	lightbox, err := p.codec.ResizeDownAndEncode(tempPath, imageops.LightboxWidth, imageops.JPEGQuality)
	if err != nil {
		return fmt.Errorf("lightbox variant for picture %d: %w", pic.ID, err)
	}
	thumb, err := p.codec.ResizeDownAndEncode(tempPath, imageops.ThumbnailWidth, imageops.JPEGQuality)
	if err != nil {
		return fmt.Errorf("thumbnail variant for picture %d: %w", pic.ID, err)
	}

	thumbName := storage.ThumbName(pic.Filename)
	if err := os.WriteFile(filepath.Join(destDir, pic.Filename), lightbox, 0644); err != nil {
		return fmt.Errorf("failed to write lightbox for picture %d: %w", pic.ID, err)
	}
	if err := os.WriteFile(filepath.Join(destDir, thumbName), thumb, 0644); err != nil {
		return fmt.Errorf("failed to write thumbnail for picture %d: %w", pic.ID, err)
	}

	lightboxURL := p.paths.PictureURL(now, pic.Filename)
	thumbURL := p.paths.PictureURL(now, thumbName)
	if err := p.pictures.MarkReady(pic.ID, lightboxURL, thumbURL); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// row deleted while the variants were being written; take the
			// freshly written files (and the temp original) back off disk
			log.Infof("[PictureProcessor] Picture %d deleted during processing, discarding variants", pic.ID)
			removeQuietly(filepath.Join(destDir, pic.Filename))
			removeQuietly(filepath.Join(destDir, thumbName))
			removeQuietly(tempPath)
			return nil
		}
		return fmt.Errorf("failed to mark picture %d ready: %w", pic.ID, err)
	}

	// Variants are on disk and the row points at them; a leftover temp file is
	// only disk waste, so failure here is logged, not returned.
	if err := os.Remove(tempPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("[PictureProcessor] Failed to remove temp file for picture %d: %v", pic.ID, err)
	}

	log.Infof("[PictureProcessor] Picture %d ready (%s)", pic.ID, lightboxURL)
	return nil
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("[PictureProcessor] Failed to remove %s: %v", path, err)
	}
}
