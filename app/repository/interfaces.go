package repository

import (
	"gorm.io/gorm"

	"github.com/galeria-app/galeria/app/models"
)

// PictureRepository defines the persistence surface for pictures. It owns the
// status field: every transition goes through here.
type PictureRepository interface {
	Create(picture *models.Picture) error
	GetByID(id uint) (*models.Picture, error)
	FindByGalleryOrdered(galleryID uint) ([]models.Picture, error)
	FindByGalleryPaginated(galleryID uint, offset, limit int) ([]models.Picture, error)
	CountByGallery(galleryID uint) (int64, error)
	CountByStatus(status models.PictureStatus) (int64, error)
	// FindOrderedByIDs returns the pictures whose ids are in ids, filtered to
	// the given statuses, in the exact order of the input slice.
	FindOrderedByIDs(ids []uint, statuses []models.PictureStatus) ([]models.Picture, error)
	FindUnattachedByUser(userID uint) ([]models.Picture, error)
	Update(picture *models.Picture) error
	// MarkReady performs the processing->ready transition: final paths set,
	// temp path cleared.
	MarkReady(id uint, lightboxURL, thumbnailURL string) error
	Delete(id uint) error
}

// GalleryRepository defines the persistence surface for galleries and their
// owned thumbnail.
type GalleryRepository interface {
	Create(gallery *models.Gallery) error
	GetByID(id uint) (*models.Gallery, error)
	FindAllWithCounts() ([]GalleryWithCount, error)
	FindVisible() ([]models.Gallery, error)
	Update(gallery *models.Gallery) error
	UpdateToken(id uint, token string) error
	SaveThumbnail(thumbnail *models.Thumbnail) error
	// Delete removes the gallery row together with its pictures and thumbnail
	// rows in one transaction. File cleanup is the caller's job and must
	// happen before this.
	Delete(id uint) error
	Count() (int64, error)
}

// GalleryWithCount pairs a gallery with its attached picture count for the
// admin listing.
type GalleryWithCount struct {
	Gallery      models.Gallery
	PictureCount int64
}

// Repositories holds all repository instances.
type Repositories struct {
	Picture PictureRepository
	Gallery GalleryRepository
}

// NewRepositories creates all repositories on one database handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Picture: NewPictureRepository(db),
		Gallery: NewGalleryRepository(db),
	}
}
