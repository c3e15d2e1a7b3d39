package repository

import (
	"gorm.io/gorm"

	"github.com/galeria-app/galeria/app/models"
)

type galleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository creates a new gallery repository instance.
func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

func (r *galleryRepository) Create(gallery *models.Gallery) error {
	return r.db.Create(gallery).Error
}

func (r *galleryRepository) GetByID(id uint) (*models.Gallery, error) {
	var gallery models.Gallery
	err := r.db.Preload("Thumbnail").
		Preload("Pictures", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&gallery, id).Error
	if err != nil {
		return nil, err
	}
	return &gallery, nil
}

func (r *galleryRepository) FindAllWithCounts() ([]GalleryWithCount, error) {
	var galleries []models.Gallery
	err := r.db.Preload("Thumbnail").Order("created_at DESC").Find(&galleries).Error
	if err != nil {
		return nil, err
	}

	result := make([]GalleryWithCount, 0, len(galleries))
	for _, g := range galleries {
		var count int64
		if err := r.db.Model(&models.Picture{}).Where("gallery_id = ?", g.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		result = append(result, GalleryWithCount{Gallery: g, PictureCount: count})
	}
	return result, nil
}

func (r *galleryRepository) FindVisible() ([]models.Gallery, error) {
	var galleries []models.Gallery
	err := r.db.Preload("Thumbnail").
		Where("visibility = ?", true).
		Order("created_at DESC").Find(&galleries).Error
	return galleries, err
}

func (r *galleryRepository) Update(gallery *models.Gallery) error {
	return r.db.Save(gallery).Error
}

func (r *galleryRepository) UpdateToken(id uint, token string) error {
	return r.db.Model(&models.Gallery{}).Where("id = ?", id).Update("token", token).Error
}

func (r *galleryRepository) SaveThumbnail(thumbnail *models.Thumbnail) error {
	return r.db.Save(thumbnail).Error
}

// Delete removes child rows before the gallery row. The schema cascade would
// cover this on MySQL; doing it explicitly keeps the same behavior on every
// backend the tests run against.
func (r *galleryRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_id = ?", id).Delete(&models.Picture{}).Error; err != nil {
			return err
		}
		if err := tx.Where("gallery_id = ?", id).Delete(&models.Thumbnail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Gallery{}, id).Error
	})
}

func (r *galleryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Gallery{}).Count(&count).Error
	return count, err
}
