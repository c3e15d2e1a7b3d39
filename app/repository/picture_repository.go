package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/galeria-app/galeria/app/models"
)

type pictureRepository struct {
	db *gorm.DB
}

// NewPictureRepository creates a new picture repository instance.
func NewPictureRepository(db *gorm.DB) PictureRepository {
	return &pictureRepository{db: db}
}

func (r *pictureRepository) Create(picture *models.Picture) error {
	return r.db.Create(picture).Error
}

func (r *pictureRepository) GetByID(id uint) (*models.Picture, error) {
	var picture models.Picture
	if err := r.db.First(&picture, id).Error; err != nil {
		return nil, err
	}
	return &picture, nil
}

func (r *pictureRepository) FindByGalleryOrdered(galleryID uint) ([]models.Picture, error) {
	var pictures []models.Picture
	err := r.db.Where("gallery_id = ?", galleryID).
		Order("position ASC").Find(&pictures).Error
	return pictures, err
}

func (r *pictureRepository) FindByGalleryPaginated(galleryID uint, offset, limit int) ([]models.Picture, error) {
	var pictures []models.Picture
	err := r.db.Where("gallery_id = ?", galleryID).
		Order("position ASC").Offset(offset).Limit(limit).Find(&pictures).Error
	return pictures, err
}

func (r *pictureRepository) CountByGallery(galleryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Picture{}).Where("gallery_id = ?", galleryID).Count(&count).Error
	return count, err
}

func (r *pictureRepository) CountByStatus(status models.PictureStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Picture{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// FindOrderedByIDs preserves the caller's id sequence via a CASE expression,
// so the result order reflects the submitted list rather than the primary key.
func (r *pictureRepository) FindOrderedByIDs(ids []uint, statuses []models.PictureStatus) ([]models.Picture, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var order strings.Builder
	order.WriteString("CASE id")
	for i, id := range ids {
		fmt.Fprintf(&order, " WHEN %d THEN %d", id, i)
	}
	order.WriteString(" END")

	query := r.db.Where("id IN ?", ids)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var pictures []models.Picture
	err := query.Order(order.String()).Find(&pictures).Error
	return pictures, err
}

func (r *pictureRepository) FindUnattachedByUser(userID uint) ([]models.Picture, error) {
	var pictures []models.Picture
	err := r.db.Where("created_by_id = ?", userID).
		Where("gallery_id IS NULL").
		Where("status <> ?", models.PictureStatusAttached).
		Order("id ASC").
		Find(&pictures).Error
	return pictures, err
}

func (r *pictureRepository) Update(picture *models.Picture) error {
	return r.db.Save(picture).Error
}

// MarkReady reports gorm.ErrRecordNotFound when the row vanished in the
// meantime, so the caller can clean up the variants it just wrote.
func (r *pictureRepository) MarkReady(id uint, lightboxURL, thumbnailURL string) error {
	res := r.db.Model(&models.Picture{}).Where("id = ?", id).Updates(map[string]interface{}{
		"lightbox_path":  lightboxURL,
		"thumbnail_path": thumbnailURL,
		"temp_path":      nil,
		"status":         models.PictureStatusReady,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *pictureRepository) Delete(id uint) error {
	return r.db.Delete(&models.Picture{}, id).Error
}
