package models

import (
	"time"

	"gorm.io/gorm"
)

// PictureStatus is the lifecycle state of a picture. The pipeline is linear:
// processing -> ready -> attached. A picture that never reaches attached is
// reclaimed by the orphan sweep.
type PictureStatus string

const (
	PictureStatusProcessing PictureStatus = "processing"
	PictureStatusReady      PictureStatus = "ready"
	PictureStatusAttached   PictureStatus = "attached"
)

type Picture struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Filename     string        `gorm:"type:varchar(255);not null" json:"filename"`
	OriginalName string        `gorm:"type:text" json:"original_name"`
	Type         string        `gorm:"type:varchar(10)" json:"type"`
	Status       PictureStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	Position     int           `gorm:"default:0" json:"position"`
	GalleryID    *uint         `gorm:"index" json:"gallery_id"`
	Gallery      *Gallery      `gorm:"foreignKey:GalleryID" json:"-"`
	CreatedByID  *uint         `gorm:"index" json:"-"`
	CreatedBy    *User         `gorm:"foreignKey:CreatedByID" json:"-"`
	// TempPath holds the original upload while status is processing; it is
	// cleared when the lightbox/thumbnail paths are set.
	TempPath      *string   `gorm:"type:varchar(255)" json:"-"`
	LightboxPath  *string   `gorm:"type:varchar(255)" json:"lightbox_path"`
	ThumbnailPath *string   `gorm:"type:varchar(255)" json:"thumbnail_path"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BeforeCreate defaults a fresh picture into the processing state.
func (p *Picture) BeforeCreate(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = PictureStatusProcessing
	}
	return nil
}

// IsAttached reports whether the picture is bound into a gallery.
func (p *Picture) IsAttached() bool {
	return p.Status == PictureStatusAttached
}
