package models

import "time"

// Thumbnail is the gallery cover image. It shares the codec with pictures but
// never goes through the async pipeline.
type Thumbnail struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	GalleryID    uint      `gorm:"uniqueIndex;not null" json:"gallery_id"`
	Filename     string    `gorm:"type:varchar(255);not null" json:"filename"`
	OriginalName string    `gorm:"type:text" json:"original_name"`
	Type         string    `gorm:"type:varchar(10)" json:"type"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
