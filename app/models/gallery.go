package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"gorm.io/gorm"
)

type Gallery struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title" validate:"required,max=255"`
	Description string `gorm:"type:text" json:"description"`
	// Visibility true means public; private galleries are reachable only with
	// the access token.
	Token      string     `gorm:"type:varchar(64);not null" json:"-"`
	Visibility bool       `gorm:"default:true" json:"visibility"`
	Thumbnail  *Thumbnail `gorm:"foreignKey:GalleryID;constraint:OnDelete:CASCADE" json:"thumbnail,omitempty"`
	Pictures   []Picture  `gorm:"foreignKey:GalleryID;constraint:OnDelete:CASCADE" json:"pictures,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate generates the access token. Every gallery carries one so that
// flipping visibility to private never leaves a tokenless gallery.
func (g *Gallery) BeforeCreate(tx *gorm.DB) error {
	if g.Token == "" {
		g.Token = GenerateGalleryToken()
	}
	return nil
}

// GenerateGalleryToken returns a fresh 32-byte random token, hex encoded.
func GenerateGalleryToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
