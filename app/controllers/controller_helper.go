package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/galeria-app/galeria/app/models"
	"github.com/galeria-app/galeria/app/repository"
	"github.com/galeria-app/galeria/internal/pkg/gallery"
	"github.com/galeria-app/galeria/internal/pkg/picture"
	"github.com/galeria-app/galeria/internal/pkg/storage"
	"github.com/galeria-app/galeria/internal/pkg/thumbnail"
)

// Services bundles everything the handlers depend on.
type Services struct {
	Repos      *repository.Repositories
	Pictures   *picture.Service
	Galleries  *gallery.Service
	Thumbnails *thumbnail.Service
	Paths      storage.Paths
}

var (
	svc      *Services
	validate = validator.New()
)

// Setup wires the handler dependencies. Must be called before any route is
// registered.
func Setup(services *Services) {
	svc = services
}

func coverURL(thumb *models.Thumbnail) string {
	return svc.Paths.CoverURL(thumb.Filename)
}

func pictureJSON(p *models.Picture) fiber.Map {
	item := fiber.Map{
		"id":            p.ID,
		"original_name": p.OriginalName,
		"position":      p.Position,
		"status":        p.Status,
	}
	if p.LightboxPath != nil {
		item["lightbox_path"] = *p.LightboxPath
	}
	if p.ThumbnailPath != nil {
		item["thumbnail_path"] = *p.ThumbnailPath
	}
	return item
}
