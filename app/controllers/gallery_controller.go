package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/galeria-app/galeria/internal/pkg/gallery"
)

// PicturesPerPage is the page size for the public lightbox feed.
const PicturesPerPage = 15

// HandleGalleries lists the publicly visible galleries. Private galleries
// never show up here; they are reachable only through their share link.
func HandleGalleries(c *fiber.Ctx) error {
	galleries, err := svc.Repos.Gallery.FindVisible()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "erreur interne"})
	}

	items := make([]fiber.Map, 0, len(galleries))
	for _, g := range galleries {
		item := fiber.Map{"id": g.ID, "title": g.Title, "description": g.Description}
		if g.Thumbnail != nil {
			item["thumbnail_url"] = coverURL(g.Thumbnail)
		}
		items = append(items, item)
	}

	return c.JSON(fiber.Map{"galleries": items})
}

// HandleGallery returns the metadata of one gallery, gated by the access
// token for private ones.
func HandleGallery(c *fiber.Ctx) error {
	g, status, err := loadGallery(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	if !gallery.CanAccess(g, c.Query("token")) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "accès refusé"})
	}

	count, err := svc.Repos.Picture.CountByGallery(g.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "erreur interne"})
	}

	resp := fiber.Map{
		"id":            g.ID,
		"title":         g.Title,
		"description":   g.Description,
		"picture_count": count,
	}
	if g.Thumbnail != nil {
		resp["thumbnail_url"] = coverURL(g.Thumbnail)
	}
	return c.JSON(resp)
}

// HandleGalleryPictures serves one page of a gallery's pictures in their
// curated order, for infinite scrolling in the lightbox.
func HandleGalleryPictures(c *fiber.Ctx) error {
	g, status, err := loadGallery(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	if !gallery.CanAccess(g, c.Query("token")) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "accès refusé"})
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	pictures, err := svc.Repos.Picture.FindByGalleryPaginated(g.ID, offset, PicturesPerPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "erreur interne"})
	}
	total, err := svc.Repos.Picture.CountByGallery(g.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "erreur interne"})
	}

	items := make([]fiber.Map, 0, len(pictures))
	for _, p := range pictures {
		items = append(items, pictureJSON(&p))
	}

	nextOffset := offset + len(pictures)
	return c.JSON(fiber.Map{
		"pictures":    items,
		"has_more":    int64(nextOffset) < total,
		"next_offset": nextOffset,
	})
}
