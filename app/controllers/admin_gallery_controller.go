package controllers

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/galeria-app/galeria/app/models"
	"github.com/galeria-app/galeria/internal/pkg/picture"
	"github.com/galeria-app/galeria/internal/pkg/usercontext"
)

// galleryForm carries the admin create/update form fields. picture_ids is the
// comma-separated id list produced by the drag-and-drop ordering widget.
type galleryForm struct {
	Title       string `form:"title" validate:"required,max=255"`
	Description string `form:"description"`
	Visibility  bool   `form:"visibility"`
	PictureIDs  string `form:"picture_ids"`
}

// HandleAdminGalleries lists all galleries with their picture counts. Entering
// the admin index also sweeps the pictures the admin uploaded but never
// attached anywhere.
func HandleAdminGalleries(c *fiber.Ctx) error {
	removed, err := svc.Pictures.ReconcileOrphans(usercontext.GetUserID(c))
	if err != nil {
		fiberlog.Errorf("[Admin] Orphan sweep failed: %v", err)
	}

	galleries, err := svc.Repos.Gallery.FindAllWithCounts()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "erreur interne"})
	}

	items := make([]fiber.Map, 0, len(galleries))
	for _, g := range galleries {
		item := fiber.Map{
			"id":            g.Gallery.ID,
			"title":         g.Gallery.Title,
			"visibility":    g.Gallery.Visibility,
			"picture_count": g.PictureCount,
			"share_url":     svc.Galleries.ShareURL(&g.Gallery),
		}
		if g.Gallery.Thumbnail != nil {
			item["thumbnail_url"] = coverURL(g.Gallery.Thumbnail)
		}
		items = append(items, item)
	}

	return c.JSON(fiber.Map{"galleries": items, "orphans_removed": removed})
}

// HandleAdminGetGallery returns one gallery with its ordered pictures, for the
// edit form.
func HandleAdminGetGallery(c *fiber.Ctx) error {
	g, status, err := loadGallery(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	pictures := make([]fiber.Map, 0, len(g.Pictures))
	for _, p := range g.Pictures {
		pictures = append(pictures, pictureJSON(&p))
	}

	resp := fiber.Map{
		"id":          g.ID,
		"title":       g.Title,
		"description": g.Description,
		"visibility":  g.Visibility,
		"share_url":   svc.Galleries.ShareURL(g),
		"pictures":    pictures,
	}
	if g.Thumbnail != nil {
		resp["thumbnail_url"] = coverURL(g.Thumbnail)
	}
	return c.JSON(resp)
}

// HandleAdminCreateGallery creates a gallery from the multipart form and
// attaches the submitted pictures.
func HandleAdminCreateGallery(c *fiber.Ctx) error {
	form, fileHeader, err := parseGalleryForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	g := &models.Gallery{
		Title:       form.Title,
		Description: form.Description,
		Visibility:  form.Visibility,
	}
	if err := svc.Repos.Gallery.Create(g); err != nil {
		fiberlog.Errorf("[Admin] Failed to create gallery: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "échec de la création"})
	}

	if err := saveGalleryExtras(c, g, form, fileHeader); err != nil {
		return err
	}

	fiberlog.Infof("[Admin] Gallery %d created", g.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"id":        g.ID,
		"share_url": svc.Galleries.ShareURL(g),
	})
}

// HandleAdminUpdateGallery updates a gallery and re-derives the picture order
// from the submitted list.
func HandleAdminUpdateGallery(c *fiber.Ctx) error {
	g, status, err := loadGallery(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	form, fileHeader, err := parseGalleryForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	g.Title = form.Title
	g.Description = form.Description
	g.Visibility = form.Visibility
	if err := svc.Repos.Gallery.Update(g); err != nil {
		fiberlog.Errorf("[Admin] Failed to update gallery %d: %v", g.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "échec de la mise à jour"})
	}

	if err := saveGalleryExtras(c, g, form, fileHeader); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"id":        g.ID,
		"share_url": svc.Galleries.ShareURL(g),
	})
}

// HandleAdminDeleteGallery removes a gallery, its cover and all its pictures.
func HandleAdminDeleteGallery(c *fiber.Ctx) error {
	g, status, err := loadGallery(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	if err := svc.Pictures.DeleteGallery(g); err != nil {
		fiberlog.Errorf("[Admin] Failed to delete gallery %d: %v", g.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "échec de la suppression"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// HandleAdminResetGalleryToken rotates the access token, breaking every link
// shared so far for a private gallery.
func HandleAdminResetGalleryToken(c *fiber.Ctx) error {
	g, status, err := loadGallery(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	if err := svc.Galleries.ResetToken(g); err != nil {
		fiberlog.Errorf("[Admin] Failed to reset token for gallery %d: %v", g.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "échec de la régénération du lien"})
	}

	return c.JSON(fiber.Map{"success": true, "url": svc.Galleries.ShareURL(g)})
}

func parseGalleryForm(c *fiber.Ctx) (*galleryForm, *multipart.FileHeader, error) {
	var form galleryForm
	if err := c.BodyParser(&form); err != nil {
		return nil, nil, errors.New("formulaire invalide")
	}
	if err := validate.Struct(&form); err != nil {
		return nil, nil, errors.New("le titre est obligatoire (255 caractères max)")
	}

	// cover upload is optional
	fileHeader, err := c.FormFile("thumbnail")
	if err != nil {
		fileHeader = nil
	}
	return &form, fileHeader, nil
}

// saveGalleryExtras attaches the submitted pictures and replaces the cover
// when one was uploaded. Writes the error response itself.
func saveGalleryExtras(c *fiber.Ctx, g *models.Gallery, form *galleryForm, fileHeader *multipart.FileHeader) error {
	if err := svc.Pictures.AttachSubmitted(g, form.PictureIDs); err != nil {
		fiberlog.Errorf("[Admin] Failed to attach pictures to gallery %d: %v", g.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "échec de l'association des images"})
	}

	if fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lecture de la couverture impossible"})
		}
		defer file.Close()

		if err := svc.Thumbnails.Replace(g, file, fileHeader.Filename, fileHeader.Size); err != nil {
			var verr *picture.ValidationError
			if errors.As(err, &verr) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Message})
			}
			fiberlog.Errorf("[Admin] Failed to replace cover for gallery %d: %v", g.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "échec de l'enregistrement de la couverture"})
		}
	}
	return nil
}

func loadGallery(c *fiber.Ctx) (*models.Gallery, int, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, fiber.StatusBadRequest, errors.New("identifiant invalide")
	}

	g, err := svc.Repos.Gallery.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.StatusNotFound, errors.New("galerie introuvable")
	}
	if err != nil {
		return nil, fiber.StatusInternalServerError, errors.New("erreur interne")
	}
	return g, fiber.StatusOK, nil
}
