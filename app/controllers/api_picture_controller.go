package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/galeria-app/galeria/internal/pkg/picture"
	"github.com/galeria-app/galeria/internal/pkg/usercontext"
)

// HandleUploadPicture receives one image from the multipart field "file",
// stores it and schedules processing. The response carries the picture id so
// the client can poll its status while the variants are generated.
func HandleUploadPicture(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "aucun fichier reçu"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		fiberlog.Errorf("[API] Failed to open upload %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lecture du fichier impossible"})
	}
	defer file.Close()

	pic, err := svc.Pictures.Ingest(file, fileHeader.Filename, fileHeader.Size, usercontext.GetUserID(c))
	if err != nil {
		var verr *picture.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Message})
		}
		var derr *picture.DispatchError
		if errors.As(err, &derr) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "le traitement de l'image est indisponible, réessayez plus tard"})
		}
		fiberlog.Errorf("[API] Upload failed for %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "échec de l'envoi"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"id":            pic.ID,
		"status":        pic.Status,
		"original_name": pic.OriginalName,
	})
}

// HandlePictureStatus reports processing progress for one picture.
func HandlePictureStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}

	pic, err := svc.Repos.Picture.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image introuvable"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "erreur interne"})
	}

	resp := fiber.Map{"id": pic.ID, "status": pic.Status}
	if pic.ThumbnailPath != nil {
		resp["thumbnail_path"] = *pic.ThumbnailPath
	}
	return c.JSON(resp)
}

// HandleDeletePicture removes a picture, its files first.
func HandleDeletePicture(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}

	pic, err := svc.Repos.Picture.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image introuvable"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "erreur interne"})
	}

	if err := svc.Pictures.DeletePicture(pic); err != nil {
		fiberlog.Errorf("[API] Failed to delete picture %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "échec de la suppression"})
	}

	return c.JSON(fiber.Map{"success": true})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
