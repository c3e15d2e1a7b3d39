package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/galeria-app/galeria/app/controllers"
	"github.com/galeria-app/galeria/internal/pkg/middleware"
	"github.com/galeria-app/galeria/internal/pkg/upload"
)

// JSONErrorHandler renders every unhandled error in the API's JSON error
// shape. A body above the transport limit gets the same message as the
// validation ceiling, so oversized uploads always produce the structured
// size error no matter where they are rejected.
func JSONErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "erreur interne"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			message = fe.Message
		}
	}
	if code == fiber.StatusRequestEntityTooLarge {
		message = upload.ErrTooLarge.Error()
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}

// InstallRouter registers every route. The uploads root is exposed as static
// content so processed variants are served straight from disk.
func InstallRouter(app *fiber.App, uploadsRoot string) {
	app.Use(middleware.UserContext())
	app.Static("/uploads", uploadsRoot)

	registerPublicRoutes(app)
	registerAdminRoutes(app)
}

func registerPublicRoutes(app *fiber.App) {
	api := app.Group("/api", limiter.New())

	api.Get("/galleries", controllers.HandleGalleries)
	api.Get("/galleries/:id", controllers.HandleGallery)
	api.Get("/galleries/:id/pictures", controllers.HandleGalleryPictures)
}

func registerAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin/api", middleware.RequireAdmin())

	// Picture ingestion and lifecycle
	admin.Post("/pictures", controllers.HandleUploadPicture)
	admin.Get("/pictures/:id/status", controllers.HandlePictureStatus)
	admin.Delete("/pictures/:id", controllers.HandleDeletePicture)

	// Gallery management
	admin.Get("/galleries", controllers.HandleAdminGalleries)
	admin.Post("/galleries", controllers.HandleAdminCreateGallery)
	admin.Get("/galleries/:id", controllers.HandleAdminGetGallery)
	admin.Put("/galleries/:id", controllers.HandleAdminUpdateGallery)
	admin.Delete("/galleries/:id", controllers.HandleAdminDeleteGallery)
	admin.Post("/galleries/:id/reset-token", controllers.HandleAdminResetGalleryToken)
}
