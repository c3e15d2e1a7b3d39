package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/galeria-app/galeria/app/controllers"
	"github.com/galeria-app/galeria/app/repository"
	"github.com/galeria-app/galeria/internal/pkg/cache"
	"github.com/galeria-app/galeria/internal/pkg/database"
	"github.com/galeria-app/galeria/internal/pkg/env"
	"github.com/galeria-app/galeria/internal/pkg/gallery"
	"github.com/galeria-app/galeria/internal/pkg/imageops"
	"github.com/galeria-app/galeria/internal/pkg/jobqueue"
	"github.com/galeria-app/galeria/internal/pkg/picture"
	"github.com/galeria-app/galeria/internal/pkg/router"
	"github.com/galeria-app/galeria/internal/pkg/storage"
	"github.com/galeria-app/galeria/internal/pkg/thumbnail"
)

func main() {
	app, manager := NewApplication()

	manager.Start()
	defer manager.Stop()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

// NewApplication wires the full stack: database, Redis-backed job queue,
// services and HTTP routes. The returned manager still has to be started.
func NewApplication() (*fiber.App, *jobqueue.Manager) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	uploadsRoot := env.GetEnv("UPLOADS_PATH", "./uploads")
	paths := storage.NewPaths(uploadsRoot)
	codec := imageops.NewCodec()
	repos := repository.NewRepositories(database.GetDB())

	workers, err := strconv.Atoi(env.GetEnv("JOB_WORKERS", "3"))
	if err != nil {
		workers = 3
	}
	processor := jobqueue.NewPictureProcessor(repos.Picture, paths, codec)
	manager := jobqueue.NewManager(jobqueue.NewQueue(workers, processor))

	baseURL := env.GetEnv("APP_URL", "http://localhost:4000")
	controllers.Setup(&controllers.Services{
		Repos:      repos,
		Pictures:   picture.NewService(repos, paths, manager),
		Galleries:  gallery.NewService(repos.Gallery, baseURL),
		Thumbnails: thumbnail.NewService(repos.Gallery, paths, codec),
		Paths:      paths,
	})

	app := fiber.New(fiber.Config{
		// well above the validation ceiling so oversized uploads reach the
		// handler and fail with the structured size error; anything bigger
		// still gets the same message via the error handler
		BodyLimit:    100 << 20,
		ErrorHandler: router.JSONErrorHandler,
	})
	app.Use(recover.New(), logger.New())

	router.InstallRouter(app, uploadsRoot)

	return app, manager
}
