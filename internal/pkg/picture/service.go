package picture

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/galeria-app/galeria/app/models"
	"github.com/galeria-app/galeria/app/repository"
	"github.com/galeria-app/galeria/internal/pkg/storage"
	"github.com/galeria-app/galeria/internal/pkg/upload"
)

// Dispatcher hands a freshly ingested picture over to the asynchronous
// processing pipeline.
type Dispatcher interface {
	EnqueueProcessPicture(pictureID uint) error
}

// Service owns the picture lifecycle outside of processing itself:
// ingestion, gallery attachment, orphan reconciliation and deletion.
type Service struct {
	pictures  repository.PictureRepository
	galleries repository.GalleryRepository
	paths     storage.Paths
	dispatch  Dispatcher

	// attachable is the status filter applied when resolving a submitted id
	// list. Attached pictures stay in so a gallery edit can reorder them.
	attachable []models.PictureStatus
}

func NewService(repos *repository.Repositories, paths storage.Paths, dispatch Dispatcher) *Service {
	return &Service{
		pictures:  repos.Picture,
		galleries: repos.Gallery,
		paths:     paths,
		dispatch:  dispatch,
		attachable: []models.PictureStatus{
			models.PictureStatusReady,
			models.PictureStatusAttached,
		},
	}
}

// Ingest validates an uploaded image, stores the original in the temp area,
// creates the picture row in processing state and enqueues the resize job.
// The caller keeps ownership of src.
func (s *Service) Ingest(src io.ReadSeeker, originalName string, size int64, userID uint) (*models.Picture, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, &StorageError{Op: "read", Path: originalName, Err: err}
	}

	ext, err := upload.ValidateImage(head[:n], size)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, &StorageError{Op: "seek", Path: originalName, Err: err}
	}

	filename := upload.UniqueFilename(originalName, ext)
	if err := os.MkdirAll(s.paths.TempDir(), 0755); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: s.paths.TempDir(), Err: err}
	}

	tempPath := s.paths.TempPath(filename)
	if err := writeStream(tempPath, src); err != nil {
		return nil, err
	}

	tempURL := s.paths.TempURL(filename)
	pic := &models.Picture{
		Filename:     filename,
		OriginalName: originalName,
		Type:         ext,
		Status:       models.PictureStatusProcessing,
		TempPath:     &tempURL,
	}
	if userID != 0 {
		pic.CreatedByID = &userID
	}

	if err := s.pictures.Create(pic); err != nil {
		if rmErr := os.Remove(tempPath); rmErr != nil {
			fiberlog.Errorf("[Pictures] Failed to remove temp file after create error: %v", rmErr)
		}
		return nil, err
	}

	if err := s.dispatch.EnqueueProcessPicture(pic.ID); err != nil {
		fiberlog.Errorf("[Pictures] Failed to enqueue processing for picture %d: %v", pic.ID, err)
		return nil, &DispatchError{PictureID: pic.ID, Err: err}
	}

	fiberlog.Infof("[Pictures] Ingested %s as picture %d", originalName, pic.ID)
	return pic, nil
}

func writeStream(dst string, src io.Reader) error {
	out, err := os.Create(dst)
	if err != nil {
		return &StorageError{Op: "create", Path: dst, Err: err}
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return &StorageError{Op: "write", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return &StorageError{Op: "close", Path: dst, Err: err}
	}
	return nil
}

// ParseIDList extracts picture ids from a comma-separated form value.
// Non-numeric and non-positive entries are dropped.
func ParseIDList(raw string) []uint {
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// AttachSubmitted resolves a submitted comma-separated id list against the
// attachable pictures and binds the survivors to the gallery. Position is the
// index in the resolved ordering, re-derived fresh on every call; ids that do
// not resolve are skipped without error.
func (s *Service) AttachSubmitted(gallery *models.Gallery, rawIDList string) error {
	ids := ParseIDList(rawIDList)
	if len(ids) == 0 {
		return nil
	}

	pictures, err := s.pictures.FindOrderedByIDs(ids, s.attachable)
	if err != nil {
		return err
	}

	for i := range pictures {
		pic := &pictures[i]
		pic.GalleryID = &gallery.ID
		pic.Status = models.PictureStatusAttached
		pic.Position = i
		if err := s.pictures.Update(pic); err != nil {
			return err
		}
	}

	fiberlog.Infof("[Pictures] Attached %d picture(s) to gallery %d", len(pictures), gallery.ID)
	return nil
}

// ReconcileOrphans removes pictures the user uploaded but never attached to a
// gallery, files first. Each picture is handled independently; a failure on
// one does not stop the sweep. Returns the number of pictures removed.
func (s *Service) ReconcileOrphans(userID uint) (int, error) {
	orphans, err := s.pictures.FindUnattachedByUser(userID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := range orphans {
		pic := &orphans[i]
		if err := s.removeFiles(pic); err != nil {
			fiberlog.Errorf("[Pictures] Orphan sweep: files for picture %d: %v", pic.ID, err)
			continue
		}
		if err := s.pictures.Delete(pic.ID); err != nil {
			fiberlog.Errorf("[Pictures] Orphan sweep: row for picture %d: %v", pic.ID, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		fiberlog.Infof("[Pictures] Orphan sweep removed %d picture(s) for user %d", removed, userID)
	}
	return removed, nil
}

// DeletePicture removes the picture's files and then its row. A file already
// gone is not an error; any other filesystem failure aborts before the row is
// touched so no file is left untracked.
func (s *Service) DeletePicture(pic *models.Picture) error {
	if err := s.removeFiles(pic); err != nil {
		return err
	}
	return s.pictures.Delete(pic.ID)
}

// DeleteGallery removes the cover file and every picture file belonging to the
// gallery, then deletes the rows. Files go first: a filesystem failure aborts
// the operation with the database still intact.
func (s *Service) DeleteGallery(gallery *models.Gallery) error {
	if gallery.Thumbnail != nil {
		if err := removePath(s.paths.CoverPath(gallery.Thumbnail.Filename)); err != nil {
			return err
		}
	}

	pictures, err := s.pictures.FindByGalleryOrdered(gallery.ID)
	if err != nil {
		return err
	}
	for i := range pictures {
		if err := s.removeFiles(&pictures[i]); err != nil {
			return err
		}
	}

	if err := s.galleries.Delete(gallery.ID); err != nil {
		return err
	}
	fiberlog.Infof("[Pictures] Deleted gallery %d with %d picture(s)", gallery.ID, len(pictures))
	return nil
}

func (s *Service) removeFiles(pic *models.Picture) error {
	for _, url := range []*string{pic.TempPath, pic.LightboxPath, pic.ThumbnailPath} {
		if url == nil {
			continue
		}
		if err := removePath(s.paths.Absolute(*url)); err != nil {
			return err
		}
	}
	return nil
}

func removePath(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &StorageError{Op: "remove", Path: path, Err: err}
	}
	return nil
}
