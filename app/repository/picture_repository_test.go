package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/galeria-app/galeria/app/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Gallery{}, &models.Thumbnail{}, &models.Picture{}))
	return db
}

func seedPicture(t *testing.T, repo PictureRepository, status models.PictureStatus, userID *uint) *models.Picture {
	t.Helper()
	p := &models.Picture{
		Filename:     "f.jpg",
		OriginalName: "f.jpg",
		Type:         "jpg",
		Status:       status,
		CreatedByID:  userID,
	}
	require.NoError(t, repo.Create(p))
	return p
}

func TestFindOrderedByIDs_PreservesSubmittedOrder(t *testing.T) {
	repo := NewPictureRepository(newTestDB(t))

	// insertion order 1,2,3; submitted order 3,1,2
	p1 := seedPicture(t, repo, models.PictureStatusReady, nil)
	p2 := seedPicture(t, repo, models.PictureStatusReady, nil)
	p3 := seedPicture(t, repo, models.PictureStatusReady, nil)

	got, err := repo.FindOrderedByIDs([]uint{p3.ID, p1.ID, p2.ID}, []models.PictureStatus{models.PictureStatusReady})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uint{p3.ID, p1.ID, p2.ID}, []uint{got[0].ID, got[1].ID, got[2].ID})
}

func TestFindOrderedByIDs_FiltersStatusAndMissingIDs(t *testing.T) {
	repo := NewPictureRepository(newTestDB(t))

	ready := seedPicture(t, repo, models.PictureStatusReady, nil)
	processing := seedPicture(t, repo, models.PictureStatusProcessing, nil)

	got, err := repo.FindOrderedByIDs(
		[]uint{99999, processing.ID, ready.ID},
		[]models.PictureStatus{models.PictureStatusReady},
	)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ready.ID, got[0].ID)
}

func TestFindOrderedByIDs_EmptyInput(t *testing.T) {
	repo := NewPictureRepository(newTestDB(t))

	got, err := repo.FindOrderedByIDs(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindUnattachedByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewPictureRepository(db)
	galleries := NewGalleryRepository(db)

	userA, userB := uint(1), uint(2)
	orphan := seedPicture(t, repo, models.PictureStatusReady, &userA)
	seedPicture(t, repo, models.PictureStatusProcessing, &userB)

	gallery := &models.Gallery{Title: "Mariage"}
	require.NoError(t, galleries.Create(gallery))
	attached := seedPicture(t, repo, models.PictureStatusAttached, &userA)
	attached.GalleryID = &gallery.ID
	require.NoError(t, repo.Update(attached))

	got, err := repo.FindUnattachedByUser(userA)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, orphan.ID, got[0].ID)
}

func TestMarkReady_SwapsPaths(t *testing.T) {
	repo := NewPictureRepository(newTestDB(t))

	temp := "/uploads/temp/f.jpg"
	p := &models.Picture{Filename: "f.jpg", Type: "jpg", TempPath: &temp}
	require.NoError(t, repo.Create(p))
	assert.Equal(t, models.PictureStatusProcessing, p.Status)

	require.NoError(t, repo.MarkReady(p.ID, "/uploads/pictures/2025/08/31/f.jpg", "/uploads/pictures/2025/08/31/f-thumb.jpg"))

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PictureStatusReady, got.Status)
	assert.Nil(t, got.TempPath)
	require.NotNil(t, got.LightboxPath)
	require.NotNil(t, got.ThumbnailPath)
	assert.Equal(t, "/uploads/pictures/2025/08/31/f.jpg", *got.LightboxPath)
	assert.Equal(t, "/uploads/pictures/2025/08/31/f-thumb.jpg", *got.ThumbnailPath)
}

func TestMarkReady_MissingRow(t *testing.T) {
	repo := NewPictureRepository(newTestDB(t))

	err := repo.MarkReady(99999, "/uploads/pictures/2025/08/31/x.jpg", "/uploads/pictures/2025/08/31/x-thumb.jpg")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGalleryDelete_RemovesChildren(t *testing.T) {
	db := newTestDB(t)
	pictures := NewPictureRepository(db)
	galleries := NewGalleryRepository(db)

	gallery := &models.Gallery{Title: "Anniversaire"}
	require.NoError(t, galleries.Create(gallery))
	require.NotEmpty(t, gallery.Token)

	p := seedPicture(t, pictures, models.PictureStatusAttached, nil)
	p.GalleryID = &gallery.ID
	require.NoError(t, pictures.Update(p))
	require.NoError(t, galleries.SaveThumbnail(&models.Thumbnail{GalleryID: gallery.ID, Filename: "cover.jpg", Type: "jpg"}))

	require.NoError(t, galleries.Delete(gallery.ID))

	count, err := pictures.CountByGallery(gallery.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	var thumbCount int64
	require.NoError(t, db.Model(&models.Thumbnail{}).Where("gallery_id = ?", gallery.ID).Count(&thumbCount).Error)
	assert.Zero(t, thumbCount)

	_, err = galleries.GetByID(gallery.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
