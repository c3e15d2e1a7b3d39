package gallery

import (
	"crypto/subtle"
	"fmt"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/galeria-app/galeria/app/models"
	"github.com/galeria-app/galeria/app/repository"
)

// CanAccess decides whether a visitor may view a gallery. Public galleries are
// open to everyone; private ones require the exact access token. The
// comparison is constant-time.
func CanAccess(g *models.Gallery, token string) bool {
	if g.Visibility {
		return true
	}
	if token == "" || g.Token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(g.Token), []byte(token)) == 1
}

// Service covers gallery-level concerns that go beyond plain persistence:
// token rotation and share link building.
type Service struct {
	galleries repository.GalleryRepository
	baseURL   string
}

func NewService(galleries repository.GalleryRepository, baseURL string) *Service {
	return &Service{galleries: galleries, baseURL: baseURL}
}

// ResetToken replaces the gallery token with a fresh one, invalidating every
// previously shared link to a private gallery.
func (s *Service) ResetToken(g *models.Gallery) error {
	token := models.GenerateGalleryToken()
	if err := s.galleries.UpdateToken(g.ID, token); err != nil {
		return err
	}
	g.Token = token
	fiberlog.Infof("[Galleries] Token reset for gallery %d", g.ID)
	return nil
}

// ShareURL builds the public link for a gallery. Private galleries get their
// token appended so the link works as-is.
func (s *Service) ShareURL(g *models.Gallery) string {
	url := fmt.Sprintf("%s/gallery/%d", s.baseURL, g.ID)
	if !g.Visibility {
		url += "?token=" + g.Token
	}
	return url
}
