package upload

import (
	"errors"
	"net/http"
	"strings"
)

// MaxFileSize is the upload ceiling (20 MiB).
const MaxFileSize = 20 << 20

var allowedMime = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

var (
	ErrNoFile      = errors.New("aucun fichier reçu")
	ErrTooLarge    = errors.New("fichier trop volumineux (max 20 Mo)")
	ErrInvalidType = errors.New("type de fichier non autorisé")
)

// ValidateImage checks the sniffed content of an upload against the JPEG/PNG
// whitelist and the size ceiling. head holds the first bytes of the file (512
// are enough for http.DetectContentType). Returns the canonical extension for
// the detected type.
func ValidateImage(head []byte, size int64) (string, error) {
	if len(head) == 0 || size <= 0 {
		return "", ErrNoFile
	}
	if size > MaxFileSize {
		return "", ErrTooLarge
	}

	detected := http.DetectContentType(head)
	ext, ok := allowedMime[strings.ToLower(detected)]
	if !ok {
		return "", ErrInvalidType
	}
	return ext, nil
}
