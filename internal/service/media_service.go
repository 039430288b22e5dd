package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"

	"vuelas/api/internal/apperr"
	"vuelas/api/internal/ids"
	"vuelas/api/internal/media"
	"vuelas/api/internal/models"
)

// DefaultMaxUploadBytes caps the size of a single uploaded image.
const DefaultMaxUploadBytes = 5 << 20

const (
	msgStorageDisabled = "El almacenamiento de archivos no está configurado"
	msgFileRequired    = "El archivo es requerido"
	msgFileTooLarge    = "El archivo excede el tamaño máximo permitido"
	msgUnsupportedType = "Formato de imagen no soportado"
	msgTypeMismatch    = "El tipo declarado no coincide con el contenido del archivo"
	msgUploadFailed    = "Error al subir el archivo"
)

// ObjectStorage is satisfied by *storage.ObjectStore.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

type UploadInput struct {
	File         io.Reader
	DeclaredType string
}

type MediaService struct {
	objects      ObjectStorage
	flights      *ResourceService[models.Flight]
	destinations *ResourceService[models.Destination]
	maxBytes     int64
	log          zerolog.Logger
	now          func() time.Time
}

// NewMediaService accepts a nil objects store; every upload then fails as
// unavailable.
func NewMediaService(objects ObjectStorage, flights *ResourceService[models.Flight], destinations *ResourceService[models.Destination], log zerolog.Logger) *MediaService {
	return &MediaService{
		objects:      objects,
		flights:      flights,
		destinations: destinations,
		maxBytes:     DefaultMaxUploadBytes,
		log:          log,
		now:          time.Now,
	}
}

func (s *MediaService) Enabled() bool {
	return s.objects != nil
}

func (s *MediaService) UploadDestinationPhoto(ctx context.Context, id string, input UploadInput) (models.Destination, error) {
	return attach(ctx, s, s.destinations, "destinos", id, input, func(d models.Destination, url string) models.Destination {
		d.Photo = &url
		return d
	})
}

func (s *MediaService) UploadFlightImage(ctx context.Context, id string, input UploadInput) (models.Flight, error) {
	return attach(ctx, s, s.flights, "vuelos", id, input, func(f models.Flight, url string) models.Flight {
		f.Image = &url
		return f
	})
}

// attach stores the upload and writes its URL into the record. The record
// is looked up first so nothing is uploaded for an unknown id.
func attach[T Entity[T]](ctx context.Context, s *MediaService, docs *ResourceService[T], prefix, id string, input UploadInput, set func(T, string) T) (T, error) {
	var zero T
	if !s.Enabled() {
		return zero, apperr.New(apperr.CodeUnavailable, msgStorageDisabled)
	}

	doc, err := docs.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	url, err := s.store(ctx, prefix, id, input)
	if err != nil {
		return zero, err
	}

	updated, err := docs.Update(ctx, id, set(doc, url))
	if err != nil {
		return zero, err
	}

	s.log.Info().Str("id", id).Str("url", url).Msg("image attached")
	return updated, nil
}

func (s *MediaService) store(ctx context.Context, prefix, id string, input UploadInput) (string, error) {
	if input.File == nil {
		return "", apperr.Invalid(msgFileRequired)
	}

	data, err := io.ReadAll(io.LimitReader(input.File, s.maxBytes+1))
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("read upload: %w", err), msgUploadFailed)
	}
	if len(data) == 0 {
		return "", apperr.Invalid(msgFileRequired)
	}
	if int64(len(data)) > s.maxBytes {
		return "", apperr.Invalid(msgFileTooLarge)
	}

	detected, err := media.Detect(data)
	if err != nil {
		return "", apperr.Invalid(msgUnsupportedType)
	}
	if declared := media.DeclaredType(input.DeclaredType); declared != "" && declared != detected.MIME {
		return "", apperr.Invalid(msgTypeMismatch)
	}

	if detected.Kind == media.KindSVG {
		clean, err := media.SanitizeSVG(data)
		if err != nil {
			if errors.Is(err, media.ErrNotSVG) {
				return "", apperr.Invalid(msgUnsupportedType)
			}
			return "", apperr.Internal(err, msgUploadFailed)
		}
		data = clean
	}

	key := s.objectKey(prefix, id, detected.Extension())
	url, err := s.objects.Put(ctx, key, bytes.NewReader(data), int64(len(data)), detected.MIME)
	if err != nil {
		return "", apperr.Internal(err, msgUploadFailed)
	}
	return url, nil
}

func (s *MediaService) objectKey(prefix, id, ext string) string {
	datePrefix := s.now().UTC().Format("2006/01/02")
	return path.Join(prefix, datePrefix, fmt.Sprintf("%s-%s.%s", id, ids.New(), ext))
}
