package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vuelas/api/internal/apperr"
	"vuelas/api/internal/docstore"
	"vuelas/api/internal/models"
)

type fakeObjects struct {
	keys        []string
	contentType string
	body        []byte
	err         error
}

func (f *fakeObjects) Put(_ context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if int64(len(data)) != size {
		return "", errors.New("size mismatch")
	}
	f.keys = append(f.keys, key)
	f.contentType = contentType
	f.body = data
	return "https://cdn.example.com/" + key, nil
}

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 32)...)

func newMediaFixture(t *testing.T, objects ObjectStorage) (*MediaService, *ResourceService[models.Flight], *ResourceService[models.Destination]) {
	t.Helper()
	store := docstore.NewMemory("test")
	flights := NewResourceService[models.Flight](store, models.CollectionFlights, "el vuelo", zerolog.Nop())
	destinations := NewResourceService[models.Destination](store, models.CollectionDestinations, "el destino", zerolog.Nop())
	return NewMediaService(objects, flights, destinations, zerolog.Nop()), flights, destinations
}

func TestMediaService_UploadDestinationPhoto(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{}
	svc, _, destinations := newMediaFixture(t, objects)

	dest, err := destinations.Create(ctx, models.Destination{Name: "Cancún", Description: "Playa"})
	require.NoError(t, err)

	updated, err := svc.UploadDestinationPhoto(ctx, dest.ID, UploadInput{File: bytes.NewReader(pngBytes), DeclaredType: "image/png"})
	require.NoError(t, err)
	require.NotNil(t, updated.Photo)
	require.Len(t, objects.keys, 1)
	assert.True(t, strings.HasPrefix(objects.keys[0], "destinos/"))
	assert.True(t, strings.HasSuffix(objects.keys[0], ".png"))
	assert.Equal(t, "https://cdn.example.com/"+objects.keys[0], *updated.Photo)
	assert.Equal(t, "image/png", objects.contentType)

	stored, err := destinations.Get(ctx, dest.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Photo, stored.Photo)
	assert.Equal(t, "Cancún", stored.Name)
}

func TestMediaService_UploadFlightImageSanitizesSVG(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{}
	svc, flights, _ := newMediaFixture(t, objects)

	flight, err := flights.Create(ctx, models.Flight{Origin: "MEX", Destination: "CUN", Time: "10:00", Airline: "Volaris", Status: "Programado"})
	require.NoError(t, err)

	svg := `<svg xmlns="http://www.w3.org/2000/svg" onload="alert(1)"><script>alert(2)</script><circle r="4"/></svg>`
	updated, err := svc.UploadFlightImage(ctx, flight.ID, UploadInput{File: strings.NewReader(svg)})
	require.NoError(t, err)
	require.NotNil(t, updated.Image)
	assert.Equal(t, "image/svg+xml", objects.contentType)
	assert.NotContains(t, string(objects.body), "script")
	assert.NotContains(t, string(objects.body), "onload")
}

func TestMediaService_Rejections(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{}
	svc, _, destinations := newMediaFixture(t, objects)

	dest, err := destinations.Create(ctx, models.Destination{Name: "Cancún", Description: "Playa"})
	require.NoError(t, err)

	cases := []struct {
		name  string
		input UploadInput
		code  apperr.Code
	}{
		{"no file", UploadInput{}, apperr.CodeInvalid},
		{"empty file", UploadInput{File: bytes.NewReader(nil)}, apperr.CodeInvalid},
		{"not an image", UploadInput{File: strings.NewReader("just text")}, apperr.CodeInvalid},
		{"declared type mismatch", UploadInput{File: bytes.NewReader(pngBytes), DeclaredType: "image/jpeg"}, apperr.CodeInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UploadDestinationPhoto(ctx, dest.ID, tc.input)
			assert.True(t, apperr.IsCode(err, tc.code), "got %v", err)
		})
	}
	assert.Empty(t, objects.keys)

	_, err = svc.UploadDestinationPhoto(ctx, "missing", UploadInput{File: bytes.NewReader(pngBytes)})
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestMediaService_TooLarge(t *testing.T) {
	ctx := context.Background()
	svc, _, destinations := newMediaFixture(t, &fakeObjects{})
	svc.maxBytes = 16

	dest, err := destinations.Create(ctx, models.Destination{Name: "Cancún", Description: "Playa"})
	require.NoError(t, err)

	_, err = svc.UploadDestinationPhoto(ctx, dest.ID, UploadInput{File: bytes.NewReader(pngBytes)})
	require.Error(t, err)
	assert.Equal(t, "El archivo excede el tamaño máximo permitido", err.(*apperr.Error).Message)
}

func TestMediaService_Unavailable(t *testing.T) {
	svc, _, _ := newMediaFixture(t, nil)
	assert.False(t, svc.Enabled())

	_, err := svc.UploadFlightImage(context.Background(), "any", UploadInput{File: bytes.NewReader(pngBytes)})
	assert.True(t, apperr.IsCode(err, apperr.CodeUnavailable))
}

func TestMediaService_StorageFailure(t *testing.T) {
	ctx := context.Background()
	svc, _, destinations := newMediaFixture(t, &fakeObjects{err: errors.New("bucket gone")})

	dest, err := destinations.Create(ctx, models.Destination{Name: "Cancún", Description: "Playa"})
	require.NoError(t, err)

	_, err = svc.UploadDestinationPhoto(ctx, dest.ID, UploadInput{File: bytes.NewReader(pngBytes)})
	assert.True(t, apperr.IsCode(err, apperr.CodeInternal))

	stored, err := destinations.Get(ctx, dest.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Photo)
}
