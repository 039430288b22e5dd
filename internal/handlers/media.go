package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vuelas/api/internal/service"
)

const uploadField = "file"

func (h HandlerSet) UploadDestinationPhoto(c *gin.Context) {
	input, closeFile, ok := h.uploadInput(c)
	if !ok {
		return
	}
	defer closeFile()

	dest, err := h.mediaService.UploadDestinationPhoto(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dest)
}

func (h HandlerSet) UploadFlightImage(c *gin.Context) {
	input, closeFile, ok := h.uploadInput(c)
	if !ok {
		return
	}
	defer closeFile()

	flight, err := h.mediaService.UploadFlightImage(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h HandlerSet) uploadInput(c *gin.Context) (service.UploadInput, func(), bool) {
	if !h.mediaService.Enabled() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "El almacenamiento de archivos no está configurado"})
		return service.UploadInput{}, nil, false
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.DefaultMaxUploadBytes+1<<20)
	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": "El archivo excede el tamaño máximo permitido"})
			return service.UploadInput{}, nil, false
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "El archivo es requerido"})
		return service.UploadInput{}, nil, false
	}

	return service.UploadInput{
		File:         file,
		DeclaredType: header.Header.Get("Content-Type"),
	}, func() { _ = file.Close() }, true
}
