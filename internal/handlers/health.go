package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const serviceName = "JA Seguro que Vuelas API"

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

type storeHealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Database  string    `json:"database,omitempty"`
	Driver    string    `json:"driver,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (h HandlerSet) Health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   serviceName,
		Version:   Version,
	})
}

// StoreHealth pings the document store. It answers 503 when the store is
// unreachable.
func (h HandlerSet) StoreHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Error().Err(err).Str("driver", h.store.Driver()).Msg("store ping failed")
		resp := storeHealthResponse{
			Status:    "connection_failed",
			Message:   "Error al conectar con la base de datos",
			Driver:    h.store.Driver(),
			Timestamp: time.Now().UTC(),
		}
		if !h.production {
			resp.Error = err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, storeHealthResponse{
		Status:    "connected",
		Message:   "Conexión a la base de datos exitosa",
		Database:  h.store.Database(),
		Driver:    h.store.Driver(),
		Timestamp: time.Now().UTC(),
	})
}
