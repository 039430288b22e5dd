package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vuelas/api/internal/apperr"
	"vuelas/api/internal/models"
	"vuelas/api/internal/service"
)

// resourceHandler serves the five CRUD routes of one catalogue collection.
type resourceHandler[T service.Entity[T]] struct {
	responder
	svc      *service.ResourceService[T]
	validate func(T) string
}

func (r resourceHandler[T]) register(group *gin.RouterGroup) {
	group.GET("", r.list)
	group.POST("", r.create)
	group.GET("/:id", r.get)
	group.PUT("/:id", r.update)
	group.DELETE("/:id", r.delete)
}

func (r resourceHandler[T]) list(c *gin.Context) {
	docs, err := r.svc.List(c.Request.Context())
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (r resourceHandler[T]) get(c *gin.Context) {
	doc, err := r.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (r resourceHandler[T]) create(c *gin.Context) {
	doc, ok := r.bindValid(c)
	if !ok {
		return
	}

	created, err := r.svc.Create(c.Request.Context(), doc)
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.Header("Location", strings.TrimSuffix(c.FullPath(), "/")+"/"+created.DocumentID())
	c.JSON(http.StatusCreated, created)
}

func (r resourceHandler[T]) update(c *gin.Context) {
	doc, ok := r.bindValid(c)
	if !ok {
		return
	}

	updated, err := r.svc.Update(c.Request.Context(), c.Param("id"), doc)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (r resourceHandler[T]) delete(c *gin.Context) {
	if err := r.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		r.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r resourceHandler[T]) bindValid(c *gin.Context) (T, bool) {
	var doc T
	if !r.bindJSON(c, &doc) {
		return doc, false
	}
	if msg := r.validate(doc); msg != "" {
		r.respondError(c, apperr.Invalid(msg))
		return doc, false
	}
	return doc, true
}

func anyBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func validateFlight(f models.Flight) string {
	if anyBlank(f.Origin, f.Destination, f.Time, f.Airline, f.Status) {
		return "Origen, Destino, Hora, Aerolinea y Estado son requeridos"
	}
	return ""
}

func validateDestination(d models.Destination) string {
	if anyBlank(d.Name, d.Description) {
		return "Nombre y Descripcion son requeridos"
	}
	return ""
}

func validateReservation(r models.Reservation) string {
	if anyBlank(r.Code, r.Origin, r.Destination, r.Status) {
		return "Codigo, Origen, Destino y Estado son requeridos"
	}
	if r.Passengers < 1 {
		return "Pasajeros debe ser al menos 1"
	}
	return ""
}

func validateContact(ct models.ContactRequest) string {
	if anyBlank(ct.Name, ct.Email, ct.Phone, ct.Origin, ct.Destination) {
		return "Todos los campos son requeridos"
	}
	return ""
}
