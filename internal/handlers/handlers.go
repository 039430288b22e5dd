package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vuelas/api/internal/config"
	"vuelas/api/internal/docstore"
	"vuelas/api/internal/middleware"
	"vuelas/api/internal/models"
	"vuelas/api/internal/queue"
	"vuelas/api/internal/repository"
	"vuelas/api/internal/security"
	"vuelas/api/internal/service"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

type HandlerSet struct {
	responder
	log          zerolog.Logger
	cfg          *config.AppConfig
	store        docstore.Store
	tokens       *security.TokenService
	authService  *service.AuthService
	mediaService *service.MediaService
	flights      resourceHandler[models.Flight]
	destinations resourceHandler[models.Destination]
	reservations resourceHandler[models.Reservation]
	contacts     resourceHandler[models.ContactRequest]
}

// NewHandlerSet wires repositories and services over store. events and
// objects may be nil when Redis or object storage are not configured.
func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	store docstore.Store,
	tokens *security.TokenService,
	events service.EventPublisher,
	objects service.ObjectStorage,
) HandlerSet {
	users := repository.NewUserRepository(store)
	auth := service.NewAuthService(users, tokens, log)

	flights := service.NewResourceService[models.Flight](store, models.CollectionFlights, "el vuelo", log)
	destinations := service.NewResourceService[models.Destination](store, models.CollectionDestinations, "el destino", log)

	var reservationOpts []service.ResourceOption[models.Reservation]
	var contactOpts []service.ResourceOption[models.ContactRequest]
	if events != nil {
		reservationOpts = append(reservationOpts, service.WithCreatedEvent[models.Reservation](events, queue.EventReservationCreated))
		contactOpts = append(contactOpts, service.WithCreatedEvent[models.ContactRequest](events, queue.EventContactCreated))
	}
	reservations := service.NewResourceService[models.Reservation](store, models.CollectionReservations, "la reservación", log, reservationOpts...)
	contacts := service.NewResourceService[models.ContactRequest](store, models.CollectionContacts, "un contacto", log, contactOpts...)

	resp := responder{log: log, production: cfg.IsProduction()}
	return HandlerSet{
		responder:    resp,
		log:          log,
		cfg:          cfg,
		store:        store,
		tokens:       tokens,
		authService:  auth,
		mediaService: service.NewMediaService(objects, flights, destinations, log),
		flights:      resourceHandler[models.Flight]{responder: resp, svc: flights, validate: validateFlight},
		destinations: resourceHandler[models.Destination]{responder: resp, svc: destinations, validate: validateDestination},
		reservations: resourceHandler[models.Reservation]{responder: resp, svc: reservations, validate: validateReservation},
		contacts:     resourceHandler[models.ContactRequest]{responder: resp, svc: contacts, validate: validateContact},
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	health := router.Group("/health")
	health.GET("", h.Health)
	health.GET("/store", h.StoreHealth)
	health.GET("/mongodb", h.StoreHealth)

	auth := router.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)
	auth.GET("/me", middleware.Auth(h.tokens), h.Me)

	h.flights.register(router.Group("/vuelo"))
	h.destinations.register(router.Group("/destino"))
	h.reservations.register(router.Group("/reservacion"))
	h.contacts.register(router.Group("/contacto"))

	admin := []gin.HandlerFunc{
		middleware.Auth(h.tokens),
		middleware.RequireRoles(models.RoleAdmin),
	}
	router.POST("/destino/:id/foto", append(admin, h.UploadDestinationPhoto)...)
	router.POST("/vuelo/:id/imagen", append(admin, h.UploadFlightImage)...)
}
