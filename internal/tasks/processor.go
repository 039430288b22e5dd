package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"vuelas/api/internal/docstore"
	"vuelas/api/internal/models"
	"vuelas/api/internal/queue"
)

// DigestWindow is how far back the daily digest looks.
const DigestWindow = 24 * time.Hour

// Processor handles events read from the stream by the worker.
type Processor struct {
	contacts     *docstore.Collection[models.ContactRequest]
	reservations *docstore.Collection[models.Reservation]
	logger       zerolog.Logger
	now          func() time.Time
}

func NewProcessor(store docstore.Store, logger zerolog.Logger) *Processor {
	return &Processor{
		contacts:     docstore.NewCollection[models.ContactRequest](store, models.CollectionContacts),
		reservations: docstore.NewCollection[models.Reservation](store, models.CollectionReservations),
		logger:       logger,
		now:          time.Now,
	}
}

func (p *Processor) Handle(ctx context.Context, event queue.Event) error {
	switch event.Type {
	case queue.EventContactCreated:
		return p.handleContact(event)
	case queue.EventReservationCreated:
		return p.handleReservation(event)
	case queue.EventDigestRequested:
		_, err := p.Digest(ctx)
		return err
	default:
		p.logger.Warn().Str("type", event.Type).Str("message_id", event.ID).Msg("unknown event type")
		return nil
	}
}

func (p *Processor) handleContact(event queue.Event) error {
	var contact models.ContactRequest
	if err := event.Decode(&contact); err != nil {
		return fmt.Errorf("decode contact: %w", err)
	}

	p.logger.Info().
		Str("contact_id", contact.ID).
		Str("nombre", contact.Name).
		Str("correo", contact.Email).
		Str("telefono", contact.Phone).
		Str("origen", contact.Origin).
		Str("destino", contact.Destination).
		Msg("nueva solicitud de contacto")
	return nil
}

func (p *Processor) handleReservation(event queue.Event) error {
	var reservation models.Reservation
	if err := event.Decode(&reservation); err != nil {
		return fmt.Errorf("decode reservation: %w", err)
	}

	entry := p.logger.Info().
		Str("reservation_id", reservation.ID).
		Str("codigo", reservation.Code).
		Str("origen", reservation.Origin).
		Str("destino", reservation.Destination).
		Int("pasajeros", reservation.Passengers).
		Str("estado", reservation.Status)
	if reservation.FlightID != nil {
		entry = entry.Str("vuelo_id", *reservation.FlightID)
	}
	entry.Msg("nueva reservación")
	return nil
}

type DigestSummary struct {
	Since        time.Time
	Contacts     int
	Reservations int
	Passengers   int
}

// Digest counts contact requests and reservations created within DigestWindow.
func (p *Processor) Digest(ctx context.Context) (DigestSummary, error) {
	since := p.now().UTC().Add(-DigestWindow)
	summary := DigestSummary{Since: since}

	contacts, err := p.contacts.FindAll(ctx)
	if err != nil {
		return DigestSummary{}, fmt.Errorf("load contacts: %w", err)
	}
	for _, c := range contacts {
		if !c.CreatedAt.Before(since) {
			summary.Contacts++
		}
	}

	reservations, err := p.reservations.FindAll(ctx)
	if err != nil {
		return DigestSummary{}, fmt.Errorf("load reservations: %w", err)
	}
	for _, r := range reservations {
		if !r.CreatedAt.Before(since) {
			summary.Reservations++
			summary.Passengers += r.Passengers
		}
	}

	p.logger.Info().
		Time("since", since).
		Int("contactos", summary.Contacts).
		Int("reservaciones", summary.Reservations).
		Int("pasajeros", summary.Passengers).
		Msg("resumen diario")
	return summary, nil
}
