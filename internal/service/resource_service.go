package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"vuelas/api/internal/apperr"
	"vuelas/api/internal/docstore"
	"vuelas/api/internal/ids"
)

// Entity is a catalogue document whose id and timestamps are owned by the
// service rather than the client.
type Entity[T any] interface {
	docstore.Document
	Created() time.Time
	Stamp(id string, created, updated time.Time) T
}

// ResourceService runs the CRUD operations shared by flights, destinations,
// reservations and contact requests.
type ResourceService[T Entity[T]] struct {
	docs   *docstore.Collection[T]
	noun   string
	events EventPublisher
	event  string
	log    zerolog.Logger
	now    func() time.Time
}

type ResourceOption[T Entity[T]] func(*ResourceService[T])

// WithCreatedEvent publishes eventType with the stored document after each
// successful Create.
func WithCreatedEvent[T Entity[T]](events EventPublisher, eventType string) ResourceOption[T] {
	return func(s *ResourceService[T]) {
		s.events = events
		s.event = eventType
	}
}

func WithResourceClock[T Entity[T]](now func() time.Time) ResourceOption[T] {
	return func(s *ResourceService[T]) {
		s.now = now
	}
}

// NewResourceService binds a service to one collection. noun names a single
// record in error messages, e.g. "el vuelo".
func NewResourceService[T Entity[T]](store docstore.Store, collection, noun string, log zerolog.Logger, opts ...ResourceOption[T]) *ResourceService[T] {
	s := &ResourceService[T]{
		docs: docstore.NewCollection[T](store, collection),
		noun: noun,
		log:  log.With().Str("collection", collection).Logger(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ResourceService[T]) List(ctx context.Context) ([]T, error) {
	docs, err := s.docs.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, fmt.Sprintf("Error al obtener %s", s.docs.Name()))
	}
	return docs, nil
}

func (s *ResourceService[T]) Get(ctx context.Context, id string) (T, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		var zero T
		return zero, s.lookupError(err, id)
	}
	return doc, nil
}

// Create assigns a fresh id and both timestamps, ignoring any sent by the client.
func (s *ResourceService[T]) Create(ctx context.Context, doc T) (T, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	doc = doc.Stamp(ids.New(), now, now)

	if err := s.docs.InsertOne(ctx, doc); err != nil {
		var zero T
		return zero, apperr.Internal(err, fmt.Sprintf("Error al crear %s", s.noun))
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, s.event, doc); err != nil {
			s.log.Warn().Err(err).Str("id", doc.DocumentID()).Str("event", s.event).Msg("publish event failed")
		}
	}
	return doc, nil
}

// Update replaces the whole record. The id and creation time of the stored
// record are kept.
func (s *ResourceService[T]) Update(ctx context.Context, id string, doc T) (T, error) {
	var zero T
	existing, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return zero, s.lookupError(err, id)
	}

	doc = doc.Stamp(id, existing.Created(), s.now().UTC().Truncate(time.Millisecond))
	if err := s.docs.ReplaceOne(ctx, doc); err != nil {
		return zero, s.lookupError(err, id)
	}
	return doc, nil
}

func (s *ResourceService[T]) Delete(ctx context.Context, id string) error {
	if err := s.docs.DeleteOne(ctx, id); err != nil {
		return s.lookupError(err, id)
	}
	return nil
}

func (s *ResourceService[T]) lookupError(err error, id string) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound(fmt.Sprintf("No se encontró %s con ID %s", s.noun, id))
	}
	return apperr.Internal(err, fmt.Sprintf("Error al acceder a %s con ID %s", s.noun, id))
}
