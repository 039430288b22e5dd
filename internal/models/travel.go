package models

import "time"

// Flight is an offered flight in the agency catalogue.
type Flight struct {
	ID             string    `bson:"_id" json:"id"`
	Origin         string    `bson:"origen" json:"origen"`
	Destination    string    `bson:"destino" json:"destino"`
	Date           time.Time `bson:"fecha" json:"fecha"`
	Time           string    `bson:"hora" json:"hora"`
	Airline        string    `bson:"aerolinea" json:"aerolinea"`
	Price          float64   `bson:"precio" json:"precio"`
	Status         string    `bson:"estado" json:"estado"`
	Image          *string   `bson:"imagen,omitempty" json:"imagen"`
	AvailableSeats int       `bson:"asientosDisponibles" json:"asientosDisponibles"`
	CreatedAt      time.Time `bson:"fechaCreacion" json:"fechaCreacion"`
	UpdatedAt      time.Time `bson:"fechaActualizacion" json:"fechaActualizacion"`
}

func (f Flight) DocumentID() string { return f.ID }

func (f Flight) Created() time.Time { return f.CreatedAt }

// Stamp returns a copy carrying the given id and timestamps.
func (f Flight) Stamp(id string, created, updated time.Time) Flight {
	f.ID, f.CreatedAt, f.UpdatedAt = id, created, updated
	return f
}

// Destination is a city with an airport promoted by the agency.
type Destination struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"nombre" json:"nombre"`
	Description string    `bson:"descripcion" json:"descripcion"`
	BestSeason  *string   `bson:"mejorEpoca,omitempty" json:"mejorEpoca"`
	MinPrice    float64   `bson:"precioMin" json:"precioMin"`
	MaxPrice    float64   `bson:"precioMax" json:"precioMax"`
	Tag         *string   `bson:"etiqueta,omitempty" json:"etiqueta"`
	Photo       *string   `bson:"foto,omitempty" json:"foto"`
	CreatedAt   time.Time `bson:"fechaCreacion" json:"fechaCreacion"`
	UpdatedAt   time.Time `bson:"fechaActualizacion" json:"fechaActualizacion"`
}

func (d Destination) DocumentID() string { return d.ID }

func (d Destination) Created() time.Time { return d.CreatedAt }

func (d Destination) Stamp(id string, created, updated time.Time) Destination {
	d.ID, d.CreatedAt, d.UpdatedAt = id, created, updated
	return d
}

// Reservation references a flight and a user by plain id; neither is checked.
type Reservation struct {
	ID          string    `bson:"_id" json:"id"`
	Code        string    `bson:"codigo" json:"codigo"`
	Origin      string    `bson:"origen" json:"origen"`
	Destination string    `bson:"destino" json:"destino"`
	Date        time.Time `bson:"fecha" json:"fecha"`
	Passengers  int       `bson:"pasajeros" json:"pasajeros"`
	Status      string    `bson:"estado" json:"estado"`
	FlightID    *string   `bson:"vueloId,omitempty" json:"vueloId"`
	UserID      *string   `bson:"usuarioId,omitempty" json:"usuarioId"`
	CreatedAt   time.Time `bson:"fechaCreacion" json:"fechaCreacion"`
	UpdatedAt   time.Time `bson:"fechaActualizacion" json:"fechaActualizacion"`
}

func (r Reservation) DocumentID() string { return r.ID }

func (r Reservation) Created() time.Time { return r.CreatedAt }

func (r Reservation) Stamp(id string, created, updated time.Time) Reservation {
	r.ID, r.CreatedAt, r.UpdatedAt = id, created, updated
	return r
}

// ContactRequest is a quote request left through the public contact form.
type ContactRequest struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"nombre" json:"nombre"`
	Email       string    `bson:"correo" json:"correo"`
	Phone       string    `bson:"telefono" json:"telefono"`
	Origin      string    `bson:"origen" json:"origen"`
	Destination string    `bson:"destino" json:"destino"`
	CreatedAt   time.Time `bson:"fechaCreacion" json:"fechaCreacion"`
	UpdatedAt   time.Time `bson:"fechaActualizacion" json:"fechaActualizacion"`
}

func (c ContactRequest) DocumentID() string { return c.ID }

func (c ContactRequest) Created() time.Time { return c.CreatedAt }

func (c ContactRequest) Stamp(id string, created, updated time.Time) ContactRequest {
	c.ID, c.CreatedAt, c.UpdatedAt = id, created, updated
	return c
}

// Collection names match the existing MongoDB deployment.
const (
	CollectionUsers        = "Usuarios"
	CollectionFlights      = "Vuelos"
	CollectionDestinations = "Destinos"
	CollectionReservations = "Reservaciones"
	CollectionContacts     = "Contactos"
)
