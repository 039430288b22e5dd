package models

import "time"

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleCliente Role = "Cliente"
)

// Valid reports whether r is one of the roles a user may hold.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCliente
}

// User is an identity record. PasswordHash never leaves the store layer in JSON.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"nombre" json:"nombre"`
	Phone        *string   `bson:"telefono,omitempty" json:"telefono"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         Role      `bson:"rol" json:"rol"`
	CreatedAt    time.Time `bson:"fechaCreacion" json:"fechaCreacion"`
	UpdatedAt    time.Time `bson:"fechaActualizacion" json:"fechaActualizacion"`
}

func (u User) DocumentID() string { return u.ID }
