package docstore

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestExtJSONRoundTrip(t *testing.T) {
	created := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	type flight struct {
		ID     string    `bson:"_id"`
		Price  float64   `bson:"precio"`
		Seats  int       `bson:"asientos"`
		When   time.Time `bson:"fecha"`
		Origin string    `bson:"origen"`
		Image  *string   `bson:"imagen,omitempty"`
	}

	in := flight{ID: "v1", Price: 1500, Seats: 42, When: created, Origin: "CDMX"}
	data, err := bson.Marshal(in)
	require.NoError(t, err)

	js, err := toJSON(bson.Raw(data))
	require.NoError(t, err)
	assert.Contains(t, string(js), `"origen":"CDMX"`)

	raw, err := fromJSON(js)
	require.NoError(t, err)

	var out flight
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Price, out.Price)
	assert.Equal(t, in.Seats, out.Seats)
	assert.Equal(t, in.Origin, out.Origin)
	assert.Nil(t, out.Image)
	assert.True(t, created.Equal(out.When))
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "reservaciones", tableName("Reservaciones"))
}

func TestTranslatePgError(t *testing.T) {
	assert.Nil(t, translatePgError(nil))
	assert.NotErrorIs(t, translatePgError(assert.AnError), ErrDuplicate)
	assert.ErrorIs(t, translatePgError(&pgconn.PgError{Code: pgUniqueViolation}), ErrDuplicate)
	assert.NotErrorIs(t, translatePgError(&pgconn.PgError{Code: "23503"}), ErrDuplicate)
}
