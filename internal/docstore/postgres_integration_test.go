//go:build integration

package docstore

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("vuelas"),
		postgres.WithUsername("vuelas"),
		postgres.WithPassword("vuelas"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	store, err := NewPostgres(ctx, pool)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	require.NoError(t, store.Ping(ctx))
	assert.Equal(t, "vuelas", store.Database())
	require.NoError(t, store.EnsureUnique(ctx, "Contactos", "owner"))

	notes := NewCollection[note](store, "Contactos")
	require.NoError(t, notes.InsertOne(ctx, note{ID: "n1", Owner: "ana", Body: "hola"}))
	require.NoError(t, notes.InsertOne(ctx, note{ID: "n2", Owner: "luis", Body: "adios"}))
	assert.ErrorIs(t, notes.InsertOne(ctx, note{ID: "n3", Owner: "ana"}), ErrDuplicate)

	got, err := notes.FindOne(ctx, "owner", "luis")
	require.NoError(t, err)
	assert.Equal(t, "n2", got.ID)

	require.NoError(t, notes.ReplaceOne(ctx, note{ID: "n1", Owner: "ana", Body: "editada"}))
	got, err = notes.FindByID(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "editada", got.Body)

	all, err := notes.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, notes.DeleteOne(ctx, "n2"))
	assert.ErrorIs(t, notes.DeleteOne(ctx, "n2"), ErrNotFound)
	_, err = notes.FindByID(ctx, "n2")
	assert.ErrorIs(t, err, ErrNotFound)
}
