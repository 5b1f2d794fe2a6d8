package repository

import (
	"context"
	"testing"

	"github.com/electromart/electromart-backend/config"
	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupMongoTest(t *testing.T) *mongo.Database {
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	database, err := db.ConnectMongo(ctx, &config.MongoConfig{URI: uri, Database: "electromart_test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.DisconnectMongo(ctx, database) })

	require.NoError(t, CreateMongoIndexes(ctx, database))
	return database
}

func TestMongoRepositories(t *testing.T) {
	database := setupMongoTest(t)
	ctx := context.Background()

	users := NewMongoUserRepository(database)
	products := NewMongoProductRepository(database)
	carts := NewMongoCartRepository(database)

	t.Run("user email is unique", func(t *testing.T) {
		u := &model.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x"}
		require.NoError(t, users.Create(ctx, u))

		found, err := users.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)

		err = users.Create(ctx, &model.User{Name: "Dup", Email: "ada@example.com", PasswordHash: "x"})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("catalog seed and list", func(t *testing.T) {
		require.NoError(t, products.BulkCreate(ctx, db.SampleProducts()))

		count, err := products.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(len(db.SampleProducts())), count)

		listed, err := products.List(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, listed, len(db.SampleProducts()))

		_, err = products.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrRecordNotFound)

		require.NoError(t, products.ReplaceAll(ctx, []model.Product{{Name: "Monitor", Price: 199, InStock: true}}))
		listed, err = products.List(ctx, 50)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "Monitor", listed[0].Name)
	})

	t.Run("cart versioning", func(t *testing.T) {
		listed, err := products.List(ctx, 1)
		require.NoError(t, err)
		require.NotEmpty(t, listed)

		require.NoError(t, carts.Create(ctx, model.NewCart("user-1")))
		assert.ErrorIs(t, carts.Create(ctx, model.NewCart("user-1")), ErrDuplicateKey)

		first, err := carts.FindByUserID(ctx, "user-1")
		require.NoError(t, err)
		stale, err := carts.FindByUserID(ctx, "user-1")
		require.NoError(t, err)

		first.AddProduct(&listed[0], 2)
		require.NoError(t, carts.Save(ctx, first))
		assert.Equal(t, int64(2), first.Version)

		stale.Clear()
		assert.ErrorIs(t, carts.Save(ctx, stale), ErrCartVersionConflict)

		found, err := carts.FindByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.Equal(t, 2, found.Items[0].Quantity)
	})
}
