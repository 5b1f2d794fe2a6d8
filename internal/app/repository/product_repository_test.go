package repository

import (
	"context"
	"testing"
	"time"

	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	return testDB, NewProductRepository(testDB)
}

func TestProductRepository_CreateAndFind(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	product := &model.Product{Name: "Headphones", Price: 149.99, InStock: true}
	require.NoError(t, repo.Create(ctx, product))
	assert.NotEmpty(t, product.ID)

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Headphones", found.Name)
	assert.Equal(t, 149.99, found.Price)
	assert.True(t, found.InStock)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestProductRepository_ListNewestFirst(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	products := []model.Product{
		{Name: "Oldest", Price: 1, CreatedAt: base},
		{Name: "Middle", Price: 2, CreatedAt: base.Add(time.Minute)},
		{Name: "Newest", Price: 3, CreatedAt: base.Add(2 * time.Minute)},
	}
	require.NoError(t, repo.BulkCreate(ctx, products))

	listed, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Newest", listed[0].Name)
	assert.Equal(t, "Middle", listed[1].Name)
}

func TestProductRepository_ReplaceAll(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	require.NoError(t, repo.BulkCreate(ctx, db.SampleProducts()))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(db.SampleProducts())), count)

	require.NoError(t, repo.ReplaceAll(ctx, []model.Product{
		{Name: "Monitor", Price: 199, InStock: true},
		{Name: "Webcam", Price: 49, InStock: true},
	}))

	listed, err := repo.List(ctx, 50)
	require.NoError(t, err)
	require.Len(t, listed, 2)
}

func TestProductRepository_ReplaceAllRollsBackOnInsertFailure(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	require.NoError(t, repo.BulkCreate(ctx, db.SampleProducts()))

	err := repo.ReplaceAll(ctx, []model.Product{
		{ID: "dup-id", Name: "Monitor", Price: 199, InStock: true},
		{ID: "dup-id", Name: "Webcam", Price: 49, InStock: true},
	})
	assert.Error(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(db.SampleProducts())), count)
}

func TestProductRepository_BulkCreateEmpty(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	assert.NoError(t, repo.BulkCreate(context.Background(), nil))
}
