package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/pkg/logger"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(database *mongo.Database) ProductRepository {
	return &mongoProductRepository{collection: database.Collection(productsCollection)}
}

func stampProduct(p *model.Product, now time.Time) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

func (r *mongoProductRepository) Create(ctx context.Context, product *model.Product) error {
	stampProduct(product, time.Now().UTC())

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		logger.Error("Failed to insert product document", err, map[string]interface{}{
			"name": product.Name,
		})
		return translateMongoError(err)
	}
	return nil
}

func (r *mongoProductRepository) BulkCreate(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(products))
	for i := range products {
		stampProduct(&products[i], now)
		docs[i] = products[i]
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert products: %w", translateMongoError(err))
	}
	return nil
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, translateMongoError(err)
	}
	return &product, nil
}

func (r *mongoProductRepository) List(ctx context.Context, limit int) ([]model.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *mongoProductRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// ReplaceAll inserts the new catalog before dropping the old one, so a
// failed insert leaves the previous products in place.
func (r *mongoProductRepository) ReplaceAll(ctx context.Context, products []model.Product) error {
	now := time.Now().UTC()
	docs := make([]interface{}, len(products))
	ids := make([]string, len(products))
	for i := range products {
		// fresh ids let the new catalog coexist with the old until the swap
		products[i].ID = ""
		stampProduct(&products[i], now)
		docs[i] = products[i]
		ids[i] = products[i].ID
	}

	if len(docs) > 0 {
		if _, err := r.collection.InsertMany(ctx, docs); err != nil {
			// ordered inserts may have landed a prefix
			if _, cleanupErr := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); cleanupErr != nil {
				logger.Error("Failed to remove partial catalog", cleanupErr)
			}
			return fmt.Errorf("failed to insert products: %w", translateMongoError(err))
		}
	}

	if _, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}}); err != nil {
		return fmt.Errorf("failed to remove previous catalog: %w", err)
	}
	return nil
}
