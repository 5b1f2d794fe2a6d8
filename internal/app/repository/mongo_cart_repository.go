package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/electromart/electromart-backend/internal/app/model"
	"github.com/electromart/electromart-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(database *mongo.Database) CartRepository {
	return &mongoCartRepository{collection: database.Collection(cartsCollection)}
}

func (r *mongoCartRepository) FindByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart); err != nil {
		return nil, translateMongoError(err)
	}
	numberLines(&cart)
	if cart.Items == nil {
		cart.Items = []model.CartLine{}
	}
	return &cart, nil
}

func (r *mongoCartRepository) Create(ctx context.Context, cart *model.Cart) error {
	now := time.Now().UTC()
	if cart.Version == 0 {
		cart.Version = 1
	}
	if cart.Items == nil {
		cart.Items = []model.CartLine{}
	}
	cart.CreatedAt = now
	cart.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, cart); err != nil {
		err = translateMongoError(err)
		if err != ErrDuplicateKey {
			logger.Error("Failed to insert cart document", err, map[string]interface{}{
				"user_id": cart.UserID,
			})
		}
		return err
	}
	numberLines(cart)
	return nil
}

// Save replaces the document only while its stored version matches.
func (r *mongoCartRepository) Save(ctx context.Context, cart *model.Cart) error {
	next := *cart
	next.Version = cart.Version + 1
	next.UpdatedAt = time.Now().UTC()
	if next.Items == nil {
		next.Items = []model.CartLine{}
	}

	filter := bson.M{"_id": cart.ID, "version": cart.Version}
	result, err := r.collection.ReplaceOne(ctx, filter, &next)
	if err != nil {
		logger.Error("Failed to replace cart document", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCartVersionConflict
	}

	cart.Version = next.Version
	cart.UpdatedAt = next.UpdatedAt
	numberLines(cart)
	return nil
}
