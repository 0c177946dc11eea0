package reviews

import (
	"context"
	"fmt"

	"github.com/artisanmarket/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error)
	Insert(ctx context.Context, review *domain.Review) error
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) ReviewRepository {
	return &mongoRepository{
		collection: db.Collection("reviews"),
	}
}

func (m mongoRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*domain.Review
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return result, nil
}

func (m mongoRepository) Insert(ctx context.Context, review *domain.Review) error {
	if _, err := m.collection.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}
