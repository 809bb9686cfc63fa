package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/Hrishith30/marketplace/internal/listing/domain"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const messageCollectionName = "messages"

// MessageRepository implements domain.MessageRepository using MongoDB.
type MessageRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewMessageRepository creates the repository and ensures its indexes.
func NewMessageRepository(db *mongo.Database, log *logger.Logger) (*MessageRepository, error) {
	collection := db.Collection(messageCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for messages collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for messages collection")
	}

	return &MessageRepository{
		collection: collection,
		logger:     log.Named("MessageRepository"),
	}, nil
}

// Create inserts a new message, assigning its ID and creation timestamp.
func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	doc, err := toMessageDocument(message)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	doc.CreatedAt = time.Now().UTC()

	message.ID = doc.ID.Hex()
	message.CreatedAt = doc.CreatedAt

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert message", zap.String("listing_id", message.ListingID), zap.Error(err))
		return fmt.Errorf("%w: db insert failed: %v", domain.ErrRepository, err)
	}
	r.logger.Info("Message created", zap.String("message_id", message.ID), zap.String("listing_id", message.ListingID))
	return nil
}

// FindByListingID returns all messages for a listing ordered by creation
// time ascending.
func (r *MessageRepository) FindByListingID(ctx context.Context, listingID string) ([]*domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		r.logger.Error("Failed to query messages", zap.String("listing_id", listingID), zap.Error(err))
		return nil, fmt.Errorf("%w: db find failed: %v", domain.ErrRepository, err)
	}

	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode messages cursor", zap.String("listing_id", listingID), zap.Error(err))
		return nil, fmt.Errorf("%w: cursor decode failed: %v", domain.ErrRepository, err)
	}

	messages := make([]*domain.Message, 0, len(docs))
	for i := range docs {
		messages = append(messages, docs[i].toDomain())
	}
	return messages, nil
}
