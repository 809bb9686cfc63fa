package mongodb

import (
	"fmt"
	"time"

	"github.com/Hrishith30/marketplace/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listingDocument is the MongoDB shape of a domain.Listing. All bson
// mapping lives here so the domain entity stays persistence-free.
type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	Condition   string             `bson:"condition"`
	Location    string             `bson:"location"`
	ImageURL    string             `bson:"image_url,omitempty"`
	ImageURLs   []string           `bson:"image_urls,omitempty"`
	SellerEmail string             `bson:"seller_email"`
	CreatedAt   time.Time          `bson:"created_at"`
}

type messageDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ListingID   string             `bson:"listing_id"`
	BuyerEmail  string             `bson:"buyer_email"`
	SellerEmail string             `bson:"seller_email"`
	Body        string             `bson:"message"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	docID := primitive.NilObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("toListingDocument: invalid listing ID %q: %w", l.ID, err)
		}
	}

	return &listingDocument{
		ID:          docID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Category:    string(l.Category),
		Condition:   string(l.Condition),
		Location:    l.Location,
		ImageURL:    l.ImageURL,
		ImageURLs:   l.ImageURLs,
		SellerEmail: l.SellerEmail,
		CreatedAt:   l.CreatedAt,
	}, nil
}

func (d *listingDocument) toDomain() *domain.Listing {
	if d == nil {
		return nil
	}
	return &domain.Listing{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    domain.Category(d.Category),
		Condition:   domain.Condition(d.Condition),
		Location:    d.Location,
		ImageURL:    d.ImageURL,
		ImageURLs:   d.ImageURLs,
		SellerEmail: d.SellerEmail,
		CreatedAt:   d.CreatedAt,
	}
}

func toMessageDocument(m *domain.Message) (*messageDocument, error) {
	if m == nil {
		return nil, nil
	}

	docID := primitive.NilObjectID
	if m.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(m.ID)
		if err != nil {
			return nil, fmt.Errorf("toMessageDocument: invalid message ID %q: %w", m.ID, err)
		}
	}

	return &messageDocument{
		ID:          docID,
		ListingID:   m.ListingID,
		BuyerEmail:  m.BuyerEmail,
		SellerEmail: m.SellerEmail,
		Body:        m.Body,
		CreatedAt:   m.CreatedAt,
	}, nil
}

func (d *messageDocument) toDomain() *domain.Message {
	if d == nil {
		return nil
	}
	return &domain.Message{
		ID:          d.ID.Hex(),
		ListingID:   d.ListingID,
		BuyerEmail:  d.BuyerEmail,
		SellerEmail: d.SellerEmail,
		Body:        d.Body,
		CreatedAt:   d.CreatedAt,
	}
}
