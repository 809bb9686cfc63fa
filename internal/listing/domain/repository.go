package domain

import "context"

// ListingQuery is the subset of filtering the repository can push down:
// exact category/condition equality and the case-insensitive substring
// search over title or location. Price-bucket filtering stays client-side
// in Criteria; result order is always descending creation time.
type ListingQuery struct {
	Category  *Category
	Condition *Condition
	Search    string
}

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	// FindAll returns the full matching set ordered by creation time
	// descending. There is no pagination at the expected scale.
	FindAll(ctx context.Context, query ListingQuery) ([]*Listing, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	// FindByListingID returns all messages for a listing ordered by
	// creation time ascending.
	FindByListingID(ctx context.Context, listingID string) ([]*Message, error)
}

// Storage is the object storage port for listing photos. Remove exists so
// the upload-then-link sequence can compensate for a failed listing insert
// by deleting the already-uploaded objects.
type Storage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
	Remove(ctx context.Context, objectURL string) error
}
