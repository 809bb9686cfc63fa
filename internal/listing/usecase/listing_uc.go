package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hrishith30/marketplace/internal/listing/domain"
	"github.com/Hrishith30/marketplace/internal/mailer"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/Hrishith30/marketplace/internal/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("marketplace/usecase")

// placeholderImageURL backs listings created without any photo.
const placeholderImageURL = "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=400&h=400&fit=crop"

// EventPublisher publishes domain events; satisfied by the NATS adapter.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// ListingCache is the read cache port; satisfied by the Redis adapter.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
}

// ListingUsecase implements listing creation and retrieval.
type ListingUsecase struct {
	repo    domain.ListingRepository
	photos  *PhotoUsecase
	cache   ListingCache
	events  EventPublisher
	mail    mailer.Sender
	metrics *metrics.Manager
	logger  *logger.Logger
}

func NewListingUsecase(
	repo domain.ListingRepository,
	photos *PhotoUsecase,
	cache ListingCache,
	events EventPublisher,
	mail mailer.Sender,
	m *metrics.Manager,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:    repo,
		photos:  photos,
		cache:   cache,
		events:  events,
		mail:    mail,
		metrics: m,
		logger:  log.Named("ListingUsecase"),
	}
}

// CreateListingInput holds the creation parameters. Location and Condition
// fall back to the fixed defaults when empty; ImageURL falls back to the
// first of ImageURLs, then to the placeholder.
type CreateListingInput struct {
	Title       string
	Description string
	Price       float64
	Category    domain.Category
	Condition   domain.Condition
	Location    string
	SellerEmail string
	ImageURL    string
	ImageURLs   []string
}

// CreateListing validates the input, persists the listing, and fires the
// best-effort side effects (event publication, seller e-mail). Validation
// failures surface before any network call is made.
func (uc *ListingUsecase) CreateListing(ctx context.Context, input CreateListingInput) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.CreateListing", oteltrace.WithAttributes(
		attribute.String("title", input.Title),
		attribute.String("category", string(input.Category)),
	))
	defer span.End()

	listing, err := uc.buildListing(input)
	if err != nil {
		return nil, err
	}
	return uc.persistListing(ctx, listing)
}

// CreateListingWithPhotos is the upload-then-link sequence made explicit:
// validate first, upload all photos concurrently, then insert the listing
// referencing their URLs. If the insert fails after uploads succeeded, the
// uploaded objects are deleted so nothing is orphaned.
func (uc *ListingUsecase) CreateListingWithPhotos(ctx context.Context, input CreateListingInput, files []PhotoFile) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.CreateListingWithPhotos", oteltrace.WithAttributes(
		attribute.String("title", input.Title),
		attribute.Int("photo_count", len(files)),
	))
	defer span.End()

	// Validate before touching the network so a bad request costs nothing.
	if _, err := uc.buildListing(input); err != nil {
		return nil, err
	}

	urls, err := uc.photos.UploadPhotos(ctx, files)
	if err != nil {
		return nil, err
	}
	input.ImageURLs = urls
	if len(urls) > 0 {
		input.ImageURL = urls[0]
	}

	listing, err := uc.buildListing(input)
	if err != nil {
		// Unreachable given the pre-check, but don't leak uploads if it fires.
		uc.photos.RemovePhotos(ctx, urls)
		return nil, err
	}

	created, err := uc.persistListing(ctx, listing)
	if err != nil {
		uc.logger.Warn("Listing insert failed after uploads succeeded, removing uploaded photos",
			zap.Int("photo_count", len(urls)), zap.Error(err))
		uc.photos.RemovePhotos(ctx, urls)
		return nil, err
	}
	return created, nil
}

func (uc *ListingUsecase) buildListing(input CreateListingInput) (*domain.Listing, error) {
	imageURL := input.ImageURL
	if imageURL == "" {
		if len(input.ImageURLs) > 0 {
			imageURL = input.ImageURLs[0]
		} else {
			imageURL = placeholderImageURL
		}
	}
	return domain.NewListing(
		input.Title, input.Description, input.Price, input.Category,
		input.Location, input.SellerEmail, input.Condition,
		imageURL, input.ImageURLs,
	)
}

func (uc *ListingUsecase) persistListing(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("Failed to create listing", zap.String("title", listing.Title), zap.Error(err))
		return nil, err
	}
	uc.metrics.ListingsCreatedTotal.Inc()

	event := map[string]interface{}{
		"listing_id":   listing.ID,
		"title":        listing.Title,
		"category":     string(listing.Category),
		"price":        listing.Price,
		"seller_email": listing.SellerEmail,
	}
	if err := uc.events.Publish(ctx, "listing.created", event); err != nil {
		// The listing exists; a lost event is logged, not retried.
		uc.logger.Warn("Failed to publish listing.created event", zap.String("listing_id", listing.ID), zap.Error(err))
	}

	if err := uc.mail.SendListingCreatedEmail(listing.SellerEmail, listing.Title); err != nil {
		uc.logger.Warn("Failed to send listing-created email",
			zap.String("listing_id", listing.ID), zap.String("seller_email", listing.SellerEmail), zap.Error(err))
	}

	uc.logger.Info("Listing created", zap.String("listing_id", listing.ID), zap.String("category", string(listing.Category)))
	return listing, nil
}

// GetListingByID retrieves one listing, cache-aside through Redis.
func (uc *ListingUsecase) GetListingByID(ctx context.Context, id string) (*domain.Listing, error) {
	if id == "" {
		return nil, domain.NewInvalidInput("listing id is required")
	}

	if cached, err := uc.cache.GetListing(ctx, id); err != nil {
		uc.logger.Warn("Cache lookup failed, falling through to repository", zap.String("listing_id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		uc.logger.Error("Failed to fetch listing", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}

	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warn("Failed to cache listing", zap.String("listing_id", id), zap.Error(err))
	}
	return listing, nil
}

// BrowseListings returns the visible subset for the given criteria, ordered
// by creation time descending. Category/condition equality and the search
// text push down to the repository; the price bucket cannot, so the filter
// engine applies the full criteria over the fetched set. Re-applying the
// pushed-down predicates is harmless: the engine is idempotent and both
// paths share one matching contract.
func (uc *ListingUsecase) BrowseListings(ctx context.Context, search string, category *domain.Category, condition *domain.Condition, bucket *domain.PriceBucket) ([]*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.BrowseListings", oteltrace.WithAttributes(
		attribute.String("search", search),
	))
	defer span.End()

	listings, err := uc.repo.FindAll(ctx, domain.ListingQuery{
		Category:  category,
		Condition: condition,
		Search:    search,
	})
	if err != nil {
		uc.logger.Error("Failed to browse listings", zap.Error(err))
		return nil, fmt.Errorf("browse listings: %w", err)
	}

	return domain.Filter(listings, domain.Criteria{
		Search:   search,
		Category: category,
		Bucket:   bucket,
	}), nil
}
