package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Hrishith30/marketplace/internal/listing/domain"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const listingTTL = 1 * time.Hour

// ListingCache is a Redis cache-aside for single listings. Listings are
// immutable after creation, so entries never need invalidation, only expiry.
type ListingCache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewListingCache(addr string, log *logger.Logger) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &ListingCache{
		client: client,
		logger: log.Named("ListingCache"),
	}, nil
}

// GetListing returns the cached listing, or (nil, nil) on a cache miss.
func (c *ListingCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, "listing:"+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		c.logger.Warn("Failed to unmarshal cached listing, treating as miss", zap.String("listing_id", id), zap.Error(err))
		return nil, nil
	}
	return &listing, nil
}

func (c *ListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "listing:"+listing.ID, data, listingTTL).Err()
}

// Close releases the underlying Redis connection.
func (c *ListingCache) Close() error {
	return c.client.Close()
}
