package domain

import (
	"strings"
	"time"
)

// DefaultLocation is applied when a listing is created without one.
const DefaultLocation = "Palo Alto, CA"

// Category is one of the fixed set of human-readable category labels.
// There is no category entity or foreign key; listings carry the label itself.
type Category string

// categories is the canonical label set, in display order.
var categories = []Category{
	"Electronics", "Clothing", "Home & Garden", "Sports",
	"Musical Instruments", "Toys & Games", "Vehicles", "Books",
	"Cameras & Photo", "Sports & Outdoors", "Baby & Kids", "Pets",
	"Art & Collectibles", "Furniture", "Computers", "Jewelry & Watches",
	"Business & Industrial", "Health & Beauty", "Tools", "Garden & Outdoor",
	"Food & Beverages", "Antiques", "Collectibles", "Hobbies & Crafts",
	"Office Supplies", "Appliances", "Automotive Parts", "Baby Gear",
	"Pet Supplies", "Musical Equipment", "Video Games", "Movies & TV",
	"Books & Magazines", "Sports Equipment", "Exercise & Fitness",
	"Camping & Hiking", "Travel", "Real Estate", "Services", "Jobs",
	"Community",
}

var categorySet = func() map[Category]struct{} {
	m := make(map[Category]struct{}, len(categories))
	for _, c := range categories {
		m[c] = struct{}{}
	}
	return m
}()

// Categories returns the full category label set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsValid reports whether the category is one of the known labels.
func (c Category) IsValid() bool {
	_, ok := categorySet[c]
	return ok
}

// ParseCategory validates a raw category token. The "all" sentinel used by
// the old clients is not a category; callers represent it as a nil *Category.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !c.IsValid() {
		return "", NewInvalidInput("unknown category %q", raw)
	}
	return c, nil
}

// Condition describes the physical state of an item.
type Condition string

const (
	ConditionNew     Condition = "New"
	ConditionLikeNew Condition = "Like New"
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionPoor    Condition = "Poor"
)

// DefaultCondition is applied when a listing is created without one.
const DefaultCondition = ConditionGood

// IsValid reports whether the condition is one of the defined constants.
func (c Condition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// ParseCondition validates a raw condition token.
func ParseCondition(raw string) (Condition, error) {
	c := Condition(raw)
	if !c.IsValid() {
		return "", NewInvalidInput("unknown condition %q", raw)
	}
	return c, nil
}

// Listing is the sole persisted marketplace entity. Listings are created
// once and read many times; there is no update or delete lifecycle.
type Listing struct {
	ID          string // assigned by the repository on insert, immutable
	Title       string
	Description string // empty means "no description"
	Price       float64
	Category    Category
	Condition   Condition
	Location    string
	ImageURL    string   // primary photo
	ImageURLs   []string // ordered additional photos, display-only
	SellerEmail string
	CreatedAt   time.Time
}

// NewListing validates creation input and applies the location and
// condition defaults. The ID and CreatedAt are left for the repository.
func NewListing(title, description string, price float64, category Category, location, sellerEmail string, condition Condition, imageURL string, imageURLs []string) (*Listing, error) {
	if strings.TrimSpace(title) == "" {
		return nil, NewInvalidInput("title is required")
	}
	if price <= 0 {
		return nil, NewInvalidInput("price must be greater than 0")
	}
	if !category.IsValid() {
		return nil, NewInvalidInput("unknown category %q", string(category))
	}
	if strings.TrimSpace(sellerEmail) == "" {
		return nil, NewInvalidInput("seller_email is required")
	}
	if location == "" {
		location = DefaultLocation
	}
	if condition == "" {
		condition = DefaultCondition
	}
	if !condition.IsValid() {
		return nil, NewInvalidInput("unknown condition %q", string(condition))
	}

	return &Listing{
		Title:       title,
		Description: description,
		Price:       price,
		Category:    category,
		Condition:   condition,
		Location:    location,
		ImageURL:    imageURL,
		ImageURLs:   imageURLs,
		SellerEmail: sellerEmail,
	}, nil
}
