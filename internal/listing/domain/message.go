package domain

import (
	"strings"
	"time"
)

// Message is a buyer-to-seller message about a listing. Messages reference
// a listing by ID but are otherwise independent of it.
type Message struct {
	ID          string
	ListingID   string
	BuyerEmail  string
	SellerEmail string
	Body        string
	CreatedAt   time.Time
}

// NewMessage validates messaging input. The body is trimmed and rejected if
// it becomes empty after trimming.
func NewMessage(listingID, buyerEmail, sellerEmail, body string) (*Message, error) {
	if listingID == "" {
		return nil, NewInvalidInput("listing_id is required")
	}
	if buyerEmail == "" {
		return nil, NewInvalidInput("buyer_email is required")
	}
	if sellerEmail == "" {
		return nil, NewInvalidInput("seller_email is required")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, NewInvalidInput("message cannot be empty")
	}

	return &Message{
		ListingID:   listingID,
		BuyerEmail:  buyerEmail,
		SellerEmail: sellerEmail,
		Body:        body,
	}, nil
}
