package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Hrishith30/marketplace/internal/listing/domain"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/Hrishith30/marketplace/internal/platform/metrics"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

// listingResponse is the wire shape of a listing, matching the snake_case
// contract the web client consumes.
type listingResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url,omitempty"`
	ImageURLs   []string  `json:"image_urls,omitempty"`
	SellerEmail string    `json:"seller_email"`
	CreatedAt   time.Time `json:"created_at"`
}

type messageResponse struct {
	ID          string    `json:"id"`
	ListingID   string    `json:"listing_id"`
	BuyerEmail  string    `json:"buyer_email"`
	SellerEmail string    `json:"seller_email"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		ID:          l.ID,
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
	}
}

func toListingResponses(listings []*domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:          m.ID,
		ListingID:   m.ListingID,
		BuyerEmail:  m.BuyerEmail,
		SellerEmail: m.SellerEmail,
		Message:     m.Body,
		CreatedAt:   m.CreatedAt,
	}
}

func toMessageResponses(messages []*domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageResponse(m))
	}
	return out
}

// responder centralizes JSON encoding and the error taxonomy: validation
// errors map to 400 with their detail, missing entities to 404, and
// everything else to a generic 500 so internals never leak to the client.
type responder struct {
	logger  *logger.Logger
	metrics *metrics.Manager
}

func (rp *responder) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		rp.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (rp *responder) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		rp.metrics.APIErrorsTotal.WithLabelValues(route, "validation").Inc()
		rp.respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		rp.metrics.APIErrorsTotal.WithLabelValues(route, "not_found").Inc()
		rp.respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		rp.logger.Error("Request failed", zap.String("route", route), zap.Error(err))
		rp.metrics.APIErrorsTotal.WithLabelValues(route, "internal").Inc()
		rp.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
