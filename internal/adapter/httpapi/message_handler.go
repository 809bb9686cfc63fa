package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/Hrishith30/marketplace/internal/listing/domain"
	"github.com/Hrishith30/marketplace/internal/listing/usecase"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/Hrishith30/marketplace/internal/platform/metrics"
)

// MessageHandler serves the buyer-to-seller messaging routes.
type MessageHandler struct {
	responder
	messages *usecase.MessageUsecase
}

func NewMessageHandler(messages *usecase.MessageUsecase, m *metrics.Manager, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		responder: responder{logger: log.Named("MessageHandler"), metrics: m},
		messages:  messages,
	}
}

type sendMessageRequest struct {
	ListingID   string `json:"listing_id"`
	BuyerEmail  string `json:"buyer_email"`
	SellerEmail string `json:"seller_email"`
	Message     string `json:"message"`
}

// HandleSendMessage serves POST /api/messages.
func (h *MessageHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "send_message", domain.NewInvalidInput("invalid request body: %v", err))
		return
	}

	message, err := h.messages.SendMessage(r.Context(), req.ListingID, req.BuyerEmail, req.SellerEmail, req.Message)
	if err != nil {
		h.respondError(w, "send_message", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, toMessageResponse(message))
}

// HandleListMessages serves GET /api/messages?listing_id=.
func (h *MessageHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	listingID := r.URL.Query().Get("listing_id")
	messages, err := h.messages.ListMessages(r.Context(), listingID)
	if err != nil {
		h.respondError(w, "list_messages", err)
		return
	}
	h.respondJSON(w, http.StatusOK, toMessageResponses(messages))
}
