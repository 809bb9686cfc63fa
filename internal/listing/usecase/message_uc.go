package usecase

import (
	"context"
	"errors"

	"github.com/Hrishith30/marketplace/internal/listing/domain"
	"github.com/Hrishith30/marketplace/internal/mailer"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/Hrishith30/marketplace/internal/platform/metrics"
	"go.uber.org/zap"
)

// MessageUsecase implements buyer-to-seller messaging.
type MessageUsecase struct {
	messages domain.MessageRepository
	listings domain.ListingRepository
	events   EventPublisher
	mail     mailer.Sender
	metrics  *metrics.Manager
	logger   *logger.Logger
}

func NewMessageUsecase(
	messages domain.MessageRepository,
	listings domain.ListingRepository,
	events EventPublisher,
	mail mailer.Sender,
	m *metrics.Manager,
	log *logger.Logger,
) *MessageUsecase {
	return &MessageUsecase{
		messages: messages,
		listings: listings,
		events:   events,
		mail:     mail,
		metrics:  m,
		logger:   log.Named("MessageUsecase"),
	}
}

// SendMessage validates and persists a message, then fires the best-effort
// side effects. The body is trimmed; empty-after-trim is rejected before
// any network call.
func (uc *MessageUsecase) SendMessage(ctx context.Context, listingID, buyerEmail, sellerEmail, body string) (*domain.Message, error) {
	message, err := domain.NewMessage(listingID, buyerEmail, sellerEmail, body)
	if err != nil {
		return nil, err
	}

	if err := uc.messages.Create(ctx, message); err != nil {
		uc.logger.Error("Failed to create message", zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}
	uc.metrics.MessagesSentTotal.Inc()

	event := map[string]interface{}{
		"message_id":   message.ID,
		"listing_id":   message.ListingID,
		"buyer_email":  message.BuyerEmail,
		"seller_email": message.SellerEmail,
	}
	if err := uc.events.Publish(ctx, "message.created", event); err != nil {
		uc.logger.Warn("Failed to publish message.created event", zap.String("message_id", message.ID), zap.Error(err))
	}

	listingTitle := "your listing"
	if listing, err := uc.listings.FindByID(ctx, listingID); err == nil {
		listingTitle = listing.Title
	} else if !errors.Is(err, domain.ErrNotFound) {
		uc.logger.Warn("Failed to resolve listing title for notification", zap.String("listing_id", listingID), zap.Error(err))
	}
	if err := uc.mail.SendMessageReceivedEmail(message.SellerEmail, message.BuyerEmail, listingTitle); err != nil {
		uc.logger.Warn("Failed to send message-received email",
			zap.String("message_id", message.ID), zap.String("seller_email", message.SellerEmail), zap.Error(err))
	}

	uc.logger.Info("Message sent", zap.String("message_id", message.ID), zap.String("listing_id", listingID))
	return message, nil
}

// ListMessages returns all messages for a listing in ascending creation
// order.
func (uc *MessageUsecase) ListMessages(ctx context.Context, listingID string) ([]*domain.Message, error) {
	if listingID == "" {
		return nil, domain.NewInvalidInput("listing_id is required")
	}
	messages, err := uc.messages.FindByListingID(ctx, listingID)
	if err != nil {
		uc.logger.Error("Failed to list messages", zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}
	return messages, nil
}
