package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hrishith30/marketplace/internal/listing/domain"
	"github.com/Hrishith30/marketplace/internal/listing/usecase"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/Hrishith30/marketplace/internal/platform/metrics"
)

type mockListingRepository struct {
	mock.Mock
}

func (m *mockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	if args.Error(0) == nil {
		listing.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *mockListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if listing, ok := args.Get(0).(*domain.Listing); ok {
		return listing, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingRepository) FindAll(ctx context.Context, query domain.ListingQuery) ([]*domain.Listing, error) {
	args := m.Called(ctx, query)
	if listings, ok := args.Get(0).([]*domain.Listing); ok {
		return listings, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMessageRepository struct {
	mock.Mock
}

func (m *mockMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	if args.Error(0) == nil {
		message.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *mockMessageRepository) FindByListingID(ctx context.Context, listingID string) ([]*domain.Message, error) {
	args := m.Called(ctx, listingID)
	if messages, ok := args.Get(0).([]*domain.Message); ok {
		return messages, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, fileName, data)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Remove(ctx context.Context, objectURL string) error {
	args := m.Called(ctx, objectURL)
	return args.Error(0)
}

type stubPublisher struct{}

func (stubPublisher) Publish(context.Context, string, interface{}) error { return nil }

type stubCache struct{}

func (stubCache) GetListing(context.Context, string) (*domain.Listing, error) { return nil, nil }
func (stubCache) SetListing(context.Context, *domain.Listing) error           { return nil }

type stubMailer struct{}

func (stubMailer) SendListingCreatedEmail(string, string) error          { return nil }
func (stubMailer) SendMessageReceivedEmail(string, string, string) error { return nil }

type testServer struct {
	router      http.Handler
	listingRepo *mockListingRepository
	messageRepo *mockMessageRepository
	storage     *mockStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.NewNop()
	m := metrics.NewManager("marketplace-test")

	listingRepo := new(mockListingRepository)
	messageRepo := new(mockMessageRepository)
	storage := new(mockStorage)

	photoUC := usecase.NewPhotoUsecase(storage, m, log)
	listingUC := usecase.NewListingUsecase(listingRepo, photoUC, stubCache{}, stubPublisher{}, stubMailer{}, m, log)
	messageUC := usecase.NewMessageUsecase(messageRepo, listingRepo, stubPublisher{}, stubMailer{}, m, log)

	return &testServer{
		router: NewRouter(
			NewListingHandler(listingUC, photoUC, m, log),
			NewMessageHandler(messageUC, m, log),
			m, log,
		),
		listingRepo: listingRepo,
		messageRepo: messageRepo,
		storage:     storage,
	}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func sampleListing(id string) *domain.Listing {
	return &domain.Listing{
		ID:          id,
		Title:       "iPhone 13 Pro",
		Description: "Lightly used",
		Price:       650,
		Category:    "Electronics",
		Condition:   domain.ConditionGood,
		Location:    "Palo Alto, CA",
		SellerEmail: "seller@example.com",
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBrowseListings(t *testing.T) {
	ts := newTestServer(t)

	expectedQuery := domain.ListingQuery{Search: "phone"}
	ts.listingRepo.On("FindAll", mock.Anything, expectedQuery).
		Return([]*domain.Listing{sampleListing("1")}, nil).Once()

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/listings?search=phone&category=all&price=all", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []listingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "iPhone 13 Pro", got[0].Title)
	ts.listingRepo.AssertExpectations(t)
}

func TestBrowseListingsPassesCategoryDown(t *testing.T) {
	ts := newTestServer(t)

	electronics := domain.Category("Electronics")
	expectedQuery := domain.ListingQuery{Category: &electronics}
	ts.listingRepo.On("FindAll", mock.Anything, expectedQuery).
		Return([]*domain.Listing{}, nil).Once()

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/listings?category=Electronics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	ts.listingRepo.AssertExpectations(t)
}

func TestBrowseListingsRejectsUnknownTokens(t *testing.T) {
	ts := newTestServer(t)

	for _, target := range []string{
		"/api/listings?category=Spaceships",
		"/api/listings?price=50-60",
		"/api/listings?condition=Mint",
	} {
		rec := ts.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	ts.listingRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestBrowseListingsAppliesPriceBucket(t *testing.T) {
	ts := newTestServer(t)

	cheap := sampleListing("1")
	cheap.Price = 45
	midrange := sampleListing("2")
	midrange.Price = 650
	ts.listingRepo.On("FindAll", mock.Anything, mock.Anything).
		Return([]*domain.Listing{cheap, midrange}, nil).Once()

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/listings?price=500-1000", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []listingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestGetListing(t *testing.T) {
	ts := newTestServer(t)

	ts.listingRepo.On("FindByID", mock.Anything, "abc").Return(sampleListing("abc"), nil).Once()

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/listings/abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got listingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, "seller@example.com", got.SellerEmail)
}

func TestGetListingNotFound(t *testing.T) {
	ts := newTestServer(t)

	ts.listingRepo.On("FindByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound).Once()

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/listings/missing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}

func TestCreateListing(t *testing.T) {
	ts := newTestServer(t)

	ts.listingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()

	body := `{"title":"Desk","price":80,"category":"Furniture","seller_email":"seller@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/listings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := ts.do(req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got listingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "generated-id", got.ID)
	assert.Equal(t, "Palo Alto, CA", got.Location)
	assert.Equal(t, string(domain.ConditionGood), got.Condition)
	ts.listingRepo.AssertExpectations(t)
}

func TestCreateListingValidation(t *testing.T) {
	ts := newTestServer(t)

	body := `{"title":"","price":80,"category":"Furniture","seller_email":"seller@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/listings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := ts.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	ts.listingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateListingMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/listings", strings.NewReader("{not json"))
	rec := ts.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateListingRepositoryFailure(t *testing.T) {
	ts := newTestServer(t)

	ts.listingRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	body := `{"title":"Desk","price":80,"category":"Furniture","seller_email":"seller@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/listings", strings.NewReader(body))
	rec := ts.do(req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func multipartBody(t *testing.T, fields map[string]string, photos map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	for name, data := range photos {
		fw, err := mw.CreateFormFile("photos", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestUploadPhotos(t *testing.T) {
	ts := newTestServer(t)

	ts.storage.On("Upload", mock.Anything, "front.jpg", []byte("front")).
		Return("http://minio/listing-images/photos/front.jpg", nil).Once()

	body, contentType := multipartBody(t, nil, map[string][]byte{"front.jpg": []byte("front")})
	req := httptest.NewRequest(http.MethodPost, "/api/listings/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := ts.do(req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"http://minio/listing-images/photos/front.jpg"}, got["urls"])
	ts.storage.AssertExpectations(t)
}

func TestUploadPhotosRejectsTooMany(t *testing.T) {
	ts := newTestServer(t)

	photos := make(map[string][]byte)
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg"} {
		photos[name] = []byte("x")
	}
	body, contentType := multipartBody(t, nil, photos)
	req := httptest.NewRequest(http.MethodPost, "/api/listings/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := ts.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	ts.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateListingWithPhotos(t *testing.T) {
	ts := newTestServer(t)

	ts.storage.On("Upload", mock.Anything, "cover.jpg", []byte("cover")).
		Return("http://minio/listing-images/photos/cover.jpg", nil).Once()
	ts.listingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()

	fields := map[string]string{
		"title":        "Road bike",
		"price":        "320.50",
		"category":     "Sports & Outdoors",
		"seller_email": "seller@example.com",
	}
	body, contentType := multipartBody(t, fields, map[string][]byte{"cover.jpg": []byte("cover")})
	req := httptest.NewRequest(http.MethodPost, "/api/listings/with-photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := ts.do(req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got listingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "http://minio/listing-images/photos/cover.jpg", got.ImageURL)
	assert.Equal(t, 320.50, got.Price)
	ts.storage.AssertExpectations(t)
	ts.listingRepo.AssertExpectations(t)
}

func TestCreateListingWithPhotosBadPrice(t *testing.T) {
	ts := newTestServer(t)

	fields := map[string]string{
		"title":        "Road bike",
		"price":        "cheap",
		"category":     "Sports & Outdoors",
		"seller_email": "seller@example.com",
	}
	body, contentType := multipartBody(t, fields, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/listings/with-photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := ts.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	ts.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessage(t *testing.T) {
	ts := newTestServer(t)

	ts.messageRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil).Once()
	ts.listingRepo.On("FindByID", mock.Anything, "abc").Return(sampleListing("abc"), nil).Once()

	body := `{"listing_id":"abc","buyer_email":"buyer@example.com","seller_email":"seller@example.com","message":"Is this available?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	rec := ts.do(req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Is this available?", got.Message)
	assert.Equal(t, "generated-id", got.ID)
	ts.messageRepo.AssertExpectations(t)
}

func TestSendMessageEmptyBody(t *testing.T) {
	ts := newTestServer(t)

	body := `{"listing_id":"abc","buyer_email":"buyer@example.com","seller_email":"seller@example.com","message":"   "}`
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	rec := ts.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	ts.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListMessages(t *testing.T) {
	ts := newTestServer(t)

	messages := []*domain.Message{
		{ID: "1", ListingID: "abc", BuyerEmail: "buyer@example.com", SellerEmail: "seller@example.com", Body: "First"},
		{ID: "2", ListingID: "abc", BuyerEmail: "buyer@example.com", SellerEmail: "seller@example.com", Body: "Second"},
	}
	ts.messageRepo.On("FindByListingID", mock.Anything, "abc").Return(messages, nil).Once()

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/messages?listing_id=abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Message)
}

func TestListMessagesRequiresListingID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/messages", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	ts.messageRepo.AssertNotCalled(t, "FindByListingID", mock.Anything, mock.Anything)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
