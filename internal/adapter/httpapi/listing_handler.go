package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/Hrishith30/marketplace/internal/listing/domain"
	"github.com/Hrishith30/marketplace/internal/listing/usecase"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/Hrishith30/marketplace/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxMultipartMemory bounds how much of a multipart body is held in memory
// before spilling to disk.
const maxMultipartMemory = 32 << 20

// ListingHandler serves the listing routes.
type ListingHandler struct {
	responder
	listings *usecase.ListingUsecase
	photos   *usecase.PhotoUsecase
}

func NewListingHandler(listings *usecase.ListingUsecase, photos *usecase.PhotoUsecase, m *metrics.Manager, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		responder: responder{logger: log.Named("ListingHandler"), metrics: m},
		listings:  listings,
		photos:    photos,
	}
}

type createListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Location    string   `json:"location"`
	SellerEmail string   `json:"seller_email"`
	ImageURL    string   `json:"image_url"`
	ImageURLs   []string `json:"image_urls"`
}

func (req createListingRequest) toInput() usecase.CreateListingInput {
	return usecase.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    domain.Category(req.Category),
		Condition:   domain.Condition(req.Condition),
		Location:    req.Location,
		SellerEmail: req.SellerEmail,
		ImageURL:    req.ImageURL,
		ImageURLs:   req.ImageURLs,
	}
}

// HandleBrowseListings serves GET /api/listings. The query parameters
// category, condition, price and search are all optional; absent or "all"
// means unfiltered. Unrecognized tokens are a 400, never a silent
// empty result.
func (h *ListingHandler) HandleBrowseListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var category *domain.Category
	if raw := q.Get("category"); raw != "" && raw != "all" {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			h.respondError(w, "browse_listings", err)
			return
		}
		category = &c
	}

	var condition *domain.Condition
	if raw := q.Get("condition"); raw != "" && raw != "all" {
		c, err := domain.ParseCondition(raw)
		if err != nil {
			h.respondError(w, "browse_listings", err)
			return
		}
		condition = &c
	}

	var bucket *domain.PriceBucket
	if raw := q.Get("price"); raw != "" && raw != "all" {
		b, err := domain.ParsePriceBucket(raw)
		if err != nil {
			h.respondError(w, "browse_listings", err)
			return
		}
		bucket = &b
	}

	listings, err := h.listings.BrowseListings(r.Context(), q.Get("search"), category, condition, bucket)
	if err != nil {
		h.respondError(w, "browse_listings", err)
		return
	}
	h.respondJSON(w, http.StatusOK, toListingResponses(listings))
}

// HandleGetListing serves GET /api/listings/{id}.
func (h *ListingHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.listings.GetListingByID(r.Context(), id)
	if err != nil {
		h.respondError(w, "get_listing", err)
		return
	}
	h.respondJSON(w, http.StatusOK, toListingResponse(listing))
}

// HandleCreateListing serves POST /api/listings with a JSON body.
func (h *ListingHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "create_listing", domain.NewInvalidInput("invalid request body: %v", err))
		return
	}

	listing, err := h.listings.CreateListing(r.Context(), req.toInput())
	if err != nil {
		h.respondError(w, "create_listing", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, toListingResponse(listing))
}

// HandleUploadPhotos serves POST /api/listings/photos: a multipart batch of
// up to 5 photos, uploaded concurrently, returning their public URLs.
func (h *ListingHandler) HandleUploadPhotos(w http.ResponseWriter, r *http.Request) {
	files, err := h.readPhotoFiles(r)
	if err != nil {
		h.respondError(w, "upload_photos", err)
		return
	}

	urls, err := h.photos.UploadPhotos(r.Context(), files)
	if err != nil {
		h.respondError(w, "upload_photos", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string][]string{"urls": urls})
}

// HandleCreateListingWithPhotos serves POST /api/listings/with-photos: a
// multipart form carrying both the listing fields and its photos. Photos
// are uploaded first; if the listing insert then fails, the uploads are
// removed rather than orphaned.
func (h *ListingHandler) HandleCreateListingWithPhotos(w http.ResponseWriter, r *http.Request) {
	files, err := h.readPhotoFiles(r)
	if err != nil {
		h.respondError(w, "create_listing_with_photos", err)
		return
	}

	form := r.MultipartForm.Value
	price, err := parsePrice(formValue(form, "price"))
	if err != nil {
		h.respondError(w, "create_listing_with_photos", err)
		return
	}
	input := usecase.CreateListingInput{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Price:       price,
		Category:    domain.Category(formValue(form, "category")),
		Condition:   domain.Condition(formValue(form, "condition")),
		Location:    formValue(form, "location"),
		SellerEmail: formValue(form, "seller_email"),
	}

	listing, err := h.listings.CreateListingWithPhotos(r.Context(), input, files)
	if err != nil {
		h.respondError(w, "create_listing_with_photos", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, toListingResponse(listing))
}

func (h *ListingHandler) readPhotoFiles(r *http.Request) ([]usecase.PhotoFile, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, domain.NewInvalidInput("invalid multipart body: %v", err)
	}

	headers := r.MultipartForm.File["photos"]
	if len(headers) > usecase.MaxPhotosPerListing {
		return nil, domain.NewInvalidInput("at most %d photos per listing, got %d", usecase.MaxPhotosPerListing, len(headers))
	}

	files := make([]usecase.PhotoFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, domain.NewInvalidInput("cannot read photo %q: %v", header.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, usecase.MaxPhotoSizeBytes+1))
		f.Close()
		if err != nil {
			h.logger.Error("Failed to read uploaded photo", zap.String("filename", header.Filename), zap.Error(err))
			return nil, domain.NewInvalidInput("cannot read photo %q", header.Filename)
		}
		files = append(files, usecase.PhotoFile{Name: header.Filename, Data: data})
	}
	return files, nil
}

func formValue(form map[string][]string, key string) string {
	if values := form[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func parsePrice(raw string) (float64, error) {
	if raw == "" {
		return 0, domain.NewInvalidInput("price is required")
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.NewInvalidInput("invalid price %q", raw)
	}
	return price, nil
}
