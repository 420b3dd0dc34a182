package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/souktrack/souktrack/internal/platform"
	"github.com/souktrack/souktrack/internal/platform/models"
)

// Catalog reads tracked products and their price history.
type Catalog interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	History(ctx context.Context, productID string) ([]models.PricePoint, error)
}

// HTTPHandler serves the product tracking API.
type HTTPHandler struct {
	catalog Catalog
	tracker Tracker
	logger  *zerolog.Logger
}

// NewHTTPHandler returns new HTTPHandler.
func NewHTTPHandler(catalog Catalog, tracker Tracker, logger *zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		catalog: catalog,
		tracker: tracker,
		logger:  logger,
	}
}

// Register registers all API routes on the router.
func (h *HTTPHandler) Register(router *mux.Router) {
	router.Use(h.logRequests)

	router.HandleFunc("/health", h.health).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/products", h.trackProducts).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/products", h.listProducts).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/products/{id}", h.getProduct).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/products/{id}/history", h.getHistory).Methods(http.MethodGet)
}

type trackRequest struct {
	URLs []string `json:"urls"`
}

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type resultResponse struct {
	URL     string           `json:"url"`
	Message string           `json:"message,omitempty"`
	Product *productResponse `json:"product,omitempty"`
	Error   *errorResponse   `json:"error,omitempty"`
}

type productResponse struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Website      string    `json:"website"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand,omitempty"`
	Description  string    `json:"description,omitempty"`
	Keywords     string    `json:"keywords,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	CurrentPrice *float64  `json:"current_price"`
	Currency     string    `json:"currency,omitempty"`
	StockStatus  string    `json:"stock_status"`
	Rating       *float64  `json:"rating,omitempty"`
	ReviewCount  *int      `json:"review_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type pricePointResponse struct {
	Price      float64   `json:"price"`
	Currency   string    `json:"currency,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

func (h *HTTPHandler) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) trackProducts(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "can't decode request body")
		return
	}

	results, err := h.tracker.ProcessBatch(r.Context(), req.URLs)
	if errors.Is(err, platform.ErrEmptyBatch) || errors.Is(err, platform.ErrTooManyURLs) {
		respondError(w, http.StatusBadRequest, batchErrorKind(err), err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, platform.KindInternal, "can't process batch")
		return
	}

	// response array is aligned positionally with the requested urls
	responses := make([]resultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, toResultResponse(result))
	}

	respondJSON(w, http.StatusOK, responses)
}

func (h *HTTPHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("can't list products")
		respondError(w, http.StatusInternalServerError, platform.KindInternal, "can't list products")
		return
	}

	responses := make([]productResponse, 0, len(products))
	for ix := range products {
		responses = append(responses, toProductResponse(&products[ix]))
	}

	respondJSON(w, http.StatusOK, responses)
}

func (h *HTTPHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, platform.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("can't get product")
		respondError(w, http.StatusInternalServerError, platform.KindInternal, "can't get product")
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *HTTPHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]

	// a missing product is a 404, an empty history of a tracked product is not
	if _, err := h.catalog.Get(r.Context(), productID); err != nil {
		if errors.Is(err, platform.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("can't get product")
		respondError(w, http.StatusInternalServerError, platform.KindInternal, "can't get product")
		return
	}

	history, err := h.catalog.History(r.Context(), productID)
	if err != nil {
		h.logger.Error().Err(err).Msg("can't get price history")
		respondError(w, http.StatusInternalServerError, platform.KindInternal, "can't get price history")
		return
	}

	points := make([]pricePointResponse, 0, len(history))
	for _, point := range history {
		points = append(points, pricePointResponse{
			Price:      point.Price,
			Currency:   point.Currency,
			ObservedAt: point.ObservedAt,
		})
	}

	respondJSON(w, http.StatusOK, points)
}

func (h *HTTPHandler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		h.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func toResultResponse(result models.BatchResult) resultResponse {
	response := resultResponse{
		URL:     result.URL,
		Message: result.Message,
	}

	if result.Err != nil {
		response.Message = ""
		response.Error = &errorResponse{
			Kind:    platform.ErrorKind(result.Err),
			Message: result.Err.Error(),
		}
		return response
	}

	if result.Product != nil {
		product := toProductResponse(result.Product)
		response.Product = &product
	}

	return response
}

func toProductResponse(product *models.Product) productResponse {
	return productResponse{
		ID:           product.ID,
		URL:          product.URL,
		Website:      product.Website,
		Name:         product.Name,
		Brand:        product.Brand,
		Description:  product.Description,
		Keywords:     strings.Join(product.Keywords, ","),
		ImageURL:     product.ImageURL,
		CurrentPrice: product.CurrentPrice,
		Currency:     product.Currency,
		StockStatus:  string(product.Stock),
		Rating:       product.Rating,
		ReviewCount:  product.ReviewCount,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

func batchErrorKind(err error) string {
	if errors.Is(err, platform.ErrEmptyBatch) {
		return "empty_batch"
	}
	return "too_many_urls"
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, map[string]errorResponse{
		"error": {Kind: kind, Message: message},
	})
}
