package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/okarv/pricetracker/internal/domain"
	"github.com/okarv/pricetracker/internal/ports"
	"github.com/okarv/pricetracker/internal/services"
)

// identityHeader carries the external identity, the way the chat adapter
// carries the message author's id.
const identityHeader = "X-User-ID"

// Handler contains all HTTP handlers. Every handler switches on its
// operation's result status exhaustively; an unknown tag panics into the
// recovery middleware.
type Handler struct {
	tracking ports.TrackingService
	updates  ports.UpdateService
	queries  ports.QueryService
	metrics  *services.Metrics
	logger   *slog.Logger
}

// NewHandler creates a new handler
func NewHandler(
	tracking ports.TrackingService,
	updates ports.UpdateService,
	queries ports.QueryService,
	metrics *services.Metrics,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		tracking: tracking,
		updates:  updates,
		queries:  queries,
		metrics:  metrics,
		logger:   logger.With("component", "http_handler"),
	}
}

func identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(identityHeader)
	if id == "" {
		respondStatus(w, http.StatusBadRequest, "identity_missing")
		return "", false
	}
	return id, true
}

// Health returns service health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Metrics returns update and scrape counters
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.metrics.Snapshot())
}

// RegisterRequest represents the request body for registering an account
type RegisterRequest struct {
	Name string `json:"name"`
}

// Register creates an account for the calling identity
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondStatus(w, http.StatusBadRequest, "invalid_body")
		return
	}

	res := h.tracking.Register(r.Context(), id, req.Name)
	switch res.Status {
	case ports.RegisterSuccess:
		respondJSON(w, http.StatusCreated, res.Account)
	case ports.RegisterDuplicate:
		respondStatus(w, http.StatusConflict, string(res.Status))
	case ports.RegisterError:
		respondOperationError(w, res.Err)
	default:
		unhandledStatus(res.Status)
	}
}

// AddProductRequest represents the request body for tracking a product
type AddProductRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AddProduct starts tracking a product for the calling identity
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondStatus(w, http.StatusBadRequest, "invalid_body")
		return
	}

	res := h.tracking.AddProduct(r.Context(), id, req.Name, req.URL)
	switch res.Status {
	case ports.AddSuccess:
		respondJSON(w, http.StatusCreated, res.Product)
	case ports.AddNotRegistered:
		respondStatus(w, http.StatusForbidden, string(res.Status))
	case ports.AddNameMissing, ports.AddURLMissing:
		respondStatus(w, http.StatusBadRequest, string(res.Status))
	case ports.AddProductExists:
		respondStatus(w, http.StatusConflict, string(res.Status))
	case ports.AddUnableToScrape:
		respondStatus(w, http.StatusBadGateway, string(res.Status))
	case ports.AddError:
		respondOperationError(w, res.Err)
	default:
		unhandledStatus(res.Status)
	}
}

// RemoveProduct stops tracking a product
func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	res := h.tracking.RemoveProduct(r.Context(), id, r.PathValue("name"))
	switch res.Status {
	case ports.RemoveSuccess:
		w.WriteHeader(http.StatusNoContent)
	case ports.RemoveNotRegistered:
		respondStatus(w, http.StatusForbidden, string(res.Status))
	case ports.RemoveNameMissing:
		respondStatus(w, http.StatusBadRequest, string(res.Status))
	case ports.RemoveProductNotFound:
		respondStatus(w, http.StatusNotFound, string(res.Status))
	case ports.RemoveError:
		respondOperationError(w, res.Err)
	default:
		unhandledStatus(res.Status)
	}
}

// UpdateResponse represents the outcome of an update batch
type UpdateResponse struct {
	Attempted int                  `json:"attempted"`
	Changed   []domain.PriceChange `json:"changed"`
}

// UpdatePrices re-scrapes every tracked product for the calling identity
func (h *Handler) UpdatePrices(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	res := h.updates.UpdatePrices(r.Context(), id)
	switch res.Status {
	case ports.UpdateSuccess:
		changed := res.Changed
		if changed == nil {
			changed = []domain.PriceChange{}
		}
		respondJSON(w, http.StatusOK, UpdateResponse{Attempted: res.Attempted, Changed: changed})
	case ports.UpdateNotRegistered:
		respondStatus(w, http.StatusForbidden, string(res.Status))
	case ports.UpdateError:
		respondOperationError(w, res.Err)
	default:
		unhandledStatus(res.Status)
	}
}

// ListProducts returns the tracked products with their latest prices
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	res := h.queries.ListProducts(r.Context(), id)
	switch res.Status {
	case ports.ListSuccess:
		products := res.Products
		if products == nil {
			products = []domain.ProductListing{}
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"products": products})
	case ports.ListNotRegistered:
		respondStatus(w, http.StatusForbidden, string(res.Status))
	case ports.ListError:
		respondOperationError(w, res.Err)
	default:
		unhandledStatus(res.Status)
	}
}

// HistoryRow is one row of the compressed timeline in the API response
type HistoryRow struct {
	Type      string `json:"type"`
	Name      string `json:"name,omitempty"`
	Points    int    `json:"points,omitempty"`
	Price     string `json:"price,omitempty"`
	Timestamp string `json:"ts,omitempty"`
}

// GetHistory returns the compressed price timeline for a product
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	res := h.queries.GetHistory(r.Context(), id, r.PathValue("name"))
	switch res.Status {
	case ports.HistorySuccess:
		rows, err := domain.CompressHistory(res.Product.Name, res.Points)
		if err != nil {
			respondOperationError(w, err)
			return
		}
		items := make([]HistoryRow, 0, 4)
		for row := range rows {
			items = append(items, historyRow(row))
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"name": res.Product.Name,
			"rows": items,
		})
	case ports.HistoryNotRegistered:
		respondStatus(w, http.StatusForbidden, string(res.Status))
	case ports.HistoryNameMissing:
		respondStatus(w, http.StatusBadRequest, string(res.Status))
	case ports.HistoryNameNotFound:
		respondStatus(w, http.StatusNotFound, string(res.Status))
	case ports.HistoryError:
		respondOperationError(w, res.Err)
	default:
		unhandledStatus(res.Status)
	}
}

func historyRow(row domain.Row) HistoryRow {
	switch row.Kind {
	case domain.RowHeader:
		return HistoryRow{Type: "header", Name: row.Name, Points: row.Points}
	case domain.RowCurrent:
		return HistoryRow{Type: "current", Price: row.Price}
	case domain.RowSeparator:
		return HistoryRow{Type: "separator"}
	case domain.RowPrice:
		return HistoryRow{
			Type:      "price",
			Price:     row.Price,
			Timestamp: row.CreatedAt.Format(time.RFC3339),
		}
	default:
		unhandledStatus(row.Kind)
		return HistoryRow{}
	}
}
