package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
	"github.com/HalleluyahGirl/ExpenseApp/internal/metrics"
	"github.com/HalleluyahGirl/ExpenseApp/internal/transport/http/middleware"
	"github.com/HalleluyahGirl/ExpenseApp/internal/usecase"
	"github.com/gin-gonic/gin"
)

// recordUsecaser is the subset of RecordUsecase the handler needs.
type recordUsecaser interface {
	Create(ctx context.Context, kind domain.Kind, userID string, fields domain.Fields) (*domain.Record, error)
	Get(ctx context.Context, kind domain.Kind, id, userID string) (*domain.Record, error)
	Update(ctx context.Context, kind domain.Kind, id, userID string, patch domain.Fields) (*domain.Record, error)
	Delete(ctx context.Context, kind domain.Kind, id, userID string) error
	List(ctx context.Context, kind domain.Kind, userID string, raw usecase.RawFilters) ([]*domain.Record, error)
}

// RecordHandler serves the CRUD surface for one record kind. The same
// handler code backs /reminders, /expenses and /categories; the router
// binds a kind per route group.
type RecordHandler struct {
	records recordUsecaser
	logger  *slog.Logger
}

func NewRecordHandler(records recordUsecaser, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{records: records, logger: logger.With("component", "record_handler")}
}

// POST /<kind>
func (h *RecordHandler) Create(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fields domain.Fields
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rec, err := h.records.Create(c.Request.Context(), kind, c.GetString(middleware.UserIDKey), fields)
		if err != nil {
			h.logger.ErrorContext(c.Request.Context(), "create record", "kind", kind, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}

		metrics.RecordsCreatedTotal.WithLabelValues(string(kind)).Inc()
		c.JSON(http.StatusCreated, recordResponse(rec))
	}
}

// GET /<kind>/:id
func (h *RecordHandler) GetByID(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := h.records.Get(c.Request.Context(), kind, c.Param("id"), c.GetString(middleware.UserIDKey))
		if err != nil {
			h.replyError(c, kind, "get record", err)
			return
		}
		c.JSON(http.StatusOK, recordResponse(rec))
	}
}

// PUT /<kind>/:id
func (h *RecordHandler) Update(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch domain.Fields
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rec, err := h.records.Update(c.Request.Context(), kind, c.Param("id"), c.GetString(middleware.UserIDKey), patch)
		if err != nil {
			h.replyError(c, kind, "update record", err)
			return
		}
		c.JSON(http.StatusOK, recordResponse(rec))
	}
}

// DELETE /<kind>/:id
func (h *RecordHandler) Delete(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := h.records.Delete(c.Request.Context(), kind, c.Param("id"), c.GetString(middleware.UserIDKey))
		if err != nil {
			h.replyError(c, kind, "delete record", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GET /<kind>?date_from=&date_to=&category=&amount_min=&amount_max=
func (h *RecordHandler) List(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := usecase.RawFilters{
			DateFrom:  c.Query("date_from"),
			DateTo:    c.Query("date_to"),
			Category:  c.Query("category"),
			AmountMin: c.Query("amount_min"),
			AmountMax: c.Query("amount_max"),
		}

		recs, err := h.records.List(c.Request.Context(), kind, c.GetString(middleware.UserIDKey), raw)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidFilter) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			h.logger.ErrorContext(c.Request.Context(), "list records", "kind", kind, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}

		out := make([]gin.H, 0, len(recs))
		for _, rec := range recs {
			out = append(out, recordResponse(rec))
		}
		c.JSON(http.StatusOK, gin.H{"records": out})
	}
}

func (h *RecordHandler) replyError(c *gin.Context, kind domain.Kind, op string, err error) {
	if errors.Is(err, domain.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": errRecordNotFound})
		return
	}
	h.logger.ErrorContext(c.Request.Context(), op, "kind", kind, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
}

// recordResponse flattens a record into one JSON object: the open
// fields plus the server-stamped id, owner and creation time. Stamped
// keys always win over anything left in fields.
func recordResponse(rec *domain.Record) gin.H {
	out := gin.H{}
	for k, v := range rec.Fields {
		out[k] = v
	}
	out["id"] = rec.ID
	out[domain.FieldOwnerID] = rec.OwnerID
	out[domain.FieldCreatedAt] = rec.CreatedAt.Format(time.RFC3339Nano)
	return out
}
