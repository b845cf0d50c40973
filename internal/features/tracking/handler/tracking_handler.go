package handler

import (
	"errors"
	"strings"

	"github.com/okaniie/trackingstuff/internal/core/logger"
	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"
	"github.com/okaniie/trackingstuff/internal/features/tracking/ports"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NotFoundMessage is shown when a tracking id does not exist.
const NotFoundMessage = "Tracking ID not found. Please check your tracking ID and try again."

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	service  ports.TrackingService
	validate *validator.Validate
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(service ports.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes mounts the tracking API on router.
func (h *TrackingHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.Health)

	api := router.Group("/api")
	api.Post("/tracking", h.CreateTracking)
	api.Get("/tracking", h.ListTrackings)
	api.Get("/tracking/:trackingId", h.GetTracking)
	api.Put("/tracking/:trackingId", h.UpdateTracking)
	api.Get("/tracking/:trackingId/view", h.GetTrackingView)
	api.Get("/diagnostics/store", h.DiagnoseStore)
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// Details lists the offending fields of a rejected request.
	Details []string `json:"details,omitempty"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// CreateTrackingRequest represents the request body for creating a tracking record.
type CreateTrackingRequest struct {
	// TrackingID is generated when empty.
	TrackingID  string `json:"trackingId" validate:"omitempty,max=64,excludesall=/?#%"`
	Origin      string `json:"origin" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	Status      string `json:"status" validate:"required,oneof='Package Received' Processing 'In Transit' 'Out for Delivery' Delivered Exception"`
	// Location defaults to the origin.
	Location string `json:"location"`
	// EstimatedDelivery is an optional RFC 3339 timestamp.
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// UpdateTrackingRequest represents the request body for appending a status update.
type UpdateTrackingRequest struct {
	Status   string `json:"status" validate:"required,oneof='Package Received' Processing 'In Transit' 'Out for Delivery' Delivered Exception"`
	Location string `json:"location" validate:"required"`
}

// ListTrackingsResponse wraps every stored record.
type ListTrackingsResponse struct {
	TrackingData []domain.TrackingRecord `json:"trackingData"`
}

// HealthResponse reports store reachability.
type HealthResponse struct {
	Status string `json:"status"`
}

// CreateTracking godoc
// @Summary Create a tracking record
// @Description Creates a record whose history holds the creation event. A tracking id is generated when omitted.
// @Tags tracking
// @Accept json
// @Produce json
// @Param tracking body CreateTrackingRequest true "Tracking details"
// @Success 201 {object} domain.TrackingRecord
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/tracking [post]
func (h *TrackingHandler) CreateTracking(c *fiber.Ctx) error {
	var req CreateTrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return h.writeError(c, toValidationError(err))
	}

	input := domain.NewTracking{
		TrackingID:  strings.TrimSpace(req.TrackingID),
		Origin:      req.Origin,
		Destination: req.Destination,
		Status:      domain.Status(req.Status),
		Location:    req.Location,
	}
	if req.EstimatedDelivery != "" {
		eta, err := domain.ParseTimestamp(req.EstimatedDelivery)
		if err != nil {
			return h.writeError(c, &domain.ValidationError{Invalid: []string{"estimatedDelivery"}})
		}
		input.EstimatedDelivery = &eta
	}

	record, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// ListTrackings godoc
// @Summary List tracking records
// @Description Lists every record. With the trackingId query parameter it returns that single record.
// @Tags tracking
// @Produce json
// @Param trackingId query string false "Tracking ID"
// @Success 200 {object} ListTrackingsResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/tracking [get]
func (h *TrackingHandler) ListTrackings(c *fiber.Ctx) error {
	if id := c.Query("trackingId"); id != "" {
		return h.respondWithRecord(c, id)
	}

	records, err := h.service.List(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(ListTrackingsResponse{TrackingData: records})
}

// GetTracking godoc
// @Summary Get a tracking record
// @Description Returns the stored record with its full history.
// @Tags tracking
// @Produce json
// @Param trackingId path string true "Tracking ID"
// @Success 200 {object} domain.TrackingRecord
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/tracking/{trackingId} [get]
func (h *TrackingHandler) GetTracking(c *fiber.Ctx) error {
	return h.respondWithRecord(c, c.Params("trackingId"))
}

// UpdateTracking godoc
// @Summary Append a status update
// @Description Appends a history entry and mirrors its status, location and progress onto the record.
// @Tags tracking
// @Accept json
// @Produce json
// @Param trackingId path string true "Tracking ID"
// @Param update body UpdateTrackingRequest true "Status update"
// @Success 200 {object} domain.TrackingRecord
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/tracking/{trackingId} [put]
func (h *TrackingHandler) UpdateTracking(c *fiber.Ctx) error {
	var req UpdateTrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return h.writeError(c, toValidationError(err))
	}

	record, err := h.service.Update(c.UserContext(), c.Params("trackingId"), domain.Status(req.Status), req.Location)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(record)
}

// GetTrackingView godoc
// @Summary Get the derived tracking view
// @Description Returns progress, stage, color, icon, the chronological history, a newest-first timeline and map waypoints.
// @Tags tracking
// @Produce json
// @Param trackingId path string true "Tracking ID"
// @Success 200 {object} domain.TrackingView
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/tracking/{trackingId}/view [get]
func (h *TrackingHandler) GetTrackingView(c *fiber.Ctx) error {
	view, err := h.service.View(c.UserContext(), c.Params("trackingId"))
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(view)
}

// DiagnoseStore godoc
// @Summary Run a store round trip
// @Description Creates, reads, updates and deletes a throwaway record and reports each step.
// @Tags diagnostics
// @Produce json
// @Success 200 {object} domain.DiagnosticReport
// @Failure 500 {object} domain.DiagnosticReport
// @Router /api/diagnostics/store [get]
func (h *TrackingHandler) DiagnoseStore(c *fiber.Ctx) error {
	report, err := h.service.Diagnose(c.UserContext())
	if err != nil {
		logger.Get().Error("Store diagnostics failed",
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		if report == nil {
			return h.writeError(c, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(report)
	}

	return c.JSON(report)
}

// Health godoc
// @Summary Health check
// @Description Reports whether the record store is reachable.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *TrackingHandler) Health(c *fiber.Ctx) error {
	if err := h.service.Ping(c.UserContext()); err != nil {
		logger.Get().Warn("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{Status: "unavailable"})
	}
	return c.JSON(HealthResponse{Status: "ok"})
}

func (h *TrackingHandler) respondWithRecord(c *fiber.Ctx, trackingID string) error {
	record, err := h.service.Get(c.UserContext(), trackingID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(record)
}

func (h *TrackingHandler) badBody(c *fiber.Ctx, err error) error {
	logger.Get().Debug("Invalid request body", zap.String("ray_id", rayID(c)), zap.Error(err))
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Message: "Invalid request body",
		RayID:   rayID(c),
	})
}

// writeError maps domain errors onto status codes.
func (h *TrackingHandler) writeError(c *fiber.Ctx, err error) error {
	resp := ErrorResponse{RayID: rayID(c)}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Message = verr.Error()
		resp.Details = verr.Fields()
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	case errors.Is(err, domain.ErrValidation):
		resp.Message = err.Error()
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	case errors.Is(err, domain.ErrNotFound):
		resp.Message = NotFoundMessage
		return c.Status(fiber.StatusNotFound).JSON(resp)
	case errors.Is(err, domain.ErrConflict):
		resp.Message = "Tracking ID already exists"
		return c.Status(fiber.StatusConflict).JSON(resp)
	case errors.Is(err, domain.ErrTransientStore):
		logger.Get().Error("Store unavailable", zap.String("ray_id", resp.RayID), zap.Error(err))
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
		resp.Message = "Tracking store is temporarily unavailable. Please try again."
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	default:
		logger.Get().Error("Request failed", zap.String("ray_id", resp.RayID), zap.Error(err))
		resp.Message = "Internal server error"
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}

// retryAfterSeconds is advertised to clients on 503 responses.
const retryAfterSeconds = "5"

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
