package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"studiobook/internal/bookings/service"
	"studiobook/pkg/config"
	apperrors "studiobook/pkg/errors"
	httputil "studiobook/pkg/http"
	"studiobook/pkg/logger"
	"studiobook/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Submit)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/:id/status", h.UpdateStatus)
	router.PATCH("/api/v1/bookings/:id/payment-status", h.UpdatePaymentStatus)
}

func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body: session_id is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Submit", "error", writeErr)
		}
		return
	}

	record, err := h.service.Submit(r.Context(), req.SessionID)
	if err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	if err := httputil.WriteCreated(w, record); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "error", err)
	}
}

// List serves three lookups from one endpoint: ?reference= for an exact
// match, ?phone= for the client's booking history, neither for the paginated
// admin listing.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	if reference := query.Get("reference"); reference != "" {
		booking, err := h.service.GetByReference(r.Context(), reference)
		if err != nil {
			h.writeError(w, "List", err)
			return
		}
		h.writeSuccess(w, "List", booking)
		return
	}

	if phone := query.Get("phone"); phone != "" {
		bookings, err := h.service.GetByPhone(r.Context(), phone)
		if err != nil {
			h.writeError(w, "List", err)
			return
		}
		h.writeSuccess(w, "List", bookings)
		return
	}

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			h.writeError(w, "List", apperrors.InvalidInput(fmt.Sprintf("invalid limit parameter: %s", limitStr)))
			return
		}
	}
	limit = config.NormalizePaginationLimit(limit)

	offset := 0
	if offsetStr := query.Get("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			h.writeError(w, "List", apperrors.InvalidInput(fmt.Sprintf("invalid offset parameter: %s", offsetStr)))
			return
		}
	}

	bookings, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", booking)
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Status model.BookingStatus `json:"booking_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "UpdateStatus", apperrors.InvalidInput("invalid request body"))
		return
	}

	booking, err := h.service.UpdateBookingStatus(r.Context(), ps.ByName("id"), req.Status)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}
	h.writeSuccess(w, "UpdateStatus", booking)
}

func (h *BookingHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Status model.PaymentStatus `json:"payment_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "UpdatePaymentStatus", apperrors.InvalidInput("invalid request body"))
		return
	}

	booking, err := h.service.UpdatePaymentStatus(r.Context(), ps.ByName("id"), req.Status)
	if err != nil {
		h.writeError(w, "UpdatePaymentStatus", err)
		return
	}
	h.writeSuccess(w, "UpdatePaymentStatus", booking)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *BookingHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "error", err)
	}
}
