package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"trimline/server/internal/domain"
	"trimline/server/internal/service/booking"
	"trimline/server/internal/store"
)

type Handler struct {
	svc *booking.Service
	log *slog.Logger
}

func NewHandler(svc *booking.Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		svc: svc,
		log: log.With(slog.String("component", "rest.appointments")),
	}
}

// Routes builds the API mux. Patterns are method-qualified; the literal
// "availability" segment wins over the {id} wildcard.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /appointments", h.listAppointments)
	mux.HandleFunc("POST /appointments", h.createAppointment)
	mux.HandleFunc("GET /appointments/{id}", h.getAppointment)
	mux.HandleFunc("DELETE /appointments/{id}", h.deleteAppointment)
	mux.HandleFunc("GET /appointments/availability/{date}", h.availability)
	mux.HandleFunc("GET /services", h.listServices)
	mux.HandleFunc("GET /healthz", h.healthz)
	return mux
}

type createAppointmentRequest struct {
	Service      string `json:"service"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	CustomerName string `json:"customerName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		day, err := parseDate(dateParam)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid date format"})
			return
		}
		appts, err := h.svc.ListByDay(ctx, day)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, appointmentList(appts))
		return
	}

	appts, err := h.svc.List(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appointmentList(appts))
}

func (h *Handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid json body"})
		return
	}

	startTime, err := parseTimestamp(req.StartTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid startTime"})
		return
	}
	endTime, err := parseTimestamp(req.EndTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid endTime"})
		return
	}

	appt, err := h.svc.Create(r.Context(), booking.CreateInput{
		Service:      req.Service,
		StartTime:    startTime,
		EndTime:      endTime,
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Phone:        req.Phone,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			h.log.Info("booking conflict",
				slog.String("request_id", RequestIDFromContext(r.Context())),
				slog.Time("start_time", startTime),
				slog.Time("end_time", endTime),
			)
		}
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, appt)
}

func (h *Handler) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid appointment ID"})
		return
	}

	appt, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *Handler) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid appointment ID"})
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "appointment cancelled successfully"})
}

func (h *Handler) availability(w http.ResponseWriter, r *http.Request) {
	day, err := parseDate(r.PathValue("date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid date format"})
		return
	}

	slots, err := h.svc.DailySlots(r.Context(), day)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Services)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.List(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, messageResponse{Message: "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *booking.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: vErr.Error()})
	case errors.Is(err, booking.ErrBusinessHours):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: booking.ErrBusinessHours.Error()})
	case errors.Is(err, store.ErrConflict):
		writeJSON(w, http.StatusConflict, messageResponse{Message: "time slot is already booked"})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "appointment not found"})
	default:
		h.log.Error("request failed",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "internal server error"})
	}
}

// appointmentList keeps empty results as [] rather than null.
func appointmentList(appts []domain.Appointment) []domain.Appointment {
	if appts == nil {
		return []domain.Appointment{}
	}
	return appts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseTimestamp accepts RFC 3339 and the zone-less forms browsers send;
// zone-less values keep wall-clock semantics.
func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
