// Package api exposes the booking service over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/aarti98/ConferenceBookingSystem/internal/audit"
	"github.com/aarti98/ConferenceBookingSystem/internal/auth"
	"github.com/aarti98/ConferenceBookingSystem/internal/booking"
	"github.com/aarti98/ConferenceBookingSystem/internal/models"
)

// SessionHeader carries the session token on authenticated requests.
const SessionHeader = "X-Session-Token"

// Handlers wires the auth service and booking engine into HTTP routes.
type Handlers struct {
	auth    *auth.Service
	engine  *booking.Engine
	journal *audit.Journal // optional
	logger  zerolog.Logger
}

// NewHandlers creates the handler set. The journal may be nil; the export
// endpoint then responds 404.
func NewHandlers(authSvc *auth.Service, engine *booking.Engine, journal *audit.Journal, logger zerolog.Logger) *Handlers {
	return &Handlers{
		auth:    authSvc,
		engine:  engine,
		journal: journal,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// Router builds the service router.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/login", h.Login).Methods("POST")
	r.HandleFunc("/api/v1/logout", h.Logout).Methods("POST")
	r.HandleFunc("/api/v1/organizations", h.RegisterOrganization).Methods("POST")
	r.HandleFunc("/api/v1/users", h.RegisterUser).Methods("POST")
	r.HandleFunc("/api/v1/floors", h.AddFloor).Methods("POST")
	r.HandleFunc("/api/v1/rooms", h.AddRoom).Methods("POST")
	r.HandleFunc("/api/v1/rooms/search", h.SearchRooms).Methods("GET")
	r.HandleFunc("/api/v1/bookings", h.BookRoom).Methods("POST")
	r.HandleFunc("/api/v1/bookings", h.ListBookings).Methods("GET")
	r.HandleFunc("/api/v1/bookings/mine", h.UserBookings).Methods("GET")
	r.HandleFunc("/api/v1/bookings/{id}", h.CancelBooking).Methods("DELETE")
	r.HandleFunc("/api/v1/audit/export", h.ExportAudit).Methods("GET")
	return r
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrQuotaExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("internal error")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.ErrInvalidInput
	}
	return nil
}

func token(r *http.Request) string {
	return r.Header.Get(SessionHeader)
}

// Login handles POST /api/v1/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	session, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": session.Token})
}

// Logout handles POST /api/v1/logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), token(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterOrganization handles POST /api/v1/organizations.
func (h *Handlers) RegisterOrganization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		ContactInfo string `json:"contact_info"`
		Address     string `json:"address"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	org, err := h.auth.RegisterOrganization(r.Context(), token(r), req.Name, req.ContactInfo, req.Address)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

// RegisterUser handles POST /api/v1/users.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrgID       string   `json:"org_id"`
		Username    string   `json:"username"`
		Password    string   `json:"password"`
		Email       string   `json:"email"`
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	user, err := h.auth.RegisterUser(r.Context(), token(r), req.OrgID, req.Username, req.Password, req.Email, req.Role, req.Permissions)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// AddFloor handles POST /api/v1/floors.
func (h *Handlers) AddFloor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Number int `json:"number"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	floor, err := h.engine.AddFloor(r.Context(), token(r), req.Number)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, floor)
}

// AddRoom handles POST /api/v1/rooms.
func (h *Handlers) AddRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FloorID  string               `json:"floor_id"`
		Name     string               `json:"name"`
		Capacity int                  `json:"capacity"`
		Details  string               `json:"details"`
		Settings *models.RoomSettings `json:"settings"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	room, err := h.engine.AddRoom(r.Context(), token(r), req.FloorID, req.Name, req.Capacity, req.Details, req.Settings)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// BookRoom handles POST /api/v1/bookings.
func (h *Handlers) BookRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID    string `json:"room_id"`
		Date      string `json:"date"`
		StartHour int    `json:"start_hour"`
		EndHour   int    `json:"end_hour"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	confirmation, err := h.engine.BookRoom(r.Context(), token(r), req.RoomID, req.StartHour, req.EndHour, req.Date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, confirmation)
}

// CancelBooking handles DELETE /api/v1/bookings/{id}.
func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	confirmation, err := h.engine.CancelBooking(r.Context(), token(r), bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, confirmation)
}

// SearchRooms handles GET /api/v1/rooms/search.
func (h *Handlers) SearchRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	capacity, err := strconv.Atoi(q.Get("capacity"))
	if err != nil {
		h.writeError(w, models.ErrInvalidInput)
		return
	}
	startHour, err := strconv.Atoi(q.Get("start_hour"))
	if err != nil {
		h.writeError(w, models.ErrInvalidInput)
		return
	}
	endHour, err := strconv.Atoi(q.Get("end_hour"))
	if err != nil {
		h.writeError(w, models.ErrInvalidInput)
		return
	}
	rooms, err := h.engine.SearchRooms(r.Context(), token(r), capacity, q.Get("date"), startHour, endHour)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if rooms == nil {
		rooms = []booking.RoomRef{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

// ListBookings handles GET /api/v1/bookings (organization bookings in a
// date range).
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bookings, err := h.engine.ListOrgBookings(r.Context(), token(r), q.Get("from"), q.Get("to"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// UserBookings handles GET /api/v1/bookings/mine.
func (h *Handlers) UserBookings(w http.ResponseWriter, r *http.Request) {
	upcoming, past, err := h.engine.UserBookings(r.Context(), token(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Booking{
		"upcoming": upcoming,
		"past":     past,
	})
}

// ExportAudit handles GET /api/v1/audit/export: the caller's organization
// journal as an Excel workbook. Admin only.
func (h *Handlers) ExportAudit(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		h.writeError(w, models.ErrNotFound)
		return
	}
	user, err := h.auth.Resolve(r.Context(), token(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !user.IsAdmin() {
		h.writeError(w, models.ErrPermissionDenied)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="booking_events.xlsx"`)
	if err := h.journal.ExportOrgToExcel(r.Context(), user.OrgID, w); err != nil {
		h.logger.Error().Err(err).Msg("audit export failed")
	}
}
