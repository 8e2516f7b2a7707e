package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"vapaweb/internal/delivery/http/helpers"
	"vapaweb/internal/domain"
)

const dateLayout = "2006-01-02"

// EventController serves the public digital-library queries and the admin
// CRUD endpoints.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// EventListResponse is the payload for GET /events.
type EventListResponse struct {
	Events []*domain.Event `json:"events"`
	helpers.PaginationMeta
}

// ListEvents handles GET /events. Query parameters: year, type, date_from,
// date_to, page, page_size ("all" accepted). Unparseable year or date
// bounds are 400; an unrecognized type is treated as no filter, never
// forwarded to the engine.
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter domain.EventFilter
	if s := q.Get("year"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "year must be an integer")
			return
		}
		filter.Year = year
	}
	if s := q.Get("type"); s != "" {
		if t := domain.EventType(s); t.Valid() {
			filter.Type = t
		}
	}
	if s := q.Get("date_from"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date_from must be YYYY-MM-DD")
			return
		}
		filter.DateFrom = &t
	}
	if s := q.Get("date_to"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date_to must be YYYY-MM-DD")
			return
		}
		filter.DateTo = &t
	}
	params := helpers.ParsePagination(r)

	page, err := c.Service.Query(r.Context(), filter, params)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFilter) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid filter")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to fetch events")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Events:         page.Events,
		PaginationMeta: helpers.NewPaginationMeta(params, page.TotalCount),
	})
}

// ListYears handles GET /events/years: the distinct years present in the
// collection, descending. The "All" option belongs to the UI, not the API.
func (c *EventController) ListYears(w http.ResponseWriter, r *http.Request) {
	years, err := c.Service.AvailableYears(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to fetch years")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, years)
}

// EventTypeOption pairs an event type value with its display label.
type EventTypeOption struct {
	Value domain.EventType `json:"value"`
	Label string           `json:"label"`
}

// ListTypes handles GET /events/types.
func (c *EventController) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := c.Service.AvailableTypes(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to fetch types")
		return
	}
	options := make([]EventTypeOption, 0, len(types))
	for _, t := range types {
		options = append(options, EventTypeOption{Value: t, Label: t.Label()})
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, options)
}

// ListUpcoming handles GET /events/upcoming?limit=.
func (c *EventController) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.Upcoming(r.Context(), parseLimit(r))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to fetch upcoming events")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListRecent handles GET /events/recent?limit=.
func (c *EventController) ListRecent(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.Recent(r.Context(), parseLimit(r))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to fetch recent events")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

func parseLimit(r *http.Request) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			return v
		}
	}
	return 0
}

// GetEventByID handles GET /events/{eventID}.
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to fetch event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// EventRequest is the request body for POST /events and PUT /events/{eventID}.
// Update is a full-record replace: every editable field must be sent.
type EventRequest struct {
	Name        string   `json:"name"`
	Img         string   `json:"img"`
	Date        string   `json:"date"`
	Type        string   `json:"type"`
	Time        string   `json:"time"`
	Presenters  []string `json:"presenters"`
	Links       []string `json:"links"`
	Description string   `json:"description"`
}

// Validate implements Validator. Returns error messages for required and format rules.
func (e EventRequest) Validate() []string {
	var errs []string
	if e.Name == "" {
		errs = append(errs, "name is required")
	}
	if e.Date == "" {
		errs = append(errs, "date is required")
	} else if _, err := time.Parse(dateLayout, e.Date); err != nil {
		errs = append(errs, "date must be YYYY-MM-DD")
	}
	if !domain.EventType(e.Type).Valid() {
		errs = append(errs, "unknown event type")
	}
	return errs
}

func (e EventRequest) toEvent() *domain.Event {
	date, _ := time.Parse(dateLayout, e.Date)
	return domain.NewEvent(e.Name, e.Img, date, domain.EventType(e.Type), e.Time, e.Presenters, e.Links, e.Description)
}

// CreateEvent handles POST /events (admin).
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := req.toEvent()
	if err := c.Service.Create(r.Context(), event); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to create event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent handles PUT /events/{eventID} (admin).
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := req.toEvent()
	event.ID = eventID
	if err := c.Service.Update(r.Context(), event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to update event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{eventID} (admin). Deletion is
// irreversible; there is no soft delete.
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if err := c.Service.Delete(r.Context(), eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to delete event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
}
