package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Sentinel errors shared across repositories and services.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidFilter = errors.New("invalid filter")
)

// EventType classifies an event for the marketing collections that surface it.
type EventType string

const (
	EventTypeWebinar      EventType = "webinar"
	EventTypeSpecialEvent EventType = "special_event"
)

// EventTypes lists every valid event type, in display order.
var EventTypes = []EventType{EventTypeWebinar, EventTypeSpecialEvent}

// Valid reports whether t is a member of the event type enumeration.
func (t EventType) Valid() bool {
	for _, v := range EventTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Label returns the human-readable form of the type (e.g. "Special Event").
func (t EventType) Label() string {
	switch t {
	case EventTypeWebinar:
		return "Webinar"
	case EventTypeSpecialEvent:
		return "Special Event"
	default:
		return string(t)
	}
}

// Event is a past or upcoming association event shown in the digital library.
// Date carries the calendar date only (stored at UTC midnight); Time is the
// free-text display string for the human-readable time window.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Img         string    `json:"img"`
	Date        time.Time `json:"date"`
	Type        EventType `json:"type"`
	Time        string    `json:"time"`
	Presenters  []string  `json:"presenters"`
	Links       []string  `json:"links"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEvent returns an Event with the editable fields set. ID and CreatedAt
// are assigned by the repository on create. Presenters and Links are
// normalized to empty slices so they never marshal as null.
func NewEvent(name, img string, date time.Time, eventType EventType, timeText string, presenters, links []string, description string) *Event {
	if presenters == nil {
		presenters = []string{}
	}
	if links == nil {
		links = []string{}
	}
	return &Event{
		Name:        name,
		Img:         img,
		Date:        date,
		Type:        eventType,
		Time:        timeText,
		Presenters:  presenters,
		Links:       links,
		Description: description,
	}
}

// linkPlaceholders are link values that mean "no link yet".
var linkPlaceholders = map[string]bool{"#": true, "#.": true}

// VideoURL returns the first link that points at a recording: a known video
// host, or failing that any non-placeholder link. Empty string when none.
func VideoURL(links []string) string {
	for _, link := range links {
		if strings.Contains(link, "youtube.com") || strings.Contains(link, "youtu.be") {
			return link
		}
	}
	for _, link := range links {
		if link != "" && !linkPlaceholders[link] {
			return link
		}
	}
	return ""
}

// EventFilter restricts an event query. Zero values mean "no restriction":
// Year 0, Type "", nil date bounds. DateFrom/DateTo are inclusive and are
// ANDed with Year when both are present.
type EventFilter struct {
	Year     int
	Type     EventType
	DateFrom *time.Time
	DateTo   *time.Time
}

// Validate checks the filter against the engine's input constraints.
func (f EventFilter) Validate() error {
	if f.Year != 0 && (f.Year < 1000 || f.Year > 9999) {
		return ErrInvalidFilter
	}
	if f.Type != "" && !f.Type.Valid() {
		return ErrInvalidFilter
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return ErrInvalidFilter
	}
	return nil
}

// EventPage is one page of a filtered query. TotalCount is the size of the
// filtered set before pagination.
type EventPage struct {
	Events     []*Event `json:"events"`
	TotalCount int      `json:"total_count"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, error)
	Count(ctx context.Context, filter EventFilter) (int, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Years(ctx context.Context) ([]int, error)
	Types(ctx context.Context) ([]EventType, error)
	Upcoming(ctx context.Context, from time.Time, limit int) ([]*Event, error)
	Recent(ctx context.Context, limit int) ([]*Event, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic over the event collection:
// the filtered/paginated query engine, the year facet, and admin CRUD.
type EventService interface {
	Query(ctx context.Context, filter EventFilter, params PaginationParams) (*EventPage, error)
	AvailableYears(ctx context.Context) ([]int, error)
	AvailableTypes(ctx context.Context) ([]EventType, error)
	Upcoming(ctx context.Context, limit int) ([]*Event, error)
	Recent(ctx context.Context, limit int) ([]*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}
