package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vapaweb/internal/domain"
)

const defaultHighlightLimit = 3

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService backed by the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

// Query returns one page of the filtered event set plus the pre-pagination
// total. Results are ordered by date descending; same-date ordering is the
// store default and is not guaranteed. A page past the end of the set
// returns an empty slice with the real total; the page is never clamped,
// so callers can detect and correct their own state.
func (s *eventService) Query(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) (*domain.EventPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if params.PageSize < 0 {
		return nil, domain.ErrInvalidFilter
	}
	if params.Page < 1 {
		params.Page = 1
	}

	total, err := s.eventRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	events := make([]*domain.Event, 0)
	// Skip the list query when the requested page starts past the end;
	// the repository would return an empty page anyway.
	if params.Unbounded() || params.Offset() < total {
		events, err = s.eventRepo.List(ctx, filter, params)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
	}

	return &domain.EventPage{Events: events, TotalCount: total}, nil
}

// AvailableYears returns the distinct calendar years present in the event
// collection, descending. The "All" option is a UI concern and is not
// included here.
func (s *eventService) AvailableYears(ctx context.Context) ([]int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	years, err := s.eventRepo.Years(ctx)
	if err != nil {
		return nil, fmt.Errorf("list event years: %w", err)
	}
	return years, nil
}

func (s *eventService) AvailableTypes(ctx context.Context) ([]domain.EventType, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	types, err := s.eventRepo.Types(ctx)
	if err != nil {
		return nil, fmt.Errorf("list event types: %w", err)
	}
	return types, nil
}

// Upcoming returns events dated today or later, soonest first.
func (s *eventService) Upcoming(ctx context.Context, limit int) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if limit < 1 {
		limit = defaultHighlightLimit
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	events, err := s.eventRepo.Upcoming(ctx, today, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

// Recent returns the most recent events, newest first.
func (s *eventService) Recent(ctx context.Context, limit int) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if limit < 1 {
		limit = defaultHighlightLimit
	}
	events, err := s.eventRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(event); err != nil {
		return err
	}
	return s.eventRepo.Create(ctx, event)
}

// Update replaces every editable field of the event; there are no
// partial-field patches at the domain level.
func (s *eventService) Update(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.ID == "" {
		return domain.ErrNotFound
	}
	if err := validateEvent(event); err != nil {
		return err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func validateEvent(event *domain.Event) error {
	event.Name = strings.TrimSpace(event.Name)
	if event.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if event.Date.IsZero() {
		return fmt.Errorf("event date is required")
	}
	if !event.Type.Valid() {
		return fmt.Errorf("unknown event type %q", event.Type)
	}
	if event.Presenters == nil {
		event.Presenters = []string{}
	}
	if event.Links == nil {
		event.Links = []string{}
	}
	return nil
}
