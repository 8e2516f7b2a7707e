package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vapaweb/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, every method returns this error

	lastListFilter domain.EventFilter
	lastListParams domain.PaginationParams
	listCalls      int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) add(name string, date time.Time, eventType domain.EventType) *domain.Event {
	e := domain.NewEvent(name, "", date, eventType, "", nil, nil, "")
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) matches(e *domain.Event, filter domain.EventFilter) bool {
	if filter.Year != 0 && e.Date.UTC().Year() != filter.Year {
		return false
	}
	if filter.Type != "" && e.Type != filter.Type {
		return false
	}
	if filter.DateFrom != nil && e.Date.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && e.Date.After(*filter.DateTo) {
		return false
	}
	return true
}

func (f *fakeEventRepo) filtered(filter domain.EventFilter) []*domain.Event {
	var out []*domain.Event
	for _, e := range f.byID {
		if f.matches(e, filter) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, error) {
	f.listCalls++
	f.lastListFilter = filter
	f.lastListParams = params
	if f.err != nil {
		return nil, f.err
	}
	all := f.filtered(filter)
	if params.Unbounded() {
		return all, nil
	}
	start := params.Offset()
	if start >= len(all) {
		return []*domain.Event{}, nil
	}
	end := start + params.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeEventRepo) Count(ctx context.Context, filter domain.EventFilter) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.filtered(filter)), nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Years(ctx context.Context) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := make(map[int]bool)
	for _, e := range f.byID {
		seen[e.Date.UTC().Year()] = true
	}
	var years []int
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (f *fakeEventRepo) Types(ctx context.Context) ([]domain.EventType, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := make(map[domain.EventType]bool)
	for _, e := range f.byID {
		seen[e.Type] = true
	}
	var types []domain.EventType
	for _, t := range domain.EventTypes {
		if seen[t] {
			types = append(types, t)
		}
	}
	return types, nil
}

func (f *fakeEventRepo) Upcoming(ctx context.Context, from time.Time, limit int) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Event
	for _, e := range f.byID {
		if !e.Date.Before(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEventRepo) Recent(ctx context.Context, limit int) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.filtered(domain.EventFilter{})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	e.CreatedAt = time.Now()
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func seededRepo() *fakeEventRepo {
	repo := newFakeEventRepo()
	repo.add("Spring Webinar", date(2024, 3, 10), domain.EventTypeWebinar)
	repo.add("Summer Gala", date(2024, 7, 2), domain.EventTypeSpecialEvent)
	repo.add("Autumn Webinar", date(2024, 10, 5), domain.EventTypeWebinar)
	repo.add("Winter Webinar", date(2023, 12, 1), domain.EventTypeWebinar)
	repo.add("Old Gala", date(2022, 5, 20), domain.EventTypeSpecialEvent)
	return repo
}

func TestEventService_Query(t *testing.T) {
	ctx := context.Background()

	t.Run("no filter returns everything newest first", func(t *testing.T) {
		svc := NewEventService(seededRepo(), time.Second)
		page, err := svc.Query(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Equal(t, 5, page.TotalCount)
		require.Len(t, page.Events, 5)
		for i := 1; i < len(page.Events); i++ {
			assert.False(t, page.Events[i].Date.After(page.Events[i-1].Date))
		}
	})

	t.Run("year filter", func(t *testing.T) {
		svc := NewEventService(seededRepo(), time.Second)
		page, err := svc.Query(ctx, domain.EventFilter{Year: 2024}, domain.PaginationParams{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, page.TotalCount)
		for _, e := range page.Events {
			assert.Equal(t, 2024, e.Date.Year())
		}
	})

	t.Run("type and year combined", func(t *testing.T) {
		svc := NewEventService(seededRepo(), time.Second)
		page, err := svc.Query(ctx, domain.EventFilter{Year: 2024, Type: domain.EventTypeWebinar}, domain.PaginationParams{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalCount)
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		svc := NewEventService(seededRepo(), time.Second)
		from := date(2024, 3, 10)
		to := date(2024, 7, 2)
		page, err := svc.Query(ctx, domain.EventFilter{DateFrom: &from, DateTo: &to}, domain.PaginationParams{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalCount)
	})

	t.Run("pagination slices the filtered set", func(t *testing.T) {
		svc := NewEventService(seededRepo(), time.Second)
		page, err := svc.Query(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, page.TotalCount)
		require.Len(t, page.Events, 2)
	})

	t.Run("page past the end returns empty slice and real total", func(t *testing.T) {
		repo := seededRepo()
		svc := NewEventService(repo, time.Second)
		page, err := svc.Query(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 9, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 5, page.TotalCount)
		require.NotNil(t, page.Events)
		assert.Empty(t, page.Events)
		assert.Zero(t, repo.listCalls, "list query should be skipped past the end")
	})

	t.Run("page size all returns the whole set", func(t *testing.T) {
		svc := NewEventService(seededRepo(), time.Second)
		page, err := svc.Query(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 3, PageSize: domain.PageSizeAll})
		require.NoError(t, err)
		assert.Len(t, page.Events, 5)
	})

	t.Run("page below one treated as page one", func(t *testing.T) {
		repo := seededRepo()
		svc := NewEventService(repo, time.Second)
		_, err := svc.Query(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 0, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 1, repo.lastListParams.Page)
	})

	t.Run("invalid filter", func(t *testing.T) {
		svc := NewEventService(seededRepo(), time.Second)
		_, err := svc.Query(ctx, domain.EventFilter{Year: 99}, domain.PaginationParams{Page: 1, PageSize: 10})
		require.ErrorIs(t, err, domain.ErrInvalidFilter)
	})

	t.Run("negative page size", func(t *testing.T) {
		svc := NewEventService(seededRepo(), time.Second)
		_, err := svc.Query(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 1, PageSize: -1})
		require.ErrorIs(t, err, domain.ErrInvalidFilter)
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.err = errors.New("db down")
		svc := NewEventService(repo, time.Second)
		_, err := svc.Query(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 1, PageSize: 10})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "count events")
	})
}

func TestEventService_AvailableYears(t *testing.T) {
	svc := NewEventService(seededRepo(), time.Second)
	years, err := svc.AvailableYears(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2023, 2022}, years)
}

func TestEventService_UpcomingAndRecent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	future := time.Now().UTC().AddDate(0, 1, 0)
	repo.add("Next Month Webinar", future, domain.EventTypeWebinar)
	repo.add("Long Past Gala", date(2020, 1, 1), domain.EventTypeSpecialEvent)
	svc := NewEventService(repo, time.Second)

	upcoming, err := svc.Upcoming(ctx, 0)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Next Month Webinar", upcoming[0].Name)

	recent, err := svc.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Next Month Webinar", recent[0].Name)
}

func TestEventService_CRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns id", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)
		e := domain.NewEvent("New Webinar", "", date(2025, 2, 1), domain.EventTypeWebinar, "", nil, nil, "")
		require.NoError(t, svc.Create(ctx, e))
		assert.NotEmpty(t, e.ID)
	})

	t.Run("create rejects missing name", func(t *testing.T) {
		svc := NewEventService(newFakeEventRepo(), time.Second)
		e := domain.NewEvent("  ", "", date(2025, 2, 1), domain.EventTypeWebinar, "", nil, nil, "")
		require.Error(t, svc.Create(ctx, e))
	})

	t.Run("create rejects unknown type", func(t *testing.T) {
		svc := NewEventService(newFakeEventRepo(), time.Second)
		e := domain.NewEvent("X", "", date(2025, 2, 1), "conference", "", nil, nil, "")
		require.Error(t, svc.Create(ctx, e))
	})

	t.Run("update replaces the record", func(t *testing.T) {
		repo := seededRepo()
		svc := NewEventService(repo, time.Second)
		e := domain.NewEvent("Renamed", "", date(2024, 3, 10), domain.EventTypeWebinar, "", nil, nil, "")
		e.ID = "ev-1"
		require.NoError(t, svc.Update(ctx, e))
		got, err := svc.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
	})

	t.Run("update without id", func(t *testing.T) {
		svc := NewEventService(seededRepo(), time.Second)
		e := domain.NewEvent("X", "", date(2024, 3, 10), domain.EventTypeWebinar, "", nil, nil, "")
		require.ErrorIs(t, svc.Update(ctx, e), domain.ErrNotFound)
	})

	t.Run("update missing event", func(t *testing.T) {
		svc := NewEventService(seededRepo(), time.Second)
		e := domain.NewEvent("X", "", date(2024, 3, 10), domain.EventTypeWebinar, "", nil, nil, "")
		e.ID = "ev-404"
		require.ErrorIs(t, svc.Update(ctx, e), domain.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo := seededRepo()
		svc := NewEventService(repo, time.Second)
		require.NoError(t, svc.Delete(ctx, "ev-1"))
		_, err := svc.GetByID(ctx, "ev-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.ErrorIs(t, svc.Delete(ctx, "ev-1"), domain.ErrNotFound)
	})
}
