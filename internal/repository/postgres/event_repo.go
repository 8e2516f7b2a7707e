package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"vapaweb/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = "id, name, img, date, type, time, presenters, links, description, created_at"

// filterClauses builds the WHERE conditions and args for an EventFilter.
// Placeholders start at $1.
func filterClauses(f domain.EventFilter) ([]string, []interface{}) {
	var clauses []string
	var args []interface{}
	n := 1
	if f.Year != 0 {
		clauses = append(clauses, fmt.Sprintf("date >= $%d", n), fmt.Sprintf("date <= $%d", n+1))
		args = append(args,
			time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(f.Year, time.December, 31, 0, 0, 0, 0, time.UTC),
		)
		n += 2
	}
	if f.Type != "" {
		clauses = append(clauses, fmt.Sprintf("type = $%d", n))
		args = append(args, string(f.Type))
		n++
	}
	if f.DateFrom != nil {
		clauses = append(clauses, fmt.Sprintf("date >= $%d", n))
		args = append(args, *f.DateFrom)
		n++
	}
	if f.DateTo != nil {
		clauses = append(clauses, fmt.Sprintf("date <= $%d", n))
		args = append(args, *f.DateTo)
		n++
	}
	return clauses, args
}

func scanEvent(scan func(dest ...interface{}) error) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull sql.NullString
	var presenters, links pq.StringArray
	err := scan(&e.ID, &e.Name, &e.Img, &e.Date, &e.Type, &e.Time, &presenters, &links, &descNull, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Presenters = []string(presenters)
	if e.Presenters == nil {
		e.Presenters = []string{}
	}
	e.Links = []string(links)
	if e.Links == nil {
		e.Links = []string{}
	}
	if descNull.Valid {
		e.Description = descNull.String
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, error) {
	clauses, args := filterClauses(filter)
	query := "SELECT " + eventColumns + " FROM events"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY date DESC"
	if !params.Unbounded() {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, params.PageSize, params.Offset())
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context, filter domain.EventFilter) (int, error) {
	clauses, args := filterClauses(filter)
	query := "SELECT COUNT(*) FROM events"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var count int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE id = $1"
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Years(ctx context.Context) ([]int, error) {
	query := `
		SELECT DISTINCT EXTRACT(YEAR FROM date)::int AS year
		FROM events
		ORDER BY year DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	years := make([]int, 0)
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

func (r *eventRepository) Types(ctx context.Context) ([]domain.EventType, error) {
	query := `SELECT DISTINCT type FROM events ORDER BY type`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	types := make([]domain.EventType, 0)
	for rows.Next() {
		var t domain.EventType
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *eventRepository) Upcoming(ctx context.Context, from time.Time, limit int) ([]*domain.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE date >= $1 ORDER BY date ASC LIMIT $2"
	return r.listQuery(ctx, query, from, limit)
}

func (r *eventRepository) Recent(ctx context.Context, limit int) ([]*domain.Event, error) {
	query := "SELECT " + eventColumns + " FROM events ORDER BY date DESC LIMIT $1"
	return r.listQuery(ctx, query, limit)
}

func (r *eventRepository) listQuery(ctx context.Context, query string, args ...interface{}) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, img, date, type, time, presenters, links, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Img, e.Date, string(e.Type), e.Time,
		pq.Array(e.Presenters), pq.Array(e.Links), nullString(e.Description),
	).Scan(&e.ID, &e.CreatedAt)
}

// Update replaces every editable field of the event. created_at is
// server-assigned and never touched.
func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET name = $2, img = $3, date = $4, type = $5, time = $6,
		    presenters = $7, links = $8, description = $9
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Name, e.Img, e.Date, string(e.Type), e.Time,
		pq.Array(e.Presenters), pq.Array(e.Links), nullString(e.Description),
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
