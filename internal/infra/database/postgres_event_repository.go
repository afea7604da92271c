package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"class_reminder_bot/internal/domain/event"
)

type PostgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// ListClasses returns a fresh snapshot of the classes table.
func (r *PostgresEventRepository) ListClasses(ctx context.Context) ([]*event.Event, error) {
	query := `SELECT course, batch_name, year, session_name, date, time, mode FROM classes`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	defer rows.Close()

	events := make([]*event.Event, 0)
	for rows.Next() {
		ev := &event.Event{Kind: event.KindClass}
		var mode sql.NullString
		if err := rows.Scan(&ev.Course, &ev.Batch, &ev.Year, &ev.Title, &ev.Date, &ev.Time, &mode); err != nil {
			return nil, fmt.Errorf("error scanning class row: %w", err)
		}
		ev.Mode = normalizeMode(mode)
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating class rows: %w", err)
	}
	return events, nil
}

// ListAssignments returns a fresh snapshot of the assignments table. Due
// items carry a date only; the evaluator fills in the default due time.
func (r *PostgresEventRepository) ListAssignments(ctx context.Context) ([]*event.Event, error) {
	query := `SELECT course, batch_name, year, subject, due_date, mode FROM assignments`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	defer rows.Close()

	events := make([]*event.Event, 0)
	for rows.Next() {
		ev := &event.Event{Kind: event.KindAssignment}
		var mode sql.NullString
		if err := rows.Scan(&ev.Course, &ev.Batch, &ev.Year, &ev.Title, &ev.Date, &mode); err != nil {
			return nil, fmt.Errorf("error scanning assignment row: %w", err)
		}
		ev.Mode = normalizeMode(mode)
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment rows: %w", err)
	}
	return events, nil
}

// normalizeMode trims the stored delivery mode and falls back to "Offline"
// when the column is null or blank.
func normalizeMode(mode sql.NullString) string {
	m := strings.TrimSpace(mode.String)
	if !mode.Valid || m == "" {
		return "Offline"
	}
	return m
}
