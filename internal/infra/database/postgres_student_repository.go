package database

import (
	"context"
	"database/sql"
	"fmt"

	"class_reminder_bot/internal/domain/student"
)

type PostgresStudentRepository struct {
	db *sql.DB
}

func NewPostgresStudentRepository(db *sql.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

// ListAll returns a fresh snapshot of the student roster.
func (r *PostgresStudentRepository) ListAll(ctx context.Context) ([]*student.Student, error) {
	query := `SELECT name, email, course, batch_name, year, mode FROM students`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*student.Student, 0)
	for rows.Next() {
		s := &student.Student{}
		var mode sql.NullString
		if err := rows.Scan(&s.Name, &s.Email, &s.Course, &s.Batch, &s.Year, &mode); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		s.Mode = normalizeMode(mode)
		students = append(students, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}
