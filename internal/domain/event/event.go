package event

import "database/sql"

// Kind distinguishes the two scheduled occurrence types the system reminds about.
type Kind string

const (
	KindClass      Kind = "class"
	KindAssignment Kind = "assignment"
)

// Event represents a scheduled occurrence (a class session or an assignment
// due item) as read from the store. Date is "2006-01-02"; Time, when present,
// is "15:04" interpreted in the configured timezone. Events are re-read on
// every tick and never mutated by this system.
type Event struct {
	Kind   Kind
	Course string
	Batch  string
	Year   int
	Title  string         // session name for classes, subject for assignments
	Date   string
	Time   sql.NullString // absent for date-only items; normalized by the evaluator
	Mode   string         // "Online" | "Offline" | other
}
