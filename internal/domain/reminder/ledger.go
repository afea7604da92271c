package reminder

// Ledger is the set of reminder keys already dispatched. It grows
// monotonically during a run and never shrinks.
type Ledger interface {
	Contains(key string) bool
	// Add records a key as dispatched. Idempotent.
	Add(key string)
}

// PersistentLedger is a Ledger mirrored to durable storage. Persist
// overwrites the full key set; a failed persist is recoverable, the next
// successful persist catches up.
type PersistentLedger interface {
	Ledger
	Persist() error
}
