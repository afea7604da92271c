package ledger

// MemoryLedger keeps dispatched reminder keys for the lifetime of the process
// only. A restart may re-fire reminders whose windows are still open, which is
// acceptable under best-effort delivery.
type MemoryLedger struct {
	keys map[string]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{keys: make(map[string]struct{})}
}

func (l *MemoryLedger) Contains(key string) bool {
	_, ok := l.keys[key]
	return ok
}

func (l *MemoryLedger) Add(key string) {
	l.keys[key] = struct{}{}
}

func (l *MemoryLedger) Len() int {
	return len(l.keys)
}

// Keys returns a copy of the recorded key set, in no particular order.
func (l *MemoryLedger) Keys() []string {
	keys := make([]string, 0, len(l.keys))
	for k := range l.keys {
		keys = append(keys, k)
	}
	return keys
}
