package ledger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileLedger mirrors the dispatched-key set to a newline-delimited flat file
// so dedup state survives restarts. Persist rewrites the whole set each time:
// the write goes to a temp file in the same directory followed by a rename,
// so a crash mid-write cannot corrupt previously durable state.
type FileLedger struct {
	*MemoryLedger
	path string
}

func NewFileLedger(path string) *FileLedger {
	return &FileLedger{MemoryLedger: NewMemoryLedger(), path: path}
}

// Load seeds the ledger from the backing file. A missing file is not an
// error: it means nothing has been sent yet.
func (l *FileLedger) Load() error {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error opening ledger file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if key := strings.TrimSpace(scanner.Text()); key != "" {
			l.Add(key)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ledger file: %w", err)
	}
	return nil
}

// Persist writes the full key set to durable storage.
func (l *FileLedger) Persist() error {
	keys := l.Keys()
	sort.Strings(keys)

	tmp, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".tmp")
	if err != nil {
		return fmt.Errorf("error creating temp ledger file: %w", err)
	}
	w := bufio.NewWriter(tmp)
	for _, key := range keys {
		if _, err := fmt.Fprintln(w, key); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return fmt.Errorf("error writing ledger entry: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("error flushing ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error closing temp ledger file: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error replacing ledger file: %w", err)
	}
	return nil
}
