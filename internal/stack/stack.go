// Package stack implements the persisted, lock-guarded record of minimized
// windows. The file is the single source of truth for restore ordering and is
// shared by every hyprmin process of the user, so all mutations happen under
// an exclusive flock scoped to the file and writes are temp-file + rename.
package stack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrCorrupt means the persisted stack could not be parsed. It is never
// auto-repaired: silently discarding entries could orphan tray daemons or
// restore targets.
var ErrCorrupt = errors.New("stack file corrupt")

// Record is one minimized window, serialized as a single JSON line.
type Record struct {
	Address     string `json:"address"`
	Workspace   int    `json:"workspace"`
	Title       string `json:"title"`
	Class       string `json:"class"`
	MinimizedAt int64  `json:"minimized_at"`
	OwnerPID    int    `json:"owner_pid"`
}

// Store is a handle to the stack file. It holds no in-memory state; every
// operation is a locked read-modify-write against the file.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Push appends a record. A stale record with the same address is dropped
// first, so an address appears at most once.
func (s *Store) Push(rec Record) error {
	return s.mutate(func(records []Record) ([]Record, error) {
		out := records[:0]
		for _, r := range records {
			if r.Address != rec.Address {
				out = append(out, r)
			}
		}
		return append(out, rec), nil
	})
}

// PopLast removes and returns the most recently pushed record, or nil if the
// stack is empty. Ordering follows minimized_at, ties broken by file order.
func (s *Store) PopLast() (*Record, error) {
	var popped *Record
	err := s.mutate(func(records []Record) ([]Record, error) {
		idx := lastIndex(records)
		if idx < 0 {
			return records, nil
		}
		rec := records[idx]
		popped = &rec
		return append(records[:idx], records[idx+1:]...), nil
	})
	if err != nil {
		return nil, err
	}
	return popped, nil
}

// Remove deletes the record for the given window address, reporting whether
// it was present. Removing an absent record is a no-op, not an error: by the
// time a daemon terminates another path may already have removed it.
func (s *Store) Remove(address string) (bool, error) {
	removed := false
	err := s.mutate(func(records []Record) ([]Record, error) {
		out := records[:0]
		for _, r := range records {
			if r.Address == address {
				removed = true
				continue
			}
			out = append(out, r)
		}
		return out, nil
	})
	return removed, err
}

// Claim sets the owner pid of the record for the given address, reporting
// whether the record was found. The tray daemon calls this on startup to take
// ownership of the record the minimize invocation pushed.
func (s *Store) Claim(address string, pid int) (bool, error) {
	claimed := false
	err := s.mutate(func(records []Record) ([]Record, error) {
		for i := range records {
			if records[i].Address == address {
				records[i].OwnerPID = pid
				claimed = true
			}
		}
		return records, nil
	})
	return claimed, err
}

// Snapshot returns a point-in-time consistent copy of all records in push
// order. It takes a shared lock so it never observes a mid-write state.
func (s *Store) Snapshot() ([]Record, error) {
	var records []Record
	err := s.withLock(unix.LOCK_SH, func() error {
		var err error
		records, err = s.read()
		return err
	})
	return records, err
}

// mutate runs a read-modify-write under the exclusive lock. The lock is held
// only for the duration of fn plus the write, never across external calls.
func (s *Store) mutate(fn func([]Record) ([]Record, error)) error {
	return s.withLock(unix.LOCK_EX, func() error {
		records, err := s.read()
		if err != nil {
			return err
		}
		records, err = fn(records)
		if err != nil {
			return err
		}
		return s.write(records)
	})
}

func (s *Store) withLock(how int, fn func() error) error {
	lock, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open stack lock file: %w", err)
	}
	defer lock.Close()

	if err := unix.Flock(int(lock.Fd()), how); err != nil {
		return fmt.Errorf("failed to lock stack file: %w", err)
	}
	defer unix.Flock(int(lock.Fd()), unix.LOCK_UN)

	return fn()
}

// read parses the stack file. A missing file is an empty stack; an unparsable
// file is ErrCorrupt.
func (s *Store) read() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stack file: %w", err)
	}

	var records []Record
	for i, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorrupt, i+1, err)
		}
		if rec.Address == "" {
			return nil, fmt.Errorf("%w: line %d: missing address", ErrCorrupt, i+1)
		}
		records = append(records, rec)
	}
	return records, nil
}

// write replaces the stack file atomically so a concurrent reader never sees
// a partially written record.
func (s *Store) write(records []Record) error {
	var buf bytes.Buffer
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal stack record: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp stack file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write stack file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp stack file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace stack file: %w", err)
	}
	return nil
}

// lastIndex returns the index of the most recently pushed record: the
// highest minimized_at, with file order breaking ties.
func lastIndex(records []Record) int {
	idx := -1
	var best int64
	for i, r := range records {
		if idx < 0 || r.MinimizedAt >= best {
			idx = i
			best = r.MinimizedAt
		}
	}
	return idx
}
