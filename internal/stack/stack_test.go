package stack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "stack"))
}

func rec(address string, workspace int, at int64) Record {
	return Record{
		Address:     address,
		Workspace:   workspace,
		Title:       "win " + address,
		Class:       "test",
		MinimizedAt: at,
	}
}

func TestPopLastIsLIFO(t *testing.T) {
	s := testStore(t)

	if err := s.Push(rec("0x1", 1, 100)); err != nil {
		t.Fatal(err)
	}
	if err := s.Push(rec("0x2", 2, 200)); err != nil {
		t.Fatal(err)
	}
	if err := s.Push(rec("0x3", 3, 300)); err != nil {
		t.Fatal(err)
	}

	// Removes for other addresses must not disturb LIFO order.
	if _, err := s.Remove("0x2"); err != nil {
		t.Fatal(err)
	}

	got, err := s.PopLast()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Address != "0x3" {
		t.Fatalf("PopLast = %+v, want 0x3", got)
	}

	got, err = s.PopLast()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Address != "0x1" {
		t.Fatalf("PopLast = %+v, want 0x1", got)
	}

	got, err = s.PopLast()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("PopLast on empty stack = %+v, want nil", got)
	}
}

func TestPopLastTieBrokenByAppendOrder(t *testing.T) {
	s := testStore(t)

	if err := s.Push(rec("0xa", 1, 500)); err != nil {
		t.Fatal(err)
	}
	if err := s.Push(rec("0xb", 2, 500)); err != nil {
		t.Fatal(err)
	}

	got, err := s.PopLast()
	if err != nil {
		t.Fatal(err)
	}
	if got.Address != "0xb" {
		t.Errorf("PopLast = %s, want 0xb (appended last)", got.Address)
	}
}

func TestScenarioTwoWindows(t *testing.T) {
	s := testStore(t)

	if err := s.Push(rec("W1", 1, 10)); err != nil {
		t.Fatal(err)
	}
	if err := s.Push(rec("W2", 2, 20)); err != nil {
		t.Fatal(err)
	}

	first, err := s.PopLast()
	if err != nil {
		t.Fatal(err)
	}
	if first.Address != "W2" || first.Workspace != 2 {
		t.Errorf("first pop = %+v, want W2/ws2", first)
	}

	second, err := s.PopLast()
	if err != nil {
		t.Fatal(err)
	}
	if second.Address != "W1" || second.Workspace != 1 {
		t.Errorf("second pop = %+v, want W1/ws1", second)
	}

	third, err := s.PopLast()
	if err != nil {
		t.Fatal(err)
	}
	if third != nil {
		t.Errorf("third pop = %+v, want nil", third)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := testStore(t)

	if err := s.Push(rec("0x1", 1, 100)); err != nil {
		t.Fatal(err)
	}
	if err := s.Push(rec("0x2", 2, 200)); err != nil {
		t.Fatal(err)
	}

	removed, err := s.Remove("0x1")
	if err != nil {
		t.Fatal(err)
	}
	if !removed {
		t.Error("first Remove = false, want true")
	}

	before, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}

	removed, err = s.Remove("0x1")
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Error("second Remove = true, want false")
	}

	after, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(before) != len(after) || len(after) != 1 || after[0].Address != "0x2" {
		t.Errorf("store changed by no-op remove: before=%v after=%v", before, after)
	}
}

func TestPushReplacesSameAddress(t *testing.T) {
	s := testStore(t)

	if err := s.Push(rec("0x1", 1, 100)); err != nil {
		t.Fatal(err)
	}
	if err := s.Push(rec("0x1", 4, 400)); err != nil {
		t.Fatal(err)
	}

	records, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("address appears %d times, want 1", len(records))
	}
	if records[0].Workspace != 4 {
		t.Errorf("kept stale record: %+v", records[0])
	}
}

func TestSnapshotPreservesPushOrder(t *testing.T) {
	s := testStore(t)

	want := []string{"0x1", "0x2", "0x3", "0x4"}
	for i, addr := range want {
		if err := s.Push(rec(addr, i+1, int64(i)*100)); err != nil {
			t.Fatal(err)
		}
	}

	records, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(want) {
		t.Fatalf("snapshot has %d records, want %d", len(records), len(want))
	}
	for i, addr := range want {
		if records[i].Address != addr {
			t.Errorf("snapshot[%d] = %s, want %s", i, records[i].Address, addr)
		}
	}
}

func TestClaim(t *testing.T) {
	s := testStore(t)

	if err := s.Push(rec("0x1", 1, 100)); err != nil {
		t.Fatal(err)
	}

	claimed, err := s.Claim("0x1", 4242)
	if err != nil {
		t.Fatal(err)
	}
	if !claimed {
		t.Error("Claim = false, want true")
	}

	records, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if records[0].OwnerPID != 4242 {
		t.Errorf("OwnerPID = %d, want 4242", records[0].OwnerPID)
	}

	claimed, err = s.Claim("0xmissing", 1)
	if err != nil {
		t.Fatal(err)
	}
	if claimed {
		t.Error("Claim of absent record = true, want false")
	}
}

func TestCorruptStoreIsHardError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stack")
	content := "{\"address\":\"0x1\",\"workspace\":1}\nnot json at all\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path)

	if err := s.Push(rec("0x2", 2, 200)); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Push on corrupt store: got %v, want ErrCorrupt", err)
	}
	if _, err := s.PopLast(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("PopLast on corrupt store: got %v, want ErrCorrupt", err)
	}

	// The corrupt content must survive untouched.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Error("corrupt store was modified")
	}
}

func TestMissingFileIsEmptyStack(t *testing.T) {
	s := testStore(t)

	got, err := s.PopLast()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("PopLast = %+v, want nil", got)
	}

	records, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("snapshot of missing file has %d records", len(records))
	}
}

func TestConcurrentMutations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stack")

	const workers = 8
	const perWorker = 10

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// Each worker opens its own handle, like an independent process.
			s := NewStore(path)
			for i := 0; i < perWorker; i++ {
				addr := fmt.Sprintf("0x%d-%d", w, i)
				if err := s.Push(rec(addr, w, int64(w*1000+i))); err != nil {
					errs <- err
					return
				}
				if i%2 == 0 {
					if _, err := s.Remove(addr); err != nil {
						errs <- err
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	// The store must still parse, and hold exactly the records whose
	// removes did not run (odd i), whatever the interleaving was.
	records, err := NewStore(path).Snapshot()
	if err != nil {
		t.Fatalf("store unparsable after concurrent mutations: %v", err)
	}

	want := make(map[string]bool)
	for w := 0; w < workers; w++ {
		for i := 1; i < perWorker; i += 2 {
			want[fmt.Sprintf("0x%d-%d", w, i)] = true
		}
	}
	got := make(map[string]bool)
	for _, r := range records {
		if got[r.Address] {
			t.Errorf("duplicate record %s", r.Address)
		}
		got[r.Address] = true
	}
	if len(got) != len(want) {
		t.Fatalf("store has %d records, want %d", len(got), len(want))
	}
	for addr := range want {
		if !got[addr] {
			t.Errorf("missing record %s", addr)
		}
	}
}
