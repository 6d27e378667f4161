package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// --- Mock implementations ---

// mockOrderStore records writes; fails for ids in failIDs.
type mockOrderStore struct {
	mu      sync.Mutex
	orders  map[uuid.UUID]int32
	failIDs map[uuid.UUID]bool
	calls   int
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{
		orders:  make(map[uuid.UUID]int32),
		failIDs: make(map[uuid.UUID]bool),
	}
}

var errMockWrite = errors.New("write failed")

func (m *mockOrderStore) UpdateDisplayOrder(_ context.Context, id uuid.UUID, displayOrder int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failIDs[id] {
		return errMockWrite
	}
	m.orders[id] = displayOrder
	return nil
}

// --- Helpers ---

func makeIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func sameIDSet(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uuid.UUID]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		seen[id]--
	}
	for _, c := range seen {
		if c != 0 {
			return false
		}
	}
	return true
}

// --- ComputeReorder tests ---

func TestComputeReorder_MoveBackward(t *testing.T) {
	// [A,B,C,D,E], drag C onto A -> [C,A,B,D,E]
	ids := makeIDs(5)
	newList, writes := ComputeReorder(ids, ids[2], ids[0])

	want := []uuid.UUID{ids[2], ids[0], ids[1], ids[3], ids[4]}
	for i := range want {
		if newList[i] != want[i] {
			t.Fatalf("newList[%d]: got %v, want %v", i, newList[i], want[i])
		}
	}
	if len(writes) != 5 {
		t.Fatalf("writes: got %d entries, want 5", len(writes))
	}
}

func TestComputeReorder_MoveForward(t *testing.T) {
	// [A,B,C,D,E], drag A onto E -> [B,C,D,E,A]
	ids := makeIDs(5)
	newList, _ := ComputeReorder(ids, ids[0], ids[4])

	want := []uuid.UUID{ids[1], ids[2], ids[3], ids[4], ids[0]}
	for i := range want {
		if newList[i] != want[i] {
			t.Fatalf("newList[%d]: got %v, want %v", i, newList[i], want[i])
		}
	}
}

func TestComputeReorder_NoOpSameID(t *testing.T) {
	ids := makeIDs(3)
	newList, writes := ComputeReorder(ids, ids[1], ids[1])

	for i := range ids {
		if newList[i] != ids[i] {
			t.Errorf("newList[%d]: got %v, want %v (order must be unchanged)", i, newList[i], ids[i])
		}
	}
	if len(writes) != 0 {
		t.Errorf("writes: got %d entries, want 0", len(writes))
	}
}

func TestComputeReorder_UnknownIDs(t *testing.T) {
	ids := makeIDs(3)

	newList, writes := ComputeReorder(ids, uuid.New(), ids[0])
	if len(writes) != 0 {
		t.Errorf("unknown active: writes got %d entries, want 0", len(writes))
	}
	for i := range ids {
		if newList[i] != ids[i] {
			t.Errorf("unknown active: order changed at %d", i)
		}
	}

	_, writes = ComputeReorder(ids, ids[0], uuid.New())
	if len(writes) != 0 {
		t.Errorf("unknown over: writes got %d entries, want 0", len(writes))
	}
}

func TestComputeReorder_PermutationClosure(t *testing.T) {
	ids := makeIDs(7)
	for _, pair := range [][2]int{{0, 6}, {6, 0}, {3, 1}, {2, 5}, {4, 4}} {
		newList, _ := ComputeReorder(ids, ids[pair[0]], ids[pair[1]])
		if !sameIDSet(ids, newList) {
			t.Errorf("move %d->%d: newList is not a permutation of input", pair[0], pair[1])
		}
	}
}

func TestComputeReorder_ContiguousRenumbering(t *testing.T) {
	ids := makeIDs(6)
	newList, writes := ComputeReorder(ids, ids[4], ids[1])

	if len(writes) != len(newList) {
		t.Fatalf("writes: got %d entries, want %d", len(writes), len(newList))
	}
	for i, wr := range writes {
		if wr.ID != newList[i] {
			t.Errorf("writes[%d].ID: got %v, want %v", i, wr.ID, newList[i])
		}
		if wr.DisplayOrder != int32(i) {
			t.Errorf("writes[%d].DisplayOrder: got %d, want %d", i, wr.DisplayOrder, i)
		}
	}
}

func TestComputeReorder_DoesNotMutateInput(t *testing.T) {
	ids := makeIDs(4)
	orig := make([]uuid.UUID, len(ids))
	copy(orig, ids)

	ComputeReorder(ids, ids[3], ids[0])

	for i := range orig {
		if ids[i] != orig[i] {
			t.Fatalf("input mutated at index %d", i)
		}
	}
}

func TestComputeReorder_SingleItem(t *testing.T) {
	ids := makeIDs(1)
	newList, writes := ComputeReorder(ids, ids[0], ids[0])
	if len(newList) != 1 || newList[0] != ids[0] {
		t.Errorf("single item list changed")
	}
	if len(writes) != 0 {
		t.Errorf("writes: got %d entries, want 0", len(writes))
	}
}

func TestComputeReorder_Scenario(t *testing.T) {
	// Services [1,2,3] with orders {0,1,2}; dragging 3 to be first must yield
	// writes {1:1, 2:2, 3:0} so a subsequent ordered list returns [3,1,2].
	ids := makeIDs(3)
	newList, writes := ComputeReorder(ids, ids[2], ids[0])

	want := []uuid.UUID{ids[2], ids[0], ids[1]}
	for i := range want {
		if newList[i] != want[i] {
			t.Fatalf("newList[%d]: got %v, want %v", i, newList[i], want[i])
		}
	}

	byID := make(map[uuid.UUID]int32)
	for _, wr := range writes {
		byID[wr.ID] = wr.DisplayOrder
	}
	if byID[ids[0]] != 1 || byID[ids[1]] != 2 || byID[ids[2]] != 0 {
		t.Errorf("writes: got %v, want {1:1, 2:2, 3:0} pattern", byID)
	}
}

// --- Reorderer tests ---

func TestReordererApply_PersistsAllWrites(t *testing.T) {
	store := newMockOrderStore()
	ids := makeIDs(5)
	_, writes := ComputeReorder(ids, ids[0], ids[3])

	if err := NewReorderer(store).Apply(context.Background(), writes); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if store.calls != 5 {
		t.Errorf("calls: got %d, want 5", store.calls)
	}
	for _, wr := range writes {
		if got := store.orders[wr.ID]; got != wr.DisplayOrder {
			t.Errorf("order for %v: got %d, want %d", wr.ID, got, wr.DisplayOrder)
		}
	}
}

func TestReordererApply_RoundTrip(t *testing.T) {
	store := newMockOrderStore()
	ids := makeIDs(6)
	newList, writes := ComputeReorder(ids, ids[5], ids[2])

	if err := NewReorderer(store).Apply(context.Background(), writes); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Re-reading ascending by persisted order must reproduce newList exactly.
	for i, id := range newList {
		if store.orders[id] != int32(i) {
			t.Errorf("persisted order for position %d: got %d, want %d", i, store.orders[id], i)
		}
	}
}

func TestReordererApply_PartialFailure(t *testing.T) {
	store := newMockOrderStore()
	ids := makeIDs(4)
	_, writes := ComputeReorder(ids, ids[3], ids[0])

	failID := writes[2].ID
	store.failIDs[failID] = true

	err := NewReorderer(store).Apply(context.Background(), writes)
	if err == nil {
		t.Fatal("expected aggregate error on partial failure")
	}
	if !errors.Is(err, ErrReorderFailed) {
		t.Errorf("error: got %v, want ErrReorderFailed", err)
	}

	// Every write must still have been issued; succeeded ones keep their new
	// order (no rollback).
	if store.calls != 4 {
		t.Errorf("calls: got %d, want 4 (failure must not cancel siblings)", store.calls)
	}
	for _, wr := range writes {
		if wr.ID == failID {
			continue
		}
		if got := store.orders[wr.ID]; got != wr.DisplayOrder {
			t.Errorf("order for %v: got %d, want %d (succeeded writes must stick)", wr.ID, got, wr.DisplayOrder)
		}
	}
}

func TestReordererApply_EmptyWrites(t *testing.T) {
	store := newMockOrderStore()
	if err := NewReorderer(store).Apply(context.Background(), nil); err != nil {
		t.Fatalf("apply with no writes: %v", err)
	}
	if store.calls != 0 {
		t.Errorf("calls: got %d, want 0", store.calls)
	}
}
