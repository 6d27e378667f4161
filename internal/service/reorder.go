package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Caps concurrent display_order writes per reorder. Lists are small (dozens of
// rows), so this mostly protects the pool from a single oversized burst.
const maxParallelOrderWrites = 8

// ErrReorderFailed wraps any persistence failure during a reorder. Writes that
// already succeeded are not rolled back; the next successful reorder or a
// refresh restores a consistent order.
var ErrReorderFailed = errors.New("gagal memperbarui urutan")

// OrderWrite pairs an item id with the display_order value to persist.
type OrderWrite struct {
	ID           uuid.UUID
	DisplayOrder int32
}

// ComputeReorder turns a completed drag gesture into the new total order and
// the writes needed to make the store match it.
//
// current is the rendered sequence (ids in display order), activeID the dragged
// item and overID the item under the pointer at drop time. The active item is
// removed and reinserted at overID's position; every position is then rewritten
// to its 0-based index, so the persisted orders for the list are always exactly
// {0..n-1}.
//
// Dropping an item on itself, or ids not present in current, are no-ops: the
// input order is returned with no writes.
func ComputeReorder(current []uuid.UUID, activeID, overID uuid.UUID) (newList []uuid.UUID, writes []OrderWrite) {
	newList = make([]uuid.UUID, len(current))
	copy(newList, current)

	if activeID == overID {
		return newList, nil
	}

	oldIndex := indexOf(current, activeID)
	newIndex := indexOf(current, overID)
	if oldIndex < 0 || newIndex < 0 {
		return newList, nil
	}

	moved := newList[oldIndex]
	newList = append(newList[:oldIndex], newList[oldIndex+1:]...)
	newList = append(newList[:newIndex], append([]uuid.UUID{moved}, newList[newIndex:]...)...)

	writes = make([]OrderWrite, len(newList))
	for i, id := range newList {
		writes[i] = OrderWrite{ID: id, DisplayOrder: int32(i)}
	}
	return newList, writes
}

func indexOf(list []uuid.UUID, id uuid.UUID) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

// OrderStore persists a single display_order write.
type OrderStore interface {
	UpdateDisplayOrder(ctx context.Context, id uuid.UUID, displayOrder int32) error
}

// OrderStoreFunc adapts a function to OrderStore.
type OrderStoreFunc func(ctx context.Context, id uuid.UUID, displayOrder int32) error

func (f OrderStoreFunc) UpdateDisplayOrder(ctx context.Context, id uuid.UUID, displayOrder int32) error {
	return f(ctx, id, displayOrder)
}

// Reorderer dispatches the writes produced by ComputeReorder.
type Reorderer struct {
	store OrderStore
}

// NewReorderer creates a Reorderer backed by the given store.
func NewReorderer(store OrderStore) *Reorderer {
	return &Reorderer{store: store}
}

// Apply issues one update per write in parallel and waits for all of them to
// settle. On any failure it returns a single ErrReorderFailed-wrapped error;
// succeeded writes stay as they are.
func (d *Reorderer) Apply(ctx context.Context, writes []OrderWrite) error {
	if len(writes) == 0 {
		return nil
	}

	// Deliberately not errgroup.WithContext: a failed write must not cancel
	// its siblings, every write in the batch is issued regardless.
	g := new(errgroup.Group)
	g.SetLimit(maxParallelOrderWrites)
	for _, wr := range writes {
		g.Go(func() error {
			if err := d.store.UpdateDisplayOrder(ctx, wr.ID, wr.DisplayOrder); err != nil {
				return fmt.Errorf("item %s: %w", wr.ID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %v", ErrReorderFailed, err)
	}
	return nil
}
