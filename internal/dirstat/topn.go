package dirstat

import (
	"errors"
	"slices"
	"sort"
)

// ErrZeroCapacity is returned when a TopN is requested with no room for entries.
var ErrZeroCapacity = errors.New("top-n capacity must be greater than zero")

// TopN keeps the largest entries seen so far, up to a fixed capacity.
//
// Entries are appended unsorted until the capacity is reached. From then on an
// entry larger than the floor triggers a full resort and evicts the smallest
// entry. A TopN is owned by a single walk and is not safe for concurrent use.
type TopN struct {
	capacity int
	items    []FileStat
	// floor is the admission threshold. It stays 0 until the first resort.
	floor   uint64
	resorts uint64
}

// NewTopN creates a TopN retaining at most capacity entries.
func NewTopN(capacity int) (*TopN, error) {
	if capacity <= 0 {
		return nil, ErrZeroCapacity
	}

	return &TopN{
		capacity: capacity,
		items:    make([]FileStat, 0, capacity+1),
	}, nil
}

// Admits reports whether an entry of the given size could be retained.
// It is a cheap pre-check; Insert decides on its own.
func (t *TopN) Admits(size uint64) bool {
	return size > t.floor
}

// Insert offers an entry to the TopN.
func (t *TopN) Insert(entry FileStat) {
	if len(t.items) < t.capacity {
		if entry.Size < t.floor {
			t.floor = entry.Size
		}

		t.items = append(t.items, entry)

		return
	}

	if entry.Size <= t.floor {
		return
	}

	t.items = append(t.items, entry)
	t.resort()
	t.items = t.items[:len(t.items)-1]
	t.floor = t.items[len(t.items)-1].Size
}

// resort orders the retained entries by size, largest first.
func (t *TopN) resort() {
	t.resorts++

	sort.SliceStable(t.items, func(i, j int) bool {
		return t.items[i].Size > t.items[j].Size
	})
}

// Snapshot returns a copy of the retained entries in their current order.
// The order is only meaningful right after a resort.
func (t *TopN) Snapshot() []FileStat {
	return slices.Clone(t.items)
}

// Sorted returns a copy of the retained entries, largest first.
func (t *TopN) Sorted() []FileStat {
	out := t.Snapshot()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Size > out[j].Size
	})

	return out
}

// Resorts returns the number of full resorts performed so far.
func (t *TopN) Resorts() uint64 {
	return t.resorts
}

// Len returns the number of retained entries.
func (t *TopN) Len() int {
	return len(t.items)
}

// Cap returns the capacity the TopN was created with.
func (t *TopN) Cap() int {
	return t.capacity
}
