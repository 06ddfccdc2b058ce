// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nearby

import (
	"slices"

	"github.com/tidwall/btree"

	"github.com/bufbuild/timeline/internal/ext/cmpx"
	"github.com/bufbuild/timeline/interval"
	"github.com/bufbuild/timeline/item"
)

// Array is an index over items whose intervals are pairwise disjoint. Its
// centers have at most one entry.
//
// A zero Array is not usable; construct one with [NewArray].
type Array struct {
	provider Provider

	// Entries are keyed by the high endpoint of their interval. Because the
	// intervals are disjoint, this is also the order of their low endpoints.
	tree *btree.BTreeG[arrayEntry]
}

type arrayEntry struct {
	low, high interval.Endpoint
	item      item.Item
}

func newArrayEntry(it item.Item) arrayEntry {
	it = normalized(it)
	low, high := interval.Bounds(it.Itv)
	return arrayEntry{low: low, high: high, item: it}
}

func newArrayTree() *btree.BTreeG[arrayEntry] {
	return btree.NewBTreeGOptions(func(a, b arrayEntry) bool {
		return interval.Less(a.high, b.high)
	}, btree.Options{NoLocks: true})
}

// NewArray returns an empty index over p's items. Call [Array.Refresh] with
// a nil diff list to load them.
func NewArray(p Provider) *Array {
	return &Array{provider: p, tree: newArrayTree()}
}

// Len returns the number of items in the index.
func (a *Array) Len() int {
	return a.tree.Len()
}

// Refresh implements [Refresher].
//
// Returns an [*OverlapError] if the provider's items, or the result of
// applying diffs, contain two intersecting intervals.
func (a *Array) Refresh(diffs []item.Diff) error {
	if diffs == nil {
		return a.rebuild()
	}

	tree := a.tree.Copy()
	for _, d := range diffs {
		if d.Old == nil {
			continue
		}
		key := newArrayEntry(*d.Old)
		if got, ok := tree.Get(key); ok && got.item.ID == d.Old.ID {
			tree.Delete(key)
		}
	}
	for _, d := range diffs {
		if d.New == nil {
			continue
		}
		if err := insertDisjoint(tree, newArrayEntry(*d.New)); err != nil {
			return err
		}
	}

	a.tree = tree
	return nil
}

func (a *Array) rebuild() error {
	items := a.provider.Items()
	entries := make([]arrayEntry, len(items))
	for i, it := range items {
		entries[i] = newArrayEntry(it)
	}

	slices.SortFunc(entries, cmpx.Map(
		func(e arrayEntry) interval.Endpoint { return e.low },
		interval.Compare,
	))
	for i := 1; i < len(entries); i++ {
		prev, next := entries[i-1], entries[i]
		if interval.GreaterEq(prev.high, next.low) {
			return &OverlapError{Prev: prev.item, Next: next.item}
		}
	}

	tree := newArrayTree()
	for _, e := range entries {
		tree.Set(e)
	}
	a.tree = tree
	return nil
}

// insertDisjoint adds e to tree unless it intersects an entry already present.
func insertDisjoint(tree *btree.BTreeG[arrayEntry], e arrayEntry) error {
	// The only candidate for an intersection is the least entry that ends at
	// or after e begins; it intersects e unless it also begins after e ends.
	var overlap *arrayEntry
	tree.Ascend(arrayEntry{high: e.low}, func(other arrayEntry) bool {
		if interval.LessEq(other.low, e.high) {
			overlap = &other
		}
		return false
	})

	if overlap != nil {
		if interval.Less(e.low, overlap.low) {
			return &OverlapError{Prev: e.item, Next: overlap.item}
		}
		return &OverlapError{Prev: overlap.item, Next: e.item}
	}
	tree.Set(e)
	return nil
}

// Nearby implements [Index].
func (a *Array) Nearby(offset interval.Endpoint) Neighborhood {
	// Find the least entry that ends at or after offset. Either it covers
	// offset, or offset lies in the gap before it.
	var found *arrayEntry
	a.tree.Ascend(arrayEntry{high: offset}, func(e arrayEntry) bool {
		found = &e
		return false
	})

	if found == nil {
		var prevHigh *interval.Endpoint
		if last, ok := a.tree.Max(); ok {
			prevHigh = endpoint(last.high)
		}
		return Reduce(prevHigh, nil, nil, nil, nil)
	}

	var prevHigh *interval.Endpoint
	if prev, ok := a.before(*found); ok {
		prevHigh = endpoint(prev.high)
	}

	if interval.Greater(found.low, offset) {
		return Reduce(prevHigh, nil, nil, nil, endpoint(found.low))
	}

	var nextLow *interval.Endpoint
	if next, ok := a.after(*found); ok {
		nextLow = endpoint(next.low)
	}
	return Reduce(
		prevHigh,
		[]interval.Endpoint{found.low},
		[]Entry{found.item},
		[]interval.Endpoint{found.high},
		nextLow,
	)
}

// before returns the entry immediately preceding e.
func (a *Array) before(e arrayEntry) (prev arrayEntry, ok bool) {
	a.tree.Descend(e, func(x arrayEntry) bool {
		if interval.Less(x.high, e.high) {
			prev, ok = x, true
			return false
		}
		return true
	})
	return prev, ok
}

// after returns the entry immediately following e.
func (a *Array) after(e arrayEntry) (next arrayEntry, ok bool) {
	a.tree.Ascend(e, func(x arrayEntry) bool {
		if interval.Greater(x.high, e.high) {
			next, ok = x, true
			return false
		}
		return true
	})
	return next, ok
}
