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

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/tidwall/btree"

	"github.com/bufbuild/timeline/internal/ext/cmpx"
	"github.com/bufbuild/timeline/interval"
	"github.com/bufbuild/timeline/item"
)

// Swipe is an index over items whose intervals may overlap.
//
// It keeps the distinct endpoints of all items in sorted order. Each endpoint
// carries three buckets of items: those starting there, those active there,
// and those ending there. The active buckets are computed by sweeping once
// across all endpoints on every refresh.
//
// A zero Swipe is not usable; construct one with [NewSwipe].
type Swipe struct {
	provider Provider
	points   *btree.BTreeG[*point]

	// Items are identified in buckets by an ordinal, which is recycled once
	// the item is removed.
	ordinals map[string]uint32
	items    map[uint32]item.Item
	free     []uint32
	next     uint32
}

type point struct {
	at                   interval.Endpoint
	lows, actives, highs *roaring.Bitmap
}

func newPoint(at interval.Endpoint) *point {
	return &point{at: at, lows: roaring.New(), actives: roaring.New(), highs: roaring.New()}
}

// NewSwipe returns an empty index over p's items. Call [Swipe.Refresh] with
// a nil diff list to load them.
func NewSwipe(p Provider) *Swipe {
	s := &Swipe{provider: p}
	s.reset()
	return s
}

func (s *Swipe) reset() {
	s.points = btree.NewBTreeGOptions(func(a, b *point) bool {
		return interval.Less(a.at, b.at)
	}, btree.Options{NoLocks: true})
	s.ordinals = make(map[string]uint32)
	s.items = make(map[uint32]item.Item)
	s.free = nil
	s.next = 0
}

// Len returns the number of items in the index.
func (s *Swipe) Len() int {
	return len(s.items)
}

// Endpoints returns the number of distinct endpoints in the index.
func (s *Swipe) Endpoints() int {
	return s.points.Len()
}

// Refresh implements [Refresher]. It never fails.
//
// Removals are applied before insertions. Removing an item that is not
// present does nothing; inserting an item whose ID is already present
// replaces it.
func (s *Swipe) Refresh(diffs []item.Diff) error {
	if diffs == nil {
		s.reset()
		for _, it := range s.provider.Items() {
			s.register(it)
		}
	} else {
		for _, d := range diffs {
			if d.Old != nil {
				s.unregister(d.Old.ID)
			}
		}
		for _, d := range diffs {
			if d.New != nil {
				s.register(*d.New)
			}
		}
	}

	s.swipe()
	return nil
}

func (s *Swipe) register(it item.Item) {
	s.unregister(it.ID)
	it = normalized(it)

	var ord uint32
	if n := len(s.free); n > 0 {
		ord, s.free = s.free[n-1], s.free[:n-1]
	} else {
		ord = s.next
		s.next++
	}
	s.ordinals[it.ID] = ord
	s.items[ord] = it

	low, high := interval.Bounds(it.Itv)
	s.point(low).lows.Add(ord)
	s.point(high).highs.Add(ord)
}

func (s *Swipe) unregister(id string) {
	ord, ok := s.ordinals[id]
	if !ok {
		return
	}
	low, high := interval.Bounds(s.items[ord].Itv)
	delete(s.ordinals, id)
	delete(s.items, ord)
	s.free = append(s.free, ord)

	if p, ok := s.points.Get(&point{at: low}); ok {
		p.lows.Remove(ord)
		s.prune(p)
	}
	if p, ok := s.points.Get(&point{at: high}); ok {
		p.highs.Remove(ord)
		s.prune(p)
	}
}

// point returns the point at e, creating it if necessary.
func (s *Swipe) point(e interval.Endpoint) *point {
	if p, ok := s.points.Get(&point{at: e}); ok {
		return p
	}
	p := newPoint(e)
	s.points.Set(p)
	return p
}

// prune deletes p if no item starts or ends there anymore.
func (s *Swipe) prune(p *point) {
	if p.lows.IsEmpty() && p.highs.IsEmpty() {
		s.points.Delete(p)
	}
}

// swipe recomputes every active bucket, left to right. An item is active from
// the point where it starts through the point where it ends.
func (s *Swipe) swipe() {
	active := roaring.New()
	s.points.Scan(func(p *point) bool {
		active.Or(p.lows)
		p.actives = active.Clone()
		active.AndNot(p.highs)
		return true
	})
}

// covers returns the ordinals of the items whose interval contains offset.
func (s *Swipe) covers(offset interval.Endpoint) *roaring.Bitmap {
	var below, above *point
	s.points.Descend(&point{at: offset}, func(p *point) bool {
		below = p
		return false
	})
	s.points.Ascend(&point{at: offset}, func(p *point) bool {
		above = p
		return false
	})

	switch {
	case below == nil || above == nil:
		return roaring.New()
	case below == above:
		return below.actives
	default:
		// offset lies strictly between two consecutive endpoints. Only items
		// active at both of them span the gap between.
		return roaring.And(below.actives, above.actives)
	}
}

// Nearby implements [Index].
func (s *Swipe) Nearby(offset interval.Endpoint) Neighborhood {
	covered := s.covers(offset)

	items := make([]item.Item, 0, covered.GetCardinality())
	for it := covered.Iterator(); it.HasNext(); {
		items = append(items, s.items[it.Next()])
	}
	slices.SortFunc(items, cmpx.Join(
		cmpx.Map(func(it item.Item) interval.Endpoint {
			low, _ := interval.Bounds(it.Itv)
			return low
		}, interval.Compare),
		cmpx.Key(func(it item.Item) string { return it.ID }),
	))

	center := make([]Entry, len(items))
	lows := make([]interval.Endpoint, len(items))
	highs := make([]interval.Endpoint, len(items))
	for i, it := range items {
		center[i] = it
		lows[i], highs[i] = interval.Bounds(it.Itv)
	}

	// Scan outwards for the nearest endpoint where some item ends (to the
	// left) or begins (to the right). Points carrying only the other role are
	// skipped.
	var prevHigh, nextLow *interval.Endpoint
	s.points.Descend(&point{at: offset}, func(p *point) bool {
		if interval.Less(p.at, offset) && !p.highs.IsEmpty() {
			prevHigh = endpoint(p.at)
			return false
		}
		return true
	})
	s.points.Ascend(&point{at: offset}, func(p *point) bool {
		if interval.Greater(p.at, offset) && !p.lows.IsEmpty() {
			nextLow = endpoint(p.at)
			return false
		}
		return true
	})

	if len(center) == 0 {
		center = nil
	}
	return Reduce(prevHigh, lows, center, highs, nextLow)
}
