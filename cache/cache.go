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

// Package cache memoizes queries against a [nearby.Index].
//
// A [Cache] remembers the last neighborhood it looked up and answers queries
// from it for as long as they stay inside the neighborhood's interval. Static
// results are remembered as well, so that repeated queries in a quiet region
// do no work at all.
package cache

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bufbuild/timeline/interval"
	"github.com/bufbuild/timeline/nearby"
	"github.com/bufbuild/timeline/segment"
)

// ErrInconsistentLookup is returned by the default combiner when a center has
// more than one entry.
var ErrInconsistentLookup = errors.New("cache: inconsistent lookup")

// Input is passed to a [Combiner].
type Input struct {
	Sources []nearby.Entry  // The center entries.
	States  []segment.State // One per source.
	Offset  float64
}

// Combiner merges the states of every center entry into one.
//
// At most one of Value and State should be set. If Value is set, the result
// is dynamic if any of the input states is. If neither is set, the default
// combiner returns the state of the only entry, the zero state for an empty
// center, and [ErrInconsistentLookup] for more than one entry.
type Combiner struct {
	Value func(Input) any
	State func(Input) (segment.State, error)
}

func (c Combiner) combine(in Input) (segment.State, error) {
	switch {
	case c.State != nil:
		return c.State(in)
	case c.Value != nil:
		st := segment.State{Value: c.Value(in)}
		for _, s := range in.States {
			st.Dynamic = st.Dynamic || s.Dynamic
		}
		return st, nil
	}

	switch len(in.States) {
	case 0:
		return segment.State{}, nil
	case 1:
		return in.States[0], nil
	default:
		keys := make([]string, len(in.Sources))
		for i, e := range in.Sources {
			keys[i] = e.Key()
		}
		return segment.State{}, fmt.Errorf("%w: %d entries at %v: %s",
			ErrInconsistentLookup, len(keys), in.Offset, strings.Join(keys, ", "))
	}
}

// Stats counts the work done by a [Cache].
type Stats struct {
	Lookups  int // Calls to the index's Nearby.
	MemoHits int // Queries answered from a remembered state.
}

// Cache is a query cache over an index.
//
// Caches are independent: marking one dirty has no effect on any other
// cache, even over the same index.
type Cache struct {
	index    nearby.Index
	combiner Combiner

	nb       nearby.Neighborhood
	valid    bool
	segments []segment.Segment // Nil until first needed.
	memo     *segment.State
	dirty    bool

	stats Stats
}

// New returns an empty cache over idx.
func New(idx nearby.Index, combiner Combiner) *Cache {
	return &Cache{index: idx, combiner: combiner}
}

// Index returns the index this cache queries.
func (c *Cache) Index() nearby.Index { return c.index }

// Stats returns counters for the work done so far.
func (c *Cache) Stats() Stats { return c.stats }

// Neighborhood returns the neighborhood currently held by the cache, if any.
func (c *Cache) Neighborhood() (nearby.Neighborhood, bool) {
	return c.nb, c.valid
}

// Dirty forces the next [Cache.Refresh] to look the neighborhood up again.
func (c *Cache) Dirty() { c.dirty = true }

// IsDirty returns whether the cache has been marked dirty since its last
// lookup.
func (c *Cache) IsDirty() bool { return c.dirty }

// Refresh looks up the neighborhood of offset, unless the cache already
// holds one containing it and is not dirty. Returns whether a lookup took
// place.
func (c *Cache) Refresh(offset interval.Endpoint) bool {
	if c.valid && !c.dirty && c.nb.Itv.CoversEndpoint(offset) {
		return false
	}

	c.nb = c.index.Nearby(offset)
	c.valid = true
	c.dirty = false
	c.segments = nil
	c.memo = nil
	c.stats.Lookups++
	return true
}

// Query computes the combined state of the center at offset.
func (c *Cache) Query(offset float64) (segment.State, error) {
	if c.memo != nil && !c.dirty && c.nb.Itv.CoversPoint(offset) {
		c.stats.MemoHits++
		st := *c.memo
		st.Offset = offset
		return st, nil
	}

	c.Refresh(interval.Point(offset))
	if c.segments == nil {
		segments := make([]segment.Segment, len(c.nb.Center))
		for i, e := range c.nb.Center {
			seg, err := segment.FromEntry(e)
			if err != nil {
				return segment.State{}, err
			}
			segments[i] = seg
		}
		c.segments = segments
	}

	in := Input{
		Sources: c.nb.Center,
		States:  make([]segment.State, len(c.segments)),
		Offset:  offset,
	}
	for i, seg := range c.segments {
		in.States[i] = seg.Query(offset)
	}

	st, err := c.combiner.combine(in)
	if err != nil {
		return segment.State{}, err
	}
	st.Offset = offset

	c.memo = nil
	if !st.Dynamic {
		c.memo = &st
	}
	return st, nil
}
