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

// Package store provides a reference in-memory backing collection of items.
package store

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/bufbuild/timeline/item"
	"github.com/bufbuild/timeline/tick"
)

// Handler receives the changes made by one update of a [Source].
type Handler func(diffs []item.Diff)

// Handle identifies a registered [Handler].
type Handle uint64

// Source is a backing collection of items that announces its changes.
type Source interface {
	// Items returns the current items. The caller must not modify the
	// returned slice.
	Items() []item.Item

	AddCallback(Handler) Handle
	RemoveCallback(Handle)
}

// Change is a request to modify a [Collection].
type Change struct {
	// Items to add. An item replaces any item with the same ID.
	Insert []item.Item
	// IDs of items to remove. Unknown IDs are ignored.
	Remove []string
	// If set, every item is removed before Insert is applied.
	Reset bool
}

// Collection is a [Source] holding items in memory.
//
// Updates are acknowledged immediately but applied on the next turn of the
// collection's scheduler, together with every other update made before that
// turn. Each turn produces at most one notification.
type Collection struct {
	sched  tick.Scheduler
	logger *slog.Logger

	items  map[string]item.Item
	sorted []item.Item // Nil if stale.

	pending []Change
	posted  bool

	handlers map[Handle]Handler
	next     Handle
}

var _ Source = (*Collection)(nil)

// New returns an empty collection. A nil logger discards everything.
func New(sched tick.Scheduler, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collection{
		sched:    sched,
		logger:   logger,
		items:    make(map[string]item.Item),
		handlers: make(map[Handle]Handler),
	}
}

// Items implements [Source]. Items are sorted by ID.
func (c *Collection) Items() []item.Item {
	if c.sorted == nil {
		c.sorted = slices.SortedFunc(maps.Values(c.items), func(a, b item.Item) int {
			return cmp.Compare(a.ID, b.ID)
		})
	}
	return c.sorted
}

// AddCallback implements [Source].
func (c *Collection) AddCallback(h Handler) Handle {
	c.next++
	c.handlers[c.next] = h
	return c.next
}

// RemoveCallback implements [Source].
func (c *Collection) RemoveCallback(h Handle) {
	delete(c.handlers, h)
}

// Update requests a change. The inserted items have their intervals
// normalized and are validated immediately; nothing is applied if any of
// them is invalid.
func (c *Collection) Update(change Change) error {
	seen := make(map[string]struct{}, len(change.Insert))
	inserts := make([]item.Item, len(change.Insert))
	for i, it := range change.Insert {
		it, err := it.Normalize()
		if err != nil {
			return err
		}
		if err := it.Validate(); err != nil {
			return err
		}
		if _, ok := seen[it.ID]; ok {
			return fmt.Errorf("%w: duplicate id %q in one update", item.ErrInvalidItem, it.ID)
		}
		seen[it.ID] = struct{}{}
		inserts[i] = it
	}
	change.Insert = inserts

	c.pending = append(c.pending, change)
	if !c.posted {
		c.posted = true
		c.sched.Post(c.flush)
	}
	return nil
}

// flush applies every pending change and notifies the handlers once.
func (c *Collection) flush() {
	pending := c.pending
	c.pending, c.posted = nil, false

	// The state of each touched item before this flush, in touch order.
	var order []string
	before := make(map[string]*item.Item)
	touch := func(id string) {
		if _, ok := before[id]; ok {
			return
		}
		order = append(order, id)
		if old, ok := c.items[id]; ok {
			before[id] = &old
		} else {
			before[id] = nil
		}
	}

	for _, ch := range pending {
		if ch.Reset {
			for _, id := range slices.Sorted(maps.Keys(c.items)) {
				touch(id)
			}
			clear(c.items)
		}
		for _, id := range ch.Remove {
			touch(id)
			delete(c.items, id)
		}
		for _, it := range ch.Insert {
			touch(it.ID)
			c.items[it.ID] = it
		}
	}
	c.sorted = nil

	var diffs []item.Diff
	for _, id := range order {
		d := item.Diff{ID: id, Old: before[id]}
		if cur, ok := c.items[id]; ok {
			d.New = &cur
		}
		if d.Old == nil && d.New == nil {
			continue
		}
		diffs = append(diffs, d)
	}

	c.logger.Debug("store: applied updates",
		slog.Int("updates", len(pending)),
		slog.Int("diffs", len(diffs)),
		slog.Int("items", len(c.items)),
	)
	if len(diffs) == 0 {
		return
	}

	for _, h := range slices.Sorted(maps.Keys(c.handlers)) {
		if handler, ok := c.handlers[h]; ok {
			handler(diffs)
		}
	}
}
