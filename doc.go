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

// Package timeline answers "what is active here, and for how long?" over a
// one-dimensional collection of items.
//
// The work is split into layers of packages:
//
//  1. Interval algebra: endpoints and intervals.
//     Also see: package interval
//  2. Neighborhood lookup: given an offset, the active items and the region
//     around the offset over which that answer holds.
//     Also see: package nearby
//  3. Value computation for a single item.
//     Also see: package segment
//  4. Memoized queries that combine the values of every active item.
//     Also see: package cache
//
// This package ties them to a backing collection that changes over time.
//
// Layers
//
// A [Layer] owns an index over a [store.Source]. When the source announces a
// change, the layer refreshes its index and marks every cache it handed out
// as dirty, so that the next query looks the index up again. A minimal layer
// over an in-memory collection looks like this:
//
//	q := tick.NewQueue()
//	items := store.New(q, nil)
//	layer, err := timeline.New(items, timeline.Options{Overlapping: true})
//
// Changes made with items.Update become visible to the layer once q is
// turned.
//
// Derived layers
//
// [Merge], [Shift] and [Boolean] build layers out of other layers. A derived
// layer has no source of its own; it is invalidated whenever one of the
// layers it was built from is. Layers refer to their derived layers, and to
// their caches, only weakly: dropping every reference to a derived layer or
// a cache is enough to stop it from being notified.
//
// Concurrency
//
// Nothing in this module is safe for concurrent use. A layer, its source,
// and its caches must all be used from the goroutine that turns the source's
// scheduler.
package timeline
