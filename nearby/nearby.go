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

// Package nearby implements neighborhood lookup over a collection of
// intervals.
//
// An [Index] answers a single question: given an offset, which entries are
// active there (the center), and over what interval around the offset does
// that answer stay the same? Everything else, including iteration over
// regions and the derived indices in this package, is built on top of that
// one operation.
package nearby

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bufbuild/timeline/interval"
	"github.com/bufbuild/timeline/item"
)

var (
	// ErrNotImplemented is the panic value of [Unimplemented.Nearby].
	ErrNotImplemented = errors.New("nearby: Nearby not implemented")

	// ErrOverlap is wrapped by [*OverlapError].
	ErrOverlap = errors.New("overlapping intervals")
)

// OverlapError is returned when a non-overlapping index is given two items
// whose intervals intersect.
type OverlapError struct {
	Prev, Next item.Item
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("nearby: %v: %q %v and %q %v",
		ErrOverlap, e.Prev.ID, e.Prev.Itv, e.Next.ID, e.Next.Itv)
}

// Unwrap returns [ErrOverlap].
func (e *OverlapError) Unwrap() error { return ErrOverlap }

// Entry is a member of a neighborhood's center.
//
// Concrete entries are [item.Item], [Shifted], and the constant items
// produced by [Boolean].
type Entry interface {
	Key() string
}

// Neighborhood is the answer of an [Index] for one offset.
type Neighborhood struct {
	// The entries active at the offset, in a deterministic order.
	Center []Entry

	// The interval containing the offset over which Center does not change.
	Itv interval.Interval

	// The nearest boundaries on either side of Itv, expressed as the high end
	// of the region to the left and the low end of the region to the right.
	// Nil if Itv is unbounded on that side.
	Left, Right *interval.Endpoint

	// Like Left and Right, but skipping regions with an empty center.
	Prev, Next *interval.Endpoint
}

// Empty returns whether the center is empty.
func (n Neighborhood) Empty() bool {
	return len(n.Center) == 0
}

// Keys returns the keys of the center entries.
func (n Neighborhood) Keys() []string {
	keys := make([]string, len(n.Center))
	for i, e := range n.Center {
		keys[i] = e.Key()
	}
	return keys
}

// String implements [fmt.Stringer].
func (n Neighborhood) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v {%s}", n.Itv, strings.Join(n.Keys(), ", "))
	for _, f := range []struct {
		name string
		e    *interval.Endpoint
	}{{"left", n.Left}, {"right", n.Right}, {"prev", n.Prev}, {"next", n.Next}} {
		if f.e != nil {
			fmt.Fprintf(&b, " %s=%v", f.name, *f.e)
		}
	}
	return b.String()
}

// Index is a neighborhood lookup structure.
//
// For every offset o, Nearby(o).Itv contains o, and Nearby returns the same
// center for every offset in that interval.
type Index interface {
	Nearby(offset interval.Endpoint) Neighborhood
}

// Refresher is an [Index] over a mutable [Provider].
type Refresher interface {
	Index

	// Refresh brings the index up to date with its provider. A nil diff list
	// requests a full rebuild; otherwise only the given changes are applied.
	//
	// On error, the index is left as it was before the call.
	Refresh(diffs []item.Diff) error
}

// Provider supplies the items of a [Refresher].
type Provider interface {
	Items() []item.Item
}

// Unimplemented may be embedded in an index type to satisfy [Index] before
// its lookup is written. Its Nearby panics with [ErrNotImplemented].
type Unimplemented struct{}

func (Unimplemented) Nearby(interval.Endpoint) Neighborhood {
	panic(ErrNotImplemented)
}

// endpoint returns a pointer to a copy of e, or nil if e is infinite.
func endpoint(e interval.Endpoint) *interval.Endpoint {
	if e.Infinite() {
		return nil
	}
	return &e
}

// normalized returns it with its interval normalized, so that its bounds are
// in order. Items whose interval cannot be normalized are returned as is.
func normalized(it item.Item) item.Item {
	if n, err := it.Normalize(); err == nil {
		return n
	}
	return it
}
