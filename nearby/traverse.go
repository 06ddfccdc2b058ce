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
	"iter"

	"github.com/bufbuild/timeline/interval"
)

// Direction is a direction of travel along the timeline.
type Direction int8

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Predicate selects neighborhoods in [FindRegion].
type Predicate func(Neighborhood) bool

// NonEmpty is a [Predicate] selecting neighborhoods with a non-empty center.
func NonEmpty(nb Neighborhood) bool { return !nb.Empty() }

// First returns the least endpoint with a non-empty center. Returns false if
// every center of idx is empty.
func First(idx Index) (interval.Endpoint, bool) {
	nb := idx.Nearby(interval.NegInf)
	switch {
	case !nb.Empty():
		return interval.NegInf, true
	case nb.Right != nil:
		return *nb.Right, true
	default:
		return interval.Endpoint{}, false
	}
}

// Last returns the greatest endpoint with a non-empty center. Returns false if
// every center of idx is empty.
func Last(idx Index) (interval.Endpoint, bool) {
	nb := idx.Nearby(interval.PosInf)
	switch {
	case !nb.Empty():
		return interval.PosInf, true
	case nb.Left != nil:
		return *nb.Left, true
	default:
		return interval.Endpoint{}, false
	}
}

// RightRegion returns the neighborhood immediately to the right of nb.
// Returns false if nb extends to positive infinity.
func RightRegion(idx Index, nb Neighborhood) (Neighborhood, bool) {
	_, high := interval.Bounds(nb.Itv)
	if high.Infinite() {
		return Neighborhood{}, false
	}
	return idx.Nearby(interval.MustFlip(high, interval.Low)), true
}

// LeftRegion returns the neighborhood immediately to the left of nb.
// Returns false if nb extends to negative infinity.
func LeftRegion(idx Index, nb Neighborhood) (Neighborhood, bool) {
	low, _ := interval.Bounds(nb.Itv)
	if low.Infinite() {
		return Neighborhood{}, false
	}
	return idx.Nearby(interval.MustFlip(low, interval.High)), true
}

// FindRegion walks from nb in the given direction, one neighborhood at a
// time, and returns the first neighborhood (not counting nb itself) matching
// pred. A nil pred means [NonEmpty].
//
// Returns false if the timeline is exhausted first.
func FindRegion(idx Index, nb Neighborhood, dir Direction, pred Predicate) (Neighborhood, bool) {
	step := RightRegion
	if dir == Backward {
		step = LeftRegion
	}
	if pred == nil {
		pred = NonEmpty
	}

	for {
		next, ok := step(idx, nb)
		if !ok {
			return Neighborhood{}, false
		}
		if pred(next) {
			return next, true
		}
		nb = next
	}
}

// RegionOptions configures [Regions].
type RegionOptions struct {
	// If not nil, only regions intersecting this interval are yielded.
	Within *interval.Interval

	// If set, regions with an empty center are yielded too.
	IncludeEmpty bool
}

// Regions returns an iterator over the neighborhoods of idx, in increasing
// order. The iterator may be ranged over any number of times; each pass
// starts over with fresh lookups.
func Regions(idx Index, opts RegionOptions) iter.Seq[Neighborhood] {
	start, stop := interval.NegInf, interval.PosInf
	if opts.Within != nil {
		start, stop = interval.Bounds(*opts.Within)
	}

	next := func(nb Neighborhood) (Neighborhood, bool) {
		if opts.IncludeEmpty {
			return RightRegion(idx, nb)
		}
		return FindRegion(idx, nb, Forward, NonEmpty)
	}

	return func(yield func(Neighborhood) bool) {
		nb := idx.Nearby(start)
		if !opts.IncludeEmpty && nb.Empty() {
			var ok bool
			if nb, ok = FindRegion(idx, nb, Forward, NonEmpty); !ok {
				return
			}
		}

		for {
			low, _ := interval.Bounds(nb.Itv)
			if interval.Greater(low, stop) || !yield(nb) {
				return
			}

			var ok bool
			if nb, ok = next(nb); !ok {
				return
			}
		}
	}
}
