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
	"github.com/bufbuild/timeline/interval"
)

// Merge returns an index whose center at every offset is the union of the
// centers of sources there, in source order.
//
// Entries are not deduplicated: an entry present in two sources appears
// twice.
func Merge(sources ...Index) Index {
	return merged(sources)
}

type merged []Index

// Nearby implements [Index].
func (m merged) Nearby(offset interval.Endpoint) Neighborhood {
	var (
		center      []Entry
		lows, highs []interval.Endpoint

		prevHigh, nextLow *interval.Endpoint
	)

	for _, src := range m {
		nb := src.Nearby(offset)
		if !nb.Empty() {
			center = append(center, nb.Center...)
			low, high := interval.Bounds(nb.Itv)
			lows = append(lows, low)
			highs = append(highs, high)
		}

		// The nearest non-empty region of each source on either side is a
		// candidate for the merged neighborhood's outer neighbors.
		if next, ok := FindRegion(src, nb, Forward, NonEmpty); ok {
			low, _ := interval.Bounds(next.Itv)
			if nextLow == nil || interval.Less(low, *nextLow) {
				nextLow = endpoint(low)
			}
		}
		if prev, ok := FindRegion(src, nb, Backward, NonEmpty); ok {
			_, high := interval.Bounds(prev.Itv)
			if prevHigh == nil || interval.Greater(high, *prevHigh) {
				prevHigh = endpoint(high)
			}
		}
	}

	return Reduce(prevHigh, lows, center, highs, nextLow)
}
