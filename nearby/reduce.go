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

// Reduce assembles a [Neighborhood] from the raw facts an index knows about an
// offset:
//
//   - prevHigh, the nearest high endpoint of an inactive entry to the left;
//   - lows and highs, the endpoints of the regions occupied by the center
//     entries (one pair per contributor; usually one per entry);
//   - center, the entries active at the offset;
//   - nextLow, the nearest low endpoint of an inactive entry to the right.
//
// prevHigh and nextLow are nil if there is no such entry.
//
// With a non-empty center, the neighborhood ends at whichever comes first of
// nextLow and the first center entry to end. Prev and Next point at the
// nearest boundary past which the center is non-empty:
//
//   - if the highs are not all equal, Next = Right, since some member is
//     still active on the other side of Right;
//   - if the highs are all equal, Next = nextLow, since the region past Right
//     may be empty.
//
// Prev follows the same rule with lows, Left and prevHigh. With an empty
// center, Prev = Left = prevHigh and Next = Right = nextLow.
func Reduce(
	prevHigh *interval.Endpoint,
	lows []interval.Endpoint,
	center []Entry,
	highs []interval.Endpoint,
	nextLow *interval.Endpoint,
) Neighborhood {
	nb := Neighborhood{Center: center}

	if len(center) == 0 {
		nb.Left, nb.Prev = prevHigh, prevHigh
		nb.Right, nb.Next = nextLow, nextLow
	} else {
		minHigh := interval.Min(highs[0], highs[1:]...)
		maxHigh := interval.Max(highs[0], highs[1:]...)
		right := interval.MustFlip(minHigh, interval.Low)
		if nextLow != nil && interval.LessEq(*nextLow, right) {
			right = *nextLow
		}
		nb.Right = endpoint(right)
		if interval.Equal(minHigh, maxHigh) {
			nb.Next = nextLow
		} else {
			nb.Next = nb.Right
		}

		minLow := interval.Min(lows[0], lows[1:]...)
		maxLow := interval.Max(lows[0], lows[1:]...)
		left := interval.MustFlip(maxLow, interval.High)
		if prevHigh != nil && interval.GreaterEq(*prevHigh, left) {
			left = *prevHigh
		}
		nb.Left = endpoint(left)
		if interval.Equal(minLow, maxLow) {
			nb.Prev = prevHigh
		} else {
			nb.Prev = nb.Left
		}
	}

	low, high := interval.NegInf, interval.PosInf
	if nb.Left != nil {
		low = interval.MustFlip(*nb.Left, interval.Low)
	}
	if nb.Right != nil {
		high = interval.MustFlip(*nb.Right, interval.High)
	}
	itv, err := interval.FromEndpoints(low, high)
	if err != nil {
		panic("nearby: inconsistent neighborhood: " + err.Error())
	}
	nb.Itv = itv
	return nb
}
